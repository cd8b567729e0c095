package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
)

// Applicants may apply to offers.
var Applicants = []domain.Role{domain.RoleFreelancer, domain.RoleStagiaire}

type ApplicationService struct {
	offers ports.OfferRepository
	repo   ports.ApplicationRepository
	logger zerolog.Logger
}

func NewApplicationService(offers ports.OfferRepository, repo ports.ApplicationRepository, logger zerolog.Logger) *ApplicationService {
	return &ApplicationService{offers: offers, repo: repo, logger: logger}
}

// Apply submits caller's application to offerID. The applicant is always the
// caller, never a user id taken from the request body.
func (s *ApplicationService) Apply(ctx context.Context, caller *domain.User, offerID string) (*domain.Application, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !caller.Role.In(Applicants...) {
		return nil, domain.ErrForbidden
	}
	if offerID == "" {
		return nil, fmt.Errorf("%w: offerId is required", domain.ErrValidation)
	}

	if _, err := s.offers.FindByID(ctx, offerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app, err := s.repo.Create(ctx, &domain.Application{
		OfferID:   offerID,
		UserID:    caller.ID,
		Status:    domain.ApplicationPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyApplied) {
			s.logger.Error().Err(err).Str("offer_id", offerID).Msg("failed to create application")
		}
		return nil, err
	}

	s.logger.Info().Str("application_id", app.ID).Str("offer_id", offerID).Str("user_id", caller.ID).Msg("application submitted")
	return app, nil
}

func (s *ApplicationService) ListMine(ctx context.Context, caller *domain.User) ([]*domain.Application, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, caller.ID)
}

// ListForOffer returns the applications of an offer to its owner or an admin.
func (s *ApplicationService) ListForOffer(ctx context.Context, caller *domain.User, offerID string) ([]*domain.Application, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleAdmin && offer.EntrepriseID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByOffer(ctx, offerID)
}
