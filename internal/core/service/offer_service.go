package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
)

// OfferPublishers may create offers.
var OfferPublishers = []domain.Role{domain.RoleEntreprise, domain.RoleAdmin}

type OfferService struct {
	repo   ports.OfferRepository
	logger zerolog.Logger
}

func NewOfferService(repo ports.OfferRepository, logger zerolog.Logger) *OfferService {
	return &OfferService{repo: repo, logger: logger}
}

// Create publishes an offer owned by caller.
func (s *OfferService) Create(ctx context.Context, caller *domain.User, in ports.CreateOfferInput) (*domain.Offer, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !caller.Role.In(OfferPublishers...) {
		return nil, domain.ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Title == "":
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	case in.Description == "":
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	case !in.Type.Valid():
		return nil, fmt.Errorf("%w: type must be one of: stage, freelance, emploi", domain.ErrValidation)
	}

	now := time.Now().UTC()
	offer, err := s.repo.Create(ctx, &domain.Offer{
		EntrepriseID: caller.ID,
		Title:        in.Title,
		Description:  in.Description,
		Type:         in.Type,
		Location:     strings.TrimSpace(in.Location),
		Requirements: cleanList(in.Requirements),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create offer")
		return nil, err
	}

	s.logger.Info().Str("offer_id", offer.ID).Str("entreprise_id", caller.ID).Msg("offer created")
	return offer, nil
}

func (s *OfferService) Get(ctx context.Context, id string) (*domain.Offer, error) {
	if id == "" {
		return nil, domain.ErrOfferNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *OfferService) List(ctx context.Context, offerType domain.OfferType) ([]*domain.Offer, error) {
	if offerType != "" && !offerType.Valid() {
		return nil, fmt.Errorf("%w: type must be one of: stage, freelance, emploi", domain.ErrValidation)
	}
	return s.repo.List(ctx, offerType)
}
