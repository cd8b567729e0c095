package ports

import (
	"context"

	"github.com/worksy/marketplace/internal/core/domain"
)

// OfferRepository defines persistence operations for offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) (*domain.Offer, error)
	FindByID(ctx context.Context, id string) (*domain.Offer, error)
	// List returns offers, newest first. An empty type matches every offer.
	List(ctx context.Context, offerType domain.OfferType) ([]*domain.Offer, error)
}

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	// Create must return domain.ErrAlreadyApplied when the (offer, user)
	// pair already exists.
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Application, error)
	ListByOffer(ctx context.Context, offerID string) ([]*domain.Application, error)
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}
