package ports

import (
	"context"

	"github.com/worksy/marketplace/internal/core/domain"
)

// CreateOfferInput carries a new offer. EntrepriseID is taken from the caller.
type CreateOfferInput struct {
	Title        string
	Description  string
	Type         domain.OfferType
	Location     string
	Requirements []string
}

type OfferService interface {
	Create(ctx context.Context, caller *domain.User, in CreateOfferInput) (*domain.Offer, error)
	Get(ctx context.Context, id string) (*domain.Offer, error)
	List(ctx context.Context, offerType domain.OfferType) ([]*domain.Offer, error)
}

type ApplicationService interface {
	Apply(ctx context.Context, caller *domain.User, offerID string) (*domain.Application, error)
	ListMine(ctx context.Context, caller *domain.User) ([]*domain.Application, error)
	ListForOffer(ctx context.Context, caller *domain.User, offerID string) ([]*domain.Application, error)
}

// CreatePostInput carries a new post.
type CreatePostInput struct {
	Title  string
	Body   string
	Images []string
	Tags   []string
}

type PostService interface {
	Create(ctx context.Context, caller *domain.User, in CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, caller *domain.User, id string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, caller *domain.User, id string) error
}
