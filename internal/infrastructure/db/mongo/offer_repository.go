package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/worksy/marketplace/internal/core/domain"
)

const collectionOffers = "offers"

type OfferRepository struct {
	col *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{col: db.Collection(collectionOffers)}
}

type mongoOffer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	EntrepriseID string             `bson:"entreprise_id"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	Type         string             `bson:"type"`
	Location     string             `bson:"location,omitempty"`
	Requirements []string           `bson:"requirements"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (mo *mongoOffer) toDomain() *domain.Offer {
	reqs := mo.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return &domain.Offer{
		ID:           mo.ID.Hex(),
		EntrepriseID: mo.EntrepriseID,
		Title:        mo.Title,
		Description:  mo.Description,
		Type:         domain.OfferType(mo.Type),
		Location:     mo.Location,
		Requirements: reqs,
		CreatedAt:    mo.CreatedAt.UTC(),
		UpdatedAt:    mo.UpdatedAt.UTC(),
	}
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoOffer{
		EntrepriseID: o.EntrepriseID,
		Title:        o.Title,
		Description:  o.Description,
		Type:         string(o.Type),
		Location:     o.Location,
		Requirements: o.Requirements,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert offer: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOffer
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return mo.toDomain(), nil
}

// List returns offers newest first, optionally restricted to one type.
func (r *OfferRepository) List(ctx context.Context, offerType domain.OfferType) ([]*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if offerType != "" {
		filter["type"] = string(offerType)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoOffer
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}
	out := make([]*domain.Offer, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
