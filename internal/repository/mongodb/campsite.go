package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/model"
	"github.com/nafisa/campgrounds/internal/repository"
)

// compile-time check that *Store implements repository.CampsiteRepository
var _ repository.CampsiteRepository = (*Store)(nil)

// List returns campsites newest-first, honoring pagination options.
func (s *Store) List(ctx context.Context, opts repository.ListOptions) ([]model.Campsite, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}

	cur, err := s.campsites.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, apperror.Storage("campsite list", err)
	}
	defer cur.Close(ctx)

	campsites := []model.Campsite{}
	if err := cur.All(ctx, &campsites); err != nil {
		return nil, apperror.Storage("campsite list decode", err)
	}
	return campsites, nil
}

// GetByID retrieves a campsite, embedded comments included.
// Returns apperror.ErrNotFound if no campsite exists with that id.
func (s *Store) GetByID(ctx context.Context, id string) (*model.Campsite, error) {
	var c model.Campsite
	err := s.campsites.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("campsite", id)
		}
		return nil, apperror.Storage("campsite lookup", err)
	}
	return &c, nil
}

// Create inserts a new campsite, generating its id and timestamps.
func (s *Store) Create(ctx context.Context, campsite *model.Campsite) error {
	now := time.Now()
	campsite.ID = primitive.NewObjectID().Hex()
	campsite.CreatedAt = now
	campsite.UpdatedAt = now
	if campsite.Comments == nil {
		campsite.Comments = []model.Comment{}
	}

	if _, err := s.campsites.InsertOne(ctx, campsite); err != nil {
		return apperror.Storage("campsite insert", err)
	}
	return nil
}

// Update replaces the whole campsite document, comments and all. The
// service layer follows load-mutate-persist, so by the time this is called
// the aggregate already reflects the comment change.
func (s *Store) Update(ctx context.Context, campsite *model.Campsite) error {
	campsite.UpdatedAt = time.Now()

	res, err := s.campsites.ReplaceOne(ctx, bson.M{"_id": campsite.ID}, campsite)
	if err != nil {
		return apperror.Storage("campsite update", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("campsite", campsite.ID)
	}
	return nil
}

// Delete removes a campsite and its embedded comments.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.campsites.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.Storage("campsite delete", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("campsite", id)
	}
	return nil
}
