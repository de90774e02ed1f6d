package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/model"
	"github.com/nafisa/campgrounds/internal/repository"
)

// UserStore is the user-facing view of a Store. It is a distinct type
// because the campsite methods on Store already use the GetByID/Create/
// Update names with different signatures.
type UserStore struct {
	*Store
}

// Users returns the Store's repository.UserRepository view.
func (s *Store) Users() *UserStore { return &UserStore{s} }

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// GetByID retrieves a user by internal id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"_id": id}, "user", id)
}

// GetByUsername retrieves a user by their unique username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"username": username}, "user", username)
}

// GetByFacebookID retrieves the user linked to the given Facebook identity.
func (s *UserStore) GetByFacebookID(ctx context.Context, facebookID string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"facebook_id": facebookID}, "user", facebookID)
}

func (s *UserStore) findUser(ctx context.Context, filter bson.M, resource, key string) (*model.User, error) {
	var u model.User
	err := s.users.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound(resource, key)
		}
		return nil, apperror.Storage("user lookup", err)
	}
	return &u, nil
}

// Create inserts a new user, generating its id and timestamps.
//
// A duplicate-key error on the username index surfaces as
// apperror.ErrUsernameTaken, so callers see the same kind whether the
// conflict was caught by the pre-check in the service or by the index
// under a concurrent signup race.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Favorites == nil {
		user.Favorites = []string{}
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("mongodb: %w", apperror.UsernameTaken(user.Username))
		}
		return apperror.Storage("user insert", err)
	}
	return nil
}

// Update replaces the stored user document with the given one.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("mongodb: %w", apperror.UsernameTaken(user.Username))
		}
		return apperror.Storage("user update", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}
