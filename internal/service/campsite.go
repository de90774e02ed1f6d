package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/auth"
	"github.com/nafisa/campgrounds/internal/model"
	"github.com/nafisa/campgrounds/internal/repository"
)

// CampsiteService handles campsite, comment, and favorite business rules.
//
// Authorization is decided here, not in the handlers: campsite mutations
// are admin-only, comment edits are strictly owner-only, and comment
// deletes accept owner or admin. The edit/delete asymmetry is deliberate
// and must stay — an admin may remove any comment but may not rewrite one
// they did not author.
type CampsiteService struct {
	campsites repository.CampsiteRepository
	users     repository.UserRepository
	logger    *slog.Logger
}

// NewCampsiteService creates a CampsiteService.
func NewCampsiteService(
	campsites repository.CampsiteRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *CampsiteService {
	return &CampsiteService{
		campsites: campsites,
		users:     users,
		logger:    logger,
	}
}

// CampsiteInput carries the writable fields of a campsite.
type CampsiteInput struct {
	Name        string
	Image       string
	Description string
}

// List returns campsites, newest first. Public.
func (s *CampsiteService) List(ctx context.Context, opts repository.ListOptions) ([]model.Campsite, error) {
	campsites, err := s.campsites.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("service/campsite: listing: %w", err)
	}
	return campsites, nil
}

// Get returns a single campsite with its comments. Public.
func (s *CampsiteService) Get(ctx context.Context, id string) (*model.Campsite, error) {
	campsite, err := s.campsites.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/campsite: fetching %s: %w", id, err)
	}
	return campsite, nil
}

// Create adds a new campsite. Admin only.
func (s *CampsiteService) Create(ctx context.Context, actor *model.User, input CampsiteInput) (*model.Campsite, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, fmt.Errorf("service/campsite: creating: %w", err)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("service/campsite: campsite name is required")
	}

	campsite := &model.Campsite{
		Name:        input.Name,
		Image:       input.Image,
		Description: input.Description,
	}
	if err := s.campsites.Create(ctx, campsite); err != nil {
		return nil, fmt.Errorf("service/campsite: creating %q: %w", input.Name, err)
	}

	s.logger.Info("campsite created",
		slog.String("campsiteID", campsite.ID),
		slog.String("by", actor.ID),
	)
	return campsite, nil
}

// Update modifies a campsite's fields. Admin only.
func (s *CampsiteService) Update(ctx context.Context, actor *model.User, id string, input CampsiteInput) (*model.Campsite, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, fmt.Errorf("service/campsite: updating %s: %w", id, err)
	}

	campsite, err := s.campsites.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/campsite: updating %s: %w", id, err)
	}

	campsite.Name = input.Name
	campsite.Image = input.Image
	campsite.Description = input.Description
	if err := s.campsites.Update(ctx, campsite); err != nil {
		return nil, fmt.Errorf("service/campsite: updating %s: %w", id, err)
	}
	return campsite, nil
}

// Delete removes a campsite and its comments. Admin only.
func (s *CampsiteService) Delete(ctx context.Context, actor *model.User, id string) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return fmt.Errorf("service/campsite: deleting %s: %w", id, err)
	}
	if err := s.campsites.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/campsite: deleting %s: %w", id, err)
	}

	s.logger.Info("campsite deleted", slog.String("campsiteID", id), slog.String("by", actor.ID))
	return nil
}

// AddComment appends a comment to a campsite. Any authenticated user.
//
// The author's username is snapshotted onto the comment so later renames
// do not rewrite history. Comment ids are xids, generated here — they only
// need to be unique within the parent document.
func (s *CampsiteService) AddComment(ctx context.Context, actor *model.User, campsiteID, text string) (*model.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("service/campsite: comment text is required")
	}

	campsite, err := s.campsites.GetByID(ctx, campsiteID)
	if err != nil {
		return nil, fmt.Errorf("service/campsite: commenting on %s: %w", campsiteID, err)
	}

	now := time.Now()
	comment := model.Comment{
		ID:         xid.New().String(),
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
		Text:       text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	campsite.Comments = append(campsite.Comments, comment)
	if err := s.campsites.Update(ctx, campsite); err != nil {
		return nil, fmt.Errorf("service/campsite: commenting on %s: %w", campsiteID, err)
	}

	return &comment, nil
}

// UpdateComment edits a comment's text. Strictly owner-only: admins get
// Forbidden on comments they did not author.
func (s *CampsiteService) UpdateComment(ctx context.Context, actor *model.User, campsiteID, commentID, text string) (*model.Comment, error) {
	campsite, comment, err := s.loadComment(ctx, campsiteID, commentID)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireOwner(actor, comment.AuthorID); err != nil {
		return nil, fmt.Errorf("service/campsite: editing comment %s: %w", commentID, err)
	}

	comment.Text = text
	comment.UpdatedAt = time.Now()
	if err := s.campsites.Update(ctx, campsite); err != nil {
		return nil, fmt.Errorf("service/campsite: editing comment %s: %w", commentID, err)
	}
	return comment, nil
}

// DeleteComment removes a comment. Owner or admin.
func (s *CampsiteService) DeleteComment(ctx context.Context, actor *model.User, campsiteID, commentID string) error {
	campsite, comment, err := s.loadComment(ctx, campsiteID, commentID)
	if err != nil {
		return err
	}

	if err := auth.RequireOwnerOrAdmin(actor, comment.AuthorID); err != nil {
		return fmt.Errorf("service/campsite: deleting comment %s: %w", commentID, err)
	}

	kept := campsite.Comments[:0]
	for _, c := range campsite.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	campsite.Comments = kept

	if err := s.campsites.Update(ctx, campsite); err != nil {
		return fmt.Errorf("service/campsite: deleting comment %s: %w", commentID, err)
	}
	return nil
}

// Favorite adds a campsite to the acting user's favorites. Idempotent.
func (s *CampsiteService) Favorite(ctx context.Context, actor *model.User, campsiteID string) error {
	// Verify the campsite exists before recording a dangling id.
	if _, err := s.campsites.GetByID(ctx, campsiteID); err != nil {
		return fmt.Errorf("service/campsite: favoriting %s: %w", campsiteID, err)
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("service/campsite: favoriting %s: %w", campsiteID, err)
	}

	if user.IsFavorite(campsiteID) {
		return nil
	}
	user.Favorites = append(user.Favorites, campsiteID)

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service/campsite: favoriting %s: %w", campsiteID, err)
	}
	return nil
}

// Unfavorite removes a campsite from the acting user's favorites.
// Idempotent.
func (s *CampsiteService) Unfavorite(ctx context.Context, actor *model.User, campsiteID string) error {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("service/campsite: unfavoriting %s: %w", campsiteID, err)
	}

	if !user.IsFavorite(campsiteID) {
		return nil
	}

	kept := user.Favorites[:0]
	for _, id := range user.Favorites {
		if id != campsiteID {
			kept = append(kept, id)
		}
	}
	user.Favorites = kept

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service/campsite: unfavoriting %s: %w", campsiteID, err)
	}
	return nil
}

// ListFavorites resolves the acting user's favorite ids to campsites.
// A favorite whose campsite has since been deleted is skipped; any other
// lookup failure aborts the listing.
func (s *CampsiteService) ListFavorites(ctx context.Context, actor *model.User) ([]model.Campsite, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("service/campsite: listing favorites: %w", err)
	}

	campsites := []model.Campsite{}
	for _, id := range user.Favorites {
		campsite, err := s.campsites.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service/campsite: listing favorites: %w", err)
		}
		campsites = append(campsites, *campsite)
	}
	return campsites, nil
}

// loadComment fetches a campsite and locates the comment within it.
func (s *CampsiteService) loadComment(ctx context.Context, campsiteID, commentID string) (*model.Campsite, *model.Comment, error) {
	campsite, err := s.campsites.GetByID(ctx, campsiteID)
	if err != nil {
		return nil, nil, fmt.Errorf("service/campsite: fetching %s: %w", campsiteID, err)
	}

	comment := campsite.FindComment(commentID)
	if comment == nil {
		return nil, nil, fmt.Errorf("service/campsite: %w", apperror.NotFound("comment", commentID))
	}
	return campsite, comment, nil
}
