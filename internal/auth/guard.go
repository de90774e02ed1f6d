package auth

import (
	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/model"
)

// ForbiddenMessage is the body sent with every 403 response.
const ForbiddenMessage = "You are not authorized to perform this operation!"

// RequireAdmin fails with Forbidden unless the user holds the admin flag.
func RequireAdmin(user *model.User) error {
	if user == nil || !user.IsAdmin {
		return apperror.Forbidden(ForbiddenMessage)
	}
	return nil
}

// RequireOwner fails with Forbidden unless the user is the resource owner.
// There is no admin override here: comment edits are owner-only, and an
// admin editing someone else's comment is rejected the same as anyone else.
func RequireOwner(user *model.User, ownerID string) error {
	if user == nil || user.ID != ownerID {
		return apperror.Forbidden(ForbiddenMessage)
	}
	return nil
}

// RequireOwnerOrAdmin fails with Forbidden unless the user is the resource
// owner or an admin. Used for comment deletion, where admins may remove any
// comment.
func RequireOwnerOrAdmin(user *model.User, ownerID string) error {
	if user == nil {
		return apperror.Forbidden(ForbiddenMessage)
	}
	if user.ID == ownerID || user.IsAdmin {
		return nil
	}
	return apperror.Forbidden(ForbiddenMessage)
}
