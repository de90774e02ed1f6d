package auth

import (
	"errors"
	"testing"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/model"
)

func TestRequireAdmin(t *testing.T) {
	admin := &model.User{ID: "u1", IsAdmin: true}
	regular := &model.User{ID: "u2"}

	if err := RequireAdmin(admin); err != nil {
		t.Errorf("RequireAdmin(admin) error = %v", err)
	}
	if err := RequireAdmin(regular); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("RequireAdmin(regular) error = %v, want ErrForbidden", err)
	}
	if err := RequireAdmin(nil); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("RequireAdmin(nil) error = %v, want ErrForbidden", err)
	}
}

func TestRequireOwner_NoAdminOverride(t *testing.T) {
	owner := &model.User{ID: "author"}
	admin := &model.User{ID: "someone-else", IsAdmin: true}

	if err := RequireOwner(owner, "author"); err != nil {
		t.Errorf("RequireOwner(owner) error = %v", err)
	}

	// The admin flag does not grant edit rights on someone else's resource.
	err := RequireOwner(admin, "author")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("RequireOwner(admin, other's resource) error = %v, want ErrForbidden", err)
	}
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.User
		ownerID string
		wantErr bool
	}{
		{"owner non-admin", &model.User{ID: "u1"}, "u1", false},
		{"admin non-owner", &model.User{ID: "u2", IsAdmin: true}, "u1", false},
		{"owner and admin", &model.User{ID: "u1", IsAdmin: true}, "u1", false},
		{"neither", &model.User{ID: "u3"}, "u1", true},
		{"nil user", nil, "u1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwnerOrAdmin(tt.user, tt.ownerID)
			if tt.wantErr && !errors.Is(err, apperror.ErrForbidden) {
				t.Errorf("error = %v, want ErrForbidden", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error = %v", err)
			}
		})
	}
}

// The edit/delete asymmetry in one place: an admin who did not author a
// comment may delete it but not edit it.
func TestGuards_EditDeleteAsymmetry(t *testing.T) {
	authorID := "user-a"
	admin := &model.User{ID: "user-b", IsAdmin: true}

	if err := RequireOwner(admin, authorID); err == nil {
		t.Error("edit guard should deny a non-author admin")
	}
	if err := RequireOwnerOrAdmin(admin, authorID); err != nil {
		t.Errorf("delete guard should allow a non-author admin, got %v", err)
	}
}
