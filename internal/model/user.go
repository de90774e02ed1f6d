// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Users arrive two ways: local signup (username + password) or first Facebook
// login (FacebookID + display name). Both end up in the same document, so
// PasswordHash is empty for Facebook-only accounts and FacebookID is empty
// for local ones. The username is unique; FacebookID, when present, maps to
// exactly one user.
//
// PasswordHash carries bcrypt output, which embeds its own salt and cost.
// It is never serialized to JSON — the `json:"-"` tag keeps it out of every
// API response.
type User struct {
	ID           string    `json:"id"           bson:"_id,omitempty"`
	Username     string    `json:"username"     bson:"username"`
	PasswordHash string    `json:"-"            bson:"password_hash,omitempty"`
	FacebookID   string    `json:"facebookId,omitempty" bson:"facebook_id,omitempty"`
	FirstName    string    `json:"firstName,omitempty"  bson:"first_name,omitempty"`
	LastName     string    `json:"lastName,omitempty"   bson:"last_name,omitempty"`
	IsAdmin      bool      `json:"isAdmin"      bson:"is_admin"`
	Favorites    []string  `json:"favorites"    bson:"favorites"` // campsite ids
	CreatedAt    time.Time `json:"createdAt"    bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"    bson:"updated_at"`
}

// IsFavorite reports whether the given campsite id is in the user's list.
func (u *User) IsFavorite(campsiteID string) bool {
	for _, id := range u.Favorites {
		if id == campsiteID {
			return true
		}
	}
	return false
}
