package model

import (
	"time"
)

// User is a business account. Username, email and subdomain are unique
// case-insensitively; the uniqueness is enforced by the database layer.
type User struct {
	ID                string    `db:"id" json:"id"`
	Username          string    `db:"username" json:"username"`
	PasswordHash      *string   `db:"password_hash" json:"-"` // Nullable for OAuth-only accounts
	Email             string    `db:"email" json:"email"`
	BusinessName      string    `db:"business_name" json:"businessName"`
	Subdomain         string    `db:"subdomain" json:"subdomain"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	IsVerified        bool      `db:"is_verified" json:"isVerified"`
	PreferredLanguage string    `db:"preferred_language" json:"preferredLanguage"`

	// OAuth identity. Both set together or both NULL.
	AuthProvider *string `db:"auth_provider" json:"authProvider,omitempty"`
	ProviderID   *string `db:"provider_id" json:"providerId,omitempty"`
	DisplayName  *string `db:"display_name" json:"displayName,omitempty"`
	PhotoURL     *string `db:"photo_url" json:"photoURL,omitempty"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Public returns a copy safe to hand to clients. The password hash is
// already hidden from JSON, but stripping it here keeps digests out of
// request contexts and logs as well.
func (u *User) Public() *User {
	pub := *u
	pub.PasswordHash = nil
	return &pub
}
