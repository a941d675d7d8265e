package types

import "time"

// Profile represents an account in the system.
// It contains identity, credentials, and display fields.
type Profile struct {
	// ID is the unique identifier of the profile. IDs are UUIDv7
	// strings generated at signup, so they sort by creation time.
	ID string `json:"id" db:"id"`

	// Username is the unique handle chosen by the user.
	// 3-20 characters, letters, digits, and underscores only.
	Username string `json:"username" db:"username"`

	// Email is the user's email address, unique across profiles.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Bio is an optional short self-description, at most 160 characters.
	Bio string `json:"bio" db:"bio"`

	// AvatarURL points at the profile picture in object storage, if any.
	AvatarURL string `json:"avatar_url" db:"avatar_url"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Public returns a copy of the profile with the password hash cleared.
// Everything that leaves the auth layer goes through this.
func (p Profile) Public() Profile {
	p.PasswordHash = ""
	return p
}
