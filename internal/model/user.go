// Package model defines the data structures used throughout the application.
package model

// User represents an account known to the local store.
//
// WHY PasswordHash (not Password)?
// The prototype this app grew out of compared plaintext passwords. We store a
// bcrypt hash instead and never serialize a plaintext password anywhere. The
// hash is a self-contained string (salt and cost embedded), so it round-trips
// through the persisted snapshot like any other field.
//
// ID is unique within the store; email uniqueness is NOT enforced — login
// scans for the first email match whose password verifies.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	DisplayName  string `json:"displayName"`
	IsAdmin      bool   `json:"isAdmin"`
}

// Profile is the backend-owned record associated with a remote identity.
// It is distinct from the identity itself: the identity provider owns
// authentication, the profiles table owns display data. Fetched by identity
// id after sign-in; absent (nil) when the fetch fails or no row exists.
type Profile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Website   string `json:"website"`
	UpdatedAt string `json:"updated_at"`
}
