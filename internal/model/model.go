// Package model defines domain entities used by services and repositories.
package model

// NoID marks a Profile or Tag that has not been written to the settings store yet.
const NoID int64 = -1

// Supported password length bounds (inclusive).
const (
	MinPasswordLength = 4
	MaxPasswordLength = 32
)

// Profile is a named identity with its own secret material.
type Profile struct {
	ID                    int64  // NoID until persisted
	Name                  string // user-visible, not unique
	PrivateKey            string // generated once at creation, never displayed
	DefaultPasswordLength int
	DefaultPasswordType   PasswordType
}

// Persisted reports whether the profile has a durable id.
func (p Profile) Persisted() bool { return p.ID != NoID }

// Tag holds the password shape settings for a (profile, label) pair.
type Tag struct {
	ID             int64 // NoID while transient
	ProfileID      int64 // FK -> profiles.id
	Name           string
	PasswordLength int
	PasswordType   PasswordType
}

// Persisted reports whether the tag has been written to the settings store.
func (t Tag) Persisted() bool { return t.ID != NoID }

// ValidLength reports whether n is within the supported password length range.
func ValidLength(n int) bool {
	return n >= MinPasswordLength && n <= MaxPasswordLength
}
