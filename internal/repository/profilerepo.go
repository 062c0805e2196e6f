// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/hashpass/internal/model"
)

// ProfileRepository provides CRUD access to profiles.
type ProfileRepository interface {
	// Create inserts p and sets p.ID.
	Create(ctx context.Context, p *model.Profile) error
	// GetByID loads a profile by ID.
	GetByID(ctx context.Context, id int64) (*model.Profile, error)
	// List returns all profiles ordered by ID.
	List(ctx context.Context) ([]model.Profile, error)
	// Update rewrites name and defaults. The private key is never changed.
	Update(ctx context.Context, p *model.Profile) error
	// Delete removes the profile together with its tags.
	Delete(ctx context.Context, id int64) error
}
