package repository

import (
	"context"

	"github.com/and161185/hashpass/internal/model"
)

// TagRepository provides access to per-profile tag settings.
type TagRepository interface {
	// Get loads the tag named name within profileID. Returns errs.ErrNotFound when absent.
	Get(ctx context.Context, profileID int64, name string) (*model.Tag, error)
	// GetByID loads a tag by ID.
	GetByID(ctx context.Context, id int64) (*model.Tag, error)
	// Insert writes a new tag and sets t.ID. Returns errs.ErrAlreadyExists on (profile, name) conflict.
	Insert(ctx context.Context, t *model.Tag) error
	// UpdateSettings overwrites length and type of an existing tag.
	UpdateSettings(ctx context.Context, id int64, length int, typ model.PasswordType) error
	// ListByProfile returns the profile's tags ordered by name.
	ListByProfile(ctx context.Context, profileID int64) ([]model.Tag, error)
	// Delete removes a tag by ID.
	Delete(ctx context.Context, id int64) error
}
