package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
	"github.com/and161185/hashpass/internal/repository"
)

// TagService decides which password shape applies to a (profile, tag) pair.
type TagService interface {
	// ResolveTag returns the persisted tag, or a transient one built from the profile defaults.
	ResolveTag(ctx context.Context, profileID int64, tagName string) (model.Tag, error)
	// PersistTag writes a transient tag and returns it with its new id.
	PersistTag(ctx context.Context, tag model.Tag) (model.Tag, error)
	// UpdateTagSettings overrides length and type of a persisted tag.
	UpdateTagSettings(ctx context.Context, tagID int64, length int, typ model.PasswordType) error
	// SaveTagSettings updates the tag if it exists, otherwise persists it with the given shape.
	SaveTagSettings(ctx context.Context, profileID int64, tagName string, length int, typ model.PasswordType) (model.Tag, error)
	// ListTags returns the profile's persisted tags ordered by name.
	ListTags(ctx context.Context, profileID int64) ([]model.Tag, error)
	// DeleteTag removes a persisted tag.
	DeleteTag(ctx context.Context, tagID int64) error
}

type TagServiceImpl struct {
	profiles repository.ProfileRepository
	tags     repository.TagRepository
	log      *zap.Logger
}

// NewTagService constructs TagService.
func NewTagService(profiles repository.ProfileRepository, tags repository.TagRepository, log *zap.Logger) *TagServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &TagServiceImpl{profiles: profiles, tags: tags, log: log}
}

// ResolveTag never writes. Persisted settings are returned as stored even if the
// profile defaults changed since.
func (s *TagServiceImpl) ResolveTag(ctx context.Context, profileID int64, tagName string) (model.Tag, error) {
	name := NormalizeTagName(tagName)
	if name == "" {
		return model.Tag{}, errs.InvalidInput("tagName", "empty")
	}
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return model.Tag{}, err
	}
	t, err := s.tags.Get(ctx, profileID, name)
	switch {
	case err == nil:
		return *t, nil
	case errors.Is(err, errs.ErrNotFound):
		return model.Tag{
			ID:             model.NoID,
			ProfileID:      p.ID,
			Name:           name,
			PasswordLength: p.DefaultPasswordLength,
			PasswordType:   p.DefaultPasswordType,
		}, nil
	default:
		return model.Tag{}, err
	}
}

// PersistTag is valid only for transient tags.
func (s *TagServiceImpl) PersistTag(ctx context.Context, tag model.Tag) (model.Tag, error) {
	if tag.Persisted() {
		return model.Tag{}, fmt.Errorf("persist tag %d: %w", tag.ID, errs.ErrAlreadyPersisted)
	}
	if tag.Name == "" {
		return model.Tag{}, errs.InvalidInput("tagName", "empty")
	}
	if err := validateShape(tag.PasswordLength, tag.PasswordType); err != nil {
		return model.Tag{}, err
	}
	if err := s.tags.Insert(ctx, &tag); err != nil {
		return model.Tag{}, err
	}
	s.log.Debug("tag persisted",
		zap.Int64("profile_id", tag.ProfileID),
		zap.Int64("tag_id", tag.ID),
		zap.String("tag", tag.Name),
		zap.Int("length", tag.PasswordLength),
		zap.Stringer("type", tag.PasswordType),
	)
	return tag, nil
}

// UpdateTagSettings is the only path that changes a persisted tag's shape.
func (s *TagServiceImpl) UpdateTagSettings(ctx context.Context, tagID int64, length int, typ model.PasswordType) error {
	if err := validateShape(length, typ); err != nil {
		return err
	}
	if err := s.tags.UpdateSettings(ctx, tagID, length, typ); err != nil {
		return err
	}
	s.log.Debug("tag settings updated", zap.Int64("tag_id", tagID), zap.Int("length", length), zap.Stringer("type", typ))
	return nil
}

// SaveTagSettings backs the tag-settings editor.
func (s *TagServiceImpl) SaveTagSettings(
	ctx context.Context, profileID int64, tagName string, length int, typ model.PasswordType,
) (model.Tag, error) {
	if err := validateShape(length, typ); err != nil {
		return model.Tag{}, err
	}
	t, err := s.ResolveTag(ctx, profileID, tagName)
	if err != nil {
		return model.Tag{}, err
	}
	t.PasswordLength, t.PasswordType = length, typ
	if !t.Persisted() {
		return s.PersistTag(ctx, t)
	}
	if err := s.UpdateTagSettings(ctx, t.ID, length, typ); err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

// ListTags fails with errs.ErrNotFound for an unknown profile.
func (s *TagServiceImpl) ListTags(ctx context.Context, profileID int64) ([]model.Tag, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.tags.ListByProfile(ctx, profileID)
}

// DeleteTag removes a tag; the next resolve falls back to profile defaults.
func (s *TagServiceImpl) DeleteTag(ctx context.Context, tagID int64) error {
	if err := s.tags.Delete(ctx, tagID); err != nil {
		return err
	}
	s.log.Debug("tag deleted", zap.Int64("tag_id", tagID))
	return nil
}
