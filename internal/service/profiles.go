package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/hashpass/internal/crypto"
	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
	"github.com/and161185/hashpass/internal/repository"
)

// ProfileService manages profiles and their private keys.
type ProfileService interface {
	// Create generates a private key and stores a new profile.
	Create(ctx context.Context, name string, defaultLength int, defaultType model.PasswordType) (model.Profile, error)
	// Get loads a profile by ID.
	Get(ctx context.Context, id int64) (model.Profile, error)
	// List returns all profiles ordered by ID.
	List(ctx context.Context) ([]model.Profile, error)
	// Update changes name and defaults. Existing tags keep their settings.
	Update(ctx context.Context, id int64, name string, defaultLength int, defaultType model.PasswordType) (model.Profile, error)
	// Delete removes the profile and all of its tags.
	Delete(ctx context.Context, id int64) error
}

type ProfileServiceImpl struct {
	repo   repository.ProfileRepository
	newKey func() (string, error)
	log    *zap.Logger
}

// NewProfileService constructs ProfileService. Private keys come from crypto.NewPrivateKey.
func NewProfileService(repo repository.ProfileRepository, log *zap.Logger) *ProfileServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileServiceImpl{repo: repo, newKey: crypto.NewPrivateKey, log: log}
}

func validateProfile(name string, length int, typ model.PasswordType) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.InvalidInput("name", "empty")
	}
	return name, validateShape(length, typ)
}

// Create validates input before touching the random source or the store.
func (s *ProfileServiceImpl) Create(
	ctx context.Context, name string, defaultLength int, defaultType model.PasswordType,
) (model.Profile, error) {
	name, err := validateProfile(name, defaultLength, defaultType)
	if err != nil {
		return model.Profile{}, err
	}
	key, err := s.newKey()
	if err != nil {
		return model.Profile{}, err
	}
	p := model.Profile{
		ID:                    model.NoID,
		Name:                  name,
		PrivateKey:            key,
		DefaultPasswordLength: defaultLength,
		DefaultPasswordType:   defaultType,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return model.Profile{}, err
	}
	s.log.Info("profile created", zap.Int64("profile_id", p.ID))
	return p, nil
}

// Get loads a profile by ID.
func (s *ProfileServiceImpl) Get(ctx context.Context, id int64) (model.Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}
	return *p, nil
}

// List returns all profiles ordered by ID.
func (s *ProfileServiceImpl) List(ctx context.Context) ([]model.Profile, error) {
	return s.repo.List(ctx)
}

// Update keeps the stored private key.
func (s *ProfileServiceImpl) Update(
	ctx context.Context, id int64, name string, defaultLength int, defaultType model.PasswordType,
) (model.Profile, error) {
	name, err := validateProfile(name, defaultLength, defaultType)
	if err != nil {
		return model.Profile{}, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}
	p.Name, p.DefaultPasswordLength, p.DefaultPasswordType = name, defaultLength, defaultType
	if err := s.repo.Update(ctx, p); err != nil {
		return model.Profile{}, err
	}
	s.log.Debug("profile updated", zap.Int64("profile_id", id))
	return *p, nil
}

// Delete cascades to the profile's tags.
func (s *ProfileServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("profile deleted", zap.Int64("profile_id", id))
	return nil
}
