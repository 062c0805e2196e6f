package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/hashpass/internal/derive"
	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
	"github.com/and161185/hashpass/internal/repository"
)

// Result is a derived password together with the tag settings that produced it.
type Result struct {
	Tag      model.Tag
	Password string
}

// Generator runs the compute flow: resolve, derive, then memoize the tag.
type Generator struct {
	profiles repository.ProfileRepository
	tags     TagService
	log      *zap.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(profiles repository.ProfileRepository, tags TagService, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{profiles: profiles, tags: tags, log: log}
}

// Compute derives the password for tagName under profileID. A transient tag is persisted
// only after derivation succeeded, freezing the shape the user was shown.
func (g *Generator) Compute(ctx context.Context, profileID int64, tagName, masterKey string) (Result, error) {
	if NormalizeTagName(tagName) == "" {
		return Result{}, errs.InvalidInput("tagName", "empty")
	}
	if strings.TrimSpace(masterKey) == "" {
		return Result{}, errs.InvalidInput("masterKey", "empty")
	}

	p, err := g.profiles.GetByID(ctx, profileID)
	if err != nil {
		return Result{}, err
	}
	tag, err := g.tags.ResolveTag(ctx, profileID, tagName)
	if err != nil {
		return Result{}, err
	}
	pw, err := derive.Password(tag.Name, masterKey, p.PrivateKey, tag.PasswordLength, tag.PasswordType)
	if err != nil {
		return Result{}, err
	}
	if tag.Persisted() {
		return Result{Tag: tag, Password: pw}, nil
	}

	saved, err := g.tags.PersistTag(ctx, tag)
	if errors.Is(err, errs.ErrAlreadyExists) {
		// Another writer stored this tag between resolve and persist; its settings win.
		return g.recompute(ctx, p, tag.Name, masterKey)
	}
	if err != nil {
		return Result{}, err
	}
	g.log.Debug("password computed",
		zap.Int64("profile_id", profileID),
		zap.String("tag", saved.Name),
		zap.Bool("memoized", true),
	)
	return Result{Tag: saved, Password: pw}, nil
}

func (g *Generator) recompute(ctx context.Context, p *model.Profile, name, masterKey string) (Result, error) {
	tag, err := g.tags.ResolveTag(ctx, p.ID, name)
	if err != nil {
		return Result{}, err
	}
	pw, err := derive.Password(tag.Name, masterKey, p.PrivateKey, tag.PasswordLength, tag.PasswordType)
	if err != nil {
		return Result{}, err
	}
	return Result{Tag: tag, Password: pw}, nil
}

// Fingerprint returns the master-key checksum for profileID.
func (g *Generator) Fingerprint(ctx context.Context, profileID int64, masterKey string) (string, error) {
	p, err := g.profiles.GetByID(ctx, profileID)
	if err != nil {
		return "", err
	}
	return derive.Fingerprint(masterKey, p.PrivateKey), nil
}
