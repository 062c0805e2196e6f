package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/hashpass/internal/derive"
	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

func TestGenerator_Scenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	p1 := fx.addProfile("k1", 10, model.LettersDigits)

	tr, err := fx.tagSvc.ResolveTag(ctx, p1.ID, "mail.example")
	require.NoError(t, err)
	require.False(t, tr.Persisted())
	require.Equal(t, 10, tr.PasswordLength)
	require.Equal(t, model.LettersDigits, tr.PasswordType)

	res, err := fx.gen.Compute(ctx, p1.ID, "mail.example", "MasterPass1")
	require.NoError(t, err)
	require.Equal(t, "ZIkT85txPS", res.Password)
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{10}$`), res.Password)
	require.True(t, res.Tag.Persisted())

	fx.setDefaultLength(p1.ID, 20)

	again, err := fx.gen.Compute(ctx, p1.ID, "Mail.Example ", "MasterPass1")
	require.NoError(t, err)
	require.Equal(t, res.Password, again.Password)
	require.Equal(t, 10, again.Tag.PasswordLength)
	require.Equal(t, 1, fx.tags.inserts)
}

func TestGenerator_ValidatesBeforeStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	fx.profiles.err = errors.New("store must not be reached")

	_, err := fx.gen.Compute(ctx, 1, "site", "  ")
	var ie *errs.InputError
	require.True(t, errors.As(err, &ie))
	require.Equal(t, "masterKey", ie.Field)

	_, err = fx.gen.Compute(ctx, 1, "", "m")
	require.True(t, errors.As(err, &ie))
	require.Equal(t, "tagName", ie.Field)
}

func TestGenerator_FailedDerivationDoesNotMemoize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	p := fx.addProfile("k", 2, model.Letters)

	_, err := fx.gen.Compute(ctx, p.ID, "site", "m")
	require.ErrorIs(t, err, errs.ErrInvalidInput)
	require.Zero(t, fx.tags.inserts)
}

func TestGenerator_PersistFailurePropagates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	p := fx.addProfile("k", 8, model.Letters)
	storageErr := errs.Storage("insert tag", errors.New("read-only database"))
	fx.tags.insertErr = storageErr

	_, err := fx.gen.Compute(ctx, p.ID, "site", "m")
	require.Same(t, storageErr, err)
}

func TestGenerator_LostPersistRaceUsesStoredSettings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	p := fx.addProfile("k", 8, model.Letters)
	fx.tags.racer = &model.Tag{ID: 50, ProfileID: p.ID, Name: "site", PasswordLength: 12, PasswordType: model.Digits}

	res, err := fx.gen.Compute(ctx, p.ID, "site", "m")
	require.NoError(t, err)
	require.Equal(t, int64(50), res.Tag.ID)
	require.Len(t, res.Password, 12)
	require.Regexp(t, `^[0-9]+$`, res.Password)
}

func TestGenerator_Fingerprint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	p := fx.addProfile("k1", 10, model.LettersDigits)

	fp, err := fx.gen.Fingerprint(ctx, p.ID, "MasterPass1")
	require.NoError(t, err)
	require.Equal(t, derive.Fingerprint("MasterPass1", "k1"), fp)

	_, err = fx.gen.Fingerprint(ctx, 404, "MasterPass1")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
