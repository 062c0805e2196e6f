package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

// TagRepo implements TagRepository on SQLite.
type TagRepo struct{ db *DB }

// NewTagRepo constructs a tag repository.
func NewTagRepo(db *DB) *TagRepo { return &TagRepo{db: db} }

func (r *TagRepo) getOne(ctx context.Context, where string, args ...any) (*model.Tag, error) {
	var m tagModel
	if err := r.db.bun.NewSelect().Model(&m).Where(where, args...).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("get tag", err)
	}
	t := tagToModel(m)
	return &t, nil
}

// Get loads a tag by (profile, name).
func (r *TagRepo) Get(ctx context.Context, profileID int64, name string) (*model.Tag, error) {
	return r.getOne(ctx, "profile_id = ? AND name = ?", profileID, name)
}

// GetByID loads a tag by id.
func (r *TagRepo) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	return r.getOne(ctx, "id = ?", id)
}

// Insert writes a new tag and assigns its id.
func (r *TagRepo) Insert(ctx context.Context, t *model.Tag) error {
	m := &tagModel{
		ProfileID:      t.ProfileID,
		Name:           t.Name,
		PasswordLength: t.PasswordLength,
		PasswordType:   int(t.PasswordType),
	}
	_, err := r.db.bun.NewInsert().Model(m).
		Column("profile_id", "name", "password_length", "password_type").
		Returning("id").
		Exec(ctx)
	switch {
	case err == nil:
		t.ID = m.ID
		return nil
	case isUniqueViolation(err):
		return errs.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return errs.ErrNotFound
	default:
		return errs.Storage("insert tag", err)
	}
}

// UpdateSettings overwrites length and type of an existing tag.
func (r *TagRepo) UpdateSettings(ctx context.Context, id int64, length int, typ model.PasswordType) error {
	res, err := r.db.bun.NewUpdate().Model((*tagModel)(nil)).
		Set("password_length = ?", length).
		Set("password_type = ?", int(typ)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errs.Storage("update tag", err)
	}
	return affectedOne(res, "update tag")
}

// ListByProfile returns the profile's tags ordered by name.
func (r *TagRepo) ListByProfile(ctx context.Context, profileID int64) ([]model.Tag, error) {
	var ms []tagModel
	err := r.db.bun.NewSelect().Model(&ms).
		Where("profile_id = ?", profileID).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errs.Storage("list tags", err)
	}
	out := make([]model.Tag, 0, len(ms))
	for _, m := range ms {
		out = append(out, tagToModel(m))
	}
	return out, nil
}

// Delete removes a tag by id.
func (r *TagRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.bun.NewDelete().Model((*tagModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return errs.Storage("delete tag", err)
	}
	return affectedOne(res, "delete tag")
}
