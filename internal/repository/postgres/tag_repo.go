package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

// TagRepo implements TagRepository using PostgreSQL.
type TagRepo struct{ db *DB }

// NewTagRepo constructs a tag repository.
func NewTagRepo(db *DB) *TagRepo { return &TagRepo{db: db} }

const tagCols = `id, profile_id, name, password_length, password_type`

func scanTag(row pgx.Row) (*model.Tag, error) {
	var (
		t      model.Tag
		length int
		typ    int
	)
	if err := row.Scan(&t.ID, &t.ProfileID, &t.Name, &length, &typ); err != nil {
		return nil, err
	}
	t.PasswordLength = length
	t.PasswordType = model.PasswordType(typ)
	return &t, nil
}

func (r *TagRepo) getOne(ctx context.Context, op, q string, args ...any) (*model.Tag, error) {
	t, err := scanTag(r.db.Pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage(op, err)
	}
	return t, nil
}

// Get loads a tag by (profile, name).
func (r *TagRepo) Get(ctx context.Context, profileID int64, name string) (*model.Tag, error) {
	const q = `SELECT ` + tagCols + ` FROM tags WHERE profile_id=$1 AND name=$2`
	return r.getOne(ctx, "get tag", q, profileID, name)
}

// GetByID loads a tag by id.
func (r *TagRepo) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	const q = `SELECT ` + tagCols + ` FROM tags WHERE id=$1`
	return r.getOne(ctx, "get tag", q, id)
}

// Insert writes a new tag and assigns its id.
func (r *TagRepo) Insert(ctx context.Context, t *model.Tag) error {
	const q = `INSERT INTO tags (profile_id, name, password_length, password_type) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q, t.ProfileID, t.Name, t.PasswordLength, int(t.PasswordType)).Scan(&id)
	switch {
	case err == nil:
		t.ID = id
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
	const q = `UPDATE tags SET password_length=$2, password_type=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, length, int(typ))
	if err != nil {
		return errs.Storage("update tag", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByProfile returns the profile's tags ordered by name.
func (r *TagRepo) ListByProfile(ctx context.Context, profileID int64) ([]model.Tag, error) {
	const q = `SELECT ` + tagCols + ` FROM tags WHERE profile_id=$1 ORDER BY name ASC`
	rows, err := r.db.Pool.Query(ctx, q, profileID)
	if err != nil {
		return nil, errs.Storage("list tags", err)
	}
	defer rows.Close()

	var out []model.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, errs.Storage("list tags", err)
		}
		out = append(out, *t)
	}
	return out, errs.Storage("list tags", rows.Err())
}

// Delete removes a tag by id.
func (r *TagRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tags WHERE id=$1`, id)
	if err != nil {
		return errs.Storage("delete tag", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
