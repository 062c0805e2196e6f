package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

// ProfileRepo implements ProfileRepository using PostgreSQL.
type ProfileRepo struct{ db *DB }

// NewProfileRepo constructs a profile repository.
func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileCols = `id, name, private_key, default_length, default_type`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var (
		p      model.Profile
		length int
		typ    int
	)
	if err := row.Scan(&p.ID, &p.Name, &p.PrivateKey, &length, &typ); err != nil {
		return nil, err
	}
	p.DefaultPasswordLength = length
	p.DefaultPasswordType = model.PasswordType(typ)
	return &p, nil
}

// Create inserts a new profile and assigns its id.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	const q = `INSERT INTO profiles (name, private_key, default_length, default_type) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q, p.Name, p.PrivateKey, p.DefaultPasswordLength, int(p.DefaultPasswordType)).Scan(&id)
	if err != nil {
		return errs.Storage("create profile", err)
	}
	p.ID = id
	return nil
}

// GetByID loads a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	const q = `SELECT ` + profileCols + ` FROM profiles WHERE id=$1`
	p, err := scanProfile(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("get profile", err)
	}
	return p, nil
}

// List returns all profiles ordered by id.
func (r *ProfileRepo) List(ctx context.Context) ([]model.Profile, error) {
	const q = `SELECT ` + profileCols + ` FROM profiles ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, errs.Storage("list profiles", err)
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, errs.Storage("list profiles", err)
		}
		out = append(out, *p)
	}
	return out, errs.Storage("list profiles", rows.Err())
}

// Update rewrites the profile's name and defaults.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	const q = `UPDATE profiles SET name=$2, default_length=$3, default_type=$4 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, p.ID, p.Name, p.DefaultPasswordLength, int(p.DefaultPasswordType))
	if err != nil {
		return errs.Storage("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a profile and its tags in one transaction.
func (r *ProfileRepo) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errs.Storage("delete profile", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = errs.Storage("delete profile", e)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM tags WHERE profile_id=$1`, id); err != nil {
		return errs.Storage("delete profile", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id=$1`, id)
	if err != nil {
		return errs.Storage("delete profile", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
