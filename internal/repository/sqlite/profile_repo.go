package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

// ProfileRepo implements ProfileRepository on SQLite.
type ProfileRepo struct{ db *DB }

// NewProfileRepo constructs a profile repository.
func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

// Create inserts a new profile and assigns its id.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	m := profileFromModel(p)
	_, err := r.db.bun.NewInsert().Model(m).
		Column("name", "private_key", "default_length", "default_type").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return errs.Storage("create profile", err)
	}
	p.ID = m.ID
	r.db.log.Debug("profile inserted", zap.Int64("profile_id", p.ID))
	return nil
}

// GetByID loads a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	var m profileModel
	if err := r.db.bun.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("get profile", err)
	}
	p := profileToModel(m)
	return &p, nil
}

// List returns all profiles ordered by id.
func (r *ProfileRepo) List(ctx context.Context) ([]model.Profile, error) {
	var ms []profileModel
	if err := r.db.bun.NewSelect().Model(&ms).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, errs.Storage("list profiles", err)
	}
	out := make([]model.Profile, 0, len(ms))
	for _, m := range ms {
		out = append(out, profileToModel(m))
	}
	return out, nil
}

// Update rewrites the profile's name and defaults.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	res, err := r.db.bun.NewUpdate().Model(profileFromModel(p)).
		Column("name", "default_length", "default_type").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errs.Storage("update profile", err)
	}
	return affectedOne(res, "update profile")
}

// Delete removes a profile and its tags in one transaction.
func (r *ProfileRepo) Delete(ctx context.Context, id int64) error {
	return r.db.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*tagModel)(nil)).Where("profile_id = ?", id).Exec(ctx); err != nil {
			return errs.Storage("delete profile", err)
		}
		res, err := tx.NewDelete().Model((*profileModel)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return errs.Storage("delete profile", err)
		}
		return affectedOne(res, "delete profile")
	})
}

func affectedOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Storage(op, err)
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
