package sqlite

import (
	"github.com/uptrace/bun"

	"github.com/and161185/hashpass/internal/model"
)

type profileModel struct {
	bun.BaseModel `bun:"table:profiles"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Name          string `bun:"name"`
	PrivateKey    string `bun:"private_key"`
	DefaultLength int    `bun:"default_length"`
	DefaultType   int    `bun:"default_type"`
}

func profileToModel(m profileModel) model.Profile {
	return model.Profile{
		ID:                    m.ID,
		Name:                  m.Name,
		PrivateKey:            m.PrivateKey,
		DefaultPasswordLength: m.DefaultLength,
		DefaultPasswordType:   model.PasswordType(m.DefaultType),
	}
}

func profileFromModel(p *model.Profile) *profileModel {
	return &profileModel{
		ID:            p.ID,
		Name:          p.Name,
		PrivateKey:    p.PrivateKey,
		DefaultLength: p.DefaultPasswordLength,
		DefaultType:   int(p.DefaultPasswordType),
	}
}

type tagModel struct {
	bun.BaseModel  `bun:"table:tags"`
	ID             int64  `bun:"id,pk,autoincrement"`
	ProfileID      int64  `bun:"profile_id"`
	Name           string `bun:"name"`
	PasswordLength int    `bun:"password_length"`
	PasswordType   int    `bun:"password_type"`
}

func tagToModel(m tagModel) model.Tag {
	return model.Tag{
		ID:             m.ID,
		ProfileID:      m.ProfileID,
		Name:           m.Name,
		PasswordLength: m.PasswordLength,
		PasswordType:   model.PasswordType(m.PasswordType),
	}
}
