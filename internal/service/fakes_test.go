package service

import (
	"context"
	"sort"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
	"github.com/and161185/hashpass/internal/repository"
)

type fakeProfiles struct {
	rows   map[int64]model.Profile
	nextID int64
	err    error
	tags   *fakeTags
}

var _ repository.ProfileRepository = (*fakeProfiles)(nil)

func newFakeProfiles() *fakeProfiles { return &fakeProfiles{rows: map[int64]model.Profile{}, nextID: 1} }

func (f *fakeProfiles) Create(_ context.Context, p *model.Profile) error {
	if f.err != nil {
		return f.err
	}
	p.ID = f.nextID
	f.nextID++
	f.rows[p.ID] = *p
	return nil
}
func (f *fakeProfiles) GetByID(_ context.Context, id int64) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}
func (f *fakeProfiles) List(_ context.Context) ([]model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Profile, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (f *fakeProfiles) Update(_ context.Context, p *model.Profile) error {
	if f.err != nil {
		return f.err
	}
	cur, ok := f.rows[p.ID]
	if !ok {
		return errs.ErrNotFound
	}
	cur.Name, cur.DefaultPasswordLength, cur.DefaultPasswordType = p.Name, p.DefaultPasswordLength, p.DefaultPasswordType
	f.rows[p.ID] = cur
	return nil
}
func (f *fakeProfiles) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.rows, id)
	if f.tags != nil {
		for tid, t := range f.tags.rows {
			if t.ProfileID == id {
				delete(f.tags.rows, tid)
			}
		}
	}
	return nil
}

type fakeTags struct {
	rows      map[int64]model.Tag
	nextID    int64
	inserts   int
	err       error
	insertErr error
	// racer is stored by the next Insert, which then reports a unique conflict.
	racer *model.Tag
}

var _ repository.TagRepository = (*fakeTags)(nil)

func newFakeTags() *fakeTags { return &fakeTags{rows: map[int64]model.Tag{}, nextID: 1} }

func (f *fakeTags) Get(_ context.Context, profileID int64, name string) (*model.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.rows {
		if t.ProfileID == profileID && t.Name == name {
			return &t, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeTags) GetByID(_ context.Context, id int64) (*model.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.rows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}
func (f *fakeTags) Insert(ctx context.Context, t *model.Tag) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.racer != nil {
		f.rows[f.racer.ID] = *f.racer
		f.racer = nil
		return errs.ErrAlreadyExists
	}
	if _, err := f.Get(ctx, t.ProfileID, t.Name); err == nil {
		return errs.ErrAlreadyExists
	}
	f.inserts++
	t.ID = f.nextID
	f.nextID++
	f.rows[t.ID] = *t
	return nil
}
func (f *fakeTags) UpdateSettings(_ context.Context, id int64, length int, typ model.PasswordType) error {
	if f.err != nil {
		return f.err
	}
	t, ok := f.rows[id]
	if !ok {
		return errs.ErrNotFound
	}
	t.PasswordLength, t.PasswordType = length, typ
	f.rows[id] = t
	return nil
}
func (f *fakeTags) ListByProfile(_ context.Context, profileID int64) ([]model.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Tag
	for _, t := range f.rows {
		if t.ProfileID == profileID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
func (f *fakeTags) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fixture struct {
	profiles *fakeProfiles
	tags     *fakeTags
	tagSvc   *TagServiceImpl
	gen      *Generator
}

func newFixture() *fixture {
	profiles, tags := newFakeProfiles(), newFakeTags()
	profiles.tags = tags
	tagSvc := NewTagService(profiles, tags, nil)
	return &fixture{
		profiles: profiles,
		tags:     tags,
		tagSvc:   tagSvc,
		gen:      NewGenerator(profiles, tagSvc, nil),
	}
}

func (fx *fixture) addProfile(privateKey string, length int, typ model.PasswordType) model.Profile {
	p := model.Profile{ID: model.NoID, Name: "P", PrivateKey: privateKey, DefaultPasswordLength: length, DefaultPasswordType: typ}
	_ = fx.profiles.Create(context.Background(), &p)
	return p
}

func (fx *fixture) setDefaultLength(id int64, length int) {
	p := fx.profiles.rows[id]
	p.DefaultPasswordLength = length
	fx.profiles.rows[id] = p
}
