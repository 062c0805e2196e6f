// Package session models the interactive compute surface: the fields it shows and
// what happens to them when it leaves or regains the foreground.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/hashpass/internal/model"
	"github.com/and161185/hashpass/internal/secretcache"
	"github.com/and161185/hashpass/internal/service"
)

// Computer runs the compute flow.
type Computer interface {
	Compute(ctx context.Context, profileID int64, tagName, masterKey string) (service.Result, error)
}

// Fields is the visible state of the surface.
type Fields struct {
	ProfileID int64
	TagName   string
	MasterKey string
	Password  string
	Tag       model.Tag // settings behind Password, zero until the first compute
}

// Session is safe for use by a single foreground loop; the mutex only guards
// against readers such as status printers.
type Session struct {
	mu         sync.Mutex
	gen        Computer
	cache      *secretcache.Cache
	ttl        time.Duration
	log        *zap.Logger
	fields     Fields
	foreground bool
}

// New returns a foreground session with no profile selected.
func New(gen Computer, cache *secretcache.Cache, ttl time.Duration, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		gen:        gen,
		cache:      cache,
		ttl:        ttl,
		log:        log,
		fields:     Fields{ProfileID: model.NoID},
		foreground: true,
	}
}

// Fields returns a copy of the visible state.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// Foreground reports whether the surface is active.
func (s *Session) Foreground() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.foreground
}

// SetTTL changes how long the master key survives in the cache after Leave.
func (s *Session) SetTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = ttl
}

// SelectProfile switches profile and drops a password computed under the previous one.
func (s *Session) SelectProfile(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fields.ProfileID != id {
		s.fields.Password, s.fields.Tag = "", model.Tag{}
	}
	s.fields.ProfileID = id
}

// SetTag changes the tag field. A shown password no longer matches and is cleared.
func (s *Session) SetTag(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.TagName = name
	s.fields.Password, s.fields.Tag = "", model.Tag{}
}

// SetMasterKey changes the master key field and clears a shown password.
func (s *Session) SetMasterKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.MasterKey = key
	s.fields.Password, s.fields.Tag = "", model.Tag{}
}

// Compute derives the password for the current fields.
func (s *Session) Compute(ctx context.Context) (service.Result, error) {
	s.mu.Lock()
	f := s.fields
	s.mu.Unlock()

	res, err := s.gen.Compute(ctx, f.ProfileID, f.TagName, f.MasterKey)
	if err != nil {
		return service.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.TagName = res.Tag.Name
	s.fields.Password = res.Password
	s.fields.Tag = res.Tag
	return res, nil
}

// Leave hides the surface. With a positive TTL the secrets move into the cache;
// otherwise they are dropped. The visible fields are cleared either way.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.foreground {
		return
	}
	s.foreground = false

	if s.ttl > 0 && s.fields.MasterKey != "" {
		s.cache.Store(secretcache.Entry{
			MasterKey: s.fields.MasterKey,
			TagName:   s.fields.TagName,
			Password:  s.fields.Password,
		}, s.ttl)
	} else {
		s.cache.Clear()
	}
	s.fields.MasterKey, s.fields.TagName, s.fields.Password = "", "", ""
	s.fields.Tag = model.Tag{}
	s.log.Debug("session hidden", zap.Duration("ttl", s.ttl))
}

// Enter shows the surface again and repopulates it from the cache. It reports
// whether cached values were restored.
func (s *Session) Enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.foreground {
		return false
	}
	s.foreground = true

	s.cache.CancelTimer()
	e, ok := s.cache.Consume()
	if !ok {
		s.log.Debug("session shown", zap.Bool("restored", false))
		return false
	}
	s.fields.MasterKey, s.fields.TagName, s.fields.Password = e.MasterKey, e.TagName, e.Password
	s.log.Debug("session shown", zap.Bool("restored", true))
	return true
}
