// Package secretcache holds at most one master key, with its tag and derived password,
// in memory for a limited time.
package secretcache

import (
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Entry is the cached triple.
type Entry struct {
	MasterKey string
	TagName   string
	Password  string
}

// slot owns byte copies of the secrets so they can be overwritten on erase.
type slot struct {
	id       uuid.UUID
	master   []byte
	tag      []byte
	password []byte
	timer    Timer
}

func (s *slot) entry() Entry {
	return Entry{MasterKey: string(s.master), TagName: string(s.tag), Password: string(s.password)}
}

func (s *slot) erase() {
	for _, b := range [][]byte{s.master, s.tag, s.password} {
		for i := range b {
			b[i] = 0
		}
	}
	s.master, s.tag, s.password = nil, nil, nil
}

// Cache is a single-slot secret holder. All transitions happen under one mutex, so a
// consumer and the expiry callback never both observe the same secret.
// The zero value is not usable; call New.
type Cache struct {
	mu    sync.Mutex
	sched Scheduler
	log   *zap.Logger
	cur   *slot
}

// New returns an empty Cache that arms expiry timers on sched.
func New(sched Scheduler, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{sched: sched, log: log}
}

// Store replaces the slot with e and arms a timer for ttl. A ttl <= 0 leaves the cache empty.
func (c *Cache) Store(e Entry, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	if ttl <= 0 {
		return
	}
	id, err := uuid.NewV4()
	if err != nil {
		c.log.Warn("secret not cached: slot id", zap.Error(err))
		return
	}
	s := &slot{
		id:       id,
		master:   []byte(e.MasterKey),
		tag:      []byte(e.TagName),
		password: []byte(e.Password),
	}
	s.timer = c.sched.Schedule(ttl, func() { c.expire(id) })
	c.cur = s
	c.log.Debug("secret cached", zap.Stringer("slot", id), zap.Duration("ttl", ttl))
}

// Consume returns the cached entry and empties the slot in the same step.
func (c *Cache) Consume() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur == nil {
		return Entry{}, false
	}
	s := c.cur
	e := s.entry()
	c.clearLocked()
	c.log.Debug("secret consumed", zap.Stringer("slot", s.id))
	return e, true
}

// CancelTimer stops a pending expiry without touching the slot.
func (c *Cache) CancelTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != nil && c.cur.timer != nil {
		c.cur.timer.Stop()
		c.cur.timer = nil
	}
}

// Holding reports whether a secret is resident.
func (c *Cache) Holding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}

// Clear erases any resident secret.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// expire runs on the scheduler. A timer left over from a replaced slot is ignored.
func (c *Cache) expire(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur == nil || c.cur.id != id {
		return
	}
	c.cur.timer = nil
	c.clearLocked()
	c.log.Info("cached secret expired", zap.Stringer("slot", id))
}

func (c *Cache) clearLocked() {
	if c.cur == nil {
		return
	}
	if c.cur.timer != nil {
		c.cur.timer.Stop()
	}
	c.cur.erase()
	c.cur = nil
}
