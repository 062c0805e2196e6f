package secretcache

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already ran or was stopped.
	Stop() bool
}

// Scheduler runs fn once after d unless the returned Timer is stopped first.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

type wallClock struct{}

// WallClock returns a Scheduler backed by time.AfterFunc.
func WallClock() Scheduler { return wallClock{} }

func (wallClock) Schedule(d time.Duration, fn func()) Timer { return time.AfterFunc(d, fn) }
