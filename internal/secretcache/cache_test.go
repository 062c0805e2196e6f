package secretcache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fn      func()
	d       time.Duration
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler records timers; tests fire them by hand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{fn: fn, d: d}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[len(s.timers)-1]
}

// fire runs the callback as the scheduler would, even if Stop lost the race.
func (t *fakeTimer) fire() {
	t.fired = true
	t.fn()
}

var sample = Entry{MasterKey: "secret", TagName: "t", Password: "pw"}

func TestStore_ZeroTTLStaysEmpty(t *testing.T) {
	t.Parallel()
	sched := &fakeScheduler{}
	c := New(sched, nil)

	c.Store(sample, 0)
	require.False(t, c.Holding())
	_, ok := c.Consume()
	require.False(t, ok)
	require.Empty(t, sched.timers)
}

func TestStore_ZeroTTLClearsResident(t *testing.T) {
	t.Parallel()
	sched := &fakeScheduler{}
	c := New(sched, nil)

	c.Store(sample, 5*time.Minute)
	first := sched.last()
	c.Store(sample, 0)
	require.False(t, c.Holding())
	require.True(t, first.stopped)
}

func TestEarlyResume_ConsumesOnce(t *testing.T) {
	t.Parallel()
	sched := &fakeScheduler{}
	c := New(sched, nil)

	c.Store(sample, 5*time.Minute)
	tm := sched.last()
	require.Equal(t, 5*time.Minute, tm.d)
	require.True(t, c.Holding())

	c.CancelTimer()
	require.True(t, tm.stopped)
	require.True(t, c.Holding())

	got, ok := c.Consume()
	require.True(t, ok)
	require.Equal(t, sample, got)

	_, ok = c.Consume()
	require.False(t, ok)
}

func TestExpiry_ErasesSlot(t *testing.T) {
	t.Parallel()
	sched := &fakeScheduler{}
	c := New(sched, nil)

	c.Store(sample, time.Minute)
	master := c.cur.master
	sched.last().fire()

	require.False(t, c.Holding())
	_, ok := c.Consume()
	require.False(t, ok)
	require.Equal(t, make([]byte, len(sample.MasterKey)), master, "bytes must be overwritten")

	// a second delivery is a no-op
	sched.last().fn()
	require.False(t, c.Holding())
}

func TestConsume_StopsTimer(t *testing.T) {
	t.Parallel()
	sched := &fakeScheduler{}
	c := New(sched, nil)

	c.Store(sample, time.Minute)
	tm := sched.last()
	_, ok := c.Consume()
	require.True(t, ok)
	require.True(t, tm.stopped)

	tm.fn()
	require.False(t, c.Holding())
}

func TestStaleTimerDoesNotClearReplacement(t *testing.T) {
	t.Parallel()
	sched := &fakeScheduler{}
	c := New(sched, nil)

	c.Store(sample, time.Minute)
	old := sched.last()
	next := Entry{MasterKey: "other", TagName: "u", Password: "pw2"}
	c.Store(next, time.Minute)
	require.True(t, old.stopped)

	old.fn()
	got, ok := c.Consume()
	require.True(t, ok)
	require.Equal(t, next, got)
}

func TestCancelTimerOnEmptyIsNoop(t *testing.T) {
	t.Parallel()
	c := New(&fakeScheduler{}, nil)
	c.CancelTimer()
	c.Clear()
	require.False(t, c.Holding())
}

func TestWallClock_Expires(t *testing.T) {
	t.Parallel()
	c := New(WallClock(), nil)

	c.Store(sample, 20*time.Millisecond)
	require.True(t, c.Holding())
	require.Eventually(t, func() bool { return !c.Holding() }, 2*time.Second, 5*time.Millisecond)
	_, ok := c.Consume()
	require.False(t, ok)
}

func TestConsumeRacesExpiry(t *testing.T) {
	t.Parallel()
	sched := &fakeScheduler{}
	c := New(sched, nil)

	for i := 0; i < 200; i++ {
		c.Store(sample, time.Minute)
		tm := sched.last()

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
			torn atomic.Int32
		)
		start := make(chan struct{})
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if e, ok := c.Consume(); ok {
					if e != sample {
						torn.Add(1)
					}
					wins.Add(1)
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			tm.fn()
		}()
		close(start)
		wg.Wait()

		require.LessOrEqual(t, wins.Load(), int32(1))
		require.Zero(t, torn.Load())
		require.False(t, c.Holding())
	}
}
