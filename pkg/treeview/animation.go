package treeview

import (
	"sync"
	"time"
)

// AnimationDuration is how long a row stays highlighted after Animate.
const AnimationDuration = 400 * time.Millisecond

// Timer is a stoppable pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The real clock uses time.AfterFunc; tests
// inject a manual one.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

// AnimationTimer tracks at most one highlighted row id. Animate retargets
// and restarts the duration; it never queues. The timer callback may run
// on another goroutine, so the fields are mutex guarded.
type AnimationTimer struct {
	mu        sync.Mutex
	clock     Clock
	duration  time.Duration
	active    string
	expiresAt time.Time
	timer     Timer
	gen       uint64
	stopped   bool
	onClear   func(id string)
}

// NewAnimationTimer creates a timer. A nil clock uses SystemClock and a
// non-positive duration uses AnimationDuration. onClear, if set, runs
// after an id is cleared by expiry, outside the lock.
func NewAnimationTimer(clock Clock, duration time.Duration, onClear func(id string)) *AnimationTimer {
	if clock == nil {
		clock = SystemClock
	}
	if duration <= 0 {
		duration = AnimationDuration
	}
	return &AnimationTimer{clock: clock, duration: duration, onClear: onClear}
}

// Animate highlights id, canceling any in-flight timer. An empty id clears
// the highlight immediately without invoking onClear.
func (a *AnimationTimer) Animate(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	if id == "" {
		a.active = ""
		a.expiresAt = time.Time{}
		return
	}
	gen := a.gen
	a.active = id
	a.expiresAt = a.clock.Now().Add(a.duration)
	a.timer = a.clock.AfterFunc(a.duration, func() { a.expire(gen) })
}

func (a *AnimationTimer) expire(gen uint64) {
	a.mu.Lock()
	// A retrigger or Stop raced with this callback.
	if a.stopped || gen != a.gen || a.active == "" {
		a.mu.Unlock()
		return
	}
	id := a.active
	a.active = ""
	a.expiresAt = time.Time{}
	a.timer = nil
	onClear := a.onClear
	a.mu.Unlock()

	if onClear != nil {
		onClear(id)
	}
}

// Active returns the highlighted id, if any.
func (a *AnimationTimer) Active() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active, a.active != ""
}

// IsAnimating reports whether id is the highlighted row.
func (a *AnimationTimer) IsAnimating(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return id != "" && a.active == id
}

// ExpiresAt returns when the highlight clears; zero when idle.
func (a *AnimationTimer) ExpiresAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expiresAt
}

// Stop cancels the pending timer and disables the timer for good. Call it
// when the owner is torn down.
func (a *AnimationTimer) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.stopped = true
	a.active = ""
	a.expiresAt = time.Time{}
}
