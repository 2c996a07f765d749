package treeview

import (
	"testing"
	"time"
)

func TestAnimationClearsAfterDuration(t *testing.T) {
	clock := newFakeClock()
	var cleared []string
	a := NewAnimationTimer(clock, 0, func(id string) { cleared = append(cleared, id) })

	a.Animate("x")
	if !a.IsAnimating("x") {
		t.Fatal("x should be animating")
	}
	if want := clock.Now().Add(AnimationDuration); !a.ExpiresAt().Equal(want) {
		t.Errorf("expires at %v, want %v", a.ExpiresAt(), want)
	}

	clock.Advance(AnimationDuration - time.Millisecond)
	if !a.IsAnimating("x") {
		t.Error("x cleared too early")
	}
	clock.Advance(time.Millisecond)
	if a.IsAnimating("x") {
		t.Error("x should be cleared")
	}
	if !equalStrings(cleared, []string{"x"}) {
		t.Errorf("expected onClear(x), got %v", cleared)
	}
}

func TestAnimationRetargetRestartsTimer(t *testing.T) {
	clock := newFakeClock()
	var cleared []string
	a := NewAnimationTimer(clock, 100*time.Millisecond, func(id string) { cleared = append(cleared, id) })

	a.Animate("x")
	clock.Advance(60 * time.Millisecond)
	a.Animate("y")
	if a.IsAnimating("x") || !a.IsAnimating("y") {
		t.Fatal("y should replace x")
	}
	if clock.pending() != 1 {
		t.Errorf("expected the first timer to be stopped, %d pending", clock.pending())
	}

	clock.Advance(60 * time.Millisecond)
	if !a.IsAnimating("y") {
		t.Error("y must run its full duration from the retrigger")
	}
	clock.Advance(40 * time.Millisecond)
	if _, ok := a.Active(); ok {
		t.Error("y should be cleared")
	}
	if !equalStrings(cleared, []string{"y"}) {
		t.Errorf("only y clears, got %v", cleared)
	}
}

func TestAnimationEmptyIDClears(t *testing.T) {
	clock := newFakeClock()
	called := false
	a := NewAnimationTimer(clock, 0, func(string) { called = true })
	a.Animate("x")
	a.Animate("")
	if _, ok := a.Active(); ok {
		t.Error("empty id should clear")
	}
	clock.Advance(time.Second)
	if called {
		t.Error("explicit clear must not call onClear")
	}
}

func TestAnimationStop(t *testing.T) {
	clock := newFakeClock()
	called := false
	a := NewAnimationTimer(clock, 0, func(string) { called = true })
	a.Animate("x")
	a.Stop()
	clock.Advance(time.Second)
	a.Animate("y")
	if called || a.IsAnimating("y") || clock.pending() != 0 {
		t.Error("a stopped timer stays inert")
	}
}

func TestAnimationRealClock(t *testing.T) {
	done := make(chan string, 1)
	a := NewAnimationTimer(nil, 5*time.Millisecond, func(id string) { done <- id })
	defer a.Stop()
	a.Animate("x")
	select {
	case id := <-done:
		if id != "x" {
			t.Errorf("expected x, got %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}
