package treeview

import (
	"testing"

	"pgregory.net/rapid"
)

func TestOpenStateLayersAreIndependent(t *testing.T) {
	s := NewOpenState("a")
	s.OpenDuringSearch("b")

	if !s.IsOpen("a") || s.IsOpen("b") {
		t.Errorf("persistent layer: a=%v b=%v", s.IsOpen("a"), s.IsOpen("b"))
	}
	if s.IsOpenDuringSearch("a") || !s.IsOpenDuringSearch("b") {
		t.Errorf("ephemeral layer: a=%v b=%v", s.IsOpenDuringSearch("a"), s.IsOpenDuringSearch("b"))
	}

	s.ResetEphemeral()
	if s.IsOpenDuringSearch("b") || !s.IsOpen("a") {
		t.Error("ResetEphemeral must only drop the ephemeral layer")
	}
}

func TestOpenStateReportsEffectiveChanges(t *testing.T) {
	s := NewOpenState()
	if got := s.Open("a", "b", "a"); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("expected [a b] opened, got %v", got)
	}
	v := s.Version()
	if got := s.Open("a"); len(got) != 0 || s.Version() != v {
		t.Errorf("reopening should be a no-op, got %v version %d->%d", got, v, s.Version())
	}
	if got := s.Close("b", "zzz"); !equalStrings(got, []string{"b"}) {
		t.Errorf("expected [b] closed, got %v", got)
	}
	if got := s.Persistent(); !equalStrings(got, []string{"a"}) {
		t.Errorf("expected [a] persistent, got %v", got)
	}
}

func TestOpenStateForcedCloseIsNoop(t *testing.T) {
	s := NewOpenState("a")
	s.OpenDuringSearch("b")
	s.SetForceAllOpened(true)

	if got := s.Close("a"); got != nil {
		t.Errorf("Close while forced should do nothing, closed %v", got)
	}
	if s.CloseDuringSearch("b") {
		t.Error("CloseDuringSearch while forced should do nothing")
	}
	if !s.IsOpen("a") || !s.IsOpenDuringSearch("b") {
		t.Error("layers changed while forced")
	}
	if !s.ForceAllOpened() {
		t.Error("expected ForceAllOpened")
	}
}

func TestOpenStateRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOf(rapid.StringMatching(`[a-e]{1,2}`)).Draw(t, "ids")
		s := NewOpenState()
		s.Open(ids...)
		for i, open := range s.AreOpen(ids) {
			if !open {
				t.Fatalf("%q should be open", ids[i])
			}
		}
		s.Close(ids...)
		for i, open := range s.AreOpen(ids) {
			if open {
				t.Fatalf("%q should be closed", ids[i])
			}
		}
		if len(s.Persistent()) != 0 {
			t.Fatalf("expected nothing open, got %v", s.Persistent())
		}
	})
}
