package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32

	// Trigger rapidly 10 times
	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for debounce to complete
	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() {
		called.Store(true)
	})
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func writeTree(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// changeRecorder collects onChange calls safely.
type changeRecorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *changeRecorder) record(paths []string) {
	r.mu.Lock()
	r.calls = append(r.calls, paths)
	r.mu.Unlock()
}

func (r *changeRecorder) seen() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "scene.yaml")
	writeTree(t, tmpFile, "items: []\n")

	var rec changeRecorder
	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(rec.record),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Give watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	writeTree(t, tmpFile, "items:\n  - id: a\n")

	time.Sleep(300 * time.Millisecond)

	calls := rec.seen()
	if len(calls) == 0 {
		t.Fatal("expected change to be detected")
	}
	if calls[0][0] != tmpFile {
		t.Errorf("expected %s, got %v", tmpFile, calls[0])
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "scene.yaml")
	writeTree(t, tmpFile, "items: []\n")

	var rec changeRecorder
	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(rec.record),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	time.Sleep(50 * time.Millisecond)

	writeTree(t, filepath.Join(tmpDir, "other.yaml"), "items: []\n")
	time.Sleep(150 * time.Millisecond)

	if calls := rec.seen(); len(calls) != 0 {
		t.Errorf("unwatched file triggered a change: %v", calls)
	}
}

func TestWatcher_PollingCoalescesFiles(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.yaml")
	b := filepath.Join(tmpDir, "b.json")
	writeTree(t, a, "items: []\n")
	writeTree(t, b, "{}")

	var rec changeRecorder
	w, err := NewWatcher([]string{a, b},
		WithDebounceDuration(100*time.Millisecond),
		WithPollInterval(20*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(rec.record),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected watcher to be in polling mode")
	}

	time.Sleep(50 * time.Millisecond)
	writeTree(t, a, "items:\n  - id: a\n")
	writeTree(t, b, `{"items": []}`)

	time.Sleep(400 * time.Millisecond)

	calls := rec.seen()
	if len(calls) != 1 {
		t.Fatalf("expected one coalesced change, got %v", calls)
	}
	if len(calls[0]) != 2 || calls[0][0] != a || calls[0][1] != b {
		t.Errorf("expected both paths sorted, got %v", calls[0])
	}
}

func TestWatcher_ChangedChannel(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "scene.yaml")
	writeTree(t, tmpFile, "items: []\n")

	w, err := NewWatcher([]string{tmpFile},
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(100*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(tmpFile, []byte("items:\n  - id: new\n"), 0o644)
	}()

	select {
	case <-w.Changed():
	case <-time.After(time.Second):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv("CANOPY_FORCE_POLL", "yes")

	tmpFile := filepath.Join(t.TempDir(), "scene.yaml")
	writeTree(t, tmpFile, "items: []\n")

	w, err := NewWatcher([]string{tmpFile}, WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode when CANOPY_FORCE_POLL is set")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "scene.yaml")
	writeTree(t, tmpFile, "items: []\n")

	var (
		errMu    sync.Mutex
		gotError error
	)
	w, err := NewWatcher([]string{tmpFile},
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			errMu.Lock()
			gotError = err
			errMu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	errMu.Lock()
	receivedError := gotError
	errMu.Unlock()

	if !errors.Is(receivedError, ErrFileRemoved) {
		t.Errorf("expected ErrFileRemoved, got %v", receivedError)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "scene.yaml")
	writeTree(t, tmpFile, "items: []\n")

	w, err := NewWatcher([]string{tmpFile})
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("watcher should not be started before Start")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	w.Stop()
	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should be stopped")
	}
}

func TestNewWatcher_Options(t *testing.T) {
	if _, err := NewWatcher(nil); !errors.Is(err, ErrNoPaths) {
		t.Errorf("expected ErrNoPaths, got %v", err)
	}
	w, err := NewWatcher([]string{"relative.yaml"}, WithPollInterval(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(w.Paths()[0]) {
		t.Errorf("expected absolute path, got %s", w.Paths()[0])
	}
	if w.PollInterval() != time.Minute {
		t.Errorf("expected 1m poll interval, got %v", w.PollInterval())
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {" on ", true},
		{"0", false}, {"false", false}, {"", false}, {"maybe", false},
	}
	for _, tt := range tests {
		t.Setenv("CANOPY_TEST_BOOL", tt.value)
		if got := envBool("CANOPY_TEST_BOOL"); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
