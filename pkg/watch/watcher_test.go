package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_TriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cmonkey_run.db")
	if err := os.WriteFile(dbPath, []byte("initial"), 0644); err != nil {
		t.Fatalf("failed to create watched file: %v", err)
	}

	w, err := New(&Config{Path: dbPath, DebounceInterval: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func() error {
			calls.Add(1)
			return nil
		})
	}()

	// A burst of writes debounces into one callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(dbPath, []byte("changed"), 0644); err != nil {
			t.Fatalf("failed to modify watched file: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("onChange was not called within 2s")
		case <-time.After(20 * time.Millisecond):
		}
	}

	// Let the debounce window pass, then check the burst collapsed.
	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 debounced callback, got %d", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cmonkey_run.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create watched file: %v", err)
	}

	w, err := New(&Config{Path: dbPath, DebounceInterval: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go w.Run(ctx, func() error {
		calls.Add(1)
		return nil
	})

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("noise"), 0644); err != nil {
		t.Fatalf("failed to write unrelated file: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no callbacks for unrelated files, got %d", got)
	}
}

func TestWatcher_WalFileCounts(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cmonkey_run.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create watched file: %v", err)
	}

	w, err := New(&Config{Path: dbPath, DebounceInterval: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go w.Run(ctx, func() error {
		calls.Add(1)
		return nil
	})

	if err := os.WriteFile(dbPath+"-wal", []byte("wal"), 0644); err != nil {
		t.Fatalf("failed to write wal file: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("wal file change did not trigger onChange")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 callback after burst, got %d", got)
	}
}

func TestDebouncer_SerialCallbacks(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	// A trigger landing while the previous callback still runs must
	// wait for it: two exports writing the same artifacts concurrently
	// would corrupt the output directory.
	var inFlight, calls atomic.Int32
	var overlapped atomic.Bool
	release := make(chan struct{})
	observe := func(block bool) {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		if block {
			<-release
		}
		inFlight.Add(-1)
		calls.Add(1)
	}

	d.Trigger(func() { observe(true) })

	// Wait for the first callback to start, then trigger again while
	// it is blocked.
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { observe(false) })
	time.Sleep(50 * time.Millisecond)
	close(release)

	deadline := time.After(2 * time.Second)
	for calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected 2 callbacks, got %d", calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
	if overlapped.Load() {
		t.Error("debounced callbacks ran concurrently")
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no callback after Stop, got %d", got)
	}
}
