package watch

import (
	"context"
	"testing"
	"time"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	if _, err := NewScheduler("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("* * * * *")
	if err != nil {
		t.Fatalf("NewScheduler() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, func() error { return nil }); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Cancellation stops the scheduler; Stop must also be safe to call
	// again afterwards.
	cancel()
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
