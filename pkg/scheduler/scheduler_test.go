package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestJobRunsAndErrorsAreContained(t *testing.T) {
	s := New(time.UTC, time.Second)
	var runs int32
	if err := s.Add("tick", "@every 1s", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("boom")
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&runs) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("job ran %d times, want at least 2", atomic.LoadInt32(&runs))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestAddRejectsBadSpec(t *testing.T) {
	s := New(time.UTC, time.Second)
	if err := s.Add("bad", "every minute", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected invalid spec to be rejected")
	}
}
