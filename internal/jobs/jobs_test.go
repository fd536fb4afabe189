package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) SweepOverdue(context.Context) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestScheduler_RunsSweep(t *testing.T) {
	j := New(nil)
	sw := &countingSweeper{}
	if err := j.EveryOverdueSweep(time.Hour, sw); err != nil {
		t.Fatalf("EveryOverdueSweep: %v", err)
	}
	if j.Jobs() != 1 {
		t.Fatalf("jobs = %d", j.Jobs())
	}
	j.Start()
	defer j.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for sw.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sw.calls.Load() == 0 {
		t.Fatal("sweep did not run on start")
	}
}

func TestScheduler_RejectsZeroInterval(t *testing.T) {
	if err := New(nil).EveryOverdueSweep(0, &countingSweeper{}); err == nil {
		t.Fatal("expected error")
	}
}
