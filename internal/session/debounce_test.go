package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Close()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestDebouncerFlushBypassesDelay(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Close()

	var pending atomic.Int32
	d.Trigger(func() { pending.Add(1) })

	ran := false
	d.Flush(func() { ran = true })
	if !ran {
		t.Fatalf("Flush did not run immediately")
	}

	time.Sleep(50 * time.Millisecond)
	if pending.Load() != 0 {
		t.Fatalf("Flush must cancel the pending call")
	}
}

func TestDebouncerClose(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Close()

	d.Trigger(func() { calls.Add(1) })
	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("calls after Close = %d, want 0", calls.Load())
	}
}
