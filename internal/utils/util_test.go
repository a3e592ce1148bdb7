package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCollapsesBursts(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	done := make(chan struct{}, 1)

	for i := 0; i < 5; i++ {
		d.Debounce(20*time.Millisecond, func() {
			calls.Add(1)
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if d.LastCalled().IsZero() {
		t.Error("LastCalled not recorded")
	}
}

func TestDebounceStop(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	d.Debounce(time.Hour, func() { calls.Add(1) })

	if !d.Stop() {
		t.Error("Stop should report the pending call")
	}
	if d.Stop() {
		t.Error("second Stop should find nothing pending")
	}
	if calls.Load() != 0 {
		t.Error("stopped call ran")
	}
}
