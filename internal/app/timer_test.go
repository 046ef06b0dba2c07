package app

import (
	"testing"
	"time"
)

func TestIntervalTickerCoercesBadPeriods(t *testing.T) {
	ticker := NewIntervalTicker(0)
	if ticker.period != time.Second {
		t.Fatalf("period = %v, want 1s fallback", ticker.period)
	}
	ticker.SetPeriod(-5 * time.Millisecond)
	if ticker.period != time.Second {
		t.Fatalf("period after SetPeriod = %v, want 1s fallback", ticker.period)
	}
}

func TestIntervalTickerFires(t *testing.T) {
	ticker := NewIntervalTicker(time.Nanosecond)
	// The first call only anchors the clock.
	if ticker.Fire() {
		t.Fatal("ticker must not fire before a period has elapsed")
	}
	time.Sleep(2 * time.Millisecond)
	if !ticker.Fire() {
		t.Fatal("ticker should fire after the period has elapsed")
	}
}

func TestIntervalTickerReset(t *testing.T) {
	ticker := NewIntervalTicker(time.Nanosecond)
	ticker.Fire()
	time.Sleep(2 * time.Millisecond)
	ticker.Reset()
	if ticker.Fire() {
		t.Fatal("Reset must push the next firing a full period away")
	}
}
