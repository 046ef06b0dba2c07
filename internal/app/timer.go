package app

import "time"

// IntervalTicker gates periodic actions (slideshow reseeds) on wall-clock
// time, independent of the render frame rate.
type IntervalTicker struct {
	period      time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewIntervalTicker constructs a ticker firing once per period.
func NewIntervalTicker(period time.Duration) *IntervalTicker {
	if period <= 0 {
		period = time.Second
	}
	return &IntervalTicker{period: period}
}

// SetPeriod changes the firing interval.
func (t *IntervalTicker) SetPeriod(period time.Duration) {
	if period <= 0 {
		period = time.Second
	}
	t.period = period
}

// Fire reports whether a full period has elapsed since the last firing.
func (t *IntervalTicker) Fire() bool {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
	}
	t.accumulator += now.Sub(t.last)
	t.last = now
	if t.accumulator >= t.period {
		t.accumulator -= t.period
		return true
	}
	return false
}

// Reset clears accumulated time, so the next firing is a full period away.
func (t *IntervalTicker) Reset() {
	t.accumulator = 0
	t.last = time.Time{}
}
