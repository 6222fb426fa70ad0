package gate

import "time"

// Tracker counts consecutive qualifying Enter presses inside a sliding
// time window. It is single-writer: only the owning Gate calls into it,
// always on the page's main thread.
type Tracker struct {
	count int
	last  time.Time
	armed bool
}

// PressResult is the tracker state after one qualifying press.
type PressResult struct {
	Count            int
	ThresholdReached bool
}

// Press records a qualifying press at now. If the gap since the previous
// press exceeds window the sequence restarts at one. The tracker does not
// auto-reset when the threshold is reached; the caller resets after it
// allows the action through.
func (t *Tracker) Press(now time.Time, window time.Duration, required int) PressResult {
	if t.armed && now.Sub(t.last) > window {
		t.count = 0
	}
	t.count++
	t.last = now
	t.armed = true
	return PressResult{Count: t.count, ThresholdReached: t.count >= required}
}

// Count returns the current consecutive press count.
func (t *Tracker) Count() int { return t.count }

// Reset forces the tracker back to idle.
func (t *Tracker) Reset() {
	t.count = 0
	t.armed = false
}
