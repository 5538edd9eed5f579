package monitor

import (
	"sync"
	"time"
)

// CycleRecorder keeps the start times of the last N cycles. A gap larger
// than the interval means cycles were missed, usually because the host was
// asleep.
type CycleRecorder struct {
	maxRecords int
	times      []time.Time
	mu         sync.Mutex
}

// NewCycleRecorder returns a recorder holding up to maxRecords times.
func NewCycleRecorder(maxRecords int) *CycleRecorder {
	return &CycleRecorder{
		maxRecords: maxRecords,
		times:      make([]time.Time, 0, maxRecords),
	}
}

// Add records t.
func (r *CycleRecorder) Add(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strip the monotonic reading, so time.Since stays accurate across
	// system sleep.
	t = t.Round(0)

	if len(r.times) >= r.maxRecords {
		r.times = r.times[1:]
	}
	r.times = append(r.times, t)
}

// Clear drops all records.
func (r *CycleRecorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.times = r.times[:0]
}

// Last returns the latest record, or the zero time.
func (r *CycleRecorder) Last() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.times) == 0 {
		return time.Time{}
	}
	return r.times[len(r.times)-1]
}

// Since returns the records younger than last, newest first.
func (r *CycleRecorder) Since(last time.Duration) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []time.Time
	for i := len(r.times) - 1; i >= 0; i-- {
		if time.Since(r.times[i]) > last {
			break
		}
		records = append(records, r.times[i])
	}
	return records
}

// Continuous returns how many of the records within last form an unbroken
// run ending now, given the expected interval between cycles. Each cycle may
// take up to one extra second.
func (r *CycleRecorder) Continuous(last, interval time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	slack := interval + time.Second

	if len(r.times) == 0 || time.Since(r.times[len(r.times)-1]) >= slack {
		return 0
	}

	count := 0
	for i := len(r.times) - 1; i >= 0; i-- {
		record := r.times[i]
		if time.Since(record) > last {
			break
		}

		next := record
		if i+1 < len(r.times) {
			next = r.times[i+1]
		}
		if next.Sub(record) >= slack {
			break
		}
		count++
	}

	return count
}

// FormatRelative renders times as durations before now.
func FormatRelative(times []time.Time) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, time.Since(t).Round(time.Millisecond).String())
	}
	return out
}
