package monitor

import (
	"testing"
	"time"
)

func TestCycleRecorderContinuous(t *testing.T) {
	tests := []struct {
		name     string
		times    []time.Time
		last     time.Duration
		interval time.Duration
		want     int
	}{
		{
			name: "gap breaks the run",
			times: []time.Time{
				time.Now().Add(-time.Second * 31).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 10).Add(-10 * time.Millisecond),
			},
			last:     time.Second * 40,
			interval: time.Second * 10,
			want:     2,
		},
		{
			name: "window limits the count",
			times: []time.Time{
				time.Now().Add(-time.Second * 70).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 60).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 40).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 30).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 10).Add(-10 * time.Millisecond),
			},
			last:     time.Second * 50,
			interval: time.Second * 10,
			want:     4,
		},
		{
			name: "stale last record",
			times: []time.Time{
				time.Now().Add(-time.Second * 40).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 30).Add(-10 * time.Millisecond),
				time.Now().Add(-time.Second * 20).Add(-10 * time.Millisecond),
			},
			last:     time.Second * 50,
			interval: time.Second * 10,
			want:     0,
		},
		{
			name: "five second cycles",
			times: []time.Time{
				time.Now().Add(-time.Second * 20),
				time.Now().Add(-time.Second * 15),
				time.Now().Add(-time.Second * 10),
				time.Now().Add(-time.Second * 5),
				time.Now(),
			},
			last:     time.Second * 30,
			interval: time.Second * 5,
			want:     5,
		},
		{
			name:     "empty",
			last:     time.Minute,
			interval: time.Second * 5,
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCycleRecorder(10)
			for _, ts := range tt.times {
				r.Add(ts)
			}
			if got := r.Continuous(tt.last, tt.interval); got != tt.want {
				t.Errorf("Continuous() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCycleRecorderCapacity(t *testing.T) {
	r := NewCycleRecorder(3)
	base := time.Now().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		r.Add(base.Add(time.Duration(i) * time.Second))
	}

	got := r.Since(time.Hour)
	if len(got) != 3 {
		t.Fatalf("Since() returned %d records, want 3", len(got))
	}
	if !got[0].Equal(base.Add(4 * time.Second).Round(0)) {
		t.Errorf("newest record = %v", got[0])
	}
	if !r.Last().Equal(got[0]) {
		t.Errorf("Last() = %v, want %v", r.Last(), got[0])
	}

	r.Clear()
	if !r.Last().IsZero() {
		t.Errorf("Last() after Clear() = %v", r.Last())
	}
}
