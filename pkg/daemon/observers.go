package daemon

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charlie0129/battmon/pkg/events"
	"github.com/charlie0129/battmon/pkg/monitor"
	"github.com/charlie0129/battmon/pkg/types"
)

// noticeTracker remembers the latest emitted message, i.e. what the ongoing
// notification shows right now.
type noticeTracker struct {
	mu  sync.RWMutex
	msg string
	at  time.Time
}

func (t *noticeTracker) Observe(_ context.Context, c monitor.Cycle) {
	if !c.Notice.Emit {
		return
	}
	t.mu.Lock()
	t.msg = c.Notice.Message
	t.at = c.Time
	t.mu.Unlock()
}

// Last returns the latest emitted message and when it was emitted.
func (t *noticeTracker) Last() (string, time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.msg, t.at, !t.at.IsZero()
}

func publishReading(_ context.Context, c monitor.Cycle) {
	sseHub.Publish(events.BatteryReading, events.NewReadingEvent(c))
}

func encodeEvent(name string, payload any) (events.Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return events.Event{}, err
	}
	return events.Event{Name: name, Data: b}, nil
}

func cycleStatus(c monitor.Cycle) types.CycleStatus {
	cs := types.CycleStatus{
		Seq:      c.Seq,
		Time:     c.Time,
		Valid:    c.Valid(),
		Level:    c.Raw.Level,
		Scale:    c.Raw.Scale,
		Status:   c.Raw.Status.String(),
		Percent:  c.Reading.Percent,
		Charging: c.Reading.Charging,
		Emit:     c.Notice.Emit,
		Unplug:   c.Notice.Unplug,
		Message:  c.Notice.Message,
	}
	if c.Err != nil {
		cs.Error = c.Err.Error()
	}
	return cs
}
