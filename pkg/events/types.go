package events

import (
	"encoding/json"

	"github.com/charlie0129/battmon/pkg/monitor"
)

// Event name constants
const (
	BatteryReading = "battery.reading"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// ReadingEvent is the typed payload for battery.reading. It is published for
// every monitor cycle, including the ones without a usable reading.
type ReadingEvent struct {
	Seq      uint64 `json:"seq"`
	Valid    bool   `json:"valid"`
	Percent  int    `json:"percent"`
	Charging bool   `json:"charging"`
	Status   string `json:"status"`
	Emit     bool   `json:"emit"`
	Unplug   bool   `json:"unplug"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Ts       int64  `json:"ts"`
}

// NewReadingEvent converts a monitor cycle to its event payload.
func NewReadingEvent(c monitor.Cycle) ReadingEvent {
	ev := ReadingEvent{
		Seq:      c.Seq,
		Valid:    c.Valid(),
		Percent:  c.Reading.Percent,
		Charging: c.Reading.Charging,
		Status:   c.Raw.Status.String(),
		Emit:     c.Notice.Emit,
		Unplug:   c.Notice.Unplug,
		Message:  c.Notice.Message,
		Ts:       c.Time.Unix(),
	}
	if c.Err != nil {
		ev.Error = c.Err.Error()
	}
	return ev
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.ReadingEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Percent, payload.Charging)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
