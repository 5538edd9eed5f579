package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaNotifierKeysByID(t *testing.T) {
	w := &fakeWriter{}
	n := &KafkaNotifier{w: w, id: DefaultID, title: DefaultTitle}

	for _, msg := range []string{"Battery at 78%. Charging...", "Battery at 80%. Please unplug your charger to prevent overcharging."} {
		if err := n.Show(context.Background(), msg); err != nil {
			t.Fatalf("Show() error: %v", err)
		}
	}

	if len(w.msgs) != 2 {
		t.Fatalf("wrote %d messages, want 2", len(w.msgs))
	}
	for _, m := range w.msgs {
		if string(m.Key) != DefaultID {
			t.Errorf("key = %q, want %q", m.Key, DefaultID)
		}
	}
	if p := decodePayload(t, w.msgs[1].Value); p.Message != "Battery at 80%. Please unplug your charger to prevent overcharging." {
		t.Errorf("unexpected payload %+v", p)
	}

	if err := n.Close(); err != nil || !w.closed {
		t.Errorf("Close() = %v, closed=%t", err, w.closed)
	}
}

func TestKafkaNotifierWriteError(t *testing.T) {
	n := &KafkaNotifier{w: &fakeWriter{err: errors.New("leader not available")}, id: DefaultID}
	if err := n.Show(context.Background(), "x"); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestNewKafkaNotifierValidates(t *testing.T) {
	if _, err := NewKafkaNotifier(KafkaOptions{Topic: "t"}); err == nil {
		t.Errorf("expected error without brokers")
	}
	if _, err := NewKafkaNotifier(KafkaOptions{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Errorf("expected error without topic")
	}
	n, err := NewKafkaNotifier(KafkaOptions{Brokers: []string{"localhost:9092"}, Topic: "battmon.notifications", ID: DefaultID})
	if err != nil {
		t.Fatalf("NewKafkaNotifier() error: %v", err)
	}
	_ = n.Close()
}
