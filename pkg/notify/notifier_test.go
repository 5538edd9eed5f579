package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

type recordingNotifier struct {
	messages []string
	err      error
	closed   bool
}

func (r *recordingNotifier) Show(_ context.Context, message string) error {
	r.messages = append(r.messages, message)
	return r.err
}

func (r *recordingNotifier) Close() error {
	r.closed = true
	return nil
}

func TestMultiShowsOnAll(t *testing.T) {
	a := &recordingNotifier{err: errors.New("broker down")}
	b := &recordingNotifier{}

	m := Multi{a, b}
	err := m.Show(context.Background(), "Battery at 50%. Charging...")
	if err == nil || !strings.Contains(err.Error(), "broker down") {
		t.Fatalf("Show() error = %v, want the failing notifier's error", err)
	}
	if len(b.messages) != 1 {
		t.Errorf("second notifier got %d messages, want 1", len(b.messages))
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !a.closed || !b.closed {
		t.Errorf("Close() did not close all notifiers")
	}
}

func TestLogNotifier(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	n := NewLogNotifier(DefaultID, DefaultTitle, logger)

	if err := n.Show(context.Background(), StartupMessage); err != nil {
		t.Fatalf("Show() error: %v", err)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("no log entry written")
	}
	if entry.Level != logrus.InfoLevel || entry.Message != StartupMessage {
		t.Errorf("got %s %q", entry.Level, entry.Message)
	}
	if entry.Data["id"] != DefaultID || entry.Data["title"] != DefaultTitle {
		t.Errorf("unexpected fields %v", entry.Data)
	}
}

func TestTermuxNotifier(t *testing.T) {
	orig := runCommand
	defer func() { runCommand = orig }()

	var gotName string
	var gotArgs []string
	runCommand = func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	t.Setenv("PREFIX", "/opt/termux")
	n := NewTermuxNotifier(DefaultID, DefaultTitle)
	if err := n.Show(context.Background(), "Battery at 80%. Please unplug your charger to prevent overcharging."); err != nil {
		t.Fatalf("Show() error: %v", err)
	}

	if gotName != "/opt/termux/bin/termux-notification" {
		t.Errorf("ran %q", gotName)
	}
	want := []string{
		"--id", "1",
		"-t", "Battery Manager",
		"-c", "Battery at 80%. Please unplug your charger to prevent overcharging.",
		"--priority", "low",
		"--ongoing",
	}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}

	runCommand = func(context.Context, string, ...string) error { return errors.New("exit status 1") }
	if err := n.Show(context.Background(), "x"); err == nil {
		t.Errorf("expected error from failing command")
	}
}

func TestBrokerURL(t *testing.T) {
	tests := []struct {
		in         string
		want       string
		wantSecure bool
		wantErr    bool
	}{
		{in: "mqtt://broker:1883", want: "tcp://broker:1883"},
		{in: "mqtts://user:pw@broker:8883", want: "ssl://user:pw@broker:8883", wantSecure: true},
		{in: "ws://broker/mqtt", want: "ws://broker/mqtt"},
		{in: "wss://broker/mqtt", want: "wss://broker/mqtt", wantSecure: true},
		{in: "http://broker", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := url.Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			got, secure, err := brokerURL(u, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("brokerURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || secure != tt.wantSecure {
				t.Errorf("brokerURL() = %q, %t; want %q, %t", got, secure, tt.want, tt.wantSecure)
			}
		})
	}
}

func decodePayload(t *testing.T, b []byte) Payload {
	t.Helper()
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("invalid payload %s: %v", b, err)
	}
	return p
}
