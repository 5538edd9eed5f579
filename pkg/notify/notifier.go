// Package notify delivers battery notices to the user.
//
// Every Notifier keeps a single ongoing notification identified by a fixed
// id. Showing a new message replaces the previous content instead of
// stacking another notification.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"
)

const (
	// DefaultID is the id of the ongoing notification.
	DefaultID = "1"
	// DefaultTitle is the title of the ongoing notification.
	DefaultTitle = "Battery Manager"
	// StartupMessage is shown once when the daemon starts.
	StartupMessage = "Battery Monitor Active"
)

// Notifier posts or replaces the ongoing notification.
type Notifier interface {
	Show(ctx context.Context, message string) error
}

// Payload is the wire form used by notifiers that publish to a broker.
type Payload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Ts      int64  `json:"ts"`
}

func newPayload(id, title, message string) ([]byte, error) {
	return json.Marshal(Payload{
		ID:      id,
		Title:   title,
		Message: message,
		Ts:      time.Now().Unix(),
	})
}

// Multi shows every message on all of its notifiers.
type Multi []Notifier

// Show calls Show on every notifier, even if some of them fail.
func (m Multi) Show(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Show(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier that holds a connection.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if c, ok := n.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
