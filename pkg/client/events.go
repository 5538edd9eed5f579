package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/r3labs/sse/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/cenkalti/backoff.v1"

	"github.com/charlie0129/battmon/pkg/events"
)

// SubscribeEvents streams the daemon's server-sent events. It returns once
// the daemon accepted the subscription. The channel is closed when ctx is
// done or the stream ends; the stream is not reconnected.
func (c *Client) SubscribeEvents(ctx context.Context) (<-chan events.Event, error) {
	sc := sse.NewClient("http://unix/events")
	sc.Connection = c.httpClient
	sc.ReconnectStrategy = &backoff.StopBackOff{}

	// Only one connection attempt is made, so this is written at most once.
	accepted := make(chan error, 1)
	sc.ResponseValidator = func(_ *sse.Client, resp *http.Response) error {
		err := checkEventsResponse(resp)
		if err != nil {
			_ = resp.Body.Close()
		}
		accepted <- err
		return err
	}

	ch := make(chan events.Event, 16)
	done := make(chan error, 1)
	go func() {
		defer close(ch)

		err := sc.SubscribeWithContext(ctx, "", func(msg *sse.Event) {
			ev := events.Event{Name: string(msg.Event), Data: json.RawMessage(msg.Data)}
			select {
			case ch <- ev:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			logrus.Debugf("event stream ended: %v", err)
		}
		done <- err
	}()

	select {
	case err := <-accepted:
		if err != nil {
			return nil, err
		}
		return ch, nil
	case err := <-done:
		// The stream can end right after it was accepted.
		select {
		case aerr := <-accepted:
			if aerr != nil {
				return nil, aerr
			}
			return ch, nil
		default:
		}
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}
}

func checkEventsResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET /events: %w", ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("got %d subscribing to events", resp.StatusCode)
	}
	return nil
}
