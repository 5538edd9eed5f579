package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type doneToken struct {
	err error
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Error() error                   { return t.err }
func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMQTTClient struct {
	mqtt.Client

	topic        string
	qos          byte
	retained     bool
	payload      []byte
	err          error
	disconnected bool
}

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.qos = qos
	c.retained = retained
	c.payload = payload.([]byte)
	return &doneToken{err: c.err}
}

func (c *fakeMQTTClient) Disconnect(uint) {
	c.disconnected = true
}

func TestMQTTNotifierPublishesRetained(t *testing.T) {
	c := &fakeMQTTClient{}
	n := newMQTTNotifier(c, MQTTOptions{Topic: "battmon/phone/notification", ID: DefaultID, Title: DefaultTitle})

	if err := n.Show(context.Background(), "Battery at 79%. Charging..."); err != nil {
		t.Fatalf("Show() error: %v", err)
	}

	if c.topic != "battmon/phone/notification" || c.qos != mqttQoS || !c.retained {
		t.Errorf("published to %q qos=%d retained=%t", c.topic, c.qos, c.retained)
	}
	p := decodePayload(t, c.payload)
	if p.ID != DefaultID || p.Title != DefaultTitle || p.Message != "Battery at 79%. Charging..." || p.Ts == 0 {
		t.Errorf("unexpected payload %+v", p)
	}

	if err := n.Close(); err != nil || !c.disconnected {
		t.Errorf("Close() = %v, disconnected=%t", err, c.disconnected)
	}
}

func TestMQTTNotifierPublishError(t *testing.T) {
	c := &fakeMQTTClient{err: errors.New("not connected")}
	n := newMQTTNotifier(c, MQTTOptions{Topic: "t"})
	if err := n.Show(context.Background(), "x"); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestNewMQTTNotifierValidates(t *testing.T) {
	if _, err := NewMQTTNotifier(MQTTOptions{URL: "mqtt://localhost:1883"}); err == nil {
		t.Errorf("expected error for empty topic")
	}
	if _, err := NewMQTTNotifier(MQTTOptions{URL: "ftp://localhost", Topic: "t"}); err == nil {
		t.Errorf("expected error for unsupported scheme")
	}
}
