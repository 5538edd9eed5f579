package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	mqttQoS            = 1
	mqttPublishTimeout = 5 * time.Second
	mqttQuiesceMillis  = 250
)

// MQTTOptions configures an MQTTNotifier.
type MQTTOptions struct {
	// URL of the broker. Supported schemes: mqtt, mqtts, ws, wss.
	URL string
	// Topic the notification is published to.
	Topic string
	// ClientID defaults to battmon-<uuid>.
	ClientID string
	ID       string
	Title    string
}

// MQTTNotifier publishes the notification as a retained message, so the
// broker only ever holds the latest content for the topic.
type MQTTNotifier struct {
	client mqtt.Client
	topic  string
	id     string
	title  string
}

// brokerURL converts the user-facing URL to the form paho expects.
func brokerURL(u *url.URL, raw string) (string, bool, error) {
	switch u.Scheme {
	case "ws":
		return raw, false, nil
	case "wss":
		return raw, true, nil
	case "mqtt":
		return strings.Replace(raw, "mqtt://", "tcp://", 1), false, nil
	case "mqtts":
		return strings.Replace(raw, "mqtts://", "ssl://", 1), true, nil
	default:
		return "", false, fmt.Errorf("unsupported protocol scheme: %s (supported: ws, wss, mqtt, mqtts)", u.Scheme)
	}
}

// NewMQTTNotifier connects to the broker and returns a notifier.
func NewMQTTNotifier(opts MQTTOptions) (*MQTTNotifier, error) {
	if opts.Topic == "" {
		return nil, pkgerrors.New("mqtt topic is empty")
	}

	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid MQTT URL")
	}

	broker, secure, err := brokerURL(parsed, opts.URL)
	if err != nil {
		return nil, err
	}

	clientID := opts.ClientID
	if clientID == "" {
		clientID = "battmon-" + uuid.NewString()
	}

	o := mqtt.NewClientOptions()
	o.AddBroker(broker)
	o.SetClientID(clientID)
	o.SetCleanSession(true)
	o.SetAutoReconnect(true)
	o.SetKeepAlive(60 * time.Second)
	o.SetConnectTimeout(5 * time.Second)
	o.SetMaxReconnectInterval(10 * time.Second)
	if secure {
		o.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	if parsed.User != nil {
		o.SetUsername(parsed.User.Username())
		password, _ := parsed.User.Password()
		o.SetPassword(password)
	}

	o.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logrus.WithError(err).Warn("MQTT connection lost")
	})
	o.SetOnConnectHandler(func(_ mqtt.Client) {
		logrus.WithField("broker", broker).Debug("MQTT connected")
	})

	client := mqtt.NewClient(o)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, pkgerrors.Wrapf(token.Error(), "failed to connect to MQTT broker %s", broker)
	}

	return newMQTTNotifier(client, opts), nil
}

func newMQTTNotifier(client mqtt.Client, opts MQTTOptions) *MQTTNotifier {
	return &MQTTNotifier{
		client: client,
		topic:  opts.Topic,
		id:     opts.ID,
		title:  opts.Title,
	}
}

func (n *MQTTNotifier) Show(ctx context.Context, message string) error {
	b, err := newPayload(n.id, n.title, message)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to marshal notification")
	}

	token := n.client.Publish(n.topic, mqttQoS, true, b)

	timeout := mqttPublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	select {
	case <-token.Done():
	case <-ctx.Done():
		return pkgerrors.Wrapf(ctx.Err(), "publish to %s", n.topic)
	case <-time.After(timeout):
		return pkgerrors.Errorf("publish to %s timed out after %s", n.topic, timeout)
	}

	if err := token.Error(); err != nil {
		return pkgerrors.Wrapf(err, "failed to publish to %s", n.topic)
	}
	return nil
}

func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(mqttQuiesceMillis)
	return nil
}
