package daemon

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmon/pkg/battery"
	"github.com/charlie0129/battmon/pkg/config"
	"github.com/charlie0129/battmon/pkg/notify"
)

// NewSource builds the battery source named in c.
func NewSource(c config.Config) (battery.Source, error) {
	switch c.Source() {
	case config.SourceSystem:
		return battery.NewSystemSource(c.BatteryIndex()), nil
	case config.SourceTermux:
		return battery.NewTermuxSource(), nil
	default:
		return nil, fmt.Errorf("unknown battery source %q", c.Source())
	}
}

// NewNotifier builds one notifier per configured sink. On failure the sinks
// built so far are closed.
func NewNotifier(c config.Config) (notify.Multi, error) {
	var m notify.Multi
	for _, name := range c.Notifiers() {
		n, err := newNotifier(c, name)
		if err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("notifier %s: %w", name, err)
		}
		m = append(m, n)
	}
	return m, nil
}

func newNotifier(c config.Config, name string) (notify.Notifier, error) {
	id, title := c.NotificationID(), c.NotificationTitle()

	switch name {
	case config.NotifierLog:
		return notify.NewLogNotifier(id, title, logrus.StandardLogger()), nil
	case config.NotifierTermux:
		return notify.NewTermuxNotifier(id, title), nil
	case config.NotifierMQTT:
		mc := c.MQTT()
		return notify.NewMQTTNotifier(notify.MQTTOptions{
			URL:      mc.URL,
			Topic:    mc.Topic,
			ClientID: mc.ClientID,
			ID:       id,
			Title:    title,
		})
	case config.NotifierKafka:
		kc := c.Kafka()
		return notify.NewKafkaNotifier(notify.KafkaOptions{
			Brokers: kc.Brokers,
			Topic:   kc.Topic,
			ID:      id,
			Title:   title,
		})
	default:
		return nil, fmt.Errorf("unknown notifier %q", name)
	}
}
