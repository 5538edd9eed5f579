package config

import "time"

const (
	SourceSystem = "system"
	SourceTermux = "termux"

	NotifierLog    = "log"
	NotifierTermux = "termux"
	NotifierMQTT   = "mqtt"
	NotifierKafka  = "kafka"
)

// MQTT holds the settings of the MQTT notifier.
type MQTT struct {
	URL      string `json:"url,omitempty"`
	Topic    string `json:"topic,omitempty"`
	ClientID string `json:"clientId,omitempty"`
}

// Kafka holds the settings of the Kafka notifier.
type Kafka struct {
	Brokers []string `json:"brokers,omitempty"`
	Topic   string   `json:"topic,omitempty"`
}

type Config interface {
	Threshold() int
	Interval() time.Duration
	Source() string
	BatteryIndex() int
	Notifiers() []string
	NotificationTitle() string
	NotificationID() string
	MQTT() MQTT
	Kafka() Kafka
	AllowNonRootAccess() bool

	SetThreshold(int)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
