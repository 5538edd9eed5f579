package config

import (
	"encoding/json"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmon/pkg/notify"
	"github.com/charlie0129/battmon/pkg/utils/ptr"
)

const (
	MinThreshold = 10
	MaxThreshold = 100

	minIntervalMilliseconds = 1000
)

var (
	defaultFileConfig = &RawFileConfig{
		Threshold:            ptr.To(80),
		IntervalMilliseconds: ptr.To(5000),
		Source:               ptr.To(SourceSystem),
		BatteryIndex:         ptr.To(0),
		Notifiers:            []string{NotifierLog},
		NotificationTitle:    ptr.To(notify.DefaultTitle),
		NotificationID:       ptr.To(notify.DefaultID),
		MQTT: &MQTT{
			Topic: "battmon/notification",
		},
		Kafka: &Kafka{
			Topic: "battmon.notifications",
		},
		AllowNonRootAccess: ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	Threshold            *int     `json:"threshold,omitempty"`
	IntervalMilliseconds *int     `json:"intervalMilliseconds,omitempty"`
	Source               *string  `json:"source,omitempty"`
	BatteryIndex         *int     `json:"batteryIndex,omitempty"`
	Notifiers            []string `json:"notifiers,omitempty"`
	NotificationTitle    *string  `json:"notificationTitle,omitempty"`
	NotificationID       *string  `json:"notificationId,omitempty"`
	MQTT                 *MQTT    `json:"mqtt,omitempty"`
	Kafka                *Kafka   `json:"kafka,omitempty"`
	AllowNonRootAccess   *bool    `json:"allowNonRootAccess,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	m := c.MQTT()
	k := c.Kafka()

	rawConfig := &RawFileConfig{
		Threshold:            ptr.To(c.Threshold()),
		IntervalMilliseconds: ptr.To(int(c.Interval() / time.Millisecond)),
		Source:               ptr.To(c.Source()),
		BatteryIndex:         ptr.To(c.BatteryIndex()),
		Notifiers:            c.Notifiers(),
		NotificationTitle:    ptr.To(c.NotificationTitle()),
		NotificationID:       ptr.To(c.NotificationID()),
		MQTT:                 &m,
		Kafka:                &k,
		AllowNonRootAccess:   ptr.To(c.AllowNonRootAccess()),
	}

	return rawConfig, nil
}

// Path returns the file the config is loaded from and saved to.
func (f *File) Path() string {
	return f.filepath
}

func (f *File) rlock() func() {
	if f.c == nil {
		panic("config is nil")
	}
	f.mu.RLock()
	return f.mu.RUnlock
}

func (f *File) Threshold() int {
	defer f.rlock()()

	t := ptr.Deref(f.c.Threshold, *defaultFileConfig.Threshold)
	if t < MinThreshold || t > MaxThreshold {
		return *defaultFileConfig.Threshold
	}
	return t
}

func (f *File) Interval() time.Duration {
	defer f.rlock()()

	ms := ptr.Deref(f.c.IntervalMilliseconds, *defaultFileConfig.IntervalMilliseconds)
	if ms < minIntervalMilliseconds {
		ms = minIntervalMilliseconds
	}
	return time.Duration(ms) * time.Millisecond
}

func (f *File) Source() string {
	defer f.rlock()()

	return ptr.Deref(f.c.Source, *defaultFileConfig.Source)
}

func (f *File) BatteryIndex() int {
	defer f.rlock()()

	return ptr.Deref(f.c.BatteryIndex, *defaultFileConfig.BatteryIndex)
}

func (f *File) Notifiers() []string {
	defer f.rlock()()

	if len(f.c.Notifiers) == 0 {
		return slices.Clone(defaultFileConfig.Notifiers)
	}
	return slices.Clone(f.c.Notifiers)
}

func (f *File) NotificationTitle() string {
	defer f.rlock()()

	return ptr.Deref(f.c.NotificationTitle, *defaultFileConfig.NotificationTitle)
}

func (f *File) NotificationID() string {
	defer f.rlock()()

	return ptr.Deref(f.c.NotificationID, *defaultFileConfig.NotificationID)
}

func (f *File) MQTT() MQTT {
	defer f.rlock()()

	m := *defaultFileConfig.MQTT
	if f.c.MQTT != nil {
		m.URL = f.c.MQTT.URL
		m.ClientID = f.c.MQTT.ClientID
		if f.c.MQTT.Topic != "" {
			m.Topic = f.c.MQTT.Topic
		}
	}
	return m
}

func (f *File) Kafka() Kafka {
	defer f.rlock()()

	k := *defaultFileConfig.Kafka
	if f.c.Kafka != nil {
		k.Brokers = slices.Clone(f.c.Kafka.Brokers)
		if f.c.Kafka.Topic != "" {
			k.Topic = f.c.Kafka.Topic
		}
	}
	return k
}

func (f *File) AllowNonRootAccess() bool {
	defer f.rlock()()

	return ptr.Deref(f.c.AllowNonRootAccess, *defaultFileConfig.AllowNonRootAccess)
}

func (f *File) SetThreshold(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	if i < MinThreshold || i > MaxThreshold {
		panic("threshold must be between 10 and 100")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Threshold = &i
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.AllowNonRootAccess = &b
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}

	if err := validate(&conf); err != nil {
		return pkgerrors.Wrapf(err, "invalid config in file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func validate(c *RawFileConfig) error {
	if c.Threshold != nil && (*c.Threshold < MinThreshold || *c.Threshold > MaxThreshold) {
		return pkgerrors.Errorf("threshold must be between %d and %d, got %d", MinThreshold, MaxThreshold, *c.Threshold)
	}
	if c.Source != nil && *c.Source != SourceSystem && *c.Source != SourceTermux {
		return pkgerrors.Errorf("unknown source %q", *c.Source)
	}
	for _, n := range c.Notifiers {
		switch n {
		case NotifierLog, NotifierTermux, NotifierMQTT, NotifierKafka:
		default:
			return pkgerrors.Errorf("unknown notifier %q", n)
		}
	}
	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"threshold":          f.Threshold(),
		"interval":           f.Interval().String(),
		"source":             f.Source(),
		"batteryIndex":       f.BatteryIndex(),
		"notifiers":          f.Notifiers(),
		"notificationId":     f.NotificationID(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
	}
}
