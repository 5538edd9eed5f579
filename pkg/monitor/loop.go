// Package monitor runs the battery monitor loop.
//
// A Loop samples a battery.Source at a fixed interval, decides whether the
// ongoing notification should be updated, and hands every cycle to its
// observers. A display observer sees every reading. A notifier observer
// only acts on emitting cycles. A single loop serves all of them.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmon/pkg/battery"
)

// DefaultInterval is the pause between the end of a cycle and the start of
// the next one.
const DefaultInterval = 5 * time.Second

// ErrAlreadyRunning is returned by Run when the loop is already running.
var ErrAlreadyRunning = errors.New("monitor loop already running")

// Settings are read at the start of every cycle, so changes apply from the
// next cycle on.
type Settings interface {
	Threshold() int
	Interval() time.Duration
}

// Cycle is one poll, decide and (maybe) emit round.
type Cycle struct {
	Seq     uint64
	Time    time.Time
	Raw     battery.Raw
	Reading battery.Reading
	Notice  Notice
	// Err is set when the battery could not be read or the reading was
	// invalid. Nothing is emitted for such a cycle.
	Err error
}

// Valid reports whether the cycle has a usable reading.
func (c Cycle) Valid() bool {
	return c.Err == nil
}

// Option configures a Loop.
type Option func(*Loop)

// WithMetrics records loop activity on m.
func WithMetrics(m *Metrics) Option {
	return func(l *Loop) { l.metrics = m }
}

// WithRecorder records cycle times on r instead of a private recorder.
func WithRecorder(r *CycleRecorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// Loop is the battery monitor loop.
type Loop struct {
	source   battery.Source
	settings Settings
	recorder *CycleRecorder
	metrics  *Metrics

	// cycleMu serializes cycles, so a forced cycle never overlaps a
	// scheduled one and observers see cycles in order.
	cycleMu      sync.Mutex
	seq          uint64
	lastLogged   cycleStatus
	lastLoggedAt time.Time

	mu        sync.RWMutex
	observers []Observer
	last      Cycle
	hasLast   bool
	running   bool
}

// NewLoop returns a loop reading from source.
func NewLoop(source battery.Source, settings Settings, opts ...Option) *Loop {
	l := &Loop{
		source:   source,
		settings: settings,
	}
	for _, o := range opts {
		o(l)
	}
	if l.recorder == nil {
		l.recorder = NewCycleRecorder(60)
	}
	return l
}

// Subscribe adds o to the observers. Observers are called synchronously from
// the cycle and must not call RunOnce.
func (l *Loop) Subscribe(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.observers = append(l.observers, o)
}

// Last returns the latest cycle.
func (l *Loop) Last() (Cycle, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.last, l.hasLast
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.running
}

// Recorder returns the cycle recorder.
func (l *Loop) Recorder() *CycleRecorder {
	return l.recorder
}

func (l *Loop) interval() time.Duration {
	if d := l.settings.Interval(); d > 0 {
		return d
	}
	return DefaultInterval
}

// Run runs cycles until ctx is done, pausing for the configured interval
// after each one. It returns nil once ctx is done, leaving no timer behind.
// A returned loop can be started again.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
		logrus.Debug("monitor loop stopped")
	}()

	logrus.WithField("interval", l.interval()).Debug("monitor loop starts")

	for {
		if ctx.Err() != nil {
			return nil
		}

		l.RunOnce(ctx)

		timer := time.NewTimer(l.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunOnce runs a single cycle and returns it.
func (l *Loop) RunOnce(ctx context.Context) Cycle {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()

	l.seq++
	c := Cycle{Seq: l.seq, Time: time.Now()}

	l.checkMissedCycles(c.Time)
	l.recorder.Add(c.Time)

	raw, err := l.source.Read(ctx)
	c.Raw = raw
	if err == nil {
		c.Reading, err = raw.Reading()
	}
	if err != nil {
		c.Err = err
	} else {
		c.Notice = Decide(c.Reading, l.settings.Threshold())
	}

	l.logCycle(ctx, c)
	l.metrics.observe(c)

	l.mu.Lock()
	l.last = c
	l.hasLast = true
	observers := make([]Observer, len(l.observers))
	copy(observers, l.observers)
	l.mu.Unlock()

	for _, o := range observers {
		o.Observe(ctx, c)
	}

	return c
}

func (l *Loop) checkMissedCycles(now time.Time) {
	prev := l.recorder.Last()
	if prev.IsZero() {
		return
	}

	interval := l.interval()
	gap := now.Round(0).Sub(prev)
	if gap < 2*interval+time.Second {
		return
	}

	logrus.WithFields(logrus.Fields{
		"gap":           gap.Round(time.Second).String(),
		"missedCycles":  int(gap/interval) - 1,
		"recentRecords": FormatRelative(l.recorder.Since(10 * interval)),
	}).Info("possibly missed monitor cycles, the host was probably asleep")
}

type cycleStatus struct {
	valid    bool
	percent  int
	charging bool
	emit     bool
	message  string
}

func (l *Loop) logCycle(ctx context.Context, c Cycle) {
	current := cycleStatus{
		valid:    c.Valid(),
		percent:  c.Reading.Percent,
		charging: c.Reading.Charging,
		emit:     c.Notice.Emit,
		message:  c.Notice.Message,
	}
	previous, previousAt := l.lastLogged, l.lastLoggedAt
	l.lastLogged, l.lastLoggedAt = current, time.Now()

	fields := logrus.Fields{
		"seq":    c.Seq,
		"level":  c.Raw.Level,
		"scale":  c.Raw.Scale,
		"status": c.Raw.Status.String(),
	}

	if !c.Valid() {
		entry := logrus.WithFields(fields).WithError(c.Err)
		// Reads cut short by shutdown are expected. Hosts without a
		// battery would otherwise warn every cycle.
		if ctx.Err() == nil && (previousAt.IsZero() || previous.valid) {
			entry.Warn("battery reading unavailable, skipping this cycle")
		} else {
			entry.Debug("battery reading unavailable, skipping this cycle")
		}
		return
	}

	fields["percent"] = c.Reading.Percent
	fields["charging"] = c.Reading.Charging
	fields["emit"] = c.Notice.Emit

	if time.Since(previousAt) < l.interval()+time.Second && previous == current {
		logrus.WithFields(fields).Trace("monitor cycle status")
		return
	}

	logrus.WithFields(fields).Debug("monitor cycle status")
}
