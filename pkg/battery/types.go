package battery

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

// Status is the charging status reported by a Source.
type Status int

const (
	// StatusUnknown means the source could not tell.
	StatusUnknown Status = iota
	// StatusCharging means power is flowing into the battery.
	StatusCharging
	// StatusDischarging means the device runs on battery.
	StatusDischarging
	// StatusNotCharging means plugged in but not charging.
	StatusNotCharging
	// StatusFull means plugged in with a full battery.
	StatusFull
)

var statusNames = [...]string{"unknown", "charging", "discharging", "not charging", "full"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return statusNames[StatusUnknown]
	}
	return statusNames[s]
}

// Charging reports whether s counts as charging. A full battery that is
// still on the charger counts as charging.
func (s Status) Charging() bool {
	return s == StatusCharging || s == StatusFull
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Raw is a single sample as reported by a Source. Level and Scale are -1
// when the source could not provide them.
type Raw struct {
	Level  int
	Scale  int
	Status Status
}

// Reading is a validated sample.
type Reading struct {
	Percent  int  `json:"percent"`
	Charging bool `json:"charging"`
}

// Reading validates r and converts it to a Reading. The returned error
// wraps ErrInvalidReading when the level or scale is unavailable.
func (r Raw) Reading() (Reading, error) {
	if r.Scale <= 0 || r.Level < 0 {
		return Reading{}, pkgerrors.Wrapf(ErrInvalidReading, "level=%d scale=%d", r.Level, r.Scale)
	}

	return Reading{
		Percent:  Percent(r.Level, r.Scale),
		Charging: r.Status.Charging(),
	}, nil
}

// Percent returns level/scale as a rounded percentage in [0, 100].
// scale must be positive.
func Percent(level, scale int) int {
	p := int(math.Round(float64(level) * 100 / float64(scale)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		// Some controllers report more than their last full charge.
		return 100
	}
	return p
}
