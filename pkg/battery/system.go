package battery

import (
	"context"
	"errors"
	"math"

	sysbattery "github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// getSystemBattery is a test seam.
var getSystemBattery = sysbattery.Get

// SystemSource reads the battery through the operating system's power
// supply interface (sysfs on Linux, IOKit on macOS, WMI on Windows).
type SystemSource struct {
	index int
}

// NewSystemSource returns a Source for the battery at index. Most hosts only
// have battery 0.
func NewSystemSource(index int) *SystemSource {
	return &SystemSource{index: index}
}

func (s *SystemSource) Read(_ context.Context) (Raw, error) {
	bat, err := getSystemBattery(s.index)
	if err != nil {
		var partial sysbattery.ErrPartial
		if !errors.As(err, &partial) || bat == nil {
			// A missing battery comes back as ErrFatal{ErrNotFound}, and
			// ErrFatal does not unwrap.
			var fatal sysbattery.ErrFatal
			if errors.As(err, &fatal) && fatal.Err == sysbattery.ErrNotFound {
				return Raw{Level: -1, Scale: -1}, pkgerrors.Wrapf(ErrNoBattery, "battery %d", s.index)
			}
			return Raw{Level: -1, Scale: -1}, pkgerrors.Wrapf(err, "failed to read battery %d", s.index)
		}

		logrus.WithError(err).Trace("partial battery reading")
		raw := fromSystemBattery(bat)
		if partial.Current != nil {
			raw.Level = -1
		}
		if partial.Full != nil {
			raw.Scale = -1
		}
		if partial.State != nil {
			raw.Status = StatusUnknown
		}
		return raw, nil
	}

	return fromSystemBattery(bat), nil
}

func fromSystemBattery(bat *sysbattery.Battery) Raw {
	raw := Raw{
		Level:  int(math.Round(bat.Current)),
		Scale:  int(math.Round(bat.Full)),
		Status: StatusUnknown,
	}

	switch bat.State {
	case sysbattery.Charging:
		raw.Status = StatusCharging
	case sysbattery.Full:
		raw.Status = StatusFull
	case sysbattery.Discharging, sysbattery.Empty:
		raw.Status = StatusDischarging
	}

	return raw
}
