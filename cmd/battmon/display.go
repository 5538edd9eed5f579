package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/charlie0129/battmon/pkg/events"
)

func stateText(charging bool) string {
	if charging {
		return color.GreenString("Charging")
	}
	return "Not charging"
}

// thresholdHint is shown next to the level whether or not the charger is
// plugged in. The notification itself only asks to unplug while charging.
func thresholdHint(percent, threshold int) string {
	if percent >= threshold {
		return color.New(color.Bold, color.FgRed).Sprintf("Battery at %d%% - Please unplug your charger", threshold)
	}
	return fmt.Sprintf("Will notify when battery reaches %d%%", threshold)
}

// formatReading renders one line of the live display.
func formatReading(ev events.ReadingEvent, threshold int) string {
	ts := time.Unix(ev.Ts, 0).Format(time.Kitchen)
	if !ev.Valid {
		return fmt.Sprintf("[%s] battery reading unavailable: %s", ts, ev.Error)
	}
	return fmt.Sprintf("[%s] %s %s  %s", ts, bold("%3d%%", ev.Percent), stateText(ev.Charging), thresholdHint(ev.Percent, threshold))
}
