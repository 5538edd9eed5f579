package battery

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"time"

	pkgerrors "github.com/pkg/errors"
)

const termuxTimeout = 3 * time.Second

// TermuxBinDir returns the bin directory of the Termux prefix. An absolute
// path avoids the PATH lookup, which older Android seccomp policies block.
func TermuxBinDir() string {
	prefix := os.Getenv("PREFIX")
	if prefix == "" {
		prefix = "/data/data/com.termux/files/usr"
	}
	return prefix + "/bin"
}

// commandOutput is a test seam.
var commandOutput = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// TermuxSource reads the battery of an Android device through the
// termux-battery-status command from Termux:API.
type TermuxSource struct {
	path string
}

// NewTermuxSource returns a TermuxSource using the binary under TermuxBinDir.
func NewTermuxSource() *TermuxSource {
	return &TermuxSource{path: TermuxBinDir() + "/termux-battery-status"}
}

type termuxBatteryStatus struct {
	Health     string  `json:"health"`
	Percentage *int    `json:"percentage"`
	Plugged    string  `json:"plugged"`
	Status     string  `json:"status"`
	Current    float64 `json:"current"`
}

func (s *TermuxSource) Read(ctx context.Context) (Raw, error) {
	ctx, cancel := context.WithTimeout(ctx, termuxTimeout)
	defer cancel()

	out, err := commandOutput(ctx, s.path)
	if err != nil {
		return Raw{Level: -1, Scale: -1}, pkgerrors.Wrapf(err, "failed to run %s", s.path)
	}

	return parseTermuxBatteryStatus(out)
}

func parseTermuxBatteryStatus(b []byte) (Raw, error) {
	var st termuxBatteryStatus
	if err := json.Unmarshal(b, &st); err != nil {
		return Raw{Level: -1, Scale: -1}, pkgerrors.Wrapf(err, "failed to unmarshal termux battery status")
	}

	raw := Raw{Level: -1, Scale: 100, Status: termuxStatus(st.Status)}
	if st.Percentage != nil {
		raw.Level = *st.Percentage
	}

	return raw, nil
}

// termuxStatus maps the BatteryManager.BATTERY_STATUS_* names.
func termuxStatus(s string) Status {
	switch s {
	case "CHARGING":
		return StatusCharging
	case "DISCHARGING":
		return StatusDischarging
	case "NOT_CHARGING":
		return StatusNotCharging
	case "FULL":
		return StatusFull
	default:
		return StatusUnknown
	}
}
