package monitor

import (
	"strings"
	"testing"

	"github.com/charlie0129/battmon/pkg/battery"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		reading   battery.Reading
		threshold int
		want      Notice
	}{
		{
			name:      "at threshold while charging",
			reading:   battery.Reading{Percent: 80, Charging: true},
			threshold: 80,
			want: Notice{
				Emit:    true,
				Unplug:  true,
				Message: "Battery at 80%. Please unplug your charger to prevent overcharging.",
			},
		},
		{
			name:      "full while charging",
			reading:   battery.Reading{Percent: 100, Charging: true},
			threshold: 80,
			want: Notice{
				Emit:    true,
				Unplug:  true,
				Message: "Battery at 100%. Please unplug your charger to prevent overcharging.",
			},
		},
		{
			name:      "below threshold while charging",
			reading:   battery.Reading{Percent: 79, Charging: true},
			threshold: 80,
			want:      Notice{Emit: true, Message: "Battery at 79%. Charging..."},
		},
		{
			name:      "not charging",
			reading:   battery.Reading{Percent: 50, Charging: false},
			threshold: 80,
			want:      Notice{},
		},
		{
			name:      "above threshold but unplugged",
			reading:   battery.Reading{Percent: 95, Charging: false},
			threshold: 80,
			want:      Notice{},
		},
		{
			name:      "custom threshold",
			reading:   battery.Reading{Percent: 60, Charging: true},
			threshold: 60,
			want: Notice{
				Emit:    true,
				Unplug:  true,
				Message: "Battery at 60%. Please unplug your charger to prevent overcharging.",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.reading, tt.threshold); got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecideFromRaw(t *testing.T) {
	tests := []struct {
		level, scale int
		status       battery.Status
		contains     string
	}{
		{level: 80, scale: 100, status: battery.StatusCharging, contains: "Please unplug"},
		{level: 79, scale: 100, status: battery.StatusCharging, contains: "Charging..."},
		{level: 50, scale: 100, status: battery.StatusDischarging, contains: ""},
		{level: 100, scale: 100, status: battery.StatusFull, contains: "Please unplug"},
	}
	for _, tt := range tests {
		r, err := battery.Raw{Level: tt.level, Scale: tt.scale, Status: tt.status}.Reading()
		if err != nil {
			t.Fatalf("Reading() error: %v", err)
		}
		n := Decide(r, DefaultThreshold)
		if tt.contains == "" {
			if n.Emit {
				t.Errorf("level=%d status=%s: unexpected emission %q", tt.level, tt.status, n.Message)
			}
			continue
		}
		if !n.Emit || !strings.Contains(n.Message, tt.contains) {
			t.Errorf("level=%d status=%s: got %+v, want message containing %q", tt.level, tt.status, n, tt.contains)
		}
	}
}
