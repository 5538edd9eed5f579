package types

import "time"

// Status is the daemon's view of the monitor loop, served on GET /status.
type Status struct {
	Version   string   `json:"version"`
	Running   bool     `json:"running"`
	Threshold int      `json:"threshold"`
	Interval  string   `json:"interval"`
	Source    string   `json:"source"`
	Notifiers []string `json:"notifiers"`

	// LastCycle is nil until the first cycle ran.
	LastCycle *CycleStatus `json:"lastCycle,omitempty"`
	// LastNotification is the latest emitted message, which is what the
	// ongoing notification currently shows.
	LastNotification   string     `json:"lastNotification,omitempty"`
	LastNotificationAt *time.Time `json:"lastNotificationAt,omitempty"`

	// ContinuousCycles is the number of recent cycles that ran without gaps.
	ContinuousCycles int      `json:"continuousCycles"`
	RecentCycles     []string `json:"recentCycles,omitempty"`
}

// CycleStatus describes a single monitor cycle.
type CycleStatus struct {
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"time"`
	Valid    bool      `json:"valid"`
	Level    int       `json:"level"`
	Scale    int       `json:"scale"`
	Status   string    `json:"status"`
	Percent  int       `json:"percent"`
	Charging bool      `json:"charging"`
	Emit     bool      `json:"emit"`
	Unplug   bool      `json:"unplug"`
	Message  string    `json:"message,omitempty"`
	Error    string    `json:"error,omitempty"`
}
