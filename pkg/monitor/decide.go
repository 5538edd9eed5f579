package monitor

import (
	"fmt"

	"github.com/charlie0129/battmon/pkg/battery"
)

// DefaultThreshold is the charge at which the user is asked to unplug.
const DefaultThreshold = 80

// Notice is the outcome of one cycle's decision.
type Notice struct {
	// Emit is set when the notification should be updated.
	Emit bool `json:"emit"`
	// Unplug is set when the threshold has been reached while charging.
	Unplug  bool   `json:"unplug"`
	Message string `json:"message,omitempty"`
}

// Decide returns the notice for r. Nothing is emitted while not charging;
// the notification keeps its last content.
func Decide(r battery.Reading, threshold int) Notice {
	switch {
	case r.Charging && r.Percent >= threshold:
		return Notice{
			Emit:    true,
			Unplug:  true,
			Message: fmt.Sprintf("Battery at %d%%. Please unplug your charger to prevent overcharging.", r.Percent),
		}
	case r.Charging:
		return Notice{
			Emit:    true,
			Message: fmt.Sprintf("Battery at %d%%. Charging...", r.Percent),
		}
	default:
		return Notice{}
	}
}
