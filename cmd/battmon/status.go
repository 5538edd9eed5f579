package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/charlie0129/battmon/pkg/types"
)

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of battmon",
		Long:    `Get the last battery reading, the notification currently shown, and the configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := apiClient.GetStatus()
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				return nil
			}

			printStatus(cmd, st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func printStatus(cmd *cobra.Command, st *types.Status) {
	cmd.Println(bold("Battery status:"))

	switch {
	case st.LastCycle == nil:
		cmd.Println("  No reading yet.")
	case !st.LastCycle.Valid:
		cmd.Printf("  Battery reading unavailable: %s\n", st.LastCycle.Error)
	default:
		c := st.LastCycle
		cmd.Printf("  Battery level: %s\n", bold("%d%%", c.Percent))
		cmd.Printf("  State: %s\n", bold("%s", stateText(c.Charging)))
		cmd.Printf("  %s\n", thresholdHint(c.Percent, st.Threshold))
		cmd.Printf("  Last reading: %s\n", c.Time.Format(time.Kitchen))
	}

	cmd.Println()

	cmd.Println(bold("Notification:"))
	if st.LastNotification == "" {
		cmd.Println("  Nothing shown yet. A notification appears once the charger is plugged in.")
	} else {
		cmd.Printf("  %s\n", st.LastNotification)
		if st.LastNotificationAt != nil {
			cmd.Printf("  Updated: %s\n", st.LastNotificationAt.Format(time.Kitchen))
		}
	}

	cmd.Println()

	cmd.Println(bold("Monitor:"))
	cmd.Printf("  Running: %s\n", bool2Text(st.Running))
	cmd.Printf("  Unplug threshold: %s\n", bold("%d%%", st.Threshold))
	cmd.Printf("  Interval: %s\n", bold("%s", st.Interval))
	cmd.Printf("  Battery source: %s\n", st.Source)
	cmd.Printf("  Notifiers: %s\n", strings.Join(st.Notifiers, ", "))
	cmd.Printf("  Continuous cycles: %d\n", st.ContinuousCycles)
	cmd.Printf("  Daemon version: %s\n", st.Version)
}
