package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmon/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version",
		Annotations: noDaemon(),
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewThresholdCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "threshold [percentage]",
		Short:   "Get or set the unplug threshold",
		GroupID: gBasic,
		Long: `Get or set the unplug threshold.

Once the battery is charging at or above this percentage, the notification asks
you to unplug the charger. This is a percentage from 10 to 100, default 80.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				t, err := apiClient.GetThreshold()
				if err != nil {
					return err
				}
				cmd.Printf("%d%%\n", t)
				return nil
			}

			threshold, err := parseIntArg(args, "threshold")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetThreshold(threshold)
			if err != nil {
				return fmt.Errorf("failed to set threshold: %w", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set unplug threshold to %d%%", threshold)

			return nil
		},
	}
}

func NewPollCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "poll",
		Short:   "Read the battery now instead of waiting for the next cycle",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cs, err := apiClient.Poll()
			if err != nil {
				return err
			}

			if !cs.Valid {
				logrus.Warnf("battery reading unavailable: %s", cs.Error)
				return nil
			}

			cmd.Printf("%s %s\n", bold("%d%%", cs.Percent), stateText(cs.Charging))
			if cs.Emit {
				cmd.Printf("Notification: %s\n", cs.Message)
			}
			return nil
		},
	}
}
