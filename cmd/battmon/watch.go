package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmon/pkg/config"
	"github.com/charlie0129/battmon/pkg/daemon"
	"github.com/charlie0129/battmon/pkg/events"
	"github.com/charlie0129/battmon/pkg/monitor"
	"github.com/charlie0129/battmon/pkg/notify"
)

func NewWatchCommand() *cobra.Command {
	var local, withNotify bool

	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: gBasic,
		Short:   "Show battery readings as they come in",
		Long: `Show battery readings as they come in.

By default readings are streamed from the daemon. With --local, battmon reads
the battery itself using the config file, which works without a daemon.`,
		Annotations: noDaemon(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if local {
				return watchLocal(ctx, cmd, withNotify)
			}
			if withNotify {
				return fmt.Errorf("--notify requires --local, the daemon already notifies")
			}
			return watchDaemon(ctx, cmd)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&local, "local", false, "Read the battery directly instead of asking the daemon")
	f.BoolVar(&withNotify, "notify", false, "With --local, also send notifications through the configured notifiers")

	return cmd
}

func watchDaemon(ctx context.Context, cmd *cobra.Command) error {
	threshold, err := apiClient.GetThreshold()
	if err != nil {
		return err
	}

	ch, err := apiClient.SubscribeEvents(ctx)
	if err != nil {
		return err
	}

	for ev := range ch {
		if ev.Name != events.BatteryReading {
			continue
		}
		re, err := events.DecodeAs[events.ReadingEvent](ev)
		if err != nil {
			logrus.Warnf("failed to decode event: %v", err)
			continue
		}
		cmd.Println(formatReading(re, threshold))
	}

	if ctx.Err() == nil {
		return fmt.Errorf("event stream closed by daemon")
	}
	return nil
}

func watchLocal(ctx context.Context, cmd *cobra.Command, withNotify bool) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return err
	}

	source, err := daemon.NewSource(conf)
	if err != nil {
		return err
	}

	loop := monitor.NewLoop(source, conf)
	loop.Subscribe(monitor.ObserverFunc(func(_ context.Context, c monitor.Cycle) {
		cmd.Println(formatReading(events.NewReadingEvent(c), conf.Threshold()))
	}))

	if withNotify {
		n, err := daemon.NewNotifier(conf)
		if err != nil {
			return err
		}
		defer func(n notify.Multi) {
			if err := n.Close(); err != nil {
				logrus.Warnf("failed to close notifiers: %v", err)
			}
		}(n)
		loop.Subscribe(monitor.NewNotifierObserver(n))
	}

	return loop.Run(ctx)
}
