package notify

import (
	"context"
	"os/exec"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmon/pkg/battery"
)

const termuxTimeout = 1500 * time.Millisecond

// runCommand is a test seam.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// TermuxNotifier posts Android notifications through the termux-notification
// command from Termux:API. The notification is updated in place by always
// passing the same --id.
type TermuxNotifier struct {
	id    string
	title string
	path  string
}

func NewTermuxNotifier(id, title string) *TermuxNotifier {
	return &TermuxNotifier{
		id:    id,
		title: title,
		path:  battery.TermuxBinDir() + "/termux-notification",
	}
}

func (n *TermuxNotifier) args(message string) []string {
	// https://wiki.termux.com/wiki/Termux-notification
	return []string{
		"--id", n.id,
		"-t", n.title,
		"-c", message,
		"--priority", "low",
		"--ongoing",
	}
}

// Show runs termux-notification with a short timeout, so a missing or hung
// Termux:API never stalls the monitor loop.
func (n *TermuxNotifier) Show(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, termuxTimeout)
	defer cancel()

	if err := runCommand(ctx, n.path, n.args(message)...); err != nil {
		logrus.WithError(err).Debug("termux-notification execution failed")
		return pkgerrors.Wrapf(err, "failed to run %s", n.path)
	}
	return nil
}
