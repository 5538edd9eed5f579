package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes notifications to the log. It is the default notifier
// and works on every host.
type LogNotifier struct {
	id     string
	title  string
	logger logrus.FieldLogger
}

func NewLogNotifier(id, title string, logger logrus.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogNotifier{id: id, title: title, logger: logger}
}

func (n *LogNotifier) Show(_ context.Context, message string) error {
	n.logger.WithFields(logrus.Fields{
		"id":    n.id,
		"title": n.title,
	}).Info(message)
	return nil
}
