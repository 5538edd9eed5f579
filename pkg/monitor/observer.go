package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmon/pkg/notify"
)

const notifyTimeout = 3 * time.Second

// Observer receives every cycle of a Loop, valid or not.
type Observer interface {
	Observe(ctx context.Context, c Cycle)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(ctx context.Context, c Cycle)

func (f ObserverFunc) Observe(ctx context.Context, c Cycle) {
	f(ctx, c)
}

type notifierObserver struct {
	n notify.Notifier
}

// NewNotifierObserver returns an Observer that shows the message of every
// emitting cycle on n. Failures are logged and otherwise ignored.
func NewNotifierObserver(n notify.Notifier) Observer {
	return &notifierObserver{n: n}
}

func (o *notifierObserver) Observe(ctx context.Context, c Cycle) {
	if !c.Notice.Emit {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := o.n.Show(ctx, c.Notice.Message); err != nil {
		logrus.WithFields(logrus.Fields{
			"seq":     c.Seq,
			"message": c.Notice.Message,
		}).WithError(err).Error("failed to show notification")
	}
}
