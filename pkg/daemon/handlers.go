package daemon

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmon/pkg/config"
	"github.com/charlie0129/battmon/pkg/events"
	"github.com/charlie0129/battmon/pkg/monitor"
	"github.com/charlie0129/battmon/pkg/types"
	"github.com/charlie0129/battmon/pkg/version"
)

// statusWindow is how far back GET /status looks for recent cycles.
const statusWindow = 2 * time.Minute

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getThreshold(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, conf.Threshold())
}

func setThreshold(c *gin.Context) {
	var t int
	if err := c.BindJSON(&t); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if t < config.MinThreshold || t > config.MaxThreshold {
		err := fmt.Errorf("threshold must be between %d and %d, got %d", config.MinThreshold, config.MaxThreshold, t)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetThreshold(t)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set notification threshold to %d", t)

	// Immediate single cycle, to avoid waiting for the next one
	cycle := loop.RunOnce(c.Request.Context())

	msg := fmt.Sprintf("set notification threshold to %d%%", t)
	if cycle.Valid() {
		msg += fmt.Sprintf(", current charge: %d%%", cycle.Reading.Percent)
		if cycle.Notice.Unplug {
			msg += ". Current charge is at or above the threshold, you will be asked to unplug your charger."
		}
	}

	c.IndentedJSON(http.StatusCreated, msg)
}

func getStatus(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, buildStatus())
}

func buildStatus() types.Status {
	st := types.Status{
		Version:   version.Version,
		Running:   loop.Running(),
		Threshold: conf.Threshold(),
		Interval:  conf.Interval().String(),
		Source:    conf.Source(),
		Notifiers: conf.Notifiers(),
	}

	if last, ok := loop.Last(); ok {
		cs := cycleStatus(last)
		st.LastCycle = &cs
	}

	if msg, at, ok := notices.Last(); ok {
		st.LastNotification = msg
		st.LastNotificationAt = &at
	}

	rec := loop.Recorder()
	st.ContinuousCycles = rec.Continuous(statusWindow, conf.Interval())
	st.RecentCycles = monitor.FormatRelative(rec.Since(statusWindow))

	return st
}

func poll(c *gin.Context) {
	cycle := loop.RunOnce(c.Request.Context())
	c.IndentedJSON(http.StatusOK, cycleStatus(cycle))
}

func getEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	// Answer right away, subscribers wait for the headers.
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	// Send the latest cycle right away so a new watcher has something to show.
	if last, ok := loop.Last(); ok {
		if ev, err := encodeEvent(events.BatteryReading, events.NewReadingEvent(last)); err == nil {
			c.SSEvent(ev.Name, string(ev.Data))
			c.Writer.Flush()
		}
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		}
	})
}

func getMetrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
