package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmon/pkg/config"
	"github.com/charlie0129/battmon/pkg/events"
	"github.com/charlie0129/battmon/pkg/monitor"
	"github.com/charlie0129/battmon/pkg/notify"
)

var (
	conf     *config.File
	loop     *monitor.Loop
	sseHub   = events.NewEventHub()
	notices  = &noticeTracker{}
	registry = prometheus.NewRegistry()
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/config", getConfig)
	router.GET("/threshold", getThreshold)
	router.PUT("/threshold", setThreshold)
	router.GET("/status", getStatus)
	router.POST("/poll", poll)
	router.GET("/events", getEvents)
	router.GET("/metrics", getMetrics())
	router.GET("/version", getVersion)

	return router
}

// subscribe attaches the daemon's observers to l.
func subscribe(l *monitor.Loop, n notify.Notifier) {
	l.Subscribe(monitor.NewNotifierObserver(n))
	l.Subscribe(notices)
	l.Subscribe(monitor.ObserverFunc(publishReading))
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	source, err := NewSource(conf)
	if err != nil {
		logrus.Fatalf("failed to set up battery source: %v", err)
	}

	notifier, err := NewNotifier(conf)
	if err != nil {
		logrus.Fatalf("failed to set up notifiers: %v", err)
	}

	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	loop = monitor.NewLoop(source, conf, monitor.WithMetrics(monitor.NewMetrics(registry)))
	subscribe(loop, notifier)

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			// Source and notifiers are built once; only threshold and
			// interval follow a reload.
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// A stale socket from a previous crash would make Listen fail.
	if _, err := os.Stat(unixSocketPath); err == nil {
		logrus.Warnf("removing stale socket %s", unixSocketPath)
		_ = os.Remove(unixSocketPath)
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	ctx, cancelLoop := context.WithCancel(context.Background())

	showCtx, cancelShow := context.WithTimeout(ctx, 5*time.Second)
	if err := notifier.Show(showCtx, notify.StartupMessage); err != nil {
		logrus.Warnf("failed to show startup notification: %v", err)
	}
	cancelShow()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		logrus.Debugln("monitor loop starts")
		if err := loop.Run(ctx); err != nil {
			logrus.Errorf("monitor loop exited: %v", err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("stopping monitor loop")
	cancelLoop()
	<-loopDone

	logrus.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("closing notifiers")
	if err := notifier.Close(); err != nil {
		logrus.Errorf("failed to close notifiers: %v", err)
	}

	logrus.Info("exiting")
	return nil
}
