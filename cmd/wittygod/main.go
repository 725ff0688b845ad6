// Command wittygod is the supervisory daemon entrypoint: it wires
// configuration, logging, clock-trust validation, the schedule document,
// the optional telemetry and history sinks, and the GPIO side channel into
// an internal/daemon.Daemon and runs it until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wittypi/wittygo/internal/clocktrust"
	"github.com/wittypi/wittygo/internal/config"
	"github.com/wittypi/wittygo/internal/daemon"
	"github.com/wittypi/wittygo/internal/history"
	"github.com/wittypi/wittygo/internal/logger"
	"github.com/wittypi/wittygo/internal/scheduledoc"
	"github.com/wittypi/wittygo/internal/telemetry"
	"github.com/wittypi/wittygo/internal/wittyerr"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code per spec.md §6: 0 normal, 1 HAT/config
// fatal error, 3 RTC untrusted.
func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "wittygod: ", err)
		return 1
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.FromVerbosity(cfg.Verbosity)
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintln(os.Stderr, "wittygod: initializing logger: ", err)
		return 1
	}
	defer logger.Sync()
	log := logger.Sugar()

	tz := time.Local

	dev, err := openDevice(fmt.Sprintf("%d", cfg.Bus), uint16(cfg.Addr), tz)
	if err != nil {
		log.Errorf("wittygod: opening HAT: %v", err)
		return 1
	}
	defer dev.Close()

	rtcNow, err := dev.RTCDateTime()
	if err != nil {
		log.Errorf("wittygod: reading RTC: %v", err)
		return 1
	}
	if err := clocktrust.Validate(clocktrust.DefaultSources(), rtcNow, time.Now()); err != nil {
		log.Errorf("wittygod: clock trust validation failed: %v", err)
		if isClockTrustFailure(err) {
			return 3
		}
		return 1
	}
	log.Infow("clock trust validated", "rtc_now", rtcNow)

	doc, err := scheduledoc.Load(cfg.SchedulePath, scheduledoc.DefaultGeolocationPath, tz, log)
	if err != nil {
		log.Errorf("wittygod: loading schedule document %s: %v", cfg.SchedulePath, err)
		return 1
	}
	if cfg.Force {
		doc.Config.SetForceOn(true)
	}

	pub := buildTelemetry(doc.Telemetry, log)
	defer pub.Close()

	var store *history.Store
	if doc.HistoryPath != "" {
		store, err = history.Open(doc.HistoryPath)
		if err != nil {
			log.Warnf("wittygod: opening history store %s: %v, history disabled", doc.HistoryPath, err)
		} else {
			defer store.Close()
		}
	}

	lines := openLines()

	d := daemon.New(daemon.Config{
		Device:       dev,
		Lines:        lines,
		Schedule:     doc.Config,
		ButtonDelay:  doc.ButtonDelay,
		ShutdownFunc: hostShutdown,
		Telemetry:    pub,
		History:      store,
		Log:          log,
	})

	watcher, err := scheduledoc.WatchFile(cfg.SchedulePath, scheduledoc.DefaultGeolocationPath, tz, log, func(reloaded *scheduledoc.Document) {
		if cfg.Force {
			reloaded.Config.SetForceOn(true)
		}
		d.Reload(reloaded.Config)
	})
	if err != nil {
		log.Warnf("wittygod: watching schedule document %s: %v, hot-reload disabled", cfg.SchedulePath, err)
	} else {
		defer watcher.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		log.Errorf("wittygod: control loop exited with error: %v", err)
		return 1
	}
	return 0
}

// isClockTrustFailure distinguishes the two exit-3 conditions of spec.md §7
// from everything else, which maps to exit 1 (e.g. a filesystem error
// touching the synchronized marker).
func isClockTrustFailure(err error) bool {
	var ct *wittyerr.ClockTrustError
	var nc *wittyerr.NoClockSource
	return errors.As(err, &ct) || errors.As(err, &nc)
}

// buildTelemetry wires the configured sinks into a fan-out publisher; a
// document with neither configured returns a Multi with zero members,
// which is a safe, always-present no-op.
func buildTelemetry(t scheduledoc.Telemetry, log *zap.SugaredLogger) *telemetry.Multi {
	var sinks []telemetry.Publisher
	if t.MQTT != nil {
		mq, err := telemetry.NewMQTTPublisher(t.MQTT.Broker, t.MQTT.TopicPrefix, log)
		if err != nil {
			log.Warnf("wittygod: connecting to MQTT broker %s: %v, telemetry sink disabled", t.MQTT.Broker, err)
		} else {
			sinks = append(sinks, mq)
		}
	}
	if t.InfluxDB != nil {
		inf, err := telemetry.NewInfluxDBPublisher(t.InfluxDB.URL, t.InfluxDB.Token, t.InfluxDB.Org, t.InfluxDB.Bucket, log)
		if err != nil {
			log.Warnf("wittygod: connecting to InfluxDB %s: %v, telemetry sink disabled", t.InfluxDB.URL, err)
		} else {
			sinks = append(sinks, inf)
		}
	}
	return telemetry.NewMulti(sinks...)
}

// hostShutdown invokes the system's shutdown command, per spec.md §4.6's
// "invoke host shutdown command" reconciliation step; the daemon also calls
// it on a HALT line falling edge.
func hostShutdown() error {
	cmd := exec.Command("shutdown", "-h", "now")
	return cmd.Run()
}
