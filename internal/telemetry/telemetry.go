// Package telemetry implements component C12: optional, outbound-only
// publishing of a per-tick telemetry sample to MQTT and/or InfluxDB. Both
// sinks are fire-and-forget — a publish failure or a full queue is logged
// and dropped, never propagated to the control loop.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wittypi/wittygo/internal/hat"
)

// Sample is what gets published once per tick.
type Sample struct {
	Time        time.Time        `json:"time"`
	VoltageIn   float64          `json:"voltage_in"`
	VoltageOut  float64          `json:"voltage_out"`
	CurrentOut  float64          `json:"current_out"`
	Temperature float64          `json:"temperature"`
	Active      bool             `json:"active"`
	Reason      hat.ActionReason `json:"reason"`
}

// Publisher accepts samples without blocking the caller.
type Publisher interface {
	Publish(Sample)
	Close() error
}

// queueDepth bounds how many unsent samples each sink buffers before
// dropping the newest one; one tick is 60s, so this covers several minutes
// of broker/server unavailability without unbounded memory growth.
const queueDepth = 16

// Timeouts for the InfluxDB publisher's blocking calls, kept well under the
// 60s tick period so a stalled server can never back up the sink goroutine
// indefinitely.
const (
	influxdbPingTimeout  = 5 * time.Second
	influxdbWriteTimeout = 5 * time.Second
)

// sink is the shape every concrete publisher builds on: one buffered
// channel, one background goroutine, never a blocking send from Publish.
type sink struct {
	samples chan Sample
	done    chan struct{}
	log     *zap.SugaredLogger
	name    string
}

func newSink(name string, log *zap.SugaredLogger, handle func(Sample)) *sink {
	s := &sink{
		samples: make(chan Sample, queueDepth),
		done:    make(chan struct{}),
		log:     log,
		name:    name,
	}
	go func() {
		defer close(s.done)
		for sample := range s.samples {
			handle(sample)
		}
	}()
	return s
}

func (s *sink) Publish(sample Sample) {
	select {
	case s.samples <- sample:
	default:
		if s.log != nil {
			s.log.Warnf("telemetry: %s queue full, dropping sample", s.name)
		}
	}
}

func (s *sink) closeQueue() {
	close(s.samples)
	<-s.done
}

func marshalSample(s Sample) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("telemetry: marshaling sample: %w", err)
	}
	return data, nil
}
