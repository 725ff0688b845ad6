package telemetry

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"go.uber.org/zap"
)

// InfluxDBPublisher writes each Sample as a line-protocol point to the
// "wittygo" measurement, for fleet dashboards.
type InfluxDBPublisher struct {
	*sink
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewInfluxDBPublisher(url, token, org, bucket string, log *zap.SugaredLogger) (*InfluxDBPublisher, error) {
	client := influxdb2.NewClient(url, token)

	ctx, cancel := context.WithTimeout(context.Background(), influxdbPingTimeout)
	defer cancel()
	if _, err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("telemetry: pinging influxdb at %s: %w", url, err)
	}

	p := &InfluxDBPublisher{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
	}
	p.sink = newSink("influxdb", log, p.publish)
	return p, nil
}

func (p *InfluxDBPublisher) publish(sample Sample) {
	point := influxdb2.NewPoint(
		"wittygo",
		map[string]string{"reason": sample.Reason.String()},
		map[string]interface{}{
			"voltage_in":  sample.VoltageIn,
			"voltage_out": sample.VoltageOut,
			"current_out": sample.CurrentOut,
			"temperature": sample.Temperature,
			"active":      sample.Active,
		},
		sample.Time,
	)

	ctx, cancel := context.WithTimeout(context.Background(), influxdbWriteTimeout)
	defer cancel()
	if err := p.writeAPI.WritePoint(ctx, point); err != nil && p.log != nil {
		p.log.Warnf("telemetry: influxdb write failed: %v", err)
	}
}

func (p *InfluxDBPublisher) Close() error {
	p.closeQueue()
	p.client.Close()
	return nil
}
