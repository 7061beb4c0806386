package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/bessim/core/logger"
)

// InfluxSink writes step results to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string, log logger.Logger) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      log,
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// when the health check fails, so a missing database never aborts a run.
func NewInfluxSinkWithFallback(url, token, org, bucket string, log logger.Logger) Sink {
	sink := NewInfluxSink(url, token, org, bucket, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			log.Errorf("influx health check error: %v", err)
		} else {
			log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

// RecordStep writes the step as one point of measurement battery_state.
func (s *InfluxSink) RecordStep(r StepResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("battery_state").
		AddTag("run_id", r.RunID).
		AddField("step", r.Step).
		AddField("elapsed_s", r.Elapsed).
		AddField("soc", r.SoC).
		AddField("voltage_v", r.Voltage).
		AddField("current_a", r.Current).
		AddField("power_w", r.Power).
		AddField("power_setpoint_w", r.PowerSetpoint).
		AddField("loss_w", r.Loss).
		AddField("soh_q", r.SoHQ).
		AddField("soh_r", r.SoHR).
		AddField("temperature_k", r.Temp).
		AddField("total_fec", r.TotalFEC).
		SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and closes the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
