package metrics

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink exposes the latest battery state as Prometheus metrics.
type PromSink struct {
	steps  *prometheus.CounterVec
	gauges map[string]*prometheus.GaugeVec
}

var promGaugeNames = []struct {
	name string
	help string
}{
	{"battery_soc", "Battery state of charge in p.u."},
	{"battery_voltage_volts", "Battery terminal voltage"},
	{"battery_current_amperes", "Battery current, positive while charging"},
	{"battery_power_watts", "Battery terminal power"},
	{"battery_loss_watts", "Battery resistive loss"},
	{"battery_soh_q", "Capacity state of health in p.u."},
	{"battery_soh_r", "Resistance state of health in p.u."},
	{"battery_temperature_kelvin", "Battery temperature"},
	{"battery_total_fec", "Cumulative full equivalent cycles"},
}

// NewPromSink registers the simulation metrics on the provided registerer.
// If reg is nil, the default registerer is used. Already-registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_steps_total",
		Help: "Total number of simulation steps",
	}, []string{"run_id"})
	if err := reg.Register(steps); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			steps = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	gauges := make(map[string]*prometheus.GaugeVec, len(promGaugeNames))
	for _, g := range promGaugeNames {
		gv := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: g.name, Help: g.help}, []string{"run_id"})
		if err := reg.Register(gv); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				gv = are.ExistingCollector.(*prometheus.GaugeVec)
			} else {
				return nil, err
			}
		}
		gauges[g.name] = gv
	}

	return &PromSink{steps: steps, gauges: gauges}, nil
}

// RecordStep updates the gauges with the latest state and counts the step.
func (s *PromSink) RecordStep(r StepResult) error {
	s.steps.WithLabelValues(r.RunID).Inc()
	set := func(name string, v float64) {
		s.gauges[name].WithLabelValues(r.RunID).Set(v)
	}
	set("battery_soc", r.SoC)
	set("battery_voltage_volts", r.Voltage)
	set("battery_current_amperes", r.Current)
	set("battery_power_watts", r.Power)
	set("battery_loss_watts", r.Loss)
	set("battery_soh_q", r.SoHQ)
	set("battery_soh_r", r.SoHR)
	set("battery_temperature_kelvin", r.Temp)
	set("battery_total_fec", r.TotalFEC)
	return nil
}

func (s *PromSink) Close() error { return nil }

// StartPromServer starts an HTTP server exposing Prometheus metrics on the
// given address until the context is canceled. A dedicated ServeMux is used
// to avoid interfering with other handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("prom server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
