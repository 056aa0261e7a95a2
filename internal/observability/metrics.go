// Package observability exposes engine measurements as Prometheus metrics.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlotCollector bundles the plotting metrics and satisfies plot.Recorder.
type PlotCollector struct {
	gatherer prometheus.Gatherer

	Resamples         prometheus.Counter
	ResampleDurations prometheus.Histogram
	FrameDurations    prometheus.Histogram
	ElementPoints     *prometheus.GaugeVec
	ElementFailures   *prometheus.CounterVec
}

// NewPlotCollector registers the plotting metrics against reg, defaulting to
// the global Prometheus registry when nil.
func NewPlotCollector(reg prometheus.Registerer) (*PlotCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	resamples, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plot_resamples_total",
		Help: "Number of resampling passes over all elements.",
	}), "plot_resamples_total")
	if err != nil {
		return nil, err
	}
	resampleDurations, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plot_resample_duration_seconds",
		Help:    "Time spent resampling all elements.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "plot_resample_duration_seconds")
	if err != nil {
		return nil, err
	}
	frameDurations, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plot_frame_duration_seconds",
		Help:    "Time spent building one frame of draw commands.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0167, 0.033, 0.1},
	}), "plot_frame_duration_seconds")
	if err != nil {
		return nil, err
	}
	points, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plot_element_points",
		Help: "Points produced for an element by the last resampling pass.",
	}, []string{"element"}), "plot_element_points")
	if err != nil {
		return nil, err
	}
	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plot_element_skipped_points_total",
		Help: "Sample positions skipped after a recoverable evaluation failure.",
	}, []string{"element"}), "plot_element_skipped_points_total")
	if err != nil {
		return nil, err
	}

	return &PlotCollector{
		gatherer:          gatherer,
		Resamples:         resamples,
		ResampleDurations: resampleDurations,
		FrameDurations:    frameDurations,
		ElementPoints:     points,
		ElementFailures:   failures,
	}, nil
}

func (c *PlotCollector) ObserveResample(d time.Duration) {
	if c == nil {
		return
	}
	c.Resamples.Inc()
	c.ResampleDurations.Observe(d.Seconds())
}

func (c *PlotCollector) ObserveElement(name string, points, failures int) {
	if c == nil {
		return
	}
	c.ElementPoints.WithLabelValues(name).Set(float64(points))
	if failures > 0 {
		c.ElementFailures.WithLabelValues(name).Add(float64(failures))
	}
}

func (c *PlotCollector) ObserveFrame(d time.Duration) {
	if c == nil {
		return
	}
	c.FrameDurations.Observe(d.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlotCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register returns the already registered collector when one with the same
// descriptor exists, so two engines in one process share their metrics.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return c, nil
}
