// Package metrics exposes link-quality counters and last-reading gauges over
// a prometheus /metrics endpoint.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LukaszMeyer/pms5003/internal/errors"
	"github.com/LukaszMeyer/pms5003/internal/frame"
)

const shutdownTimeout = 5 * time.Second

// Metrics collects decode statistics and readings. It satisfies
// frame.Observer so the scanner can report link quality directly.
type Metrics struct {
	registry *prometheus.Registry

	framesDecoded  prometheus.Counter
	framesRejected *prometheus.CounterVec
	bytesDiscarded prometheus.Counter
	reading        *prometheus.GaugeVec
}

// New builds a Metrics with its own registry, labelling readings by the
// variant's field names.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pms5003_frames_decoded_total",
			Help: "Valid frames decoded from the sensor stream.",
		}),
		framesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pms5003_frames_rejected_total",
			Help: "Frames discarded after a failed length or checksum check.",
		}, []string{"reason"}),
		bytesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pms5003_sync_bytes_discarded_total",
			Help: "Bytes skipped while searching for a frame marker.",
		}),
		reading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pms5003_reading",
			Help: "Most recent decoded value per measurement field.",
		}, []string{"field"}),
	}

	m.registry.MustRegister(m.framesDecoded, m.framesRejected, m.bytesDiscarded, m.reading)

	return m
}

// FrameDecoded implements frame.Observer.
func (m *Metrics) FrameDecoded() {
	m.framesDecoded.Inc()
}

// FrameRejected implements frame.Observer.
func (m *Metrics) FrameRejected(reason frame.RejectReason) {
	m.framesRejected.WithLabelValues(string(reason)).Inc()
}

// BytesDiscarded implements frame.Observer.
func (m *Metrics) BytesDiscarded(n int) {
	m.bytesDiscarded.Add(float64(n))
}

// ObserveReading records the latest value of every measurement field.
func (m *Metrics) ObserveReading(meas frame.Measurement, variant frame.Variant) {
	labels := variant.Labels()
	for i, v := range meas.Values {
		m.reading.WithLabelValues(labels[i]).Set(v)
	}
}

// Serve runs the /metrics HTTP listener until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrMetricsServe, err)
		}
		return nil
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrMetricsServe, err)
		}
		return nil
	}
}
