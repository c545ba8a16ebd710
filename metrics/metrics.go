package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame results
const (
	FrameOK         = "ok"
	FrameTruncated  = "truncated"
	FrameInvalidEnd = "invalid_end"
	FrameChecksum   = "checksum"
)

// NewRegistry returns a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// BusMetrics counts bus traffic. A nil *BusMetrics records nothing, so the
// bus worker can run without a registry.
type BusMetrics struct {
	Frames        *prometheus.CounterVec // labels: result
	CommandsSent  prometheus.Counter
	WindowsMissed prometheus.Counter
	StatusUpdates *prometheus.CounterVec // labels: field
}

func NewBusMetrics(reg prometheus.Registerer, queueLength func() int) *BusMetrics {
	m := &BusMetrics{
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "samsunghvac_frames_total",
			Help: "Frames received on the bus by decode result.",
		}, []string{"result"}),
		CommandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "samsunghvac_commands_sent_total",
			Help: "SET frames written to the bus.",
		}),
		WindowsMissed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "samsunghvac_send_windows_missed_total",
			Help: "Requests dropped because the send budget was exceeded.",
		}),
		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "samsunghvac_status_updates_total",
			Help: "Changes of the observed device state by field.",
		}, []string{"field"}),
	}

	queueGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "samsunghvac_queue_length",
		Help: "Requests waiting for a send window.",
	}, func() float64 {
		return float64(queueLength())
	})

	reg.MustRegister(m.Frames, m.CommandsSent, m.WindowsMissed, m.StatusUpdates, queueGauge)
	return m
}

func (m *BusMetrics) Frame(result string) {
	if m == nil {
		return
	}
	m.Frames.WithLabelValues(result).Inc()
}

func (m *BusMetrics) CommandSent() {
	if m == nil {
		return
	}
	m.CommandsSent.Inc()
}

func (m *BusMetrics) WindowMissed() {
	if m == nil {
		return
	}
	m.WindowsMissed.Inc()
}

func (m *BusMetrics) StatusUpdate(field string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(field).Inc()
}
