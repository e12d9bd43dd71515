package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MintingMetrics records outcomes and latency of mint submissions.
type MintingMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	staged   *prometheus.CounterVec
}

// NewMintingMetrics registers the minting metrics on the provided registerer.
func NewMintingMetrics(reg prometheus.Registerer) *MintingMetrics {
	if reg == nil {
		return &MintingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mint_duration_seconds",
		Help:    "End-to-end duration of mint submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mint_success",
		Help: "Submissions that minted on chain.",
	}, []string{"kind"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mint_failure",
		Help: "Submissions persisted without a mint address.",
	}, []string{"kind"})
	staged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_staged",
		Help: "Media objects staged for wizard drafts.",
	}, []string{"slot"})
	reg.MustRegister(duration, success, failure, staged)
	return &MintingMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		staged:   staged,
	}
}

// ObserveDuration records the duration for a submission of the given kind.
func (m *MintingMetrics) ObserveDuration(kind string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncSuccess increments the minted counter for the given kind.
func (m *MintingMetrics) IncSuccess(kind string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFailure increments the mint-failed counter for the given kind.
func (m *MintingMetrics) IncFailure(kind string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncStaged increments the staged-media counter for the given slot.
func (m *MintingMetrics) IncStaged(slot string) {
	if m == nil || m.staged == nil {
		return
	}
	m.staged.WithLabelValues(normalizeLabel(slot)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
