// Package metrics counts interaction outcomes for the optimistic
// synchronizer. The CLI registers them on a private registry and prints a
// summary in verbose mode.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// InteractionMetrics tracks toggle outcomes. A nil *InteractionMetrics is
// valid and records nothing.
type InteractionMetrics struct {
	TogglesTotal   *prometheus.CounterVec
	DesyncTotal    *prometheus.CounterVec
	ToggleDuration *prometheus.HistogramVec
}

// NewInteractionMetrics creates the interaction metrics and registers them on reg
func NewInteractionMetrics(reg prometheus.Registerer) *InteractionMetrics {
	factory := promauto.With(reg)
	return &InteractionMetrics{
		TogglesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillshare_interaction_toggles_total",
				Help: "Total interaction toggles by final outcome",
			},
			[]string{"kind", "outcome"},
		),
		DesyncTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillshare_interaction_state_desync_total",
				Help: "Local interaction state repaired after an invariant violation",
			},
			[]string{"kind"},
		),
		ToggleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skillshare_interaction_toggle_duration_seconds",
				Help:    "Time from optimistic apply to resolution",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"kind"},
		),
	}
}

// RecordToggle records one resolved toggle
func (m *InteractionMetrics) RecordToggle(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TogglesTotal.WithLabelValues(kind, outcome).Inc()
	m.ToggleDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordDesync records a repaired invariant violation
func (m *InteractionMetrics) RecordDesync(kind string) {
	if m == nil {
		return
	}
	m.DesyncTotal.WithLabelValues(kind).Inc()
}

// Summary renders every non-zero counter and histogram count in g as
// "name{labels} value" lines, sorted by name.
func Summary(g prometheus.Gatherer) (string, error) {
	families, err := g.Gather()
	if err != nil {
		return "", err
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			name := mf.GetName()
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				value = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				if h.GetSampleCount() == 0 {
					continue
				}
				lines = append(lines, fmt.Sprintf("%s_count%s %d", name, labels(m), h.GetSampleCount()))
				lines = append(lines, fmt.Sprintf("%s_sum%s %.3f", name, labels(m), h.GetSampleSum()))
				continue
			default:
				continue
			}
			if value == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s%s %g", name, labels(m), value))
		}
	}

	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

func labels(m *dto.Metric) string {
	pairs := m.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
