package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat widget flows. A nil
// receiver is safe, so callers can run without metrics wired.
type ChatMetrics struct {
	turnsTotal        *prometheus.CounterVec
	classifierMatches *prometheus.CounterVec
	classifierSkips   *prometheus.CounterVec
	escalationsTotal  *prometheus.CounterVec
	llmLatency        *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strengthclub",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total chat turns processed",
		}, []string{"status"}),
		classifierMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strengthclub",
			Subsystem: "chat",
			Name:      "discovery_matches_total",
			Help:      "Assistant replies matched to a discovery question pattern",
		}, []string{"pattern"}),
		classifierSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strengthclub",
			Subsystem: "chat",
			Name:      "discovery_exclusions_total",
			Help:      "Assistant replies suppressed by a classifier exclusion rule",
		}, []string{"rule"}),
		escalationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strengthclub",
			Subsystem: "chat",
			Name:      "escalations_total",
			Help:      "Conversations escalated to a human coach",
		}, []string{"priority"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "strengthclub",
			Subsystem: "chat",
			Name:      "llm_latency_seconds",
			Help:      "Latency of LLM completions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.classifierMatches, m.classifierSkips, m.escalationsTotal, m.llmLatency)
	return m
}

func (m *ChatMetrics) ObserveTurn(status string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
}

func (m *ChatMetrics) ObserveDiscoveryMatch(patternID string) {
	if m == nil {
		return
	}
	m.classifierMatches.WithLabelValues(patternID).Inc()
}

func (m *ChatMetrics) ObserveDiscoveryExclusion(rule string) {
	if m == nil {
		return
	}
	m.classifierSkips.WithLabelValues(rule).Inc()
}

func (m *ChatMetrics) ObserveEscalation(priority string) {
	if m == nil {
		return
	}
	m.escalationsTotal.WithLabelValues(priority).Inc()
}

func (m *ChatMetrics) ObserveLLMLatency(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(provider).Observe(seconds)
}
