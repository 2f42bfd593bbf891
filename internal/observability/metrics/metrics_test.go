package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("ok")
	m.ObserveTurn("ok")
	m.ObserveTurn("error")
	m.ObserveDiscoveryMatch("coaching-mode")
	m.ObserveDiscoveryExclusion("recommendation")
	m.ObserveEscalation("high")
	m.ObserveLLMLatency("primary", 0.42)

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 ok turns, got %v", got)
	}
	if got := testutil.ToFloat64(m.classifierMatches.WithLabelValues("coaching-mode")); got != 1 {
		t.Errorf("expected 1 discovery match, got %v", got)
	}
	if got := testutil.ToFloat64(m.escalationsTotal.WithLabelValues("high")); got != 1 {
		t.Errorf("expected 1 escalation, got %v", got)
	}
}

func TestChatMetricsRegistersAllFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("ok")
	m.ObserveDiscoveryMatch("package-type")
	m.ObserveDiscoveryExclusion("pricing")
	m.ObserveEscalation("low")
	m.ObserveLLMLatency("fallback", 1.2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	want := map[string]bool{
		"strengthclub_chat_turns_total":                false,
		"strengthclub_chat_discovery_matches_total":    false,
		"strengthclub_chat_discovery_exclusions_total": false,
		"strengthclub_chat_escalations_total":          false,
		"strengthclub_chat_llm_latency_seconds":        false,
	}
	for _, fam := range families {
		if _, ok := want[fam.GetName()]; ok {
			want[fam.GetName()] = true
		}
		if fam.GetName() == "strengthclub_chat_llm_latency_seconds" {
			if fam.GetType() != dto.MetricType_HISTOGRAM {
				t.Errorf("expected histogram, got %v", fam.GetType())
			}
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric family %s not registered", name)
		}
	}
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveTurn("ok")
	m.ObserveDiscoveryMatch("pattern")
	m.ObserveDiscoveryExclusion("rule")
	m.ObserveEscalation("low")
	m.ObserveLLMLatency("primary", 0.1)
}
