package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/chatbot", "200", 120*time.Millisecond)
	m.ObserveAPI("POST", "/api/chatbot", "200", 80*time.Millisecond)
	m.ObserveLLMRequest("openai", "ok", time.Second)
	m.ObserveChatbotAnswer(true, 2)
	m.AddVectorUpserts("sync", 3)
	m.AddVectorUpserts("sync", 0)
	m.ObserveVectorStoreOperation("pinecone", "upsert", "success", 40*time.Millisecond)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`zaryah_api_requests_total{method="POST",route="/api/chatbot",status="200"} 2.000000`,
		`zaryah_api_request_duration_seconds_bucket{method="POST",route="/api/chatbot",status="200",le="0.1"} 1`,
		`zaryah_llm_requests_total{provider="openai",status="ok"} 1.000000`,
		`zaryah_chatbot_answers_total{outcome="degraded"} 1.000000`,
		`zaryah_chatbot_tool_rounds_bucket{le="2"} 1`,
		`zaryah_vector_upserts_total{source="sync"} 3.000000`,
		`zaryah_vector_store_operations_total{provider="pinecone",operation="upsert",status="success"} 1.000000`,
		"# TYPE zaryah_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ObserveLLMRequest("x", "ok", time.Millisecond)
	m.ObserveChatbotAnswer(false, 0)
	m.ObserveVectorStoreOperation("pinecone", "query_matches", "error", time.Millisecond)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString=%s", got)
	}
}
