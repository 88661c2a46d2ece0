package metrics

import (
	"context"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecorderCountsRenders(t *testing.T) {
	r := NewRecorder()
	r.Observe(context.Background(), "By Borough", "ok", 3*time.Millisecond)
	r.Observe(context.Background(), "By Borough", "ok", time.Millisecond)
	r.Observe(context.Background(), "unknown", "rejected", time.Millisecond)

	if got := testutil.ToFloat64(r.renders.WithLabelValues("By Borough", "ok")); got != 2 {
		t.Fatalf("renders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.renders.WithLabelValues("unknown", "rejected")); got != 1 {
		t.Fatalf("rejected = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.duration); n != 2 {
		t.Fatalf("histogram series = %d, want 2", n)
	}
}

func TestRecorderHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.Observe(context.Background(), "By UHF42", "empty", time.Millisecond)
	r.ObserveRequest("/api/figure", http.StatusBadRequest)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`airq_renders_total{category="By UHF42",outcome="empty"} 1`,
		`airq_http_requests_total{code="400",route="/api/figure"} 1`,
		"airq_render_duration_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
