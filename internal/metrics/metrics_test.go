package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCacheLookups(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))

	RecordCacheHit()
	RecordCacheHit()
	RecordCacheMiss()

	if got := testutil.ToFloat64(cacheLookups.WithLabelValues("hit")) - hits; got != 2 {
		t.Fatalf("expected 2 new hits, got %v", got)
	}
	if got := testutil.ToFloat64(cacheLookups.WithLabelValues("miss")) - misses; got != 1 {
		t.Fatalf("expected 1 new miss, got %v", got)
	}
}

func TestHandlerExposesPipelineMetrics(t *testing.T) {
	RecordFilesystemRead("directory")
	RecordCoalesced()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{"rpane_filesystem_reads_total", "rpane_requests_coalesced_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
