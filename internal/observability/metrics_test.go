package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsExposeRecordedValues(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/grievances", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.RecordError("/grievances/:id/status", http.MethodPatch, "FORBIDDEN")
	m.RecordTransition("pending", "resolved")
	m.RecordDenial("change_status", "HR_ONLY")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/grievances",status="200"} 1`))
	require.True(t, strings.Contains(body, `grievance_status_transitions_total{from="pending",to="resolved"} 1`))
	require.True(t, strings.Contains(body, `grievance_policy_denials_total{action="change_status",reason="HR_ONLY"} 1`))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
		m.RecordError("/", http.MethodGet, "X")
		m.RecordTransition("a", "b")
		m.RecordDenial("a", "b")
	})
}
