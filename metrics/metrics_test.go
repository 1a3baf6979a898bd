package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dev-mohitbeniwal/permy/metrics"
)

func TestObserveDecision(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveDecision(true, time.Millisecond)
	m.ObserveDecision(false, time.Millisecond)
	m.ObserveDecision(false, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("allow")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("deny")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Evaluation))
}

func TestSink(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	sink := m.Sink()

	sink.RecordsNotFound()
	sink.RecordsNotFound()
	sink.ActionNotConfigured("acme::post", "show")
	sink.ResourceNotConfigured("missing")
	sink.SubjectNotSet()
	sink.SubjectTypeMismatch("robot")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues(metrics.KindRecordsNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues(metrics.KindActionNotConfigured)))
	assert.Equal(t, 5, testutil.CollectAndCount(m.Notifications))
}

func TestInstrumentAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Instrument())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `http_requests_total{method="GET",path="/items/:id",status="204"} 1`))
}
