package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func TestObserveSubmission(t *testing.T) {
	graded := testutil.ToFloat64(SubmissionCounter.WithLabelValues("graded"))
	denied := testutil.ToFloat64(SubmissionCounter.WithLabelValues("denied"))
	samples := histogramCount(t)

	ObserveSubmission("graded", 66.7)
	ObserveSubmission("denied", 0)

	assert.Equal(t, graded+1, testutil.ToFloat64(SubmissionCounter.WithLabelValues("graded")))
	assert.Equal(t, denied+1, testutil.ToFloat64(SubmissionCounter.WithLabelValues("denied")))
	assert.Equal(t, samples+1, histogramCount(t))
}

func histogramCount(t *testing.T) uint64 {
	t.Helper()
	m := &dto.Metric{}
	if err := ScorePercentage.Write(m); err != nil {
		t.Fatal(err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/api/student/tests/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/student/tests/:id", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/student/tests/41", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/student/tests/42", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/api/student/tests/:id", "200")))
}
