package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/api/workflows/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/workflows/:id", "404"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workflows/abc", nil))

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/workflows/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordWorkflowLifecycle(t *testing.T) {
	active := testutil.ToFloat64(WorkflowsActive)
	RecordWorkflowCreated("HR", "HR_Onboarding")
	assert.Equal(t, active+1, testutil.ToFloat64(WorkflowsActive))

	done := testutil.ToFloat64(WorkflowsFinishedTotal.WithLabelValues("completed"))
	RecordWorkflowFinished("completed", 5)
	assert.Equal(t, active, testutil.ToFloat64(WorkflowsActive))
	assert.Equal(t, done+1, testutil.ToFloat64(WorkflowsFinishedTotal.WithLabelValues("completed")))
}
