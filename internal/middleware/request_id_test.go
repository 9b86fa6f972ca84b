package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"genassist/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())

	var seenTrace, seenRequest string
	r.GET("/ping", func(c *gin.Context) {
		seenTrace = logger.GetTraceID(c.Request.Context())
		seenRequest = GetRequestIDFromGin(c)
		c.Status(http.StatusNoContent)
	})

	t.Run("generates ids", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		assert.Equal(t, w.Header().Get(HeaderRequestID), seenRequest)
		assert.Equal(t, seenRequest, seenTrace)
	})

	t.Run("propagates upstream ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "req-1")
		req.Header.Set(HeaderTraceID, "trace-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "trace-1", w.Header().Get(HeaderTraceID))
		assert.Equal(t, "trace-1", seenTrace)
	})
}
