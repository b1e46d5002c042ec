package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	log, logs := observed()
	var handlerRequestID string

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ginRequestIDKey, "req-42")
		c.Next()
	})
	r.Use(GinMiddleware(log, "/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/kots/:id", func(c *gin.Context) {
		handlerRequestID = RequestID(c.Request.Context())
		FromContext(c.Request.Context()).Info("loading ticket")
		c.Status(http.StatusOK)
	})
	r.POST("/api/sales", func(c *gin.Context) { c.Status(http.StatusConflict) })
	r.GET("/api/reports/gst", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, target := range []string{"/health", "/api/kots/abc?print=1", "/api/reports/gst"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/sales", nil))

	assert.Equal(t, "req-42", handlerRequestID)

	requests := logs.FilterMessage("HTTP Request").All()
	require.Len(t, requests, 3, "the health check is not logged")

	first := requests[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, "req-42", first["request_id"])
	assert.Equal(t, "/api/kots/abc", first["path"])
	assert.Equal(t, "/api/kots/:id", first["route"])
	assert.Equal(t, "print=1", first["query"])
	assert.EqualValues(t, http.StatusOK, first["status"])

	assert.Equal(t, zapcore.ErrorLevel, requests[1].Level)
	assert.Equal(t, zapcore.WarnLevel, requests[2].Level)

	handlerLog := logs.FilterMessage("loading ticket").All()
	require.Len(t, handlerLog, 1)
	assert.Equal(t, "GET", handlerLog[0].ContextMap()["method"])
}

func TestRecovery(t *testing.T) {
	log, logs := observed()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ginRequestIDKey, "req-panic")
		c.Next()
	})
	r.Use(Recovery(log))
	r.GET("/api/sales/:id/print", func(c *gin.Context) { panic("printer on fire") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sales/1/print", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   struct {
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "req-panic", body.Error.RequestID)

	panics := logs.FilterMessage("Panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "printer on fire", panics[0].ContextMap()["panic"])
}
