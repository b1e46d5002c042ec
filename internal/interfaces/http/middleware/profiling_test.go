package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestControllerName(t *testing.T) {
	tests := map[string]string{
		"/api/kots/:id":         "kots",
		"/api/reports/sales":    "reports",
		"/api/inventory/adjust": "inventory",
		"/health":               "health",
		"/swagger/*any":         "swagger",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerName(route), route)
	}
}

func TestProfiling(t *testing.T) {
	t.Run("labels the handler", func(t *testing.T) {
		labels := map[string]string{}
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set(JWTTenantIDKey, "tenant-1")
			c.Next()
		}, Profiling(ProfilingConfig{Enabled: true}))
		router.GET("/api/kots/:id", func(c *gin.Context) {
			pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
				labels[k] = v
				return true
			})
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/kots/42", nil))
		assert.Equal(t, map[string]string{
			"controller": "kots",
			"route":      "/api/kots/:id",
			"method":     "GET",
			"tenant_id":  "tenant-1",
		}, labels)
	})

	t.Run("disabled leaves context alone", func(t *testing.T) {
		var found bool
		router := gin.New()
		router.Use(Profiling(ProfilingConfig{Enabled: false}))
		router.GET("/api/kots", func(c *gin.Context) {
			_, found = pprof.Label(c.Request.Context(), "route")
			c.Status(http.StatusOK)
		})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/kots", nil))
		assert.False(t, found)
	})
}
