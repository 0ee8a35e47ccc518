package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/wanderly-dev/storefront/internal/guard"
)

func TestObservers(t *testing.T) {
	m := New()

	m.ObserveProxy(http.MethodGet, http.StatusNotFound, 10*time.Millisecond)
	m.ObserveProxy(http.MethodGet, http.StatusNotFound, 20*time.Millisecond)
	m.ObserveGuardDecision(guard.RequiresAdmin, guard.RedirectHome)
	m.ObserveBackendProbe(true, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProxyRequestsTotal.WithLabelValues("GET", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardDecisionsTotal.WithLabelValues("requires_admin", "redirect_home")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendUp))

	m.ObserveBackendProbe(false, time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BackendUp))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/banners/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/banners/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/banners/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_http_requests_total")
}
