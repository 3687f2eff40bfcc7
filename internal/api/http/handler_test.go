package apiHttp

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/metrics"
	"github.com/rubbishit/backend/internal/service"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	index := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(index, []byte("<h1>Rubbishit Journal</h1>"), 0o600))

	cfg := &config.Config{
		HttpServer: config.HttpServer{
			IndexFile:   index,
			CORSOrigins: []string{"http://localhost:5000"},
		},
		Limiter: config.Limiter{RPS: 100, Burst: 100, TTL: time.Minute},
		Session: config.SessionConfig{Secret: strings.Repeat("s", 32), MaxAge: time.Hour},
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Logins.WithLabelValues("ok").Inc()

	return NewHandlers(&service.Services{}, cfg, reg).Init(cfg)
}

func TestInit_IndexPage(t *testing.T) {
	router := newTestEngine(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rubbishit Journal")
}

func TestInit_Metrics(t *testing.T) {
	router := newTestEngine(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rubbishit_logins_total{result="ok"} 1`)
}

func TestInit_RequestID(t *testing.T) {
	router := newTestEngine(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "9b2f64d4-3c1e-4b5a-8f0e-6f1d2a7c9e10")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "9b2f64d4-3c1e-4b5a-8f0e-6f1d2a7c9e10", w.Header().Get(requestIDHeader))
}

func TestInit_CORSWithCredentials(t *testing.T) {
	router := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestInit_LogoutSetsSessionCookie(t *testing.T) {
	router := newTestEngine(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "rj_session=")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
}

func TestInit_NotFound(t *testing.T) {
	router := newTestEngine(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
