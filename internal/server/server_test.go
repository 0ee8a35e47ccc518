package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/backend"
	"github.com/wanderly-dev/storefront/internal/config"
)

type reply struct {
	status int
	body   string
}

func newBackend(t *testing.T, replies map[string]reply) (*httptest.Server, *int32) {
	t.Helper()
	var logouts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == backend.PathLogout {
			atomic.AddInt32(&logouts, 1)
		}
		rep, ok := replies[r.URL.Path]
		if !ok {
			rep = reply{status: http.StatusOK, body: `{"data":[]}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		w.Write([]byte(rep.body))
	}))
	t.Cleanup(srv.Close)
	return srv, &logouts
}

func newTestServer(t *testing.T, backendURL string, mutate ...func(*config.Config)) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: backendURL, APIKey: "key"},
		Server: config.ServerConfig{
			Port:           "0",
			Environment:    "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging: config.LoggingConfig{Level: "disabled", Format: "json"},
	}
	for _, m := range mutate {
		m(cfg)
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

func tokenWithRole(role string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u1","role":"` + role + `"}`))
	return "eyJhbGciOiJIUzI1NiJ9." + payload + ".sig"
}

func do(s *Server, method, path string, body string, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, "")

	w := do(s, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "storefront", body["service"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Equal(t, map[string]any{"state": "unconfigured"}, body["backend"])
}

func TestHealthCheck_BackendProbe(t *testing.T) {
	api, _ := newBackend(t, map[string]reply{
		backend.PathCategories: {status: http.StatusOK, body: `{"data":[]}`},
	})
	s := newTestServer(t, api.URL)
	s.probe.Check(context.Background())

	w := do(s, http.MethodGet, "/health", "", "")
	var body struct {
		Backend struct {
			State     string `json:"state"`
			CheckedAt string `json:"checked_at"`
		} `json:"backend"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "up", body.Backend.State)
	assert.NotEmpty(t, body.Backend.CheckedAt)

	unconfigured := newTestServer(t, "")
	w = do(unconfigured, http.MethodGet, "/health", "", "")
	assert.Contains(t, w.Body.String(), `"state":"unconfigured"`)
}

func TestCORS(t *testing.T) {
	preflight := func(s *Server) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	t.Run("allowed origin", func(t *testing.T) {
		w := preflight(newTestServer(t, ""))
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("no origins configured", func(t *testing.T) {
		s := newTestServer(t, "", func(cfg *config.Config) {
			cfg.Server.AllowedOrigins = nil
		})
		w := preflight(s)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://elsewhere.example.com")
		w = httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, "")

	w := do(s, http.MethodGet, "/health", "", "")
	assert.Len(t, w.Header().Get(requestIDHeader), 26)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
}

func TestLoginSetsSessionCookie(t *testing.T) {
	api, _ := newBackend(t, map[string]reply{
		backend.PathLogin: {status: http.StatusOK, body: `{"data":{"token":"tok-1"}}`},
	})
	s := newTestServer(t, api.URL)

	w := do(s, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"pw"}`, "application/json")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "token=tok-1")
	assert.Contains(t, setCookie, "Path=/")
	assert.Contains(t, setCookie, "Max-Age=604800")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "SameSite=Lax")
	assert.NotContains(t, setCookie, "Secure")
}

func TestLoginCookieSecureInProduction(t *testing.T) {
	api, _ := newBackend(t, map[string]reply{
		backend.PathLogin: {status: http.StatusOK, body: `{"accessToken":"tok-2"}`},
	})
	s := newTestServer(t, api.URL, func(c *config.Config) { c.Server.Environment = "production" })
	gin.SetMode(gin.TestMode)

	w := do(s, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"pw"}`, "application/json")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Secure")
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name       string
		reply      reply
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "no token in response",
			reply:      reply{status: http.StatusOK, body: `{"data":{"user":{"id":"u1"}}}`},
			body:       `{"email":"a@b.co","password":"pw"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Token was not returned by backend",
		},
		{
			name:       "backend rejects",
			reply:      reply{status: http.StatusUnauthorized, body: `{"message":"wrong password"}`},
			body:       `{"email":"a@b.co","password":"pw"}`,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Login failed",
		},
		{
			name:       "invalid payload",
			reply:      reply{status: http.StatusOK, body: `{"token":"x"}`},
			body:       `{"email":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "email must be a valid email address; password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _ := newBackend(t, map[string]reply{backend.PathLogin: tt.reply})
			s := newTestServer(t, api.URL)

			w := do(s, http.MethodPost, "/api/auth/login", tt.body, "application/json")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, `{"ok":false,"message":"`+tt.wantMsg+`"}`, w.Body.String())
			assert.Empty(t, w.Header().Get("Set-Cookie"))
		})
	}
}

func TestLoginFromForm(t *testing.T) {
	api, _ := newBackend(t, map[string]reply{
		backend.PathLogin: {status: http.StatusOK, body: `{"token":"tok-3"}`},
	})
	s := newTestServer(t, api.URL)

	form := url.Values{"email": {"a@b.co"}, "password": {"pw"}}.Encode()
	w := do(s, http.MethodPost, "/api/auth/login", form, "application/x-www-form-urlencoded")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=tok-3")
}

func TestLogoutAlwaysClearsCookie(t *testing.T) {
	api, logouts := newBackend(t, map[string]reply{
		backend.PathLogout: {status: http.StatusInternalServerError, body: `{"message":"boom"}`},
	})
	s := newTestServer(t, api.URL)

	w := do(s, http.MethodPost, "/api/auth/logout", "", "", sessionCookie("tok"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	setCookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, setCookie, "token=;")
	assert.Contains(t, setCookie, "Max-Age=0")
	assert.Equal(t, int32(1), atomic.LoadInt32(logouts))

	// Without a session there is nothing to tell the backend
	w = do(s, http.MethodPost, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(logouts))
}

func TestRegister(t *testing.T) {
	api, _ := newBackend(t, map[string]reply{
		backend.PathRegister: {status: http.StatusOK, body: `{"data":{"id":"u1","email":"a@b.co"}}`},
	})
	s := newTestServer(t, api.URL)

	w := do(s, http.MethodPost, "/api/auth/register",
		`{"email":"a@b.co","password":"secret1","passwordRepeat":"secret1","name":"Ayu"}`, "application/json")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = do(s, http.MethodPost, "/api/auth/register",
		`{"email":"a@b.co","password":"secret1","passwordRepeat":"other"}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "passwordRepeat must match password")
}

func TestSessionRoundTrip(t *testing.T) {
	api, _ := newBackend(t, map[string]reply{
		backend.PathLogin:  {status: http.StatusOK, body: `{"token":"` + tokenWithRole("user") + `"}`},
		backend.PathLogout: {status: http.StatusOK, body: `{}`},
	})
	s := newTestServer(t, api.URL)

	w := do(s, http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = do(s, http.MethodPost, "/api/auth/login", `{"email":"a@b.co","password":"pw"}`, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	session := cookies[0]

	w = do(s, http.MethodGet, "/cart", "", "", session)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodGet, "/login", "", "", session)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = do(s, http.MethodPost, "/api/auth/logout", "", "", session)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)

	w = do(s, http.MethodGet, "/cart", "", "", cleared[0])
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAdminPagesRequireAdminRole(t *testing.T) {
	api, _ := newBackend(t, nil)
	s := newTestServer(t, api.URL)

	tests := []struct {
		name     string
		cookies  []*http.Cookie
		status   int
		location string
	}{
		{name: "anonymous", status: http.StatusFound, location: "/login"},
		{name: "user role", cookies: []*http.Cookie{sessionCookie(tokenWithRole("user"))}, status: http.StatusFound, location: "/"},
		{name: "garbage token", cookies: []*http.Cookie{sessionCookie("garbage")}, status: http.StatusFound, location: "/"},
		{name: "admin role", cookies: []*http.Cookie{sessionCookie(tokenWithRole("admin"))}, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/admin", "/admin/banners", "/admin/no-such-page"} {
				w := do(s, http.MethodGet, path, "", "", tt.cookies...)
				if tt.status == http.StatusOK && path == "/admin/no-such-page" {
					assert.Equal(t, http.StatusNotFound, w.Code, path)
					continue
				}
				assert.Equal(t, tt.status, w.Code, path)
				assert.Equal(t, tt.location, w.Header().Get("Location"), path)
			}
		})
	}
}

func TestProxyIsMounted(t *testing.T) {
	api, _ := newBackend(t, map[string]reply{
		"/api/v1/banners": {status: http.StatusTeapot, body: `{"message":"short and stout"}`},
	})
	s := newTestServer(t, api.URL)

	w := do(s, http.MethodGet, "/proxy/banners", "", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"message":"short and stout"}`, w.Body.String())
}

func TestProxyNotConfigured(t *testing.T) {
	s := newTestServer(t, "")

	w := do(s, http.MethodPost, "/proxy/add-cart", `{"activityId":"a1"}`, "application/json", sessionCookie("tok"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"API_BASE_URL or API_KEY missing"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")

	do(s, http.MethodGet, "/health", "", "")
	do(s, http.MethodGet, "/cart", "", "")

	w := do(s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_http_requests_total")
	assert.Contains(t, w.Body.String(), "storefront_guard_decisions_total")
}

func TestRoutesFileOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(file, []byte("admin:\n  - /admin\n  - /reports\n"), 0o644))

	s := newTestServer(t, "", func(c *config.Config) { c.Server.RoutesFile = file })

	w := do(s, http.MethodGet, "/reports/daily", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// Sections missing from the file keep their defaults
	w = do(s, http.MethodGet, "/cart", "", "")
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRoutesFileInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Server: config.ServerConfig{RoutesFile: filepath.Join(t.TempDir(), "missing.yaml")}}

	_, err := New(cfg, zerolog.Nop(), "test")
	assert.Error(t, err)
}
