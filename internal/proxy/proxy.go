// Package proxy relays browser calls under /proxy/* to the backend API,
// injecting the static API key and the session bearer token.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/config"
)

const (
	// RoutePrefix is the inbound path prefix handled by the proxy
	RoutePrefix = "/proxy"

	// APIPrefix is prepended to every forwarded path
	APIPrefix = "/api/v1/"

	// APIKeyHeader carries the static backend API key
	APIKeyHeader = "apiKey"

	defaultContentType = "application/json"
)

var (
	ErrNotConfigured = errors.New("API_BASE_URL or API_KEY missing")
)

// Observer receives the outcome of every forwarded call
type Observer interface {
	ObserveProxy(method string, status int, duration time.Duration)
}

// Request is an inbound call to relay
type Request struct {
	Method      string
	Path        string // escaped path below /proxy, e.g. "banners" or "/banner/1"
	RawQuery    string // forwarded verbatim
	ContentType string
	Token       string // session token, "" when anonymous
	Body        []byte // ignored for GET and HEAD
}

// Response is the backend reply, mirrored to the caller unchanged
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Proxy forwards requests to the configured backend. It keeps no state
// between calls.
type Proxy struct {
	backend  config.BackendConfig
	client   *http.Client
	logger   zerolog.Logger
	observer Observer
}

// New creates a proxy. A nil client uses a client without timeout.
func New(backend config.BackendConfig, client *http.Client, log zerolog.Logger) *Proxy {
	if client == nil {
		client = &http.Client{}
	}
	return &Proxy{
		backend: backend,
		client:  client,
		logger:  log,
	}
}

// WithObserver sets the observer notified after each forwarded call
func (p *Proxy) WithObserver(observer Observer) *Proxy {
	p.observer = observer
	return p
}

// TargetURL builds {base}/api/v1/{path}{?query} without re-encoding the query
func (p *Proxy) TargetURL(path, rawQuery string) string {
	target := p.backend.BaseURL + APIPrefix + strings.TrimPrefix(path, "/")
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

// Forward performs exactly one backend call. Non-2xx statuses are returned
// as regular responses; only configuration and transport failures are errors.
func (p *Proxy) Forward(ctx context.Context, req Request) (*Response, error) {
	if !p.backend.Configured() {
		return nil, ErrNotConfigured
	}

	var body io.Reader
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		body = bytes.NewReader(req.Body)
	}

	outbound, err := http.NewRequestWithContext(ctx, req.Method, p.TargetURL(req.Path, req.RawQuery), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}

	outbound.Header.Set(APIKeyHeader, p.backend.APIKey)
	if req.ContentType != "" {
		outbound.Header.Set("Content-Type", req.ContentType)
	}
	if req.Token != "" {
		outbound.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := p.client.Do(outbound)
	if err != nil {
		return nil, fmt.Errorf("failed to send backend request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: contentType,
		Body:        data,
	}, nil
}

// Handle serves /proxy/*path
func (p *Proxy) Handle(c *gin.Context) {
	start := time.Now()

	// Fail before touching the body or the network
	if !p.backend.Configured() {
		p.logger.Error().Err(ErrNotConfigured).Msg("Proxy called without backend configuration")
		c.JSON(http.StatusInternalServerError, gin.H{"message": ErrNotConfigured.Error()})
		p.observe(c.Request.Method, http.StatusInternalServerError, start)
		return
	}

	req := Request{
		Method:      c.Request.Method,
		Path:        strings.TrimPrefix(c.Request.URL.EscapedPath(), RoutePrefix),
		RawQuery:    c.Request.URL.RawQuery,
		ContentType: c.GetHeader("Content-Type"),
		Token:       auth.TokenFromRequest(c.Request),
	}

	if req.Method != http.MethodGet && req.Method != http.MethodHead && c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			p.logger.Warn().Err(err).Msg("Failed to read proxied request body")
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read request body"})
			p.observe(req.Method, http.StatusBadRequest, start)
			return
		}
		req.Body = body
	}

	// The backend call outlives a client disconnect
	resp, err := p.Forward(context.WithoutCancel(c.Request.Context()), req)
	if err != nil {
		p.logger.Error().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("Backend request failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Backend request failed"})
		p.observe(req.Method, http.StatusBadGateway, start)
		return
	}

	p.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.Status).
		Bool("authenticated", req.Token != "").
		Msg("Proxied backend request")

	c.Data(resp.Status, resp.ContentType, resp.Body)
	p.observe(req.Method, resp.Status, start)
}

// Register mounts the proxy routes on router
func (p *Proxy) Register(router gin.IRouter) {
	group := router.Group(RoutePrefix)
	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	} {
		group.Handle(method, "/*path", p.Handle)
	}
}

func (p *Proxy) observe(method string, status int, start time.Time) {
	if p.observer != nil {
		p.observer.ObserveProxy(method, status, time.Since(start))
	}
}
