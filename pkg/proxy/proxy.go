// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-core-stack/sports-stats-proxy/pkg/auth"
	"github.com/go-core-stack/sports-stats-proxy/pkg/config"
)

// Proxy relays read requests to the statistics API with the configured key
// attached. A Proxy is safe for concurrent use; it holds no per-request state.
type Proxy struct {
	// client performs outbound HTTP requests with tuned transport settings.
	client *http.Client
	// creds attaches the upstream host and key headers.
	creds *auth.Credentials
	// logger emits structured logs for observability.
	logger zerolog.Logger
	// baseURL is the fixed upstream address; only its scheme, host and path
	// prefix are used.
	baseURL *url.URL
}

// New constructs a Proxy backed by an http.Client configured with connection
// pooling defaults and the provided runtime configuration.
func New(cfg config.Config) (*Proxy, error) {
	if cfg.Upstream == nil || cfg.Upstream.Host == "" {
		return nil, errors.New("upstream url is required")
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, // nolint:gosec -- opt-in for development scenarios
		},
	}

	// A zero Timeout leaves the deadline to the invocation context.
	client := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: transport,
	}

	baseURL := cloneURL(cfg.Upstream)

	hostID := cfg.HostIdentifier
	if hostID == "" {
		hostID = config.DefaultHostIdentifier
	}

	return &Proxy{
		client:  client,
		creds:   auth.NewCredentials(hostID, cfg.APIKey),
		logger:  log.With().Str("component", "proxy").Logger(),
		baseURL: baseURL,
	}, nil
}

// Handle answers one inbound request. It never returns an error and never
// panics: every failure is rendered as a 500 JSON envelope.
func (p *Proxy) Handle(ctx context.Context, req Request) (resp Response) {
	start := time.Now()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	event := p.logger.With().
		Str("request_id", req.RequestID).
		Str("method", method).
		Str("path", req.Path).
		Str("query", req.RawQuery).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			event.Error().
				Interface("panic", r).
				Dur("duration", time.Since(start)).
				Msg("unexpected error")
			resp = errorResponse(errorBody{
				Error:   msgInternal,
				Details: fmt.Sprint(r),
			})
		}
	}()

	event.Info().Msg("received request")

	if method == http.MethodOptions {
		event.Info().Msg("handling preflight request")
		return jsonResponse(http.StatusOK, ackBody{Status: "OK"})
	}

	status, payload, err := p.fetch(ctx, req, event)
	if err != nil {
		return failure(err, event, start)
	}

	event.Info().
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("request proxied")

	return jsonResponse(status, successBody{
		Status: "success",
		Data:   payload,
	})
}

// fetch performs the single upstream GET and returns the upstream status with
// its body validated as JSON.
func (p *Proxy) fetch(ctx context.Context, req Request, event zerolog.Logger) (int, json.RawMessage, error) {
	if !p.creds.Configured() {
		return 0, nil, &ConfigurationError{Setting: "API_KEY", Err: auth.ErrMissingKey}
	}

	upstreamPath := UpstreamPath(req.Path, req.RawQuery)

	upstreamReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL.String(), nil)
	if err != nil {
		return 0, nil, &upstreamError{Path: upstreamPath, Err: fmt.Errorf("build upstream request: %w", err)}
	}
	// Replace the parsed URL so the raw path reaches the request line as is.
	upstreamReq.URL = p.targetURL(upstreamPath)
	upstreamReq.Host = p.baseURL.Host
	if err := p.creds.Attach(upstreamReq); err != nil {
		return 0, nil, &ConfigurationError{Setting: "API_KEY", Err: err}
	}

	event.Info().
		Str("upstream_path", upstreamPath).
		Msg("making request to upstream")

	resp, err := p.client.Do(upstreamReq)
	if err != nil {
		return 0, nil, &upstreamError{Path: upstreamPath, Err: fmt.Errorf("perform upstream request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			event.Error().
				Err(closeErr).
				Msg("close upstream response body failed")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &upstreamError{Path: upstreamPath, Err: fmt.Errorf("read upstream response: %w", err)}
	}

	event.Info().
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("upstream responded")

	if !utf8.Valid(body) {
		return 0, nil, &upstreamError{Path: upstreamPath, Err: errors.New("upstream response is not valid UTF-8")}
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, nil, &UpstreamParseError{Path: upstreamPath, Status: resp.StatusCode, Err: err}
	}

	return resp.StatusCode, payload, nil
}

// failure maps a fetch error onto its JSON envelope.
func failure(err error, event zerolog.Logger, start time.Time) Response {
	event.Error().
		Err(err).
		Dur("duration", time.Since(start)).
		Msg("request failed")

	var (
		cfgErr   *ConfigurationError
		parseErr *UpstreamParseError
		upErr    *upstreamError
	)
	switch {
	case errors.As(err, &cfgErr):
		return errorResponse(errorBody{Error: msgConfiguration})
	case errors.As(err, &parseErr):
		return errorResponse(errorBody{
			Error:         msgInvalidResponse,
			Details:       parseErr.Err.Error(),
			RequestedPath: parseErr.Path,
		})
	case errors.As(err, &upErr):
		return errorResponse(errorBody{
			Error:         msgInternal,
			Details:       upErr.Err.Error(),
			RequestedPath: upErr.Path,
		})
	default:
		return errorResponse(errorBody{
			Error:   msgInternal,
			Details: err.Error(),
		})
	}
}

// targetURL places the raw upstream path under the fixed base without
// parsing or re-escaping it. The authority always comes from the base URL, so
// a path such as //other.host/x is sent to the configured host unchanged.
func (p *Proxy) targetURL(upstreamPath string) *url.URL {
	path, query, _ := strings.Cut(upstreamPath, "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	target := cloneURL(p.baseURL)
	prefix := strings.TrimSuffix(target.EscapedPath(), "/")
	target.Opaque = "//" + target.Host + prefix + path
	target.Path = ""
	target.RawPath = ""
	target.RawQuery = query
	target.ForceQuery = false
	target.Fragment = ""
	target.RawFragment = ""

	return target
}

// cloneURL makes a shallow copy of the provided URL pointer.
func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
