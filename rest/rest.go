// Package rest issues the raw HTTP calls behind the broker client:
// bearer-authorized GETs against data endpoints and form POSTs against
// the OAuth token endpoint. It maps failures to a typed error and leaves
// payload semantics and retry policy to its callers.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// HTTPClient describes the transport the executor issues requests on.
//
//go:generate mockgen -package=rest_test -destination=mock_http_client_test.go -source=rest.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields a valid access token for authorized calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// RequestError is returned for any transport failure or non-2xx response.
// Status is 0 when the request never produced a response.
type RequestError struct {
	URL    string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request %s failed with status %d: %v", e.URL, e.Status, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsStatus reports whether err is a RequestError with the given HTTP
// status.
func IsStatus(err error, status int) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == status
}

// NewHTTPClient returns an http.Client tuned for the broker API.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   true,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: 60 * time.Second, Transport: transport}
}

// Executor performs single HTTP calls. It never retries; the one-retry
// policy on 401 lives in the market-data client.
type Executor struct {
	httpClient HTTPClient
	log        zerolog.Logger
}

func NewExecutor(httpClient HTTPClient, log zerolog.Logger) *Executor {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Executor{httpClient: httpClient, log: log}
}

// Get issues a GET against rawURL with the given query parameters. When
// src is non-nil the call is authorized: the current access token is
// resolved and sent as a bearer header. Token errors propagate unchanged.
func (e *Executor) Get(ctx context.Context, rawURL string, params url.Values, src TokenSource) (map[string]any, error) {
	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}
	if src != nil {
		tok, err := src.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return e.do(req, rawURL)
}

// Post issues a form-encoded POST against rawURL. Used only for the
// OAuth token endpoint; credentials travel in the form body, so no
// bearer header is set.
func (e *Executor) Post(ctx context.Context, rawURL string, form url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, rawURL)
}

func (e *Executor) do(req *http.Request, rawURL string) (map[string]any, error) {
	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.log.Error().Err(err).Str("url", rawURL).Msg("request failed")
		return nil, &RequestError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		e.log.Error().
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Msg("request rejected")
		return nil, &RequestError{
			URL:    rawURL,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("server returned %q", strings.TrimSpace(string(excerpt))),
		}
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &RequestError{
			URL:    rawURL,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("failed to decode response body: %w", err),
		}
	}

	e.log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")
	return body, nil
}
