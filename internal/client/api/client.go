// Package api is the gateway client for the escrow backend's REST
// surface. It attaches bearer credentials to every request, refreshes an
// expired access token at most once per failing request, and maps error
// bodies onto typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/dmitrijs2005/escrowdeck/internal/client/metrics"
	"github.com/dmitrijs2005/escrowdeck/internal/common"
	"github.com/dmitrijs2005/escrowdeck/internal/logging"
)

const refreshPath = "/auth/refresh"

// CredentialSource provides the tokens attached to outbound requests.
// Mutating state lives in durable storage behind this interface so a
// restarted process keeps its session.
type CredentialSource interface {
	AccessToken() string
	RefreshToken() string
	StoreAccessToken(token string) error
}

// Client performs requests against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	creds   CredentialSource
	log     logging.Logger

	// refreshMu serializes token refreshes so concurrent 401s do not
	// cause a refresh storm; each failing request still performs at most
	// one refresh round trip of its own.
	refreshMu sync.Mutex
}

// New returns a client for the backend at baseURL.
func New(baseURL string, creds CredentialSource, log logging.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	settings := gobreaker.Settings{
		Name:     "escrow-api",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		creds:   creds,
		log:     log.With("component", "api"),
	}
}

// serverError marks 5xx responses as breaker failures while preserving
// the status and body for the caller.
type serverError struct {
	status int
	body   []byte
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.status, string(e.body))
}

// do performs one request with the given token, through the breaker.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, token, requestID string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", requestID)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			return nil, &serverError{status: resp.StatusCode, body: b}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// request is the core entry point: marshal body, attach credentials,
// perform the call, run the one-shot refresh on 401, decode into out.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
	}

	requestID := uuid.NewString()
	resp, err := c.do(ctx, method, path, query, payload, c.creds.AccessToken(), requestID)
	if err != nil {
		return c.transportError(ctx, method, err)
	}

	// One refresh attempt per expired-token failure, never for the
	// refresh endpoint itself.
	if resp.StatusCode == http.StatusUnauthorized && path != refreshPath {
		original := c.decodeError(resp)
		metrics.APIRequests.WithLabelValues(method, "401").Inc()

		newToken, ok := c.refreshAccessToken(ctx)
		if !ok {
			return original
		}

		resp, err = c.do(ctx, method, path, query, payload, newToken, requestID)
		if err != nil {
			return c.transportError(ctx, method, err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return c.decodeError(resp)
		}
	}

	metrics.APIRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	return decodeBody(resp, out)
}

// refreshAccessToken performs the refresh round trip. Returns the new
// access token and whether the refresh succeeded. A missing refresh token
// or a failed refresh leaves the original 401 to be propagated.
func (c *Client) refreshAccessToken(ctx context.Context) (string, bool) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refreshToken := c.creds.RefreshToken()
	if refreshToken == "" {
		return "", false
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	err := c.requestNoAuth(ctx, http.MethodPost, refreshPath,
		map[string]string{"refreshToken": refreshToken}, &result)
	if err != nil || result.AccessToken == "" {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		c.log.Warn(ctx, "token refresh failed", "error", err)
		return "", false
	}

	if err := c.creds.StoreAccessToken(result.AccessToken); err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		c.log.Error(ctx, "cannot persist refreshed token", "error", err)
		return "", false
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return result.AccessToken, true
}

// requestNoAuth performs a request without the bearer header and without
// the 401 refresh logic (used by the refresh endpoint and pre-auth
// flows).
func (c *Client) requestNoAuth(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
	}

	resp, err := c.do(ctx, method, path, nil, payload, "", uuid.NewString())
	if err != nil {
		return c.transportError(ctx, method, err)
	}

	metrics.APIRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	return decodeBody(resp, out)
}

func (c *Client) transportError(ctx context.Context, method string, err error) error {
	metrics.APIRequests.WithLabelValues(method, "error").Inc()

	var srvErr *serverError
	if errors.As(err, &srvErr) {
		return c.envelopeError(srvErr.status, srvErr.body)
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", common.ErrUnavailable)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}

// decodeError consumes the response body and builds an *APIError from the
// backend's error envelope.
func (c *Client) decodeError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return c.envelopeError(resp.StatusCode, body)
}

func (c *Client) envelopeError(status int, body []byte) error {
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.text() != "" {
		return &APIError{Status: status, Message: env.text()}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(body))}
}

func decodeBody(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
