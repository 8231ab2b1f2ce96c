package restocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/restocksgo/restocks/internal/metrics"
)

const (
	defaultBaseURL = "https://restocks.net/api"
	defaultTimeout = 30 * time.Second

	userAgent = "restocks-go/1.0"
)

// rawResponse is an HTTP response with its body fully read, handed to the
// response interpreter.
type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// executor builds and sends marketplace requests. It owns one HTTP client
// per proxy endpoint plus one for the local network stack, all sharing the
// session's cookie jar so the vendor sees a single browser-like session
// regardless of egress.
type executor struct {
	baseURL string
	session *session
	pool    *ProxyPool
	limiter *RateLimiter
	log     *slog.Logger

	local   *http.Client
	proxied map[string]*http.Client
}

func newExecutor(
	baseURL string,
	sess *session,
	pool *ProxyPool,
	timeout time.Duration,
	limiter *RateLimiter,
	log *slog.Logger,
) *executor {
	e := &executor{
		baseURL: baseURL,
		session: sess,
		pool:    pool,
		limiter: limiter,
		log:     log,
		local: &http.Client{
			Timeout: timeout,
			Jar:     sess.jar,
		},
		proxied: make(map[string]*http.Client, pool.Size()),
	}

	for _, ep := range pool.Endpoints() {
		e.proxied[ep.String()] = &http.Client{
			Timeout: timeout,
			Jar:     sess.jar,
			Transport: &http.Transport{
				Proxy: http.ProxyURL(ep.URL()),
			},
		}
	}

	return e
}

// execute sends one request against the API base URL. With requiresAuth
// set it fails fast with ErrNotAuthenticated before touching the network
// unless the session is authenticated; the caller decides whether to log
// in again.
func (e *executor) execute(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	requiresAuth bool,
) (*rawResponse, error) {
	if requiresAuth {
		if err := e.session.requireAuth(); err != nil {
			return nil, err
		}
	}

	u := e.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return e.send(req, method+" "+path)
}

// download fetches an absolute URL (shipping labels live outside the API
// base path) and returns the raw bytes.
func (e *executor) download(ctx context.Context, rawURL string) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	return e.send(req, "GET "+rawURL)
}

func (e *executor) send(req *http.Request, op string) (*rawResponse, error) {
	ctx := req.Context()

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.DailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	e.session.applyHeaders(req.Header)

	endpoint := e.pool.Select()
	client := e.local
	egress := "local"
	if endpoint != nil {
		client = e.proxied[endpoint.String()]
		egress = endpoint.String()
	}

	requestID := uuid.NewString()
	e.log.Debug("api request",
		"request_id", requestID,
		"op", op,
		"egress", egress,
	)

	start := time.Now()
	resp, err := client.Do(req)
	metrics.APIRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NetworkErrorsTotal.Inc()
		e.log.Debug("api request failed",
			"request_id", requestID,
			"egress", egress,
			"error", err,
		)
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.NetworkErrorsTotal.Inc()
		return nil, &NetworkError{Op: op, Err: err}
	}

	metrics.APIRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	e.log.Debug("api response",
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return &rawResponse{
		status: resp.StatusCode,
		header: resp.Header,
		body:   body,
	}, nil
}
