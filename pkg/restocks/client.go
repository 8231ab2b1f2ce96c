// Package restocks provides a typed client for the Restocks marketplace's
// private web API: product lookup, seller listings, sales, payouts and
// shipping, behind one authenticated session that can egress through a
// pool of proxies.
package restocks

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/restocksgo/restocks/pkg/logger"
)

// Client is the marketplace facade. All state is instance-scoped: two
// clients never share a session, so independent accounts or egress
// strategies can run side by side.
type Client struct {
	email    string
	password string

	baseURL string
	session *session
	pool    *ProxyPool
	exec    *executor
	log     *slog.Logger
}

type clientOptions struct {
	email    string
	password string
	proxies  []string
	baseURL  string
	timeout  time.Duration
	limiter  *RateLimiter
	log      *slog.Logger
}

// Option configures the Client.
type Option func(*clientOptions)

// WithCredentials sets the account credentials used by Login when none are
// passed explicitly. They are held in memory only and never logged.
func WithCredentials(email, password string) Option {
	return func(o *clientOptions) {
		o.email = email
		o.password = password
	}
}

// WithProxies sets the egress pool from "host:port:user:pass" entries.
// An empty list means every request uses the local network stack.
func WithProxies(entries []string) Option {
	return func(o *clientOptions) {
		o.proxies = entries
	}
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		o.baseURL = u
	}
}

// WithTimeout overrides the default per-request timeout. Every request has
// a finite timeout; a zero value restores the default rather than
// disabling the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithRateLimiter gates every outgoing request through the given limiter.
func WithRateLimiter(r *RateLimiter) Option {
	return func(o *clientOptions) {
		o.limiter = r
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		o.log = l
	}
}

// New creates a Client. A malformed proxy entry fails fast with a
// *ConfigError naming the offending entry.
func New(opts ...Option) (*Client, error) {
	o := &clientOptions{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.timeout <= 0 {
		o.timeout = defaultTimeout
	}

	pool, err := NewProxyPool(o.proxies)
	if err != nil {
		return nil, err
	}

	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	c := &Client{
		email:    o.email,
		password: o.password,
		baseURL:  o.baseURL,
		session:  sess,
		pool:     pool,
		log:      o.log,
	}
	c.exec = newExecutor(o.baseURL, sess, pool, o.timeout, o.limiter, o.log)

	return c, nil
}

// Proxies returns the client's proxy pool for inspection.
func (c *Client) Proxies() *ProxyPool {
	return c.pool
}

// Authenticated reports whether the session is currently authenticated,
// without a network call. Use CheckLogin to probe the server.
func (c *Client) Authenticated() bool {
	return c.session.State() == stateAuthenticated
}

// call runs one request through the executor and interpreter. A session
// expiry reported by the server downgrades the session state before the
// error surfaces.
func (c *Client) call(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	requiresAuth bool,
	shape string,
	dst any,
) error {
	raw, err := c.exec.execute(ctx, method, path, query, body, requiresAuth)
	if err != nil {
		return err
	}

	err = interpret(raw, shape, dst)
	if errors.Is(err, ErrSessionExpired) {
		c.session.markExpired()
	}
	return err
}

// callPage is call for the paginated list endpoints.
func (c *Client) callPage(
	ctx context.Context,
	path string,
	query url.Values,
	shape string,
	dst any,
) (*pageMeta, error) {
	raw, err := c.exec.execute(ctx, "GET", path, query, nil, true)
	if err != nil {
		return nil, err
	}

	meta, err := interpretPage(raw, shape, dst)
	if errors.Is(err, ErrSessionExpired) {
		c.session.markExpired()
	}
	return meta, err
}
