package restocks

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
)

// ProxyEndpoint is one egress point, parsed from a "host:port:user:pass"
// entry. Immutable once parsed.
type ProxyEndpoint struct {
	Host     string
	Port     int
	Username string
	Password string
}

// URL returns the endpoint as an HTTP proxy URL with embedded credentials.
func (p *ProxyEndpoint) URL() *url.URL {
	u := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
	}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

func (p *ProxyEndpoint) String() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// ProxyPool owns an ordered list of egress endpoints and hands one out per
// request. Selection is deterministic round-robin; the pool never retries
// or evicts a failing endpoint, that policy belongs to the caller.
type ProxyPool struct {
	endpoints []ProxyEndpoint
	next      atomic.Uint64
}

// NewProxyPool parses the given "host:port:user:pass" entries. A malformed
// entry fails fast with a *ConfigError naming it. An empty list yields a
// pool whose Select always returns nil, the local-network sentinel.
func NewProxyPool(entries []string) (*ProxyPool, error) {
	pool := &ProxyPool{endpoints: make([]ProxyEndpoint, 0, len(entries))}

	for _, entry := range entries {
		ep, err := parseProxyEntry(entry)
		if err != nil {
			return nil, err
		}
		pool.endpoints = append(pool.endpoints, ep)
	}

	return pool, nil
}

// Select returns the next endpoint in round-robin order, or nil when the
// pool is empty and requests should use the local network stack.
func (p *ProxyPool) Select() *ProxyEndpoint {
	if len(p.endpoints) == 0 {
		return nil
	}
	i := (p.next.Add(1) - 1) % uint64(len(p.endpoints))
	return &p.endpoints[i]
}

// Size returns the number of configured endpoints.
func (p *ProxyPool) Size() int {
	return len(p.endpoints)
}

// Endpoints returns the parsed endpoints in configuration order.
func (p *ProxyPool) Endpoints() []ProxyEndpoint {
	return p.endpoints
}

func parseProxyEntry(entry string) (ProxyEndpoint, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 4 {
		return ProxyEndpoint{}, &ConfigError{
			Entry:  entry,
			Reason: "proxy entry must be host:port:user:pass",
		}
	}

	host, portStr, user, pass := parts[0], parts[1], parts[2], parts[3]
	if host == "" {
		return ProxyEndpoint{}, &ConfigError{Entry: entry, Reason: "empty host"}
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return ProxyEndpoint{}, &ConfigError{
			Entry:  entry,
			Reason: fmt.Sprintf("invalid port %q", portStr),
		}
	}

	return ProxyEndpoint{Host: host, Port: port, Username: user, Password: pass}, nil
}
