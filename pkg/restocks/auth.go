package restocks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/restocksgo/restocks/internal/metrics"
)

// Login authenticates against the marketplace. Explicit arguments override
// the credentials configured at construction; empty strings fall back to
// them. On rejected credentials the session returns to unauthenticated and
// an *AuthError is returned; on transport failure the prior session state
// is preserved. Concurrent Login calls are serialized, and a call that
// finds the session already authenticated returns immediately.
func (c *Client) Login(ctx context.Context, email, password string) error {
	c.session.loginMu.Lock()
	defer c.session.loginMu.Unlock()

	prior := c.session.State()
	if prior == stateAuthenticated {
		return nil
	}

	// Credential fields are only touched under loginMu, so concurrent
	// calls cannot interleave one caller's email with another's password.
	if email != "" {
		c.email = email
	}
	if password != "" {
		c.password = password
	}
	if c.email == "" || c.password == "" {
		return &ValidationError{
			Field:  "credentials",
			Reason: "email and password are required",
		}
	}

	c.session.beginLogin()

	body := map[string]string{
		"email":    c.email,
		"password": c.password,
	}

	raw, err := c.exec.execute(ctx, http.MethodPost, "/auth/login", nil, body, false)
	if err != nil {
		c.session.abortLogin(prior)
		metrics.LoginsTotal.WithLabelValues("network_error").Inc()
		return err
	}

	if raw.status < 200 || raw.status > 299 {
		c.session.failLogin()
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()

		authErr := &AuthError{Status: raw.status}
		var env envelope
		if jsonErr := json.Unmarshal(raw.body, &env); jsonErr == nil {
			authErr.Message = env.Message
		}
		return authErr
	}

	var dto loginDTO
	if err := interpret(raw, "login", &dto); err != nil {
		c.session.failLogin()
		metrics.LoginsTotal.WithLabelValues("malformed").Inc()
		return err
	}
	if dto.Token == "" {
		c.session.failLogin()
		metrics.LoginsTotal.WithLabelValues("malformed").Inc()
		return &MalformedResponseError{Shape: "login", Reason: "missing token"}
	}

	c.session.finishLogin(dto.Token)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.log.Info("logged in")

	// Locale headers are a nicety the web shop sets after login. The
	// session is valid without them, so failure here only logs.
	if err := c.resolveLocale(ctx); err != nil {
		c.log.Warn("resolving account locale failed", "error", err)
	}

	return nil
}

// CheckLogin probes the account profile endpoint. It reports false without
// a network call when the session is not locally authenticated, and
// downgrades the session to expired when the server rejects the probe.
func (c *Client) CheckLogin(ctx context.Context) (bool, error) {
	if c.session.State() != stateAuthenticated {
		return false, nil
	}

	raw, err := c.exec.execute(ctx, http.MethodGet, "/shop/account/profile", nil, nil, true)
	if err != nil {
		return false, err
	}

	switch {
	case raw.status >= 200 && raw.status <= 299:
		return true, nil
	case raw.status == http.StatusUnauthorized, raw.status == http.StatusForbidden:
		c.session.markExpired()
		return false, nil
	default:
		return false, vendorError(raw)
	}
}

// resolveLocale mirrors the web shop's post-login setup: it reads the
// account's shipping country and picks up the matching language and
// currency headers from the public country list.
func (c *Client) resolveLocale(ctx context.Context) error {
	var countries []countryDTO
	if err := c.call(ctx, http.MethodGet, "/countries", nil, nil, false, "countries", &countries); err != nil {
		return err
	}

	var addr shippingAddressDTO
	if err := c.call(ctx, http.MethodGet, "/shop/account/shipping-address", nil, nil, true, "shipping address", &addr); err != nil {
		return err
	}
	if addr.Country == "" {
		return &MalformedResponseError{Shape: "shipping address", Reason: "missing country"}
	}

	for _, country := range countries {
		if country.Code == addr.Country {
			c.session.setLocale(country.Code, country.Default.Language, country.Default.Valuta)
			return nil
		}
	}

	// Country not in the public list; keep the code so requests still
	// carry it.
	c.session.setLocale(addr.Country, "", "")
	return nil
}
