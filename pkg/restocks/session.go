package restocks

import (
	"net/http"
	"net/http/cookiejar"
	"sync"

	"github.com/restocksgo/restocks/internal/metrics"
)

// sessionState is the authentication lifecycle of one client instance:
// unauthenticated -> authenticating -> authenticated -> expired -> ...
type sessionState int

const (
	stateUnauthenticated sessionState = iota
	stateAuthenticating
	stateAuthenticated
	stateExpired
)

func (s sessionState) String() string {
	switch s {
	case stateAuthenticating:
		return "authenticating"
	case stateAuthenticated:
		return "authenticated"
	case stateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// session holds the authentication state of one client instance: bearer
// token, locale headers resolved after login, and the shared cookie jar.
// State transitions are mutex-guarded; the login flow itself is serialized
// separately (see loginMu) so concurrent re-authentication attempts cannot
// interleave.
type session struct {
	jar *cookiejar.Jar

	// loginMu serializes whole login attempts. Guards nothing else.
	loginMu sync.Mutex

	mu       sync.Mutex
	state    sessionState
	token    string
	country  string
	language string
	valuta   string
}

func newSession() (*session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &session{jar: jar}, nil
}

// State returns the current lifecycle state.
func (s *session) State() sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// requireAuth fails fast with ErrNotAuthenticated unless the session is
// currently authenticated. Called before any network activity.
func (s *session) requireAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateAuthenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// beginLogin transitions into authenticating. Valid from unauthenticated
// and expired; a login retry after a failed attempt is also allowed.
func (s *session) beginLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateAuthenticating
}

// finishLogin stores the bearer token and marks the session authenticated.
func (s *session) finishLogin(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.state = stateAuthenticated
}

// failLogin reverts to unauthenticated after rejected credentials.
func (s *session) failLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.state = stateUnauthenticated
}

// abortLogin restores the given prior state after a transport failure, so
// an expired session stays expired rather than becoming unauthenticated.
func (s *session) abortLogin(prior sessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = prior
}

// markExpired records a server-side session invalidation.
func (s *session) markExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateAuthenticated {
		s.state = stateExpired
		metrics.SessionExpiriesTotal.Inc()
	}
}

// setLocale stores the country/language/currency headers resolved after a
// successful login.
func (s *session) setLocale(country, language, valuta string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.country = country
	s.language = language
	s.valuta = valuta
}

// applyHeaders attaches whatever session context exists to the request.
// Safe to call while unauthenticated; it then attaches nothing.
func (s *session) applyHeaders(h http.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		h.Set("Authorization", "Bearer "+s.token)
	}
	if s.country != "" {
		h.Set("restocks-country", s.country)
	}
	if s.language != "" {
		h.Set("Accept-Language", s.language)
	}
	if s.valuta != "" {
		h.Set("restocks-valuta", s.valuta)
	}
}
