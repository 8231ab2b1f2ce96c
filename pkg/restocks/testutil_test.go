package restocks_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocksgo/restocks/pkg/restocks"
)

const (
	testEmail    = "seller@example.com"
	testPassword = "hunter2"
	testToken    = "tok-12345"
)

// server wraps httptest.Server with a request counter so tests can assert
// that fail-fast paths never touch the network.
type server struct {
	*httptest.Server
	hits atomic.Int64
}

func (s *server) Hits() int64 {
	return s.hits.Load()
}

func newServer(t *testing.T, mux http.Handler) *server {
	t.Helper()

	s := &server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// authMux returns a mux preloaded with the login flow endpoints. Handlers
// for the operation under test get registered on top.
func authMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		if creds.Email != testEmail || creds.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(t, w, `{"message":"invalid credentials"}`)
			return
		}
		writeJSON(t, w, `{"data":{"token":"`+testToken+`"}}`)
	})

	mux.HandleFunc("GET /countries", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, `{"data":[{"code":"NL","default":{"language":"nl","valuta":"EUR"}}]}`)
	})

	mux.HandleFunc("GET /shop/account/shipping-address", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, `{"data":{"country":"NL"}}`)
	})

	mux.HandleFunc("GET /shop/account/profile", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, `{"data":{"email":"`+testEmail+`"}}`)
	})

	return mux
}

func authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+testToken
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	assert.NoError(t, err)
}

// newClient builds a client pointed at the test server.
func newClient(t *testing.T, srv *server, opts ...restocks.Option) *restocks.Client {
	t.Helper()

	opts = append([]restocks.Option{restocks.WithBaseURL(srv.URL)}, opts...)
	c, err := restocks.New(opts...)
	require.NoError(t, err)
	return c
}

// newAuthedClient builds a client and logs it in against authMux routes.
func newAuthedClient(t *testing.T, srv *server, opts ...restocks.Option) *restocks.Client {
	t.Helper()

	c := newClient(t, srv, opts...)
	require.NoError(t, c.Login(t.Context(), testEmail, testPassword))
	return c
}
