package restocks_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocksgo/restocks/pkg/restocks"
)

func TestNetworkError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &restocks.NetworkError{Op: "GET /countries", Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "GET /countries")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "config error names the entry",
			err:  &restocks.ConfigError{Entry: "1.2.3.4:8080", Reason: "expected host:port:user:pass"},
			want: `invalid configuration "1.2.3.4:8080": expected host:port:user:pass`,
		},
		{
			name: "auth error with message",
			err:  &restocks.AuthError{Status: 401, Message: "invalid credentials"},
			want: "authentication failed (status 401): invalid credentials",
		},
		{
			name: "auth error without message",
			err:  &restocks.AuthError{Status: 403},
			want: "authentication failed (status 403)",
		},
		{
			name: "api error with vendor code",
			err:  &restocks.APIError{Status: 422, Code: "sell_failed", Message: "sell request rejected"},
			want: "restocks API error (status 422, code sell_failed): sell request rejected",
		},
		{
			name: "malformed response",
			err:  &restocks.MalformedResponseError{Shape: "payout", Reason: "missing or invalid amount"},
			want: "malformed payout response: missing or invalid amount",
		},
		{
			name: "validation error",
			err:  &restocks.ValidationError{Field: "store price", Reason: "must be positive"},
			want: "invalid store price: must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSentinelWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("listing 42: %w", restocks.ErrNotFound)
	assert.ErrorIs(t, err, restocks.ErrNotFound)
	assert.NotErrorIs(t, err, restocks.ErrSessionExpired)
}
