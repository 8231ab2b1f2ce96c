package restocks_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocksgo/restocks/internal/metrics"
	"github.com/restocksgo/restocks/pkg/restocks"
)

func TestRateLimiter_DailyQuota(t *testing.T) {
	t.Parallel()

	rl := restocks.NewRateLimiter(1000, 1000, 3)

	for range 3 {
		require.NoError(t, rl.Wait(t.Context()))
	}
	assert.Equal(t, int64(3), rl.DailyCount())
	assert.Equal(t, int64(0), rl.Remaining())

	err := rl.Wait(t.Context())
	require.ErrorIs(t, err, restocks.ErrDailyLimitReached)
	assert.Equal(t, int64(3), rl.DailyCount())
}

func TestRateLimiter_WindowRoll(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rl := restocks.NewRateLimiter(1000, 1000, 2, restocks.WithRateLimiterNowFunc(func() time.Time {
		return now
	}))

	require.NoError(t, rl.Wait(t.Context()))
	require.NoError(t, rl.Wait(t.Context()))
	require.ErrorIs(t, rl.Wait(t.Context()), restocks.ErrDailyLimitReached)

	// A day later the quota is fresh again.
	now = now.Add(25 * time.Hour)
	require.NoError(t, rl.Wait(t.Context()))
	assert.Equal(t, int64(1), rl.DailyCount())
}

func TestRateLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	rl := restocks.NewRateLimiter(1000, 1000, 0)

	for range 10 {
		require.NoError(t, rl.Wait(t.Context()))
	}
	assert.Equal(t, int64(10), rl.DailyCount())
	assert.Equal(t, int64(-1), rl.Remaining())
}

// Not parallel: it asserts deltas on a process-global counter.
func TestRateLimiter_WaitMetric(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitWaitsTotal)

	rl := restocks.NewRateLimiter(200, 1, 0)

	// First call is admitted from the burst without waiting.
	require.NoError(t, rl.Wait(t.Context()))
	assert.Equal(t, before, testutil.ToFloat64(metrics.RateLimitWaitsTotal))

	// Burst spent: this call has to wait for a token and gets counted.
	require.NoError(t, rl.Wait(t.Context()))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitWaitsTotal))
}

func TestRateLimiter_ContextCancel(t *testing.T) {
	t.Parallel()

	// Burst of one and a very slow refill: the second wait has to block,
	// so canceling the context must release it.
	rl := restocks.NewRateLimiter(0.001, 1, 0)
	require.NoError(t, rl.Wait(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.Error(t, rl.Wait(ctx))
}

func TestClient_RateLimiterApplied(t *testing.T) {
	t.Parallel()

	srv := newServer(t, authMux(t))
	rl := restocks.NewRateLimiter(1000, 1000, 1)
	c := newClient(t, srv, restocks.WithRateLimiter(rl))

	// The login request consumes the only slot of the day.
	require.NoError(t, c.Login(t.Context(), testEmail, testPassword))
	assert.GreaterOrEqual(t, rl.DailyCount(), int64(1))

	hits := srv.Hits()
	_, err := c.CheckConsignStatus(t.Context())
	require.ErrorIs(t, err, restocks.ErrDailyLimitReached)
	assert.Equal(t, hits, srv.Hits())
}
