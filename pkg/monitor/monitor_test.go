package monitor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocksgo/restocks/pkg/logger"
	"github.com/restocksgo/restocks/pkg/monitor"
	"github.com/restocksgo/restocks/pkg/notify"
	domain "github.com/restocksgo/restocks/pkg/types"
)

type fakeSalesClient struct {
	mu    sync.Mutex
	sales []domain.SaleRecord
	err   error
}

func (f *fakeSalesClient) GetCurrentSales(_ context.Context) ([]domain.SaleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.SaleRecord(nil), f.sales...), nil
}

func (f *fakeSalesClient) set(sales []domain.SaleRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sales = sales
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []notify.SaleAlert
	fail   map[int64]error
}

func (r *recordingNotifier) SendSaleAlert(_ context.Context, alert notify.SaleAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[alert.ListingID]; err != nil {
		return err
	}
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *recordingNotifier) recorded() []notify.SaleAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.SaleAlert(nil), r.alerts...)
}

func sale(id int64, name string, payout int) domain.SaleRecord {
	return domain.SaleRecord{
		ListingID: id,
		ProductID: 100 + id,
		Name:      name,
		SKU:       "SKU-" + name,
		Size:      "42",
		Payout:    payout,
	}
}

func TestMonitor_Poll(t *testing.T) {
	t.Parallel()

	t.Run("priming poll records without alerting", func(t *testing.T) {
		t.Parallel()

		client := &fakeSalesClient{sales: []domain.SaleRecord{sale(1, "panda", 211)}}
		notifier := &recordingNotifier{}
		m, err := monitor.New(client, notifier, time.Minute, logger.Discard())
		require.NoError(t, err)

		require.NoError(t, m.Poll(t.Context()))
		assert.Empty(t, notifier.recorded())

		// The primed sale never alerts, a new one does.
		client.set([]domain.SaleRecord{sale(1, "panda", 211), sale(2, "fog", 160)})
		require.NoError(t, m.Poll(t.Context()))

		alerts := notifier.recorded()
		require.Len(t, alerts, 1)
		assert.Equal(t, int64(2), alerts[0].ListingID)
		assert.Equal(t, "fog", alerts[0].ProductName)
		assert.Equal(t, 160, alerts[0].Payout)
	})

	t.Run("repeat polls do not re-alert", func(t *testing.T) {
		t.Parallel()

		client := &fakeSalesClient{}
		notifier := &recordingNotifier{}
		m, err := monitor.New(client, notifier, time.Minute, logger.Discard())
		require.NoError(t, err)

		require.NoError(t, m.Poll(t.Context()))
		client.set([]domain.SaleRecord{sale(1, "panda", 211)})

		for range 3 {
			require.NoError(t, m.Poll(t.Context()))
		}
		assert.Len(t, notifier.recorded(), 1)
	})

	t.Run("one failed delivery does not drop the rest", func(t *testing.T) {
		t.Parallel()

		client := &fakeSalesClient{}
		notifier := &recordingNotifier{fail: map[int64]error{2: errors.New("webhook down")}}
		m, err := monitor.New(client, notifier, time.Minute, logger.Discard())
		require.NoError(t, err)

		require.NoError(t, m.Poll(t.Context()))
		client.set([]domain.SaleRecord{sale(1, "panda", 211), sale(2, "fog", 160), sale(3, "mid", 90)})
		require.NoError(t, m.Poll(t.Context()))

		alerts := notifier.recorded()
		require.Len(t, alerts, 2)
		assert.Equal(t, int64(1), alerts[0].ListingID)
		assert.Equal(t, int64(3), alerts[1].ListingID)
	})

	t.Run("fetch failure surfaces without marking anything seen", func(t *testing.T) {
		t.Parallel()

		client := &fakeSalesClient{err: errors.New("session expired")}
		notifier := &recordingNotifier{}
		m, err := monitor.New(client, notifier, time.Minute, logger.Discard())
		require.NoError(t, err)

		require.Error(t, m.Poll(t.Context()))
		assert.Empty(t, notifier.recorded())
	})
}

func TestMonitor_New_InvalidInterval(t *testing.T) {
	t.Parallel()

	_, err := monitor.New(&fakeSalesClient{}, &recordingNotifier{}, 0, logger.Discard())
	require.Error(t, err)
}

func TestMonitor_StartStop(t *testing.T) {
	t.Parallel()

	client := &fakeSalesClient{}
	notifier := &recordingNotifier{}
	m, err := monitor.New(client, notifier, time.Hour, logger.Discard())
	require.NoError(t, err)

	m.Start()
	select {
	case <-m.Stop().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop in time")
	}
}
