// Package monitor polls the account's current sales on a schedule and
// announces new ones through a Notifier.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/restocksgo/restocks/internal/metrics"
	"github.com/restocksgo/restocks/pkg/notify"
	domain "github.com/restocksgo/restocks/pkg/types"
)

// SalesClient is the slice of the restocks client the monitor needs.
type SalesClient interface {
	GetCurrentSales(ctx context.Context) ([]domain.SaleRecord, error)
}

// Monitor periodically fetches current sales and notifies about listings
// it has not seen before. The first poll primes the seen set without
// alerting, so a restart does not replay old sales.
type Monitor struct {
	client   SalesClient
	notifier notify.Notifier
	cron     *cron.Cron
	log      *slog.Logger

	mu     sync.Mutex
	seen   map[int64]struct{}
	primed bool
}

// New creates a Monitor polling at the given interval.
func New(
	client SalesClient,
	notifier notify.Notifier,
	interval time.Duration,
	log *slog.Logger,
) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	m := &Monitor{
		client:   client,
		notifier: notifier,
		cron:     cron.New(),
		log:      log,
		seen:     make(map[int64]struct{}),
	}

	if _, err := m.cron.AddFunc("@every "+interval.String(), m.run); err != nil {
		return nil, err
	}

	return m, nil
}

// Start begins scheduled polling.
func (m *Monitor) Start() {
	m.log.Info("sales monitor started")
	m.cron.Start()
}

// Stop gracefully stops polling, waiting for a running poll to finish.
func (m *Monitor) Stop() context.Context {
	m.log.Info("sales monitor stopping")
	return m.cron.Stop()
}

func (m *Monitor) run() {
	if err := m.Poll(context.Background()); err != nil {
		m.log.Error("sales poll failed", "error", err)
	}
}

// Poll fetches current sales once and alerts on the new ones. Exported so
// callers can trigger a poll outside the schedule.
func (m *Monitor) Poll(ctx context.Context) error {
	metrics.MonitorPollsTotal.Inc()

	sales, err := m.client.GetCurrentSales(ctx)
	if err != nil {
		return fmt.Errorf("fetching current sales: %w", err)
	}

	fresh := m.record(sales)
	for i := range fresh {
		alert := notify.SaleAlert{
			ListingID:   fresh[i].ListingID,
			ProductName: fresh[i].Name,
			SKU:         fresh[i].SKU,
			Size:        fresh[i].Size,
			Payout:      fresh[i].Payout,
			ImageURL:    fresh[i].ImageURL,
			Date:        fresh[i].Date,
		}
		if err := m.notifier.SendSaleAlert(ctx, alert); err != nil {
			// Keep going; one failed delivery shouldn't drop the rest.
			m.log.Error("sending sale alert failed",
				"listing_id", alert.ListingID,
				"error", err,
			)
			continue
		}
		metrics.MonitorAlertsTotal.Inc()
	}

	return nil
}

// record marks all sales as seen and returns the ones that were new. The
// priming poll returns nothing.
func (m *Monitor) record(sales []domain.SaleRecord) []domain.SaleRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fresh []domain.SaleRecord
	for i := range sales {
		id := sales[i].ListingID
		if _, ok := m.seen[id]; ok {
			continue
		}
		m.seen[id] = struct{}{}
		if m.primed {
			fresh = append(fresh, sales[i])
		}
	}
	m.primed = true

	return fresh
}
