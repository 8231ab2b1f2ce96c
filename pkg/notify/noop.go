package notify

import (
	"context"
	"log/slog"
)

// NoopNotifier logs sale alerts instead of delivering them. Useful when no
// webhook is configured.
type NoopNotifier struct {
	log *slog.Logger
}

// NewNoopNotifier creates a NoopNotifier.
func NewNoopNotifier(log *slog.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

// SendSaleAlert logs the alert.
func (n *NoopNotifier) SendSaleAlert(_ context.Context, alert SaleAlert) error {
	n.log.Info("sale alert",
		"listing_id", alert.ListingID,
		"product", alert.ProductName,
		"size", alert.Size,
		"payout", alert.Payout,
	)
	return nil
}
