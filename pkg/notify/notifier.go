// Package notify defines the notification interface and implementations
// for sale alert delivery.
package notify

import (
	"context"
	"time"
)

// SaleAlert contains the data needed to announce a new sale.
type SaleAlert struct {
	ListingID   int64
	ProductName string
	SKU         string
	Size        string
	Payout      int
	ImageURL    string
	Date        time.Time
}

// Notifier delivers sale alerts.
type Notifier interface {
	SendSaleAlert(ctx context.Context, alert SaleAlert) error
}
