package restocks

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	domain "github.com/restocksgo/restocks/pkg/types"
)

// GetShippingProducts returns every sold or consigned item that still
// needs a shipping label: current sales plus active consignment listings,
// filtered to rows carrying a ship-before deadline. Requires login.
func (c *Client) GetShippingProducts(ctx context.Context) ([]domain.ShippingTask, error) {
	sold, err := c.fetchAccountPages(ctx, "/shop/account/sales/sold", "current sales")
	if err != nil {
		return nil, err
	}

	consigned, err := c.fetchAccountPages(
		ctx,
		"/shop/account/listings/"+string(domain.SellConsign),
		"listing page",
	)
	if err != nil {
		return nil, err
	}

	skus := newSKUResolver(c)

	rows := append(sold, consigned...)
	tasks := make([]domain.ShippingTask, 0, len(rows))
	for i := range rows {
		if rows[i].ShipBefore == "" {
			continue
		}
		t, err := toShippingTask(&rows[i])
		if err != nil {
			return nil, err
		}
		if t.SKU == "" {
			t.SKU = skus.resolve(ctx, t.ProductID)
		}
		tasks = append(tasks, *t)
	}

	return tasks, nil
}

// DownloadLabel fetches the shipping label document for a task. The label
// format is detected from the magic bytes; Restocks serves GIF or PDF.
// ErrNotFound means no label is available for the task yet. Requires
// login.
func (c *Client) DownloadLabel(ctx context.Context, task *domain.ShippingTask) (*domain.Label, error) {
	if err := c.session.requireAuth(); err != nil {
		return nil, err
	}
	if task == nil || task.LabelURL == "" {
		return nil, fmt.Errorf("no label available yet: %w", ErrNotFound)
	}

	raw, err := c.exec.download(ctx, task.LabelURL)
	if err != nil {
		return nil, err
	}

	switch {
	case raw.status == http.StatusNotFound:
		return nil, fmt.Errorf("label for listing %d: %w", task.ListingID, ErrNotFound)
	case raw.status < 200 || raw.status > 299:
		return nil, vendorError(raw)
	}

	switch {
	case bytes.HasPrefix(raw.body, []byte("GIF8")):
		return &domain.Label{Format: domain.LabelGIF, Data: raw.body}, nil
	case bytes.HasPrefix(raw.body, []byte("%PDF")):
		return &domain.Label{Format: domain.LabelPDF, Data: raw.body}, nil
	default:
		return nil, &MalformedResponseError{Shape: "label", Reason: "unrecognized document format"}
	}
}

// CheckConsignStatus reports whether consignment selling is unlocked for
// the account. Requires login.
func (c *Client) CheckConsignStatus(ctx context.Context) (bool, error) {
	var dto sellConfigDTO
	err := c.call(ctx, http.MethodGet, "/shop/account/sell/config", nil, nil, true, "sell config", &dto)
	if err != nil {
		return false, err
	}
	return !dto.IsConsignLocked, nil
}
