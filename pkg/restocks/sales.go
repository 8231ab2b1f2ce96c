package restocks

import (
	"context"

	domain "github.com/restocksgo/restocks/pkg/types"
)

// GetHistorySales returns the account's completed sales in the order the
// server serves them (most recent first). Requires login.
func (c *Client) GetHistorySales(ctx context.Context) ([]domain.SaleRecord, error) {
	return c.fetchSales(ctx, "/shop/account/sales/history", "sales history")
}

// GetCurrentSales returns sales that are still in progress (sold but not
// yet completed). Requires login.
func (c *Client) GetCurrentSales(ctx context.Context) ([]domain.SaleRecord, error) {
	return c.fetchSales(ctx, "/shop/account/sales/sold", "current sales")
}

func (c *Client) fetchSales(ctx context.Context, path, shape string) ([]domain.SaleRecord, error) {
	items, err := c.fetchAccountPages(ctx, path, shape)
	if err != nil {
		return nil, err
	}

	skus := newSKUResolver(c)

	sales := make([]domain.SaleRecord, 0, len(items))
	for i := range items {
		s, err := toSale(&items[i])
		if err != nil {
			return nil, err
		}
		if s.SKU == "" {
			s.SKU = skus.resolve(ctx, s.ProductID)
		}
		sales = append(sales, *s)
	}
	return sales, nil
}
