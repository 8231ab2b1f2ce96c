package restocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	domain "github.com/restocksgo/restocks/pkg/types"
)

// maxAccountPages bounds the page walk so a broken meta block cannot loop
// forever.
const maxAccountPages = 200

// fetchAccountPages walks a paginated /shop/account endpoint until the
// last page reported by the meta block.
func (c *Client) fetchAccountPages(
	ctx context.Context,
	path string,
	shape string,
) ([]accountItemDTO, error) {
	var items []accountItemDTO

	for page := 1; page <= maxAccountPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))

		var pageItems []accountItemDTO
		meta, err := c.callPage(ctx, path, params, shape, &pageItems)
		if err != nil {
			return nil, fmt.Errorf("fetching %s page %d: %w", shape, page, err)
		}

		items = append(items, pageItems...)

		if meta == nil || page >= meta.LastPage {
			break
		}
	}

	return items, nil
}

// GetCurrentListings returns the account's active listings in the order
// the server serves them. With no filter it covers both sell methods;
// passing methods narrows the result. Requires login.
func (c *Client) GetCurrentListings(
	ctx context.Context,
	methods ...domain.SellMethod,
) ([]domain.Listing, error) {
	if len(methods) == 0 {
		methods = []domain.SellMethod{domain.SellConsign, domain.SellResell}
	}
	for _, m := range methods {
		if !m.Valid() {
			return nil, &ValidationError{Field: "sell method", Reason: fmt.Sprintf("unknown method %q", m)}
		}
	}

	skus := newSKUResolver(c)

	var listings []domain.Listing
	for _, m := range methods {
		items, err := c.fetchAccountPages(ctx, "/shop/account/listings/"+string(m), "listing page")
		if err != nil {
			return nil, err
		}
		for i := range items {
			l, err := toListing(&items[i], m)
			if err != nil {
				return nil, err
			}
			if l.SKU == "" {
				l.SKU = skus.resolve(ctx, l.ProductID)
			}
			listings = append(listings, *l)
		}
	}

	return listings, nil
}

// ListProduct creates a listing for the given product and size. The size
// label is resolved to the vendor-internal size id before the sell call.
// The store price must be positive. Requires login; fails fast with
// ErrNotAuthenticated before any network activity.
func (c *Client) ListProduct(
	ctx context.Context,
	product *domain.Product,
	size string,
	method domain.SellMethod,
	duration domain.ListingDuration,
	storePrice int,
) (*domain.Listing, error) {
	if product == nil || product.ID <= 0 {
		return nil, &ValidationError{Field: "product", Reason: "missing vendor product id"}
	}
	if storePrice <= 0 {
		return nil, &ValidationError{Field: "store price", Reason: "must be positive"}
	}
	if !method.Valid() {
		return nil, &ValidationError{Field: "sell method", Reason: fmt.Sprintf("unknown method %q", method)}
	}
	if !duration.Valid() {
		return nil, &ValidationError{Field: "duration", Reason: fmt.Sprintf("unsupported duration %d", duration)}
	}
	if err := c.session.requireAuth(); err != nil {
		return nil, err
	}

	sizeID, err := c.GetSizeID(ctx, product.ID, size)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"listings": []map[string]any{{
			"baseproduct_id": product.ID,
			"size_id":        sizeID,
			"condition":      true,
			"amount":         1,
			"store_price":    storePrice,
			"sell_method":    method,
			"duration":       duration,
		}},
	}

	var dto sellResultDTO
	if err := c.call(ctx, http.MethodPost, "/shop/account/sell", nil, body, true, "sell", &dto); err != nil {
		return nil, err
	}
	if !dto.Success {
		return nil, &APIError{Status: http.StatusOK, Code: "sell_failed", Message: "sell request rejected"}
	}

	listing := &domain.Listing{
		ProductID:  product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		Slug:       product.Slug,
		ImageURL:   product.ImageURL,
		Size:       size,
		Price:      storePrice,
		SellMethod: method,
		Duration:   duration,
		Status:     domain.ListingActive,
	}
	if len(dto.Listings) > 0 {
		listing.ListingID = dto.Listings[0].ID
	}

	return listing, nil
}

// EditListing changes the price of an owned listing. Price is the only
// mutable attribute. A listing id the account does not own yields
// ErrNotFound. Requires login.
func (c *Client) EditListing(ctx context.Context, listingID int64, newPrice int) error {
	if listingID <= 0 {
		return &ValidationError{Field: "listing id", Reason: "must be positive"}
	}
	if newPrice <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}

	path := fmt.Sprintf("/shop/account/listings/%d", listingID)
	body := map[string]int{"price": newPrice}

	return c.call(ctx, http.MethodPut, path, nil, body, true, "listing", nil)
}

// DeleteListing removes an owned listing. Deleting an id that is already
// gone yields ErrNotFound rather than silently succeeding, so double
// deletes stay visible. Requires login.
func (c *Client) DeleteListing(ctx context.Context, listingID int64) error {
	if listingID <= 0 {
		return &ValidationError{Field: "listing id", Reason: "must be positive"}
	}

	path := fmt.Sprintf("/shop/account/listings/%d", listingID)

	var dto successDTO
	if err := c.call(ctx, http.MethodDelete, path, nil, nil, true, "delete", &dto); err != nil {
		return err
	}
	if !dto.Success {
		return fmt.Errorf("listing %d: %w", listingID, ErrNotFound)
	}
	return nil
}
