package restocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/restocksgo/restocks/pkg/types"
)

// SearchQuery selects a product either by manufacturer SKU or by free-text
// name. Exactly one must be set.
type SearchQuery struct {
	SKU  string
	Name string
}

// SearchProduct looks a product up in the public catalog. A SKU query is
// exact: it returns the product whose SKU equals the input or ErrNotFound.
// A name query returns the unique match, ErrNotFound for zero matches, or
// ErrAmbiguousResult when several products match and none stands out. No
// login required.
func (c *Client) SearchProduct(ctx context.Context, q SearchQuery) (*domain.Product, error) {
	if (q.SKU == "") == (q.Name == "") {
		return nil, &ValidationError{
			Field:  "query",
			Reason: "exactly one of sku or name must be set",
		}
	}

	term := q.SKU
	if term == "" {
		term = q.Name
	}

	params := url.Values{}
	params.Set("query", term)
	params.Set("minimum_price", "0")

	var dto autocompleteDTO
	err := c.call(ctx, http.MethodGet, "/shop/catalog/autocomplete", params, nil, false, "search", &dto)
	if err != nil {
		return nil, err
	}

	if q.SKU != "" {
		for i := range dto.Products {
			if strings.EqualFold(dto.Products[i].SKU, q.SKU) {
				return toProduct(&dto.Products[i])
			}
		}
		return nil, fmt.Errorf("sku %q: %w", q.SKU, ErrNotFound)
	}

	switch len(dto.Products) {
	case 0:
		return nil, fmt.Errorf("name %q: %w", q.Name, ErrNotFound)
	case 1:
		return toProduct(&dto.Products[0])
	}

	// Several candidates: accept only a unique exact name match.
	exact := -1
	for i := range dto.Products {
		if strings.EqualFold(dto.Products[i].Name, q.Name) {
			if exact >= 0 {
				exact = -1
				break
			}
			exact = i
		}
	}
	if exact >= 0 {
		return toProduct(&dto.Products[exact])
	}
	return nil, fmt.Errorf("name %q matched %d products: %w", q.Name, len(dto.Products), ErrAmbiguousResult)
}

// GetProductInfo fetches full product details, including the size variant
// list, for a previously obtained slug. No login required.
func (c *Client) GetProductInfo(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, &ValidationError{Field: "slug", Reason: "must not be empty"}
	}

	params := url.Values{}
	params.Set("slug", slug)

	var dto baseproductDTO
	err := c.call(ctx, http.MethodGet, "/shop/baseproducts", params, nil, false, "baseproduct", &dto)
	if err != nil {
		return nil, err
	}

	return toProductDetail(slug, &dto)
}

// GetSizeID resolves a human size label to the vendor-internal size id for
// the given product. Returns ErrInvalidSize when the marketplace does not
// know the label for that product. No login required.
func (c *Client) GetSizeID(ctx context.Context, productID int64, size string) (int64, error) {
	if productID <= 0 {
		return 0, &ValidationError{Field: "product id", Reason: "must be positive"}
	}
	if size == "" {
		return 0, &ValidationError{Field: "size", Reason: "must not be empty"}
	}

	path := fmt.Sprintf("/shop/baseproducts/%d/sizes", productID)

	var sizes []sizeDTO
	if err := c.call(ctx, http.MethodGet, path, nil, nil, false, "sizes", &sizes); err != nil {
		return 0, err
	}

	want := vendorSize(size)
	for i := range sizes {
		if sizes[i].Name == want || displaySize(sizes[i].Name) == size {
			return sizes[i].ID, nil
		}
	}

	return 0, fmt.Errorf("size %q for product %d: %w", size, productID, ErrInvalidSize)
}

// GetSKUFromID is the inverse catalog lookup: product id to manufacturer
// SKU. No login required.
func (c *Client) GetSKUFromID(ctx context.Context, productID int64) (string, error) {
	if productID <= 0 {
		return "", &ValidationError{Field: "product id", Reason: "must be positive"}
	}

	params := url.Values{}
	params.Set("ids", strconv.FormatInt(productID, 10))

	var products []catalogProductDTO
	err := c.call(ctx, http.MethodGet, "/shop/catalog/products", params, nil, false, "products", &products)
	if err != nil {
		return "", err
	}

	if len(products) == 0 || products[0].SKU == "" {
		return "", fmt.Errorf("product id %d: %w", productID, ErrNotFound)
	}
	return products[0].SKU, nil
}

// skuResolver backfills SKUs for account rows whose image URL does not
// carry one, caching catalog lookups within a single fetch so repeated
// rows for the same product cost one request.
type skuResolver struct {
	client *Client
	cache  map[int64]string
}

func newSKUResolver(c *Client) *skuResolver {
	return &skuResolver{client: c, cache: make(map[int64]string)}
}

// resolve returns the SKU for a product via the catalog id lookup. A
// failed lookup resolves to an empty SKU rather than failing the whole
// account fetch.
func (r *skuResolver) resolve(ctx context.Context, productID int64) string {
	if sku, ok := r.cache[productID]; ok {
		return sku
	}

	sku, err := r.client.GetSKUFromID(ctx, productID)
	if err != nil {
		r.client.log.Debug("sku lookup for account row failed",
			"product_id", productID,
			"error", err,
		)
		sku = ""
	}
	r.cache[productID] = sku
	return sku
}

// GetPayout asks the marketplace what a seller would net for a listing at
// the given store price. Pure computation on the vendor side, no account
// mutation and no login required. An empty currency defaults to EUR.
func (c *Client) GetPayout(
	ctx context.Context,
	storePrice int,
	method domain.SellMethod,
	currency string,
) (*domain.PayoutQuote, error) {
	if storePrice <= 0 {
		return nil, &ValidationError{Field: "store price", Reason: "must be positive"}
	}
	if !method.Valid() {
		return nil, &ValidationError{Field: "sell method", Reason: fmt.Sprintf("unknown method %q", method)}
	}
	if currency == "" {
		currency = "EUR"
	}

	params := url.Values{}
	params.Set("price", strconv.Itoa(storePrice))
	params.Set("sell_method", string(method))
	params.Set("currency", currency)

	var dto payoutDTO
	err := c.call(ctx, http.MethodGet, "/shop/listings/pricing", params, nil, false, "payout", &dto)
	if err != nil {
		return nil, err
	}

	amount, err := dto.Payout.Amount.Float64()
	if err != nil || dto.Payout.Amount == "" {
		return nil, &MalformedResponseError{Shape: "payout", Reason: "missing or invalid amount"}
	}

	quote := &domain.PayoutQuote{
		StorePrice: storePrice,
		Amount:     amount,
		Currency:   currency,
		SellMethod: method,
	}
	if dto.Payout.Currency != "" {
		quote.Currency = dto.Payout.Currency
	}
	return quote, nil
}
