// Package domain defines the core business types for the Restocks client.
package domain

import "time"

// SellMethod selects how a sale is fulfilled on Restocks.
type SellMethod string

// Sell method constants, using the marketplace's own wire values.
const (
	SellConsign SellMethod = "consignment"
	SellResell  SellMethod = "resale"
)

// Valid reports whether the sell method is one the marketplace accepts.
func (m SellMethod) Valid() bool {
	return m == SellConsign || m == SellResell
}

// ListingDuration is how long a listing stays active, in days.
type ListingDuration int

// Listing duration constants.
const (
	Duration30Days ListingDuration = 30
	Duration60Days ListingDuration = 60
	Duration90Days ListingDuration = 90
)

// Valid reports whether the duration is one the marketplace accepts.
func (d ListingDuration) Valid() bool {
	return d == Duration30Days || d == Duration60Days || d == Duration90Days
}

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

// Listing status constants.
const (
	ListingActive ListingStatus = "active"
	ListingSold   ListingStatus = "sold"
)

// Product is a catalog entry. SKU, slug and ID are vendor-assigned and
// opaque; the client never invents or rewrites them.
type Product struct {
	ID       int64     `json:"id"`
	SKU      string    `json:"sku"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// Variant is one sellable size of a product. SizeID is the vendor-internal
// identifier required by listing calls; Size is the human label.
type Variant struct {
	Size       string `json:"size"`
	SizeID     int64  `json:"size_id"`
	Price      int    `json:"price,omitempty"`
	OutOfStock bool   `json:"out_of_stock"`
}

// Listing is an active offer belonging to the authenticated account.
type Listing struct {
	ListingID  int64           `json:"listing_id"`
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Slug       string          `json:"slug,omitempty"`
	ImageURL   string          `json:"image_url,omitempty"`
	Size       string          `json:"size"`
	Price      int             `json:"price"`
	SellMethod SellMethod      `json:"sell_method"`
	Duration   ListingDuration `json:"duration,omitempty"`
	Status     ListingStatus   `json:"status,omitempty"`
}

// SaleRecord is a historical or in-progress sale, read-only from the
// client's perspective.
type SaleRecord struct {
	ListingID int64     `json:"listing_id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	ImageURL  string    `json:"image_url,omitempty"`
	Size      string    `json:"size"`
	Payout    int       `json:"payout"`
	Date      time.Time `json:"date"`
}

// ShippingTask is a sold or consigned item that still needs a shipping
// label. LabelURL is the vendor-provided download location.
type ShippingTask struct {
	ListingID  int64     `json:"listing_id"`
	ProductID  int64     `json:"product_id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Slug       string    `json:"slug,omitempty"`
	Size       string    `json:"size"`
	LabelURL   string    `json:"label_url"`
	ShipBefore time.Time `json:"ship_before"`
}

// PayoutQuote is the expected net payout for a hypothetical listing at a
// given store price. Derived, never persisted.
type PayoutQuote struct {
	StorePrice int        `json:"store_price"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	SellMethod SellMethod `json:"sell_method"`
}

// LabelFormat identifies the binary format of a downloaded shipping label.
type LabelFormat string

// Label format constants.
const (
	LabelGIF LabelFormat = "GIF"
	LabelPDF LabelFormat = "PDF"
)

// Label is a downloaded shipping label document.
type Label struct {
	Format LabelFormat `json:"format"`
	Data   []byte      `json:"-"`
}
