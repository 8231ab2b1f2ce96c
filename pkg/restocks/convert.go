package restocks

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	domain "github.com/restocksgo/restocks/pkg/types"
)

// Wire DTOs for the marketplace's private API. Unknown extra fields are
// ignored by encoding/json; required fields are validated by the
// conversion functions below.

type autocompleteDTO struct {
	Products []catalogProductDTO `json:"products"`
}

type catalogProductDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Slug     string `json:"slug"`
	Brand    string `json:"brand"`
	ImageURL string `json:"image_url"`
}

type baseproductDTO struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	Brand     string      `json:"brand"`
	ImageURLs []string    `json:"image_urls"`
	Details   []detailDTO `json:"details"`
	Sizes     []sizeDTO   `json:"sizes"`
}

type detailDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type sizeDTO struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Prices []priceEntryDTO `json:"prices"`
}

type priceEntryDTO struct {
	StorePrice formattedAmountDTO `json:"store_price"`
}

type formattedAmountDTO struct {
	FormattedAmount string `json:"formatted_amount"`
}

type payoutDTO struct {
	Payout payoutAmountDTO `json:"payout"`
}

type payoutAmountDTO struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// accountItemDTO is the shared shape of listing, sale and shipping rows
// under /shop/account. Which fields are present depends on the endpoint.
type accountItemDTO struct {
	ID          int64           `json:"id"`
	Price       *valutaPriceDTO `json:"price"`
	Payout      json.Number     `json:"payout"`
	Date        string          `json:"date"`
	ShipBefore  string          `json:"ship_before"`
	Action      *actionDTO      `json:"action"`
	Size        sizeNameDTO     `json:"size"`
	Baseproduct baseRefDTO      `json:"baseproduct"`
}

type valutaPriceDTO struct {
	ValutaPrice json.Number `json:"valuta_price"`
	Text        string      `json:"text"`
}

type actionDTO struct {
	Link string `json:"link"`
}

type sizeNameDTO struct {
	Name string `json:"name"`
}

type baseRefDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url"`
}

type sellResultDTO struct {
	Success  bool `json:"success"`
	Listings []struct {
		ID int64 `json:"id"`
	} `json:"listings"`
}

type successDTO struct {
	Success bool `json:"success"`
}

type sellConfigDTO struct {
	IsConsignLocked bool `json:"is_consign_locked"`
}

type loginDTO struct {
	Token string `json:"token"`
}

type countryDTO struct {
	Code    string `json:"code"`
	Default struct {
		Language string `json:"language"`
		Valuta   string `json:"valuta"`
	} `json:"default"`
}

type shippingAddressDTO struct {
	Country string `json:"country"`
}

// shipDateLayout is the dd/mm/yy format the account endpoints use.
const shipDateLayout = "02/01/06"

func toProduct(dto *catalogProductDTO) (*domain.Product, error) {
	if dto.ID == 0 || dto.Name == "" || dto.Slug == "" {
		return nil, &MalformedResponseError{
			Shape:  "product",
			Reason: "missing required field (id, name or slug)",
		}
	}

	sku := dto.SKU
	if sku == "" {
		sku = skuFromImage(dto.ImageURL)
	}

	return &domain.Product{
		ID:       dto.ID,
		SKU:      sku,
		Slug:     dto.Slug,
		Name:     dto.Name,
		Brand:    dto.Brand,
		ImageURL: dto.ImageURL,
	}, nil
}

func toProductDetail(slug string, dto *baseproductDTO) (*domain.Product, error) {
	if dto.ID == 0 || dto.Name == "" {
		return nil, &MalformedResponseError{
			Shape:  "baseproduct",
			Reason: "missing required field (id or name)",
		}
	}

	p := &domain.Product{
		ID:    dto.ID,
		Slug:  slug,
		Name:  dto.Name,
		Brand: dto.Brand,
	}
	if dto.Slug != "" {
		p.Slug = dto.Slug
	}
	if len(dto.ImageURLs) > 0 {
		p.ImageURL = dto.ImageURLs[0]
	}
	// The first detail row carries the manufacturer SKU.
	if len(dto.Details) > 0 {
		p.SKU = dto.Details[0].Value
	}
	if p.SKU == "" {
		p.SKU = skuFromImage(p.ImageURL)
	}

	p.Variants = make([]domain.Variant, 0, len(dto.Sizes))
	for i := range dto.Sizes {
		s := &dto.Sizes[i]
		v := domain.Variant{
			Size:   displaySize(s.Name),
			SizeID: s.ID,
		}
		if len(s.Prices) > 0 {
			v.Price = parseAmount(s.Prices[0].StorePrice.FormattedAmount)
		}
		v.OutOfStock = v.Price == 0
		p.Variants = append(p.Variants, v)
	}

	return p, nil
}

func toListing(dto *accountItemDTO, method domain.SellMethod) (*domain.Listing, error) {
	if dto.ID == 0 || dto.Baseproduct.ID == 0 {
		return nil, &MalformedResponseError{
			Shape:  "listing",
			Reason: "missing required field (id or baseproduct.id)",
		}
	}

	l := &domain.Listing{
		ListingID:  dto.ID,
		ProductID:  dto.Baseproduct.ID,
		Name:       dto.Baseproduct.Name,
		SKU:        accountItemSKU(dto),
		Slug:       dto.Baseproduct.Slug,
		ImageURL:   dto.Baseproduct.ImageURL,
		Size:       displaySize(dto.Size.Name),
		SellMethod: method,
		Status:     domain.ListingActive,
	}
	if dto.Price != nil {
		l.Price = numberToInt(dto.Price.ValutaPrice)
	}

	return l, nil
}

func toSale(dto *accountItemDTO) (*domain.SaleRecord, error) {
	if dto.ID == 0 || dto.Baseproduct.ID == 0 {
		return nil, &MalformedResponseError{
			Shape:  "sale",
			Reason: "missing required field (id or baseproduct.id)",
		}
	}

	s := &domain.SaleRecord{
		ListingID: dto.ID,
		ProductID: dto.Baseproduct.ID,
		Name:      dto.Baseproduct.Name,
		SKU:       accountItemSKU(dto),
		ImageURL:  dto.Baseproduct.ImageURL,
		Size:      displaySize(dto.Size.Name),
		Payout:    numberToInt(dto.Payout),
	}
	if dto.Date != "" {
		if d, err := time.Parse(shipDateLayout, dto.Date); err == nil {
			s.Date = d
		}
	}

	return s, nil
}

// toShippingTask converts an account row into a shipping task. Rows
// without a ship-before deadline are not shipping work; callers skip them.
func toShippingTask(dto *accountItemDTO) (*domain.ShippingTask, error) {
	if dto.ID == 0 || dto.Baseproduct.ID == 0 {
		return nil, &MalformedResponseError{
			Shape:  "shipping task",
			Reason: "missing required field (id or baseproduct.id)",
		}
	}

	t := &domain.ShippingTask{
		ListingID: dto.ID,
		ProductID: dto.Baseproduct.ID,
		Name:      dto.Baseproduct.Name,
		SKU:       accountItemSKU(dto),
		Slug:      dto.Baseproduct.Slug,
		Size:      displaySize(dto.Size.Name),
	}
	if dto.Action != nil {
		t.LabelURL = dto.Action.Link
	}
	if dto.ShipBefore != "" {
		if d, err := time.Parse(shipDateLayout, dto.ShipBefore); err == nil {
			t.ShipBefore = d
		}
	}

	return t, nil
}

func accountItemSKU(dto *accountItemDTO) string {
	return skuFromImage(dto.Baseproduct.ImageURL)
}

var (
	digitsRe   = regexp.MustCompile(`\d+`)
	imageSKURe = regexp.MustCompile(`/products/(.*?)/`)
)

// parseAmount extracts an integer price from a formatted amount like
// "€ 234" or "234,00". Thousands separators are dropped first so
// "1.250" parses as 1250.
func parseAmount(s string) int {
	s = strings.ReplaceAll(s, ".", "")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	m := digitsRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

func numberToInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return parseAmount(n.String())
}

// skuFromImage recovers the manufacturer SKU from a product image URL of
// the form .../products/<sku>/....
func skuFromImage(image string) string {
	m := imageSKURe.FindStringSubmatch(image)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// vendorSize converts a human size label to the marketplace's spelling:
// half sizes use the vulgar fraction ("42.5" -> "42 ½"), thirds likewise.
func vendorSize(size string) string {
	switch {
	case strings.Contains(size, ".5"):
		return strings.Replace(size, ".5", " ½", 1)
	case strings.Contains(size, "1/3"):
		return strings.Replace(size, "1/3", "⅓", 1)
	case strings.Contains(size, "2/3"):
		return strings.Replace(size, "2/3", "⅔", 1)
	default:
		return size
	}
}

// displaySize converts a marketplace size label back to the plain form
// ("42 ½" -> "42.5").
func displaySize(size string) string {
	num := digitsRe.FindString(size)
	if num == "" {
		return size
	}
	switch {
	case strings.Contains(size, ".5"), strings.Contains(size, "½"):
		return num + ".5"
	case strings.Contains(size, "⅓"):
		return num + " 1/3"
	case strings.Contains(size, "⅔"):
		return num + " 2/3"
	default:
		return num
	}
}
