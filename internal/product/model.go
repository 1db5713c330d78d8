package product

import (
	"strings"
	"time"

	"quickcart-be/internal/pricing"
	"quickcart-be/internal/utils"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                 string              `json:"_id"`
	Name               string              `json:"productName"`
	Image              string              `json:"image"`
	Images             []string            `json:"images"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	DiscountPercentage decimal.NullDecimal `json:"discountPercentage"`
	DiscountedPrice    decimal.Decimal     `json:"discountedPrice"`
	Quantity           int                 `json:"quantity"`
	Category           string              `json:"category"`
	ShopName           string              `json:"shopName"`
	SellerEmail        string              `json:"sellerEmail"`
	SellerName         string              `json:"sellerName"`
	Sizes              []string            `json:"sizes"`
	DeliveryPrice      decimal.Decimal     `json:"deliveryPrice"`
	BkashNumber        string              `json:"bkashNumber"`
	NogodNumber        string              `json:"nogodNumber"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// UnitPrice is the price a customer pays for one item.
func (p *Product) UnitPrice() decimal.Decimal {
	return pricing.DiscountedPrice(p.Price, p.DiscountPercentage.Decimal)
}

func (p *Product) fillDerived() {
	p.DiscountedPrice = p.UnitPrice()
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
}

// HasSize reports whether size is one of the product's sizes, ignoring case.
func (p *Product) HasSize(size string) bool {
	return utils.ContainsFold(p.Sizes, size)
}

// WalletNumber returns the seller's number for a wallet method name.
func (p *Product) WalletNumber(method string) string {
	switch method {
	case "bkash":
		return p.BkashNumber
	case "nogod":
		return p.NogodNumber
	}
	return ""
}

// Input holds the seller-editable fields of a product.
type Input struct {
	Name               string           `json:"productName"`
	Image              string           `json:"image"`
	Images             []string         `json:"images"`
	Description        string           `json:"description"`
	Price              decimal.Decimal  `json:"price"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	Quantity           int              `json:"quantity"`
	Category           string           `json:"category"`
	ShopName           string           `json:"shopName"`
	Sizes              []string         `json:"sizes"`
	DeliveryPrice      decimal.Decimal  `json:"deliveryPrice"`
	BkashNumber        string           `json:"bkashNumber"`
	NogodNumber        string           `json:"nogodNumber"`
}

func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.ShopName = strings.TrimSpace(in.ShopName)
	in.Sizes = compact(in.Sizes)
	in.Images = compact(in.Images)
}

func (in *Input) Validate() error {
	in.normalize()

	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Category == "" {
		return ErrCategoryRequired
	}
	if in.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if err := pricing.ValidatePrice(in.Price); err != nil {
		return err
	}
	if in.DeliveryPrice.IsNegative() {
		return ErrInvalidDeliveryPrice
	}
	if in.DiscountPercentage != nil {
		if err := pricing.ValidateDiscount(*in.DiscountPercentage); err != nil {
			return err
		}
	}
	return nil
}

// apply copies the editable fields onto p.
func (in *Input) apply(p *Product) {
	p.Name = in.Name
	p.Image = in.Image
	p.Images = in.Images
	p.Description = in.Description
	p.Price = in.Price
	p.DiscountPercentage = decimal.NullDecimal{}
	if in.DiscountPercentage != nil {
		p.DiscountPercentage = decimal.NewNullDecimal(*in.DiscountPercentage)
	}
	p.Quantity = in.Quantity
	p.Category = in.Category
	p.ShopName = in.ShopName
	p.Sizes = in.Sizes
	p.DeliveryPrice = in.DeliveryPrice
	p.BkashNumber = strings.TrimSpace(in.BkashNumber)
	p.NogodNumber = strings.TrimSpace(in.NogodNumber)
}

// compact trims entries and drops empty ones.
func compact(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type ListFilter struct {
	Search   string
	Category string
	Sort     Sort
	Page     int
	Limit    int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
}

type Page struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// StockChange is a manual seller stock adjustment.
type StockChange struct {
	QuantityToUpdate int    `json:"quantityToUpdate"`
	Status           string `json:"status"`
}

// Delta converts the change into a signed amount.
func (c StockChange) Delta() (int, error) {
	if c.QuantityToUpdate < 1 {
		return 0, ErrInvalidQuantity
	}
	switch strings.ToLower(strings.TrimSpace(c.Status)) {
	case "increase":
		return c.QuantityToUpdate, nil
	case "decrease":
		return -c.QuantityToUpdate, nil
	}
	return 0, ErrInvalidStockDirection
}
