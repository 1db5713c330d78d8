package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and available stock")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
)

var hundred = decimal.NewFromInt(100)

// DiscountedPrice returns price reduced by discount percent, rounded half-up to 2 places.
// A zero or negative discount returns the price unchanged.
func DiscountedPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	if !discountPercent.IsPositive() {
		return price.Round(2)
	}
	off := price.Mul(discountPercent).Div(hundred)
	return price.Sub(off).Round(2)
}

// OrderTotal is unit × quantity + delivery. Quantity must lie in [1, stock].
func OrderTotal(unit decimal.Decimal, quantity, stock int, delivery decimal.Decimal) (decimal.Decimal, error) {
	if quantity < 1 || quantity > stock {
		return decimal.Zero, ErrInvalidQuantity
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Add(delivery).Round(2), nil
}

func ValidateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}

func ValidatePrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
