package product

import "errors"

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrNameRequired          = errors.New("product name is required")
	ErrCategoryRequired      = errors.New("category is required")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidDeliveryPrice  = errors.New("delivery price cannot be negative")
	ErrInvalidStockDirection = errors.New("status must be increase or decrease")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrHasActiveOrders       = errors.New("product has active orders")
	ErrForbidden             = errors.New("forbidden")
)
