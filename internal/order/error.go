package order

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrNotCancelable       = errors.New("order can no longer be canceled")
	ErrPhoneRequired       = errors.New("phone number is required")
	ErrAddressRequired     = errors.New("delivery address is required")
	ErrTransactionRequired = errors.New("transaction id is required")
	ErrPaymentRequired     = errors.New("payment method is required")
	ErrInvalidSize         = errors.New("size is not available for this product")
	ErrOrderNumberTaken    = errors.New("order number already in use")
)
