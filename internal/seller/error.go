package seller

import "errors"

var (
	ErrSellerNotFound    = errors.New("seller application not found")
	ErrAlreadyApplied    = errors.New("seller application already submitted")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadySeller     = errors.New("user is already a seller")
	ErrEmailMismatch     = errors.New("application email must match the signed in user")
	ErrNameRequired      = errors.New("name is required")
	ErrPhoneRequired     = errors.New("phone is required")
	ErrDocumentsRequired = errors.New("nid front and back images are required")
	ErrUnauthorized      = errors.New("unauthorized")
)
