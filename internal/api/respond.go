package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"quickcart-be/internal/identity"
	"quickcart-be/internal/imagehost"
	"quickcart-be/internal/logger"
	"quickcart-be/internal/order"
	"quickcart-be/internal/payment"
	"quickcart-be/internal/pricing"
	"quickcart-be/internal/product"
	"quickcart-be/internal/review"
	"quickcart-be/internal/seller"
	"quickcart-be/internal/stats"
	"quickcart-be/internal/user"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// Prices go out as JSON numbers; the storefront does arithmetic on them.
	decimal.MarshalJSONWithoutQuotes = true
}

const maxBodyBytes = 1 << 20

var (
	errBadRequest   = errors.New("invalid request body")
	errNotFound     = errors.New("not found")
	errUnauthorized = errors.New("unauthorized access")
)

var statusByError = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		errBadRequest,
		pricing.ErrInvalidQuantity, pricing.ErrInvalidDiscount, pricing.ErrInvalidPrice,
		product.ErrNameRequired, product.ErrCategoryRequired, product.ErrInvalidQuantity,
		product.ErrInvalidDeliveryPrice, product.ErrInvalidStockDirection,
		order.ErrInvalidStatus, order.ErrPhoneRequired, order.ErrAddressRequired,
		order.ErrTransactionRequired, order.ErrPaymentRequired, order.ErrInvalidSize,
		payment.ErrUnsupportedMethod,
		user.ErrInvalidRole, user.ErrWeakPassword, user.ErrInvalidEmail, user.ErrNameRequired,
		user.ErrInvalidVerificationToken,
		review.ErrInvalidRating, review.ErrReviewRequired,
		seller.ErrNameRequired, seller.ErrPhoneRequired, seller.ErrDocumentsRequired,
		imagehost.ErrNotAnImage, imagehost.ErrEmpty,
	}},
	{http.StatusRequestEntityTooLarge, []error{imagehost.ErrTooLarge}},
	{http.StatusUnauthorized, []error{
		errUnauthorized, user.ErrInvalidCredentials, identity.ErrInvalidIDToken,
		order.ErrUnauthorized, review.ErrUnauthorized, seller.ErrUnauthorized, stats.ErrUnauthorized,
	}},
	{http.StatusForbidden, []error{
		product.ErrForbidden, order.ErrForbidden, review.ErrForbidden, user.ErrForbidden,
		user.ErrEmailNotVerified, identity.ErrEmailUnverified, seller.ErrEmailMismatch,
	}},
	{http.StatusNotFound, []error{
		errNotFound, product.ErrProductNotFound, order.ErrOrderNotFound, review.ErrReviewNotFound,
		review.ErrProductNotFound, user.ErrUserNotFound, seller.ErrSellerNotFound, seller.ErrUserNotFound,
	}},
	{http.StatusConflict, []error{
		product.ErrInsufficientStock, product.ErrHasActiveOrders,
		order.ErrInsufficientStock, order.ErrInvalidTransition, order.ErrNotCancelable,
		user.ErrEmailExists, user.ErrAlreadySeller, seller.ErrAlreadyApplied, seller.ErrAlreadySeller,
	}},
	{http.StatusBadGateway, []error{imagehost.ErrUpstream}},
	{http.StatusServiceUnavailable, []error{imagehost.ErrNotConfigured, identity.ErrProviderDisabled}},
}

// statusFor maps a domain error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, group := range statusByError {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromCtx(r.Context()).Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]string{"error": message})
}

// handleError writes err with its mapped status. Internal details are logged, never returned.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}

// decodeJSON reads a bounded JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errBadRequest
	}
	return nil
}
