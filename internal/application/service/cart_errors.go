package service

import (
	"errors"
	"net/http"

	"github.com/sangkips/freshmart-pos/internal/domain/cart"
	"github.com/sangkips/freshmart-pos/pkg/apperror"
)

// Reasons carried by cart errors
const (
	ReasonProductNotFound       = "product_not_found"
	ReasonItemNotFound          = "item_not_found"
	ReasonItemExpired           = "item_expired"
	ReasonStockExceeded         = "stock_exceeded"
	ReasonEmptyCart             = "empty_cart"
	ReasonPaymentMethodRequired = "payment_method_required"
	ReasonBudgetExceeded        = "budget_exceeded"
	ReasonInvalidDiscountType   = "invalid_discount_type"
	ReasonInvalidPaymentMethod  = "invalid_payment_method"
	ReasonBillNotFound          = "bill_not_found"
)

var cartErrors = []struct {
	err    error
	code   int
	reason string
}{
	{cart.ErrProductNotFound, http.StatusNotFound, ReasonProductNotFound},
	{cart.ErrItemNotFound, http.StatusNotFound, ReasonItemNotFound},
	{cart.ErrItemExpired, http.StatusUnprocessableEntity, ReasonItemExpired},
	{cart.ErrStockExceeded, http.StatusConflict, ReasonStockExceeded},
	{cart.ErrEmptyCart, http.StatusUnprocessableEntity, ReasonEmptyCart},
	{cart.ErrPaymentMethodRequired, http.StatusUnprocessableEntity, ReasonPaymentMethodRequired},
	{cart.ErrBudgetExceeded, http.StatusUnprocessableEntity, ReasonBudgetExceeded},
	{cart.ErrInvalidDiscountType, http.StatusBadRequest, ReasonInvalidDiscountType},
	{cart.ErrInvalidPaymentMethod, http.StatusBadRequest, ReasonInvalidPaymentMethod},
}

// cartError converts a cart engine error into an AppError. The message
// keeps the detail the engine attached.
func cartError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range cartErrors {
		if errors.Is(err, m.err) {
			return apperror.NewReasonError(m.code, m.reason, err.Error())
		}
	}
	return err
}
