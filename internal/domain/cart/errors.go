package cart

import "errors"

// Errors returned by cart operations. All of them leave the cart unchanged.
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrItemExpired           = errors.New("product has expired")
	ErrItemNotFound          = errors.New("item not in cart")
	ErrStockExceeded         = errors.New("quantity exceeds available stock")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrBudgetExceeded        = errors.New("grand total exceeds budget limit")
	ErrInvalidDiscountType   = errors.New("invalid discount type")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
)
