package request

import (
	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/sangkips/freshmart-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest opens a billing session. The body is optional.
type OpenSessionRequest struct {
	Register string `json:"register" binding:"omitempty,max=64"`
}

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,max=64"`
}

// UpdateQuantityRequest sets an item's quantity; zero or less removes it
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// DiscountRequest sets an item or overall discount. Type defaults to
// percentage.
type DiscountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Type   string           `json:"type" binding:"omitempty,oneof=percentage fixed"`
}

// DiscountType returns the requested discount type
func (r *DiscountRequest) DiscountType() enum.DiscountType {
	if r.Type == "" {
		return enum.DiscountPercentage
	}
	return enum.DiscountType(r.Type)
}

// Validate checks what binding tags cannot express
func (r *DiscountRequest) Validate() []apperror.FieldError {
	if r.Amount.IsNegative() {
		return []apperror.FieldError{{Field: "amount", Message: "must not be negative"}}
	}
	return nil
}

// BudgetRequest enables or disables budget mode
type BudgetRequest struct {
	Enabled *bool            `json:"enabled" binding:"required"`
	Limit   *decimal.Decimal `json:"limit"`
}

// LimitOrZero returns the limit, zero when omitted
func (r *BudgetRequest) LimitOrZero() decimal.Decimal {
	if r.Limit == nil {
		return decimal.Zero
	}
	return *r.Limit
}

// Validate checks what binding tags cannot express
func (r *BudgetRequest) Validate() []apperror.FieldError {
	if r.Limit != nil && r.Limit.IsNegative() {
		return []apperror.FieldError{{Field: "limit", Message: "must not be negative"}}
	}
	return nil
}

// PaymentRequest selects a payment method. An empty method clears it.
type PaymentRequest struct {
	Method string `json:"method" binding:"omitempty,oneof=cash card upi wallet"`
}
