package entity

import (
	"encoding/json"
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one product entry in a cart. Product fields are a snapshot
// taken when the item was first added.
type LineItem struct {
	ProductID    string            `json:"product_id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Barcode      string            `json:"barcode,omitempty"`
	Price        decimal.Decimal   `json:"price"`
	Stock        int               `json:"stock"`
	ExpiryDate   *time.Time        `json:"expiry_date,omitempty"`
	Quantity     int               `json:"quantity"`
	Discount     decimal.Decimal   `json:"discount"`
	DiscountType enum.DiscountType `json:"discount_type"`
}

// NewLineItem creates a line item with quantity 1 and no discount
func NewLineItem(p Product) LineItem {
	return LineItem{
		ProductID:    p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Barcode:      p.Barcode,
		Price:        p.Price,
		Stock:        p.Stock,
		ExpiryDate:   p.ExpiryDate,
		Quantity:     1,
		Discount:     decimal.Zero,
		DiscountType: enum.DiscountPercentage,
	}
}

// Gross returns quantity x price
func (li LineItem) Gross() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DiscountAmount returns the discount deducted from the line. Fixed
// discounts apply per unit.
func (li LineItem) DiscountAmount() decimal.Decimal {
	if li.DiscountType == enum.DiscountFixed {
		return li.Discount.Mul(decimal.NewFromInt(int64(li.Quantity)))
	}
	return li.Gross().Mul(li.Discount).Div(hundred)
}

// Total returns the line value after the item discount. It may be negative
// when the discount exceeds the line value.
func (li LineItem) Total() decimal.Decimal {
	return li.Gross().Sub(li.DiscountAmount())
}

// MarshalJSON adds the derived amounts to the JSON form
func (li LineItem) MarshalJSON() ([]byte, error) {
	type Alias LineItem
	return json.Marshal(&struct {
		Alias
		Gross          decimal.Decimal `json:"gross"`
		DiscountAmount decimal.Decimal `json:"discount_amount"`
		Total          decimal.Decimal `json:"total"`
	}{
		Alias:          Alias(li),
		Gross:          li.Gross(),
		DiscountAmount: li.DiscountAmount(),
		Total:          li.Total(),
	})
}
