package entity

import (
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Bill is the immutable record produced when a sale is finalized. It is
// handed to receipt collaborators and never stored by the service.
type Bill struct {
	ID                    string             `json:"id"`
	Items                 []LineItem         `json:"items"`
	ItemCount             int                `json:"item_count"`
	ItemsSubtotal         decimal.Decimal    `json:"items_subtotal"`
	OverallDiscount       decimal.Decimal    `json:"overall_discount"`
	OverallDiscountType   enum.DiscountType  `json:"overall_discount_type"`
	OverallDiscountAmount decimal.Decimal    `json:"overall_discount_amount"`
	SubtotalBeforeTax     decimal.Decimal    `json:"subtotal_before_tax"`
	TaxAmount             decimal.Decimal    `json:"tax_amount"`
	GrandTotal            decimal.Decimal    `json:"grand_total"`
	PaymentMethod         enum.PaymentMethod `json:"payment_method"`
	Date                  time.Time          `json:"date"`
}
