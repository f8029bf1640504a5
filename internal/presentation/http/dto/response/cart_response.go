package response

import (
	"time"

	"github.com/sangkips/freshmart-pos/internal/application/service"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Money is an amount rounded to cents for display
type Money string

func money(d decimal.Decimal) Money {
	return Money(d.StringFixed(2))
}

// LineItemResponse is a cart line as shown at the register
type LineItemResponse struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Barcode        string `json:"barcode,omitempty"`
	Price          Money  `json:"price"`
	Stock          int    `json:"stock"`
	Quantity       int    `json:"quantity"`
	Discount       string `json:"discount"`
	DiscountType   string `json:"discount_type"`
	DiscountAmount Money  `json:"discount_amount"`
	Total          Money  `json:"total"`
}

// TotalsResponse holds the cart totals
type TotalsResponse struct {
	LineCount             int    `json:"line_count"`
	ItemCount             int    `json:"item_count"`
	Subtotal              Money  `json:"subtotal"`
	OverallDiscountAmount Money  `json:"overall_discount_amount"`
	SubtotalAfterDiscount Money  `json:"subtotal_after_discount"`
	Tax                   Money  `json:"tax"`
	GrandTotal            Money  `json:"grand_total"`
	BudgetExceeded        bool   `json:"budget_exceeded"`
	BudgetRemaining       *Money `json:"budget_remaining,omitempty"`
}

// CartResponse is the full cart state
type CartResponse struct {
	SessionID           string             `json:"session_id"`
	Items               []LineItemResponse `json:"items"`
	OverallDiscount     string             `json:"overall_discount"`
	OverallDiscountType string             `json:"overall_discount_type"`
	BudgetMode          bool               `json:"budget_mode"`
	BudgetLimit         Money              `json:"budget_limit"`
	PaymentMethod       string             `json:"payment_method,omitempty"`
	Totals              TotalsResponse     `json:"totals"`
}

// NewCartResponse converts a cart view for display
func NewCartResponse(v *service.CartView) *CartResponse {
	out := &CartResponse{
		SessionID:           v.SessionID.String(),
		Items:               make([]LineItemResponse, 0, len(v.Items)),
		OverallDiscount:     v.OverallDiscount.String(),
		OverallDiscountType: v.OverallDiscountType.String(),
		BudgetMode:          v.BudgetMode,
		BudgetLimit:         money(v.BudgetLimit),
		PaymentMethod:       v.PaymentMethod.String(),
		Totals: TotalsResponse{
			LineCount:             v.Totals.LineCount,
			ItemCount:             v.Totals.ItemCount,
			Subtotal:              money(v.Totals.Subtotal),
			OverallDiscountAmount: money(v.Totals.OverallDiscountAmount),
			SubtotalAfterDiscount: money(v.Totals.SubtotalAfterDiscount),
			Tax:                   money(v.Totals.Tax),
			GrandTotal:            money(v.Totals.GrandTotal),
			BudgetExceeded:        v.Totals.BudgetExceeded,
		},
	}
	if v.Totals.BudgetActive {
		remaining := money(v.Totals.BudgetRemaining)
		out.Totals.BudgetRemaining = &remaining
	}
	for _, it := range v.Items {
		out.Items = append(out.Items, newLineItemResponse(it))
	}
	return out
}

func newLineItemResponse(it entity.LineItem) LineItemResponse {
	return LineItemResponse{
		ProductID:      it.ProductID,
		Name:           it.Name,
		Category:       it.Category,
		Barcode:        it.Barcode,
		Price:          money(it.Price),
		Stock:          it.Stock,
		Quantity:       it.Quantity,
		Discount:       it.Discount.String(),
		DiscountType:   it.DiscountType.String(),
		DiscountAmount: money(it.DiscountAmount()),
		Total:          money(it.Total()),
	}
}

// AddItemResponse is returned after adding an item
type AddItemResponse struct {
	Cart    *CartResponse          `json:"cart"`
	Warning *service.ExpiryWarning `json:"warning,omitempty"`
}

// BillResponse is a finalized bill
type BillResponse struct {
	ID                    string             `json:"id"`
	Items                 []LineItemResponse `json:"items"`
	ItemCount             int                `json:"item_count"`
	ItemsSubtotal         Money              `json:"items_subtotal"`
	OverallDiscountAmount Money              `json:"overall_discount_amount"`
	SubtotalBeforeTax     Money              `json:"subtotal_before_tax"`
	TaxAmount             Money              `json:"tax_amount"`
	GrandTotal            Money              `json:"grand_total"`
	PaymentMethod         string             `json:"payment_method"`
	Date                  string             `json:"date"`
}

// NewBillResponse converts a bill for display
func NewBillResponse(b *entity.Bill) *BillResponse {
	out := &BillResponse{
		ID:                    b.ID,
		Items:                 make([]LineItemResponse, 0, len(b.Items)),
		ItemCount:             b.ItemCount,
		ItemsSubtotal:         money(b.ItemsSubtotal),
		OverallDiscountAmount: money(b.OverallDiscountAmount),
		SubtotalBeforeTax:     money(b.SubtotalBeforeTax),
		TaxAmount:             money(b.TaxAmount),
		GrandTotal:            money(b.GrandTotal),
		PaymentMethod:         b.PaymentMethod.String(),
		Date:                  b.Date.UTC().Format(time.RFC3339),
	}
	for _, it := range b.Items {
		out.Items = append(out.Items, newLineItemResponse(it))
	}
	return out
}
