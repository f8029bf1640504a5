package cart

import (
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// TaxRate is applied to the subtotal after the overall discount.
var TaxRate = decimal.RequireFromString("0.08")

var hundred = decimal.NewFromInt(100)

// Totals is the derived money view of a cart. Values are exact; callers
// round for display.
type Totals struct {
	LineCount             int             `json:"line_count"`
	ItemCount             int             `json:"item_count"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	OverallDiscountAmount decimal.Decimal `json:"overall_discount_amount"`
	SubtotalAfterDiscount decimal.Decimal `json:"subtotal_after_discount"`
	Tax                   decimal.Decimal `json:"tax"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
	BudgetActive          bool            `json:"budget_active"`
	BudgetExceeded        bool            `json:"budget_exceeded"`
	BudgetRemaining       decimal.Decimal `json:"budget_remaining"`
}

// OverallDiscountAmount returns the cart-level deduction for subtotal. A
// fixed discount is a single flat amount regardless of item count.
func OverallDiscountAmount(subtotal, amount decimal.Decimal, t enum.DiscountType) decimal.Decimal {
	if t == enum.DiscountFixed {
		return amount
	}
	return subtotal.Mul(amount).Div(hundred)
}

// ComputeTotals derives every total from the given state. It has no side
// effects; the cart calls it on every read.
func ComputeTotals(items []entity.LineItem, overall decimal.Decimal, overallType enum.DiscountType, budgetMode bool, budgetLimit decimal.Decimal) Totals {
	t := Totals{
		LineCount: len(items),
		Subtotal:  decimal.Zero,
	}
	// insertion order keeps the sum reproducible
	for _, it := range items {
		t.ItemCount += it.Quantity
		t.Subtotal = t.Subtotal.Add(it.Total())
	}

	t.OverallDiscountAmount = OverallDiscountAmount(t.Subtotal, overall, overallType)
	t.SubtotalAfterDiscount = t.Subtotal.Sub(t.OverallDiscountAmount)
	t.Tax = t.SubtotalAfterDiscount.Mul(TaxRate)
	t.GrandTotal = t.SubtotalAfterDiscount.Add(t.Tax)

	t.BudgetRemaining = decimal.Zero
	if budgetMode && budgetLimit.IsPositive() {
		t.BudgetActive = true
		t.BudgetExceeded = t.GrandTotal.GreaterThan(budgetLimit)
		t.BudgetRemaining = budgetLimit.Sub(t.GrandTotal)
	}
	return t
}
