// Package cart holds the bill calculation and cart state engine. A Cart is
// owned by a single caller and is not safe for concurrent use.
package cart

import (
	"fmt"
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/sangkips/freshmart-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductLookup resolves catalog products by id
type ProductLookup interface {
	FindByID(id string) (entity.Product, bool)
}

// Option configures a Cart
type Option func(*Cart)

// WithClock overrides the time source used for expiry checks and bill dates
func WithClock(now func() time.Time) Option {
	return func(c *Cart) {
		c.now = now
	}
}

// WithBillIDGenerator overrides bill id generation
func WithBillIDGenerator(gen func(time.Time) string) Option {
	return func(c *Cart) {
		c.newBillID = gen
	}
}

// Cart is the mutable state of the bill being assembled
type Cart struct {
	catalog ProductLookup
	now     func() time.Time

	newBillID func(time.Time) string

	items []entity.LineItem

	overallDiscount     decimal.Decimal
	overallDiscountType enum.DiscountType

	budgetMode  bool
	budgetLimit decimal.Decimal

	paymentMethod enum.PaymentMethod
}

// New creates an empty cart bound to the given catalog
func New(catalog ProductLookup, opts ...Option) *Cart {
	c := &Cart{
		catalog:   catalog,
		now:       time.Now,
		newBillID: utils.GenerateBillNo,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetSale()
	c.budgetLimit = decimal.Zero
	return c
}

func (c *Cart) resetSale() {
	c.items = nil
	c.overallDiscount = decimal.Zero
	c.overallDiscountType = enum.DiscountPercentage
	c.paymentMethod = ""
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of a product. Expired products are rejected. A
// product close to expiry is added and its status returned as a warning.
func (c *Cart) AddItem(productID string) (enum.ExpiryStatus, error) {
	product, ok := c.catalog.FindByID(productID)
	if !ok {
		return enum.ExpiryNone, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	status := product.ExpiryStatus(c.now())
	if status == enum.ExpiryExpired {
		return status, fmt.Errorf("%w: %s", ErrItemExpired, product.Name)
	}

	if i := c.indexOf(productID); i >= 0 {
		item := &c.items[i]
		if item.Quantity+1 > item.Stock {
			return status, fmt.Errorf("%w: only %d %s available", ErrStockExceeded, item.Stock, item.Name)
		}
		item.Quantity++
		return status, nil
	}

	if product.Stock < 1 {
		return status, fmt.Errorf("%w: only %d %s available", ErrStockExceeded, product.Stock, product.Name)
	}
	c.items = append(c.items, entity.NewLineItem(product))
	return status, nil
}

// UpdateQuantity sets the quantity of an item. A quantity of zero or less
// removes it.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	i := c.indexOf(productID)

	var stock int
	switch {
	case i >= 0:
		stock = c.items[i].Stock
	default:
		product, ok := c.catalog.FindByID(productID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		stock = product.Stock
	}

	if quantity <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	if quantity > stock {
		return fmt.Errorf("%w: only %d available", ErrStockExceeded, stock)
	}
	if i < 0 {
		return nil
	}
	c.items[i].Quantity = quantity
	return nil
}

// RemoveItem removes an item. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
}

// SetItemDiscount sets the discount of an item
func (c *Cart) SetItemDiscount(productID string, amount decimal.Decimal, t enum.DiscountType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDiscountType, t)
	}
	i := c.indexOf(productID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, productID)
	}
	c.items[i].Discount = amount
	c.items[i].DiscountType = t
	return nil
}

// SetOverallDiscount sets the cart-level discount
func (c *Cart) SetOverallDiscount(amount decimal.Decimal, t enum.DiscountType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDiscountType, t)
	}
	c.overallDiscount = amount
	c.overallDiscountType = t
	return nil
}

// SetBudget enables or disables budget mode. The check is inactive unless
// the limit is positive.
func (c *Cart) SetBudget(enabled bool, limit decimal.Decimal) {
	c.budgetMode = enabled
	c.budgetLimit = limit
}

// SetPaymentMethod selects the payment method for the sale
func (c *Cart) SetPaymentMethod(method enum.PaymentMethod) error {
	if !method.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}
	c.paymentMethod = method
	return nil
}

// ClearPaymentMethod unsets the payment method
func (c *Cart) ClearPaymentMethod() {
	c.paymentMethod = ""
}

// Items returns a copy of the line items in insertion order
func (c *Cart) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the line item for a product
func (c *Cart) Item(productID string) (entity.LineItem, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return entity.LineItem{}, false
	}
	return c.items[i], true
}

// Len returns the number of distinct products in the cart
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// PaymentMethod returns the selected payment method, empty if unset
func (c *Cart) PaymentMethod() enum.PaymentMethod {
	return c.paymentMethod
}

// OverallDiscount returns the cart-level discount and its type
func (c *Cart) OverallDiscount() (decimal.Decimal, enum.DiscountType) {
	return c.overallDiscount, c.overallDiscountType
}

// Budget returns the budget mode and limit
func (c *Cart) Budget() (bool, decimal.Decimal) {
	return c.budgetMode, c.budgetLimit
}

// Totals computes the current totals
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.items, c.overallDiscount, c.overallDiscountType, c.budgetMode, c.budgetLimit)
}

// Finalize completes the sale. On success the returned bill is a snapshot
// and the cart is reset for the next sale; budget settings are kept. On
// failure nothing changes.
func (c *Cart) Finalize() (entity.Bill, error) {
	if len(c.items) == 0 {
		return entity.Bill{}, ErrEmptyCart
	}
	if c.paymentMethod == "" {
		return entity.Bill{}, ErrPaymentMethodRequired
	}

	totals := c.Totals()
	if totals.BudgetExceeded {
		return entity.Bill{}, fmt.Errorf("%w: total %s, limit %s", ErrBudgetExceeded,
			totals.GrandTotal.StringFixed(2), c.budgetLimit.StringFixed(2))
	}

	at := c.now()
	bill := entity.Bill{
		ID:                    c.newBillID(at),
		Items:                 c.Items(),
		ItemCount:             totals.ItemCount,
		ItemsSubtotal:         totals.Subtotal,
		OverallDiscount:       c.overallDiscount,
		OverallDiscountType:   c.overallDiscountType,
		OverallDiscountAmount: totals.OverallDiscountAmount,
		SubtotalBeforeTax:     totals.SubtotalAfterDiscount,
		TaxAmount:             totals.Tax,
		GrandTotal:            totals.GrandTotal,
		PaymentMethod:         c.paymentMethod,
		Date:                  at,
	}

	c.resetSale()
	return bill, nil
}

// Clear abandons the current sale and resets budget settings
func (c *Cart) Clear() {
	c.resetSale()
	c.budgetMode = false
	c.budgetLimit = decimal.Zero
}
