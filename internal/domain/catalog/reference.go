package catalog

import (
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type referenceProduct struct {
	id, name, category, barcode string
	price                       string
	stock                       int
	expiresInDays               int
}

var referenceData = []referenceProduct{
	{"1", "Fresh Apples", "Fruits", "7890123456789", "3.99", 150, 2},
	{"2", "Organic Bananas", "Fruits", "7890123456790", "2.49", 200, 5},
	{"3", "Whole Wheat Bread", "Bakery", "7890123456791", "4.29", 80, 1},
	{"4", "Fresh Milk", "Dairy", "7890123456792", "5.99", 120, 3},
	{"5", "Cheddar Cheese", "Dairy", "7890123456793", "7.99", 60, 14},
	{"6", "Fresh Tomatoes", "Vegetables", "7890123456794", "4.49", 100, 4},
	{"7", "Organic Carrots", "Vegetables", "7890123456795", "3.29", 130, 7},
	{"8", "Orange Juice", "Beverages", "7890123456796", "6.49", 90, 10},
	{"9", "Potato Chips", "Snacks", "7890123456797", "3.99", 200, 60},
	{"10", "Chicken Breast", "Meat", "7890123456798", "12.99", 50, 2},
	{"11", "Rice 5kg", "Grains", "7890123456799", "15.99", 75, 365},
	{"12", "Eggs (12 pack)", "Dairy", "7890123456800", "4.99", 110, 7},
}

// ReferenceProducts returns the store's built-in catalog. Expiry dates are
// relative to now, the way the store's shelf data is maintained.
func ReferenceProducts(now time.Time) []entity.Product {
	out := make([]entity.Product, 0, len(referenceData))
	for i, r := range referenceData {
		expiry := now.Add(time.Duration(r.expiresInDays) * 24 * time.Hour)
		out = append(out, entity.Product{
			ID:         r.id,
			Position:   i + 1,
			Name:       r.name,
			Category:   r.category,
			Price:      decimal.RequireFromString(r.price),
			Barcode:    r.barcode,
			Stock:      r.stock,
			ExpiryDate: &expiry,
		})
	}
	return out
}
