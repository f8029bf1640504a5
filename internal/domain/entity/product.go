package entity

import (
	"math"
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Expiry thresholds in whole days
const (
	CriticalExpiryDays = 3
	WarningExpiryDays  = 7
)

// Product represents an item in the store catalog. Catalog products are
// read-only once loaded; stock is a ceiling, never decremented.
type Product struct {
	ID         string          `gorm:"size:64;primaryKey" json:"id"`
	Position   int             `gorm:"not null;default:0;index" json:"-"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Category   string          `gorm:"size:100;not null;index" json:"category"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Barcode    string          `gorm:"size:64;index" json:"barcode,omitempty"`
	Stock      int             `gorm:"not null;default:0" json:"stock"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ExpiryStatus returns the product's expiry classification at now
func (p Product) ExpiryStatus(now time.Time) enum.ExpiryStatus {
	return ExpiryStatusAt(p.ExpiryDate, now)
}

// DaysUntilExpiry returns ceil((expiry - now) / 1 day). ok is false when the
// date is nil.
func DaysUntilExpiry(expiry *time.Time, now time.Time) (days int, ok bool) {
	if expiry == nil {
		return 0, false
	}
	d := expiry.Sub(now).Hours() / 24
	return int(math.Ceil(d)), true
}

// ExpiryStatusAt classifies an optional expiry date relative to now
func ExpiryStatusAt(expiry *time.Time, now time.Time) enum.ExpiryStatus {
	days, ok := DaysUntilExpiry(expiry, now)
	switch {
	case !ok:
		return enum.ExpiryNone
	case days < 0:
		return enum.ExpiryExpired
	case days <= CriticalExpiryDays:
		return enum.ExpiryCritical
	case days <= WarningExpiryDays:
		return enum.ExpiryWarning
	default:
		return enum.ExpiryNone
	}
}
