package entity

import (
	"encoding/json"
	"testing"

	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineItemTotal(t *testing.T) {
	tests := []struct {
		name         string
		discount     string
		discountType enum.DiscountType
		wantDiscount string
		wantTotal    string
	}{
		{"no discount", "0", enum.DiscountPercentage, "0", "30"},
		{"percentage discount", "10", enum.DiscountPercentage, "3", "27"},
		{"fixed discount applies per unit", "2", enum.DiscountFixed, "6", "24"},
		{"discount larger than line is not clamped", "15", enum.DiscountFixed, "45", "-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := LineItem{
				Price:        dec("10"),
				Quantity:     3,
				Discount:     dec(tt.discount),
				DiscountType: tt.discountType,
			}
			assert.True(t, dec("30").Equal(li.Gross()))
			assert.True(t, dec(tt.wantDiscount).Equal(li.DiscountAmount()), "discount %s", li.DiscountAmount())
			assert.True(t, dec(tt.wantTotal).Equal(li.Total()), "total %s", li.Total())
		})
	}
}

func TestNewLineItem(t *testing.T) {
	p := Product{ID: "7", Name: "Organic Carrots", Category: "Vegetables", Price: dec("3.29"), Stock: 130}

	li := NewLineItem(p)

	assert.Equal(t, "7", li.ProductID)
	assert.Equal(t, 1, li.Quantity)
	assert.Equal(t, 130, li.Stock)
	assert.True(t, li.Discount.IsZero())
	assert.Equal(t, enum.DiscountPercentage, li.DiscountType)
}

func TestLineItemMarshalJSON(t *testing.T) {
	li := LineItem{ProductID: "1", Price: dec("10"), Quantity: 3, Discount: dec("10"), DiscountType: enum.DiscountPercentage}

	data, err := json.Marshal(li)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "27", out["total"])
	assert.Equal(t, "3", out["discount_amount"])
	assert.Equal(t, "percentage", out["discount_type"])
}
