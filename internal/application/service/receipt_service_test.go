package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/sangkips/freshmart-pos/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrinter struct {
	printed [][]byte
	err     error
}

func (p *fakePrinter) Print(ctx context.Context, data []byte) error {
	p.printed = append(p.printed, data)
	return p.err
}
func (p *fakePrinter) Type() string                         { return printer.TypeNetwork }
func (p *fakePrinter) IsConnected(ctx context.Context) bool { return p.err == nil }
func (p *fakePrinter) Close() error                         { return nil }

func sampleBill() entity.Bill {
	d := decimal.RequireFromString
	return entity.Bill{
		ID: "BILL-1710061200000-0A1B2C3D",
		Items: []entity.LineItem{
			{ProductID: "4", Name: "Fresh Milk", Price: d("5.99"), Quantity: 2, Discount: d("10"), DiscountType: enum.DiscountPercentage},
			{ProductID: "9", Name: "Potato Chips", Price: d("3.99"), Quantity: 1, Discount: decimal.Zero, DiscountType: enum.DiscountPercentage},
		},
		ItemCount:             3,
		ItemsSubtotal:         d("14.772"),
		OverallDiscountAmount: d("2"),
		SubtotalBeforeTax:     d("12.772"),
		TaxAmount:             d("1.02176"),
		GrandTotal:            d("13.79376"),
		PaymentMethod:         enum.PaymentCard,
		Date:                  time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func testHeader() entity.ReceiptHeader {
	return entity.ReceiptHeader{
		StoreName: "Grocery Store",
		Address:   "123 Main Street, City, State 12345",
		Phone:     "Phone: (555) 123-4567",
	}
}

func TestBuildReceipt(t *testing.T) {
	svc := NewReceiptService(printer.NewNullPrinter(), testHeader(), printer.Width58mm, nopLogger())

	r := svc.BuildReceipt(sampleBill())

	assert.Equal(t, "BILL-1710061200000-0A1B2C3D", r.ReceiptNo)
	assert.Equal(t, "2024-03-10 09:00", r.Date)
	assert.Equal(t, "Card", r.PaymentType)
	assert.Equal(t, "14.77", r.SubTotal.StringFixed(2))
	assert.Equal(t, "2.00", r.Discount.StringFixed(2))
	assert.Equal(t, "1.02", r.Tax.StringFixed(2))
	assert.Equal(t, "13.79", r.Total.StringFixed(2))
	require.Len(t, r.Items, 2)
	assert.Equal(t, "1.20", r.Items[0].Discount.StringFixed(2))
	assert.Equal(t, "10.78", r.Items[0].Total.StringFixed(2))
}

func TestFormatReceiptContainsTotals(t *testing.T) {
	svc := NewReceiptService(printer.NewNullPrinter(), testHeader(), printer.Width58mm, nopLogger())
	data := FormatReceipt(svc.BuildReceipt(sampleBill()), printer.Width58mm)

	for _, want := range []string{
		"Grocery Store",
		"BILL-1710061200000-0A1B2C3D",
		"2x Fresh Milk",
		"  @ 5.99 each",
		"Discount:",
		"Tax (8%):",
		"13.79",
		"Payment:",
	} {
		assert.True(t, bytes.Contains(data, []byte(want)), "receipt is missing %q", want)
	}
	assert.True(t, bytes.HasSuffix(data, []byte{printer.GS, 'V', 0x01}))
}

func TestPrintAndDeliver(t *testing.T) {
	p := &fakePrinter{}
	svc := NewReceiptService(p, testHeader(), printer.Width58mm, nopLogger())

	require.NoError(t, svc.Deliver(context.Background(), sampleBill()))
	assert.Len(t, p.printed, 1)
	assert.Equal(t, "printer", svc.Name())

	p.err = errors.New("paper out")
	receipt, err := svc.Print(context.Background(), sampleBill())
	assert.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "BILL-1710061200000-0A1B2C3D", receipt.ReceiptNo)

	status := svc.GetStatus(context.Background())
	assert.True(t, status.Configured)
	assert.False(t, status.Connected)
	assert.Equal(t, printer.TypeNetwork, status.Type)
}
