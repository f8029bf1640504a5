package service

import (
	"context"
	"fmt"

	"github.com/sangkips/freshmart-pos/internal/domain/cart"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/pkg/printer"
	"go.uber.org/zap"
)

const receiptDateLayout = "2006-01-02 15:04"

// ReceiptService handles receipt formatting and thermal printing.
type ReceiptService struct {
	printer printer.Printer
	header  entity.ReceiptHeader
	width   int
	log     *zap.Logger
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(p printer.Printer, header entity.ReceiptHeader, width int, log *zap.Logger) *ReceiptService {
	return &ReceiptService{
		printer: p,
		header:  header,
		width:   width,
		log:     log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
		Width:      s.width,
	}
}

// BuildReceipt composes the printable receipt of a bill. Amounts are
// rounded to cents.
func (s *ReceiptService) BuildReceipt(bill entity.Bill) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:      s.header,
		ReceiptNo:   bill.ID,
		Date:        bill.Date.Format(receiptDateLayout),
		PaymentType: bill.PaymentMethod.Label(),
		Items:       make([]entity.ReceiptItem, 0, len(bill.Items)),
		SubTotal:    bill.ItemsSubtotal.Round(2),
		Discount:    bill.OverallDiscountAmount.Round(2),
		Tax:         bill.TaxAmount.Round(2),
		Total:       bill.GrandTotal.Round(2),
	}

	for _, it := range bill.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price.Round(2),
			Discount:  it.DiscountAmount().Round(2),
			Total:     it.Total().Round(2),
		})
	}

	return receipt
}

// Print formats a bill's receipt and sends it to the printer. The receipt
// is returned even when printing fails so it can be shown on screen.
func (s *ReceiptService) Print(ctx context.Context, bill entity.Bill) (*entity.Receipt, error) {
	receipt := s.BuildReceipt(bill)

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.log.Warn("printer error", zap.String("bill_id", bill.ID), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// Name identifies the receipt printer as a bill sink
func (s *ReceiptService) Name() string {
	return "printer"
}

// Deliver prints the receipt of a freshly finalized bill
func (s *ReceiptService) Deliver(ctx context.Context, bill entity.Bill) error {
	_, err := s.Print(ctx, bill)
	return err
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.Text("Bill:").
		Text(r.ReceiptNo).
		KeyValue("Date:", r.Date)
	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total.StringFixed(2))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice.StringFixed(2))
		}
		if item.Discount.IsPositive() {
			doc.TextF("  discount -%s", item.Discount.StringFixed(2))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", r.SubTotal.StringFixed(2))
	if !r.Discount.IsZero() {
		doc.KeyValue("Discount:", "-"+r.Discount.StringFixed(2))
	}
	doc.KeyValue(fmt.Sprintf("Tax (%s%%):", cart.TaxRate.Shift(2).String()), r.Tax.StringFixed(2))
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total.StringFixed(2)).
		SetBold(false)

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for shopping with us!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
