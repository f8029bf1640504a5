package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventBillFinalized = "BillFinalized"

	billFinalizedVersion = 1
)

// Envelope wraps every published event
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// BillLine is one line of a published bill
type BillLine struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type"`
	Total        decimal.Decimal `json:"total"`
}

// BillFinalizedPayload is the body of a BillFinalized event. Amounts are
// rounded to cents.
type BillFinalizedPayload struct {
	BillID            string          `json:"bill_id"`
	Register          string          `json:"register,omitempty"`
	Lines             []BillLine      `json:"lines"`
	ItemCount         int             `json:"item_count"`
	OverallDiscount   decimal.Decimal `json:"overall_discount"`
	SubtotalBeforeTax decimal.Decimal `json:"subtotal_before_tax"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	PaymentMethod     string          `json:"payment_method"`
	FinalizedAt       time.Time       `json:"finalized_at"`
}

// NewBillFinalizedPayload builds the event body for bill
func NewBillFinalizedPayload(bill entity.Bill, register string) BillFinalizedPayload {
	p := BillFinalizedPayload{
		BillID:            bill.ID,
		Register:          register,
		Lines:             make([]BillLine, 0, len(bill.Items)),
		ItemCount:         bill.ItemCount,
		OverallDiscount:   bill.OverallDiscountAmount.Round(2),
		SubtotalBeforeTax: bill.SubtotalBeforeTax.Round(2),
		TaxAmount:         bill.TaxAmount.Round(2),
		GrandTotal:        bill.GrandTotal.Round(2),
		PaymentMethod:     bill.PaymentMethod.String(),
		FinalizedAt:       bill.Date.UTC(),
	}
	for _, it := range bill.Items {
		p.Lines = append(p.Lines, BillLine{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			UnitPrice:    it.Price,
			Discount:     it.Discount,
			DiscountType: it.DiscountType.String(),
			Total:        it.Total().Round(2),
		})
	}
	return p
}

// NewEnvelope wraps payload in an envelope
func NewEnvelope(eventType string, version int, producer, correlationID string, payload interface{}, at time.Time) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  version,
		OccurredAt:    at.UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       body,
	}, nil
}
