package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is composed from a Bill at print time and never stored.
type Receipt struct {
	Header      ReceiptHeader   `json:"header"`
	ReceiptNo   string          `json:"receipt_no"`
	Date        string          `json:"date"`
	PaymentType string          `json:"payment_type,omitempty"`
	Items       []ReceiptItem   `json:"items"`
	SubTotal    decimal.Decimal `json:"sub_total"`
	Discount    decimal.Decimal `json:"discount"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}
