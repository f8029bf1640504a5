package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is the label recorded on a bill. No payment is processed.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
)

// PaymentMethods lists the accepted payment methods in display order
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCard, PaymentUPI, PaymentWallet}
}

func (m PaymentMethod) String() string {
	return string(m)
}

// Label returns the human readable name printed on receipts
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	case PaymentUPI:
		return "UPI"
	case PaymentWallet:
		return "Wallet"
	default:
		return ""
	}
}

// IsValid reports whether m is one of the accepted payment methods
func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods() {
		if m == known {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts a string into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
