package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiscountType represents how a discount amount is interpreted
type DiscountType string

const (
	// DiscountPercentage treats the amount as a percentage of the value it applies to
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed treats the amount as a currency value
	DiscountFixed DiscountType = "fixed"
)

func (t DiscountType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known discount types
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// ParseDiscountType converts a string into a DiscountType
func ParseDiscountType(s string) (DiscountType, error) {
	t := DiscountType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown discount type %q", s)
	}
	return t, nil
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseDiscountType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
