package enum

import (
	"encoding/json"
)

// ExpiryStatus classifies how close a product is to its expiry date
type ExpiryStatus int

const (
	ExpiryNone     ExpiryStatus = 0
	ExpiryWarning  ExpiryStatus = 1
	ExpiryCritical ExpiryStatus = 2
	ExpiryExpired  ExpiryStatus = 3
)

func (s ExpiryStatus) String() string {
	names := [...]string{"none", "warning", "critical", "expired"}
	if int(s) < 0 || int(s) >= len(names) {
		return "none"
	}
	return names[s]
}

func (s ExpiryStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ExpiryStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ExpiryStatus(i)
		return nil
	}
	switch str {
	case "warning":
		*s = ExpiryWarning
	case "critical":
		*s = ExpiryCritical
	case "expired":
		*s = ExpiryExpired
	default:
		*s = ExpiryNone
	}
	return nil
}
