package cbadv

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// NullDecimal is a decimal field the API sometimes sends as "" or null when
// no value is available (thin markets, new listings). Valid reports whether
// a value was present.
type NullDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (d *NullDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" || string(data) == `""` {
		*d = NullDecimal{}
		return nil
	}

	var value decimal.Decimal
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*d = NullDecimal{Decimal: value, Valid: true}
	return nil
}

func (d NullDecimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Decimal)
}

func (d NullDecimal) String() string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
