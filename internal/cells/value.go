package cells

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Value is a cell value: numeric for amounts, text for labels and dates.
// The zero Value is empty and reads as numeric zero.
type Value struct {
	raw     string
	num     decimal.Decimal
	numeric bool
}

// NumberValue creates a numeric Value
func NumberValue(d decimal.Decimal) Value {
	return Value{raw: d.String(), num: d, numeric: true}
}

// TextValue creates a text Value
func TextValue(s string) Value {
	return Value{raw: s}
}

// ParseValue interprets a raw string as a numeric Value when possible,
// falling back to text. Commas are accepted as decimal separators since
// the register forms are filled in French.
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	normalized := strings.ReplaceAll(trimmed, ",", ".")
	normalized = strings.ReplaceAll(normalized, " ", "")
	if d, err := decimal.NewFromString(normalized); err == nil {
		return Value{raw: trimmed, num: d, numeric: true}
	}
	return Value{raw: trimmed}
}

// Number returns the numeric value, or zero for empty/text cells
func (v Value) Number() decimal.Decimal {
	if !v.numeric {
		return decimal.Zero
	}
	return v.num
}

// Text returns the raw cell contents
func (v Value) Text() string {
	return v.raw
}

// IsNumeric reports whether the value carries a parsed number
func (v Value) IsNumeric() bool {
	return v.numeric
}

// IsEmpty reports whether the cell holds nothing at all
func (v Value) IsEmpty() bool {
	return v.raw == ""
}

// String implements fmt.Stringer
func (v Value) String() string {
	return v.raw
}
