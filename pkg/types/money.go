package types

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is a lenient decimal amount. Catalog records arrive from clients and
// legacy imports with prices as JSON numbers, numeric strings, or garbage;
// Money absorbs all of them. Unparsable input coerces to zero instead of
// failing the whole payload, and absence is distinguishable from zero via
// IsSet.
type Money struct {
	dec decimal.Decimal
	set bool
}

func NewMoney(d decimal.Decimal) Money {
	return Money{dec: d, set: true}
}

func MoneyFromFloat(f float64) Money {
	return Money{dec: decimal.NewFromFloat(f), set: true}
}

func MoneyFromInt(n int64) Money {
	return Money{dec: decimal.NewFromInt(n), set: true}
}

// Decimal returns the underlying amount; zero when unset.
func (m Money) Decimal() decimal.Decimal {
	return m.dec
}

// IsSet reports whether a value was present at all.
func (m Money) IsSet() bool {
	return m.set
}

func (m Money) IsZero() bool {
	return m.dec.IsZero()
}

// Round2 rounds to two decimal places, the precision carried everywhere
// prices surface.
func (m Money) Round2() Money {
	return Money{dec: m.dec.Round(2), set: m.set}
}

func (m Money) Float64() float64 {
	f, _ := m.dec.Float64()
	return f
}

func (m Money) String() string {
	return m.dec.StringFixed(2)
}

// StringFixed renders the amount with the given number of decimal places.
func (m Money) StringFixed(places int32) string {
	return m.dec.StringFixed(places)
}

// UnmarshalJSON never fails: null clears the value, numbers and numeric
// strings parse, anything else coerces to a set zero.
func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = Money{}
		return nil
	}

	raw := string(trimmed)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	if raw == "" {
		*m = Money{}
		return nil
	}

	dec, err := decimal.NewFromString(raw)
	if err != nil {
		*m = Money{set: true}
		return nil
	}
	*m = Money{dec: dec, set: true}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.dec.StringFixed(2)), nil
}

// Value stores the amount as a numeric string.
func (m Money) Value() (driver.Value, error) {
	return m.dec.String(), nil
}

// Scan accepts numeric strings, floats, ints, and byte slices.
func (m *Money) Scan(value any) error {
	if value == nil {
		*m = Money{}
		return nil
	}
	switch v := value.(type) {
	case string:
		dec, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", v, err)
		}
		*m = Money{dec: dec, set: true}
	case []byte:
		return m.Scan(string(v))
	case float64:
		*m = MoneyFromFloat(v)
	case int64:
		*m = MoneyFromInt(v)
	default:
		return fmt.Errorf("money: unsupported scan type %T", value)
	}
	return nil
}
