package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Entry is one item's quantity and unit price.
// On disk it is the two-element array [quantity, unit_price].
type Entry struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Line is a named entry, the unit of a snapshot.
type Line struct {
	Name  string
	Entry Entry
}

// Cost is quantity × unit price, unrounded.
func (e Entry) Cost() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(e.Quantity))
}

// Price limits. Both bound the expanded text of a price, which is what the
// data file and every view print.
const (
	MaxPriceScale     = 8  // decimal places
	MaxPriceIntDigits = 12 // digits before the point
)

var priceCeiling = decimal.New(1, MaxPriceIntDigits)

// CheckPrice rejects negative prices and prices outside the limits above.
// The exponent is checked before any arithmetic so 1e50000000 costs nothing.
func CheckPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return errors.New("negative values are not allowed")
	}
	if p.Exponent() < -MaxPriceScale {
		return fmt.Errorf("more than %d decimal places", MaxPriceScale)
	}
	if p.Exponent() > MaxPriceIntDigits || p.GreaterThanOrEqual(priceCeiling) {
		return fmt.Errorf("must be below %s", priceCeiling)
	}
	return nil
}

// Validate reports whether the entry satisfies the list invariants.
func (e Entry) Validate() error {
	if e.Quantity < 0 {
		return fmt.Errorf("negative quantity %d", e.Quantity)
	}
	if err := CheckPrice(e.UnitPrice); err != nil {
		return fmt.Errorf("unit price: %w", err)
	}
	return nil
}

// Validate checks the name as well as the entry.
func (l Line) Validate() error {
	if l.Name == "" {
		return errors.New("empty item name")
	}
	if !utf8.ValidString(l.Name) {
		return fmt.Errorf("item name %q is not valid UTF-8", l.Name)
	}
	if err := l.Entry.Validate(); err != nil {
		return fmt.Errorf("%q: %w", l.Name, err)
	}
	return nil
}

// MarshalJSON writes the price as a bare JSON number, not a quoted decimal string.
func (e Entry) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	b.WriteString(strconv.FormatInt(e.Quantity, 10))
	b.WriteString(", ")
	b.WriteString(e.UnitPrice.String())
	b.WriteByte(']')
	return b.Bytes(), nil
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("entry: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("entry: want [quantity, price], got %d elements", len(pair))
	}
	q, err := jsonNumber(pair[0])
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	// int64 never needs more than 19 digits; refuse larger exponents before
	// IsInteger and IntPart expand them
	if q.Exponent() > 18 || q.Exponent() < -18 {
		return fmt.Errorf("quantity: out of range: %s", bytes.TrimSpace(pair[0]))
	}
	if !q.IsInteger() || !q.Equal(decimal.NewFromInt(q.IntPart())) {
		return fmt.Errorf("quantity: not an integer: %s", q)
	}
	p, err := jsonNumber(pair[1])
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	e.Quantity = q.IntPart()
	e.UnitPrice = p
	return nil
}

// jsonNumber accepts only a JSON number literal; strings, null and bools are rejected.
func jsonNumber(raw json.RawMessage) (decimal.Decimal, error) {
	s := string(bytes.TrimSpace(raw))
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return decimal.Decimal{}, fmt.Errorf("not a number: %s", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number: %s", s)
	}
	return d, nil
}
