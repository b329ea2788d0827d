// Package shoplist holds the in-memory shopping list and its invariants.
// It does no I/O; persistence lives in store/jsonstore.
package shoplist

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/model"
)

// List maps item names to entries, remembering first-insertion order.
type List struct {
	order   []string
	entries map[string]model.Entry
}

func New() *List {
	return &List{entries: make(map[string]model.Entry)}
}

// FromLines rebuilds a list from a snapshot. A repeated name keeps its
// first position and its last entry.
func FromLines(lines []model.Line) (*List, error) {
	l := New()
	for _, ln := range lines {
		if err := ln.Validate(); err != nil {
			return nil, err
		}
		l.put(ln.Name, ln.Entry)
	}
	return l, nil
}

func (l *List) put(name string, e model.Entry) {
	if _, ok := l.entries[name]; !ok {
		l.order = append(l.order, name)
	}
	l.entries[name] = e
}

// Add inserts name, or for an existing name adds to its quantity and
// replaces its unit price.
func (l *List) Add(name, quantity, unitPrice string) (model.Line, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Line{}, &ValidationError{Field: "item", Reason: "required"}
	}
	// the data file is JSON, which cannot hold these bytes unchanged
	if !utf8.ValidString(name) {
		return model.Line{}, &ValidationError{Field: "item", Value: strings.ToValidUTF8(name, "\uFFFD"), Reason: "not valid UTF-8"}
	}
	q, err := parseQuantity("amount", quantity)
	if err != nil {
		return model.Line{}, err
	}
	p, err := parsePrice(unitPrice)
	if err != nil {
		return model.Line{}, err
	}

	e := model.Entry{Quantity: q, UnitPrice: p}
	if cur, ok := l.entries[name]; ok {
		if q > math.MaxInt64-cur.Quantity {
			return model.Line{}, &ValidationError{Field: "amount", Value: strings.TrimSpace(quantity), Reason: "total amount too large"}
		}
		e.Quantity += cur.Quantity
	}
	l.put(name, e)
	return model.Line{Name: name, Entry: e}, nil
}

// EditQuantity replaces the quantity of an existing item; the price is kept.
func (l *List) EditQuantity(name, quantity string) (model.Line, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Line{}, &ValidationError{Field: "item", Reason: "required"}
	}
	q, err := parseQuantity("new amount", quantity)
	if err != nil {
		return model.Line{}, err
	}
	e, ok := l.entries[name]
	if !ok {
		return model.Line{}, &NotFoundError{Name: name}
	}
	e.Quantity = q
	l.entries[name] = e
	return model.Line{Name: name, Entry: e}, nil
}

func (l *List) Remove(name string) error {
	name = strings.TrimSpace(name)
	if _, ok := l.entries[name]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(l.entries, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

func (l *List) Clear() {
	l.order = nil
	l.entries = make(map[string]model.Entry)
}

// TotalCost sums quantity × unit price over all items, rounded to cents.
func (l *List) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.Cost())
	}
	return total.Round(2)
}

// Snapshot returns the items in insertion order. The slice is a copy.
func (l *List) Snapshot() []model.Line {
	out := make([]model.Line, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, model.Line{Name: n, Entry: l.entries[n]})
	}
	return out
}

func (l *List) Get(name string) (model.Entry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

func (l *List) Len() int { return len(l.order) }

func parseQuantity(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: field, Reason: "required"}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: s, Reason: "not a whole number"}
	}
	if n < 0 {
		return 0, &ValidationError{Field: field, Value: s, Reason: "negative values are not allowed"}
	}
	return n, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, &ValidationError{Field: "price", Reason: "required"}
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: "price", Value: s, Reason: "not a number"}
	}
	if err := model.CheckPrice(p); err != nil {
		return decimal.Decimal{}, &ValidationError{Field: "price", Value: s, Reason: err.Error()}
	}
	return p, nil
}

// FormatLine renders an entry the way list views show it.
func FormatLine(ln model.Line) string {
	return fmt.Sprintf("- %s (Amount: %d, Price: $%s)", ln.Name, ln.Entry.Quantity, ln.Entry.UnitPrice.StringFixed(2))
}
