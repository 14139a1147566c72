package invoicecalc

import "github.com/shopspring/decimal"

// Entry is a single diamond lot as seen by the aggregator. All numeric fields
// are already defaulted and non-negative.
type Entry struct {
	ID               string          `json:"id"`
	KapanID          string          `json:"kapan_id"`
	NumberOfDiamonds int64           `json:"number_of_diamonds"`
	WeightInKarats   decimal.Decimal `json:"weight_in_karats"`
	Category         Category        `json:"category"`
	TotalValue       decimal.Decimal `json:"total_value"`
}

// EntryInput is the loosely populated shape entries arrive in from clients
// and legacy rows. Nil numeric fields mean "not provided".
type EntryInput struct {
	ID               string           `json:"id"`
	KapanID          string           `json:"kapan_id"`
	NumberOfDiamonds *int64           `json:"number_of_diamonds"`
	WeightInKarats   *decimal.Decimal `json:"weight_in_karats"`
	Category         string           `json:"category"`
	TotalValue       *decimal.Decimal `json:"total_value"`
}

// Normalize applies the defaulting rules: absent or negative numbers become
// zero and the category string is folded into the enumeration.
func (in EntryInput) Normalize() Entry {
	e := Entry{
		ID:             in.ID,
		KapanID:        in.KapanID,
		WeightInKarats: decimal.Zero,
		TotalValue:     decimal.Zero,
		Category:       ParseCategory(in.Category),
	}
	if in.NumberOfDiamonds != nil && *in.NumberOfDiamonds > 0 {
		e.NumberOfDiamonds = *in.NumberOfDiamonds
	}
	if in.WeightInKarats != nil {
		e.WeightInKarats = nonNegative(*in.WeightInKarats)
	}
	if in.TotalValue != nil {
		e.TotalValue = nonNegative(*in.TotalValue)
	}
	return e
}

// NewEntry builds an Entry from already-typed values, applying the same
// non-negativity and category rules as Normalize.
func NewEntry(id, kapanID string, count int64, weight decimal.Decimal, category string, value decimal.Decimal) Entry {
	if count < 0 {
		count = 0
	}
	return Entry{
		ID:               id,
		KapanID:          kapanID,
		NumberOfDiamonds: count,
		WeightInKarats:   nonNegative(weight),
		Category:         ParseCategory(category),
		TotalValue:       nonNegative(value),
	}
}

// NormalizeAll converts a batch of inputs, preserving order.
func NormalizeAll(inputs []EntryInput) []Entry {
	entries := make([]Entry, 0, len(inputs))
	for _, in := range inputs {
		entries = append(entries, in.Normalize())
	}
	return entries
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
