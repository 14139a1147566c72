package invoicecalc

import (
	"encoding/json"
	"strings"
)

// Category is the pricing bucket of a diamond entry.
// Plus stones are priced per carat, Minus stones per piece.
type Category int

const (
	CategoryMinus Category = iota
	CategoryPlus
)

const (
	LabelPlus  = "4P Plus"
	LabelMinus = "4P Minus"
)

// String returns the canonical label used on invoices and in storage.
func (c Category) String() string {
	if c == CategoryPlus {
		return LabelPlus
	}
	return LabelMinus
}

// ParseCategory maps any raw category string onto the two-value enumeration.
// Only a case-insensitive "4P Plus" yields CategoryPlus; everything else,
// including unknown spellings, falls into CategoryMinus.
func ParseCategory(s string) Category {
	if strings.EqualFold(strings.TrimSpace(s), LabelPlus) {
		return CategoryPlus
	}
	return CategoryMinus
}

// LookupCategory is the strict form of ParseCategory used when accepting new
// entries. ok is false for anything other than a recognized spelling.
func LookupCategory(s string) (c Category, ok bool) {
	trimmed := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(trimmed, LabelPlus):
		return CategoryPlus, true
	case strings.EqualFold(trimmed, LabelMinus):
		return CategoryMinus, true
	default:
		return CategoryMinus, false
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseCategory(s)
	return nil
}
