// Package invoicecalc aggregates the diamond entries of an invoice into
// per-category subtotals, effective rates and a grand total.
//
// Everything here is pure: inputs are never mutated, nothing is cached and
// no I/O happens, so the functions are safe for concurrent use. Formatting of
// the results for display lives in pkg/format.
package invoicecalc

import "github.com/shopspring/decimal"

// Header carries the invoice fields the aggregator needs. Dates stay as ISO
// strings; the aggregator does not interpret them.
type Header struct {
	InvoiceNumber string          `json:"invoice_number"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	ClientID      string          `json:"client_id"`
	Status        string          `json:"status"`
	PaymentDate   *string         `json:"payment_date"`
	PaymentMethod *string         `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// ClientRates are the configured fallback rates of a client, used when a
// category has no weight (Plus) or no pieces (Minus) to derive a rate from.
type ClientRates struct {
	Plus  decimal.Decimal `json:"plus"`
	Minus decimal.Decimal `json:"minus"`
}

// LineItem is an entry decorated with its own display rate.
type LineItem struct {
	Entry
	DisplayRate decimal.Decimal `json:"display_rate"`
}

// Summary is the aggregated view of one invoice.
type Summary struct {
	PlusCount   int64           `json:"plus_count"`
	PlusWeight  decimal.Decimal `json:"plus_weight"`
	PlusValue   decimal.Decimal `json:"plus_value"`
	PlusRate    decimal.Decimal `json:"plus_rate"`
	MinusCount  int64           `json:"minus_count"`
	MinusWeight decimal.Decimal `json:"minus_weight"`
	MinusValue  decimal.Decimal `json:"minus_value"`
	MinusRate   decimal.Decimal `json:"minus_rate"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	LineItems   []LineItem      `json:"line_items"`
}

type bucket struct {
	count  int64
	weight decimal.Decimal
	value  decimal.Decimal
}

func (b *bucket) add(e Entry) {
	b.count += e.NumberOfDiamonds
	b.weight = b.weight.Add(e.WeightInKarats)
	b.value = b.value.Add(e.TotalValue)
}

// Summarize computes category subtotals, effective rates and the grand total
// for an invoice. rates may be nil.
//
// The stored header total wins over the recomputed sum whenever it is
// non-zero; the sum of entry values is only a fallback. Category values are
// rounded for display each on their own, so with paise in the entries they
// may not add up exactly to GrandTotal.
func Summarize(header Header, entries []Entry, rates *ClientRates) Summary {
	plus := bucket{weight: decimal.Zero, value: decimal.Zero}
	minus := bucket{weight: decimal.Zero, value: decimal.Zero}
	items := make([]LineItem, 0, len(entries))

	for _, e := range entries {
		if e.Category == CategoryPlus {
			plus.add(e)
		} else {
			minus.add(e)
		}
		items = append(items, LineItem{Entry: e, DisplayRate: EntryRate(e)})
	}

	var fallbackPlus, fallbackMinus decimal.Decimal
	if rates != nil {
		fallbackPlus = rates.Plus
		fallbackMinus = rates.Minus
	}

	s := Summary{
		PlusCount:   plus.count,
		PlusWeight:  plus.weight,
		PlusValue:   roundMoney(plus.value),
		PlusRate:    effectiveRate(plus.value, plus.weight, fallbackPlus),
		MinusCount:  minus.count,
		MinusWeight: minus.weight,
		MinusValue:  roundMoney(minus.value),
		MinusRate:   effectiveRate(minus.value, decimal.NewFromInt(minus.count), fallbackMinus),
		LineItems:   items,
	}

	// The fallback rounds the raw sum once; adding the rounded category
	// values would drift by up to a rupee per category.
	if header.TotalAmount.IsPositive() {
		s.GrandTotal = roundMoney(header.TotalAmount)
	} else {
		s.GrandTotal = roundMoney(plus.value.Add(minus.value))
	}
	return s
}

// EntryRate is the per-entry display rate: value per carat for Plus entries,
// value per piece otherwise. A zero denominator yields zero.
func EntryRate(e Entry) decimal.Decimal {
	if e.Category == CategoryPlus {
		return safeDivide(e.TotalValue, e.WeightInKarats)
	}
	return safeDivide(e.TotalValue, decimal.NewFromInt(e.NumberOfDiamonds))
}

func effectiveRate(value, denominator, fallback decimal.Decimal) decimal.Decimal {
	if denominator.IsPositive() {
		return safeDivide(value, denominator)
	}
	if fallback.IsPositive() {
		return roundMoney(fallback)
	}
	return decimal.Zero
}

func safeDivide(value, denominator decimal.Decimal) decimal.Decimal {
	if !denominator.IsPositive() {
		return decimal.Zero
	}
	return roundMoney(value.Div(denominator))
}

// roundMoney rounds half away from zero to whole rupees and clamps at zero.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	if !d.IsPositive() {
		return decimal.Zero
	}
	return d.Round(0)
}
