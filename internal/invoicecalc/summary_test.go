package invoicecalc

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleEntries() []Entry {
	return []Entry{
		NewEntry("d1", "K-101", 10, dec("2.50"), "4P Plus", dec("12500")),
		NewEntry("d2", "K-101", 40, dec("1.20"), "4P Minus", dec("6000")),
		NewEntry("d3", "K-102", 5, dec("1.50"), "4p plus", dec("7500")),
		NewEntry("d4", "K-103", 20, dec("0.80"), "4p Minus", dec("3000")),
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	t.Run("no entries and no stored total", func(t *testing.T) {
		s := Summarize(Header{}, nil, nil)

		assert.Equal(t, int64(0), s.PlusCount)
		assert.Equal(t, int64(0), s.MinusCount)
		assert.True(t, s.PlusWeight.IsZero())
		assert.True(t, s.MinusWeight.IsZero())
		assert.True(t, s.PlusValue.IsZero())
		assert.True(t, s.MinusValue.IsZero())
		assert.True(t, s.PlusRate.IsZero())
		assert.True(t, s.MinusRate.IsZero())
		assert.True(t, s.GrandTotal.IsZero())
		assert.NotNil(t, s.LineItems)
		assert.Empty(t, s.LineItems)
	})

	t.Run("no entries keeps stored total", func(t *testing.T) {
		s := Summarize(Header{TotalAmount: dec("5000")}, []Entry{}, nil)

		assert.Equal(t, "5000", s.GrandTotal.String())
		assert.True(t, s.PlusValue.IsZero())
	})

	t.Run("no entries uses client rates as fallback", func(t *testing.T) {
		s := Summarize(Header{}, nil, &ClientRates{Plus: dec("4800"), Minus: dec("150")})

		assert.Equal(t, "4800", s.PlusRate.String())
		assert.Equal(t, "150", s.MinusRate.String())
	})
}

func TestSummarize_PartitionCompleteness(t *testing.T) {
	entries := sampleEntries()
	s := Summarize(Header{}, entries, nil)

	var count int64
	weight := decimal.Zero
	value := decimal.Zero
	for _, e := range entries {
		count += e.NumberOfDiamonds
		weight = weight.Add(e.WeightInKarats)
		value = value.Add(e.TotalValue)
	}

	assert.Equal(t, count, s.PlusCount+s.MinusCount)
	assert.True(t, weight.Equal(s.PlusWeight.Add(s.MinusWeight)))
	assert.True(t, value.Equal(s.PlusValue.Add(s.MinusValue)))

	assert.Equal(t, int64(15), s.PlusCount)
	assert.Equal(t, "4", s.PlusWeight.String())
	assert.Equal(t, "20000", s.PlusValue.String())
	assert.Equal(t, int64(60), s.MinusCount)
	assert.Equal(t, "2", s.MinusWeight.String())
	assert.Equal(t, "9000", s.MinusValue.String())
}

func TestSummarize_PartitionCompletenessWithPaise(t *testing.T) {
	entries := []Entry{
		NewEntry("a", "K", 3, dec("1.25"), "4P Plus", dec("100.50")),
		NewEntry("b", "K", 7, dec("0.40"), "4p minus", dec("200.50")),
		NewEntry("c", "K", 2, dec("0.35"), "4p PLUS", dec("49.99")),
	}
	s := Summarize(Header{}, entries, nil)

	assert.Equal(t, int64(12), s.PlusCount+s.MinusCount)
	assert.Equal(t, "2", s.PlusWeight.Add(s.MinusWeight).String())

	// 351.00 in total; each category is rounded on its own for display.
	assert.Equal(t, "351", s.GrandTotal.String())
	assert.Equal(t, "150", s.PlusValue.String())
	assert.Equal(t, "201", s.MinusValue.String())
	for _, v := range []decimal.Decimal{s.PlusValue, s.MinusValue} {
		assert.True(t, v.Equal(v.Truncate(0)), v.String())
	}
}

func TestSummarize_CasingPartitionsIdentically(t *testing.T) {
	upper := []Entry{NewEntry("a", "K", 3, dec("1.5"), "4P Plus", dec("900"))}
	lower := []Entry{NewEntry("a", "K", 3, dec("1.5"), "4p Plus", dec("900"))}

	assert.Equal(t, mustJSON(t, Summarize(Header{}, upper, nil)), mustJSON(t, Summarize(Header{}, lower, nil)))
}

func TestSummarize_EffectiveRates(t *testing.T) {
	s := Summarize(Header{}, sampleEntries(), &ClientRates{Plus: dec("1"), Minus: dec("1")})

	// 20000 / 4 ct and 9000 / 60 pcs; the client rates are ignored when
	// the denominators are positive.
	assert.Equal(t, "5000", s.PlusRate.String())
	assert.Equal(t, "150", s.MinusRate.String())
}

func TestSummarize_RatesRoundHalfAwayFromZero(t *testing.T) {
	entries := []Entry{
		NewEntry("a", "K", 1, dec("2"), "4P Plus", dec("1001")),  // 500.5
		NewEntry("b", "K", 4, dec("1"), "4P Minus", dec("1001")), // 250.25
	}
	s := Summarize(Header{}, entries, nil)

	assert.Equal(t, "501", s.PlusRate.String())
	assert.Equal(t, "250", s.MinusRate.String())
}

func TestSummarize_ZeroDenominators(t *testing.T) {
	entries := []Entry{
		NewEntry("a", "K", 5, decimal.Zero, "4P Plus", dec("1000")),
		NewEntry("b", "K", 0, dec("1.1"), "4P Minus", dec("700")),
	}

	t.Run("without fallback", func(t *testing.T) {
		s := Summarize(Header{}, entries, nil)

		assert.True(t, s.PlusRate.IsZero())
		assert.True(t, s.MinusRate.IsZero())
		for _, item := range s.LineItems {
			assert.True(t, item.DisplayRate.IsZero(), item.ID)
		}
	})

	t.Run("with fallback", func(t *testing.T) {
		s := Summarize(Header{}, entries, &ClientRates{Plus: dec("4200.4"), Minus: dec("99.5")})

		assert.Equal(t, "4200", s.PlusRate.String())
		assert.Equal(t, "100", s.MinusRate.String())
	})
}

func TestSummarize_RatesNonNegativeIntegers(t *testing.T) {
	inputs := []EntryInput{
		{ID: "a", Category: "4P Plus", WeightInKarats: ptrDec("0.333"), TotalValue: ptrDec("1000")},
		{ID: "b", Category: "4P Minus", NumberOfDiamonds: ptrInt(7), TotalValue: ptrDec("1000")},
		{ID: "c", Category: "4P Plus", TotalValue: ptrDec("-50")},
		{ID: "d", Category: "mystery"},
	}
	s := Summarize(Header{}, NormalizeAll(inputs), nil)

	rates := []decimal.Decimal{s.PlusRate, s.MinusRate, s.GrandTotal, s.PlusValue, s.MinusValue}
	for _, item := range s.LineItems {
		rates = append(rates, item.DisplayRate)
	}
	for _, r := range rates {
		assert.False(t, r.IsNegative())
		assert.True(t, r.Equal(r.Truncate(0)), r.String())
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	header := Header{InvoiceNumber: "INV-1", TotalAmount: dec("29000")}
	first := Summarize(header, sampleEntries(), &ClientRates{Plus: dec("10"), Minus: dec("5")})
	second := Summarize(header, sampleEntries(), &ClientRates{Plus: dec("10"), Minus: dec("5")})

	assert.Equal(t, mustJSON(t, first), mustJSON(t, second))
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	before := mustJSON(t, entries)

	_ = Summarize(Header{}, entries, nil)

	assert.Equal(t, before, mustJSON(t, entries))
}

func TestSummarize_GrandTotalPrecedence(t *testing.T) {
	entries := []Entry{
		NewEntry("a", "K", 2, dec("1"), "4P Plus", dec("2500")),
		NewEntry("b", "K", 3, dec("1"), "4P Minus", dec("1500")),
	}

	tests := []struct {
		name   string
		stored decimal.Decimal
		want   string
	}{
		{name: "stored total wins", stored: dec("5000"), want: "5000"},
		{name: "zero stored total falls back to sum", stored: decimal.Zero, want: "4000"},
		{name: "unset stored total falls back to sum", stored: decimal.Decimal{}, want: "4000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(Header{TotalAmount: tt.stored}, entries, nil)
			assert.Equal(t, tt.want, s.GrandTotal.String())
		})
	}
}

func TestSummarize_FallbackTotalRoundsOnce(t *testing.T) {
	entries := []Entry{
		NewEntry("a", "K", 1, dec("1"), "4P Plus", dec("100.50")),
		NewEntry("b", "K", 1, dec("1"), "4P Minus", dec("200.50")),
	}

	s := Summarize(Header{}, entries, nil)
	assert.Equal(t, "101", s.PlusValue.String())
	assert.Equal(t, "201", s.MinusValue.String())
	assert.Equal(t, "301", s.GrandTotal.String())

	s = Summarize(Header{TotalAmount: dec("301.49")}, entries, nil)
	assert.Equal(t, "301", s.GrandTotal.String())
}

func TestEntryRate(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "plus priced per carat",
			entry: NewEntry("a", "K", 9, dec("2"), "4P Plus", dec("1000")),
			want:  "500",
		},
		{
			name:  "minus priced per piece",
			entry: NewEntry("b", "K", 3, dec("7"), "4P Minus", dec("900")),
			want:  "300",
		},
		{
			name:  "unknown category priced per piece",
			entry: NewEntry("c", "K", 4, dec("7"), "4P Mid", dec("900")),
			want:  "225",
		},
		{
			name:  "zero weight",
			entry: NewEntry("d", "K", 4, decimal.Zero, "4P Plus", dec("900")),
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EntryRate(tt.entry).String())
		})
	}
}

func TestSummarize_LineItemsKeepOrder(t *testing.T) {
	s := Summarize(Header{}, sampleEntries(), nil)

	require.Len(t, s.LineItems, 4)
	ids := []string{}
	for _, item := range s.LineItems {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"d1", "d2", "d3", "d4"}, ids)
	assert.Equal(t, "5000", s.LineItems[0].DisplayRate.String())
	assert.Equal(t, "150", s.LineItems[1].DisplayRate.String())
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func ptrDec(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptrInt(n int64) *int64 {
	return &n
}
