package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "₹0"},
		{"hundreds", "999", "₹999"},
		{"thousand", "1000", "₹1,000"},
		{"lakh", "100000", "₹1,00,000"},
		{"ten lakh", "1234567", "₹12,34,567"},
		{"crore", "123456789", "₹12,34,56,789"},
		{"rounds half away from zero", "1499.5", "₹1,500"},
		{"rounds down", "1499.49", "₹1,499"},
		{"negative", "-250000", "-₹2,50,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatCurrency_ZeroValueDecimal(t *testing.T) {
	assert.Equal(t, "₹0", FormatCurrency(decimal.Decimal{}))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,23,456.79", FormatNumber(decimal.RequireFromString("123456.789"), 2))
	assert.Equal(t, "0.500", FormatNumber(decimal.RequireFromString("0.5"), 3))
	assert.Equal(t, "12,345", FormatNumber(decimal.RequireFromString("12345"), 0))
	assert.Equal(t, "-1,000.00", FormatNumber(decimal.RequireFromString("-1000"), 2))
	assert.Equal(t, "7", FormatNumber(decimal.RequireFromString("7"), -1))
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "2.50 ct", FormatWeight(decimal.RequireFromString("2.5")))
	assert.Equal(t, "1,250.13 ct", FormatWeight(decimal.RequireFromString("1250.125")))
}
