package format

import (
	"strings"
	"time"
)

// DateStyle selects the rendering of FormatDate.
type DateStyle int

const (
	// DateShort renders dd/MM/yyyy.
	DateShort DateStyle = iota
	// DateLong renders dd MMM yyyy.
	DateLong
)

// NotAvailable is rendered for missing or unparseable dates.
const NotAvailable = "N/A"

var dateLayouts = map[DateStyle]string{
	DateShort: "02/01/2006",
	DateLong:  "02 Jan 2006",
}

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateStyle maps "short" and "long" onto a DateStyle. Anything else is
// short.
func ParseDateStyle(s string) DateStyle {
	if strings.EqualFold(strings.TrimSpace(s), "long") {
		return DateLong
	}
	return DateShort
}

func (s DateStyle) String() string {
	if s == DateLong {
		return "long"
	}
	return "short"
}

// FormatDate parses an ISO-8601 date or timestamp and renders it in the
// requested style. The calendar day is taken in the offset carried by the
// input; values without an offset are read as UTC.
func FormatDate(value string, style DateStyle) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return NotAvailable
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(layoutFor(style))
		}
	}
	return NotAvailable
}

// FormatTime is FormatDate for values that are already parsed.
func FormatTime(t *time.Time, style DateStyle) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.Format(layoutFor(style))
}

func layoutFor(style DateStyle) string {
	if layout, ok := dateLayouts[style]; ok {
		return layout
	}
	return dateLayouts[DateShort]
}
