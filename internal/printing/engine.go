// Package printing turns invoices into print-ready HTML and, through a
// headless Chrome, into PDF.
package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"diamondtrade/pkg/format"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders the invoice template. It is safe for concurrent use.
type TemplateEngine struct {
	funcMap template.FuncMap
	invoice *template.Template
}

// NewTemplateEngine parses the built-in invoice layout.
func NewTemplateEngine() (*TemplateEngine, error) {
	e := &TemplateEngine{
		funcMap: template.FuncMap{
			"formatCurrency": formatCurrency,
			"formatNumber":   formatNumber,
			"formatWeight":   formatWeight,
			"formatDate":     formatDate,
			"formatTime":     formatTime,
			"label":          label,
			"inc":            func(i int) int { return i + 1 },
		},
	}

	tmpl, err := template.New("invoice").Funcs(e.funcMap).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	e.invoice = tmpl
	return e, nil
}

// RenderInvoice renders doc as a complete HTML document.
func (e *TemplateEngine) RenderInvoice(ctx context.Context, doc InvoiceDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}

	var buf bytes.Buffer
	if err := e.invoice.Execute(&buf, &doc); err != nil {
		return "", fmt.Errorf("failed to render invoice %s: %w", doc.Number, err)
	}
	return buf.String(), nil
}

// =============================================================================
// Template Functions
// =============================================================================

func formatCurrency(d decimal.Decimal) string {
	return format.FormatCurrency(d)
}

func formatNumber(d decimal.Decimal, places int) string {
	return format.FormatNumber(d, int32(places))
}

func formatWeight(d decimal.Decimal) string {
	return format.FormatWeight(d)
}

// formatDate accepts ISO strings and time values; style is "short" or "long".
func formatDate(value interface{}, style string) string {
	s := format.ParseDateStyle(style)
	switch v := value.(type) {
	case string:
		return format.FormatDate(v, s)
	case *string:
		if v == nil {
			return format.NotAvailable
		}
		return format.FormatDate(*v, s)
	case time.Time:
		return format.FormatTime(&v, s)
	case *time.Time:
		return format.FormatTime(v, s)
	default:
		return format.NotAvailable
	}
}

func formatTime(t *time.Time, style string) string {
	return format.FormatTime(t, format.ParseDateStyle(style))
}

var acronyms = map[string]string{
	"upi": "UPI",
	"gst": "GST",
}

// label turns stored enum values such as "net-banking" into "Net Banking".
func label(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return format.NotAvailable
	}
	if a, ok := acronyms[strings.ToLower(value)]; ok {
		return a
	}
	words := strings.FieldsFunc(value, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
