package printing

import (
	"context"
	"testing"
	"time"

	"diamondtrade/internal/invoicecalc"
	"diamondtrade/internal/model"
	"diamondtrade/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleDetail() service.InvoiceDetail {
	entries := []invoicecalc.Entry{
		invoicecalc.NewEntry("d1", "K-101", 10, dec("2.5"), "4P Plus", dec("1250000")),
		invoicecalc.NewEntry("d2", "K-101", 40, dec("1.2"), "4P Minus", dec("6000")),
	}
	header := invoicecalc.Header{InvoiceNumber: "INV-20240305-00001", TotalAmount: dec("1256000")}

	return service.InvoiceDetail{
		Invoice: service.InvoiceResponse{
			ID:            uuid.New(),
			InvoiceNumber: "INV-20240305-00001",
			IssueDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
			Status:        model.InvoiceStatusPending,
			TotalAmount:   dec("1256000"),
			Notes:         "Handle with care <fragile>",
		},
		Client: service.ClientResponse{Name: "Mehta Diamonds", GSTIN: "24ABCDE1234F1Z5"},
		Company: model.CompanyDetails{
			Name:          "Surat Diamond Traders",
			BankName:      "HDFC Bank",
			AccountNumber: "50100012345678",
			IFSCCode:      "HDFC0001234",
		},
		Summary: invoicecalc.Summarize(header, entries, nil),
	}
}

func TestTemplateEngine_RenderInvoice(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	doc := NewInvoiceDocument(sampleDetail())
	html, err := engine.RenderInvoice(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "INV-20240305-00001")
	assert.Contains(t, html, "05 Mar 2024")
	assert.Contains(t, html, "04 Apr 2024")
	assert.Contains(t, html, "Mehta Diamonds")
	assert.Contains(t, html, "Surat Diamond Traders")
	assert.Contains(t, html, "₹12,56,000")
	assert.Contains(t, html, "₹5,00,000 / ct")
	assert.Contains(t, html, "₹150 / pc")
	assert.Contains(t, html, "2.50 ct")
	assert.Contains(t, html, "4P Plus")
	assert.Contains(t, html, "HDFC0001234")
	assert.Contains(t, html, "Pending")
	assert.Contains(t, html, "Handle with care &lt;fragile&gt;")
	assert.NotContains(t, html, "Paid On")
}

func TestTemplateEngine_RenderPaidInvoice(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	detail := sampleDetail()
	paidAt := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	method := model.PaymentNetBanking
	detail.Invoice.Status = model.InvoiceStatusPaid
	detail.Invoice.PaymentDate = &paidAt
	detail.Invoice.PaymentMethod = &method
	detail.Company = model.CompanyDetails{Name: "Surat Diamond Traders"}

	html, err := engine.RenderInvoice(context.Background(), NewInvoiceDocument(detail))
	require.NoError(t, err)

	assert.Contains(t, html, "Paid On: 20 Mar 2024")
	assert.Contains(t, html, "Method: Net Banking")
	assert.NotContains(t, html, "Bank Details")
}

func TestTemplateEngine_EmptyInvoice(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	html, err := engine.RenderInvoice(context.Background(), InvoiceDocument{
		Number:  "INV-X",
		Summary: invoicecalc.Summarize(invoicecalc.Header{}, nil, nil),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "No diamonds on this invoice.")
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, "₹0")
}

func TestTemplateEngine_CancelledContext(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.RenderInvoice(ctx, InvoiceDocument{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTemplateFuncs(t *testing.T) {
	assert.Equal(t, "Net Banking", label("net-banking"))
	assert.Equal(t, "UPI", label("upi"))
	assert.Equal(t, "Paid", label("paid"))
	assert.Equal(t, "N/A", label(""))

	assert.Equal(t, "05/03/2024", formatDate("2024-03-05", "short"))
	assert.Equal(t, "05 Mar 2024", formatDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "long"))
	assert.Equal(t, "N/A", formatDate((*time.Time)(nil), "long"))
	assert.Equal(t, "N/A", formatDate(42, "short"))
	assert.Equal(t, "N/A", formatTime(nil, "short"))

	assert.Equal(t, "₹1,00,000", formatCurrency(dec("100000")))
	assert.Equal(t, "1.25 ct", formatWeight(dec("1.25")))
}
