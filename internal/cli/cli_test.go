package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"diamondtrade/internal/invoicecalc"
	"diamondtrade/internal/printing"
	"diamondtrade/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoices struct {
	service.InvoiceService
	details map[string]service.InvoiceDetail
}

func (f *fakeInvoices) GetInvoiceByNumber(_ context.Context, number string) (service.InvoiceDetail, error) {
	d, ok := f.details[number]
	if !ok {
		return service.InvoiceDetail{}, service.ErrNotFound
	}
	return d, nil
}

type fakePDF struct{}

func (fakePDF) RenderPDF(context.Context, string) ([]byte, error) { return []byte("%PDF-fake"), nil }
func (fakePDF) Close() error                                      { return nil }

func sampleDetail() service.InvoiceDetail {
	entries := []invoicecalc.Entry{
		invoicecalc.NewEntry("d1", "K-101", 10, decimal.RequireFromString("2.5"), "4P Plus", decimal.NewFromInt(12500)),
		invoicecalc.NewEntry("d2", "K-101", 40, decimal.RequireFromString("1.2"), "4P Minus", decimal.NewFromInt(6000)),
	}
	paid := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	method := "upi"

	return service.InvoiceDetail{
		Invoice: service.InvoiceResponse{
			ID:            uuid.New(),
			InvoiceNumber: "INV-20240305-00001",
			IssueDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
			Status:        "paid",
			PaymentDate:   &paid,
			PaymentMethod: &method,
			TotalAmount:   decimal.NewFromInt(18500),
		},
		Client:  service.ClientResponse{Name: "Mehta Diamonds"},
		Summary: invoicecalc.Summarize(invoicecalc.Header{TotalAmount: decimal.NewFromInt(18500)}, entries, nil),
	}
}

func newBackend(t *testing.T, pdf printing.PDFRenderer) Opener {
	t.Helper()

	templates, err := printing.NewTemplateEngine()
	require.NoError(t, err)
	detail := sampleDetail()

	return func(context.Context) (*Backend, error) {
		return &Backend{
			Invoices:  &fakeInvoices{details: map[string]service.InvoiceDetail{detail.Invoice.InvoiceNumber: detail}},
			Templates: templates,
			PDF:       pdf,
		}, nil
	}
}

func run(t *testing.T, open Opener, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand(open, nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const previewEntries = `[
	{"id": "a", "category": "4p plus", "weight_in_karats": "2", "total_value": "1001"},
	{"id": "b", "category": "4P Minus", "number_of_diamonds": 4, "total_value": "1001"}
]`

func TestPreview_Table(t *testing.T) {
	path := writeFile(t, "entries.json", previewEntries)

	out, err := run(t, nil, "", "preview", "-f", path)
	require.NoError(t, err)

	assert.Contains(t, out, "₹501 / ct")
	assert.Contains(t, out, "₹250 / pc")
	assert.Contains(t, out, "₹2,002")
	assert.Contains(t, out, "2.00 ct")
}

func TestPreview_StdinAndOverrides(t *testing.T) {
	body := `{"entries": ` + previewEntries + `, "total_amount": "1000"}`

	out, err := run(t, nil, body, "preview", "-f", "-", "--total", "150000", "--json")
	require.NoError(t, err)

	var s struct {
		PlusRate   string `json:"plus_rate"`
		GrandTotal string `json:"grand_total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "501", s.PlusRate)
	assert.Equal(t, "150000", s.GrandTotal)
}

func TestPreview_FallbackRates(t *testing.T) {
	path := writeFile(t, "entries.json", `[{"id": "a", "category": "4P Plus", "total_value": "700"}]`)

	out, err := run(t, nil, "", "preview", "-f", path, "--plus-rate", "4800")
	require.NoError(t, err)
	assert.Contains(t, out, "₹4,800 / ct")
}

func TestPreview_Errors(t *testing.T) {
	_, err := run(t, nil, "", "preview")
	assert.Error(t, err)

	path := writeFile(t, "bad.json", `{"entries": 5}`)
	_, err = run(t, nil, "", "preview", "-f", path)
	assert.ErrorContains(t, err, "failed to parse preview request")

	path = writeFile(t, "ok.json", previewEntries)
	_, err = run(t, nil, "", "preview", "-f", path, "--total", "lots")
	assert.ErrorContains(t, err, "invalid --total")
}

func TestSummary(t *testing.T) {
	out, err := run(t, newBackend(t, nil), "", "summary", "INV-20240305-00001")
	require.NoError(t, err)

	assert.Contains(t, out, "Invoice INV-20240305-00001")
	assert.Contains(t, out, "Mehta Diamonds")
	assert.Contains(t, out, "Issued:  05/03/2024  Due: 04/04/2024")
	assert.Contains(t, out, "paid on 20/03/2024 via upi")
	assert.Contains(t, out, "₹5,000 / ct")
	assert.Contains(t, out, "₹150 / pc")
	assert.Contains(t, out, "₹18,500")
}

func TestSummary_JSONAndNotFound(t *testing.T) {
	out, err := run(t, newBackend(t, nil), "", "summary", "INV-20240305-00001", "--json")
	require.NoError(t, err)

	var detail struct {
		Invoice struct {
			InvoiceNumber string `json:"invoice_number"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "INV-20240305-00001", detail.Invoice.InvoiceNumber)

	_, err = run(t, newBackend(t, nil), "", "summary", "INV-19990101-00001")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPrint(t *testing.T) {
	out, err := run(t, newBackend(t, nil), "", "print", "INV-20240305-00001")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "₹18,500")

	_, err = run(t, newBackend(t, nil), "", "print", "INV-20240305-00001", "--pdf")
	assert.ErrorIs(t, err, errPDFDisabled)

	path := filepath.Join(t.TempDir(), "invoice.pdf")
	_, err = run(t, newBackend(t, fakePDF{}), "", "print", "INV-20240305-00001", "--pdf", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(data))
}
