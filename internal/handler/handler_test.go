package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"diamondtrade/internal/cache"
	"diamondtrade/internal/printing"
	"diamondtrade/internal/repository"
	"diamondtrade/internal/service"
	"diamondtrade/internal/testutil"
	"diamondtrade/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePDF struct {
	html string
}

func (f *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.7 fake"), nil
}

func (f *fakePDF) Close() error { return nil }

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Meta   *response.Meta  `json:"meta"`
	Error  string          `json:"error"`
}

func newTestRouter(t *testing.T, pdf printing.PDFRenderer) *gin.Engine {
	t.Helper()

	db := testutil.NewDB(t)
	clientRepo := repository.NewClientRepository(db)
	diamondRepo := repository.NewDiamondRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	stats := service.NewStatisticsService(clientRepo, invoiceRepo, diamondRepo, repository.NewStatisticsRepository(db), cache.NewMemoryCache(), time.Minute, nil)
	templates, err := printing.NewTemplateEngine()
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		Handlers: []Routes{
			NewClientHandler(service.NewClientService(clientRepo, invoiceRepo, auditRepo, txManager, nil)),
			NewDiamondHandler(service.NewDiamondService(diamondRepo, clientRepo, auditRepo, txManager, stats, nil, nil)),
			NewInvoiceHandler(service.NewInvoiceService(invoiceRepo, diamondRepo, clientRepo, companyRepo, auditRepo, txManager, stats, nil, nil), templates, pdf),
			NewCompanyHandler(service.NewCompanyService(companyRepo, auditRepo, txManager, nil)),
			NewStatisticsHandler(stats),
			NewAuditHandler(service.NewAuditService(auditRepo)),
		},
	})
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// seedInvoice creates a client, two lots and an invoice through the API and
// returns the invoice id and client id.
func seedInvoice(t *testing.T, r http.Handler) (string, string) {
	t.Helper()

	var client struct {
		ID string `json:"id"`
	}
	w := do(t, r, http.MethodPost, "/api/clients", map[string]interface{}{
		"name": "Mehta Diamonds", "plus_rate": "5000", "minus_rate": "150",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &client)

	var ids []string
	for _, lot := range []map[string]interface{}{
		{"kapan_id": "K-101", "category": "4P Plus", "number_of_diamonds": 10, "weight_in_karats": "2.5", "client_id": client.ID, "entry_date": "2024-03-01"},
		{"kapan_id": "K-101", "category": "4P Minus", "number_of_diamonds": 40, "weight_in_karats": "1.2", "client_id": client.ID, "entry_date": "2024-03-02"},
	} {
		var d struct {
			ID string `json:"id"`
		}
		w := do(t, r, http.MethodPost, "/api/diamonds", lot)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		decode(t, w, &d)
		ids = append(ids, d.ID)
	}

	var detail struct {
		Invoice struct {
			ID string `json:"id"`
		} `json:"invoice"`
	}
	w = do(t, r, http.MethodPost, "/api/invoices", map[string]interface{}{
		"client_id": client.ID, "diamond_ids": ids, "issue_date": "2024-03-05",
	}, "X-Actor", "priya")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &detail)

	return detail.Invoice.ID, client.ID
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestClientHandler(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodPost, "/api/clients", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/clients", map[string]string{"name": "X", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w, nil).Error, "invalid email")

	w = do(t, r, http.MethodGet, "/api/clients/2b6f0cc9-0bf0-4c4f-9d0c-5d8f6e2b8a11", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/clients?active=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, clientID := seedInvoice(t, r)

	w = do(t, r, http.MethodGet, "/api/clients?search=mehta&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w, nil)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Equal(t, 5, env.Meta.Limit)

	w = do(t, r, http.MethodDelete, "/api/clients/"+clientID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvoiceHandler_GetAndStatus(t *testing.T) {
	r := newTestRouter(t, nil)
	invoiceID, _ := seedInvoice(t, r)

	var detail struct {
		Invoice struct {
			InvoiceNumber string `json:"invoice_number"`
			TotalAmount   string `json:"total_amount"`
		} `json:"invoice"`
		Summary struct {
			PlusRate   string `json:"plus_rate"`
			MinusRate  string `json:"minus_rate"`
			GrandTotal string `json:"grand_total"`
		} `json:"summary"`
	}
	w := do(t, r, http.MethodGet, "/api/invoices/"+invoiceID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &detail)

	assert.Equal(t, "INV-20240305-00001", detail.Invoice.InvoiceNumber)
	assert.Equal(t, "18500", detail.Invoice.TotalAmount)
	assert.Equal(t, "5000", detail.Summary.PlusRate)
	assert.Equal(t, "150", detail.Summary.MinusRate)
	assert.Equal(t, "18500", detail.Summary.GrandTotal)

	var paid struct {
		Status        string  `json:"status"`
		PaymentMethod *string `json:"payment_method"`
	}
	w = do(t, r, http.MethodPut, "/api/invoices/"+invoiceID+"/status", map[string]string{"status": "paid", "payment_method": "UPI"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &paid)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, "upi", *paid.PaymentMethod)

	w = do(t, r, http.MethodPut, "/api/invoices/"+invoiceID+"/status", map[string]string{"status": "paid", "payment_method": "barter"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/api/invoices/"+invoiceID+"/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/invoices?status=paid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode(t, w, nil).Meta.Total)

	w = do(t, r, http.MethodDelete, "/api/invoices/"+invoiceID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/invoices/"+invoiceID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_CreateConflicts(t *testing.T) {
	r := newTestRouter(t, nil)
	invoiceID, clientID := seedInvoice(t, r)

	var detail struct {
		Summary struct {
			LineItems []struct {
				ID string `json:"id"`
			} `json:"line_items"`
		} `json:"summary"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/invoices/"+invoiceID, nil), &detail)
	require.Len(t, detail.Summary.LineItems, 2)

	w := do(t, r, http.MethodPost, "/api/invoices", map[string]interface{}{
		"client_id": clientID, "diamond_ids": []string{detail.Summary.LineItems[0].ID},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/invoices", map[string]interface{}{"client_id": clientID, "diamond_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/api/diamonds/"+detail.Summary.LineItems[0].ID, map[string]string{"notes": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvoiceHandler_Print(t *testing.T) {
	pdf := &fakePDF{}
	r := newTestRouter(t, pdf)
	invoiceID, _ := seedInvoice(t, r)

	w := do(t, r, http.MethodGet, "/api/invoices/"+invoiceID+"/print", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "₹18,500")
	assert.Contains(t, w.Body.String(), "05 Mar 2024")

	w = do(t, r, http.MethodGet, "/api/invoices/"+invoiceID+"/print?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-20240305-00001.pdf")
	assert.Contains(t, pdf.html, "INV-20240305-00001")

	w = do(t, r, http.MethodGet, "/api/invoices/"+invoiceID+"/print?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_PrintPDFDisabled(t *testing.T) {
	r := newTestRouter(t, nil)
	invoiceID, _ := seedInvoice(t, r)

	w := do(t, r, http.MethodGet, "/api/invoices/"+invoiceID+"/print?format=pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInvoiceHandler_Preview(t *testing.T) {
	r := newTestRouter(t, nil)

	var summary struct {
		PlusRate   string `json:"plus_rate"`
		MinusRate  string `json:"minus_rate"`
		GrandTotal string `json:"grand_total"`
	}
	w := do(t, r, http.MethodPost, "/api/invoices/preview", `{
		"entries": [
			{"id": "a", "category": "4p plus", "weight_in_karats": "2", "total_value": "1001"},
			{"id": "b", "category": "4P Minus", "number_of_diamonds": 4, "total_value": "1001"}
		],
		"total_amount": "5000"
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &summary)

	assert.Equal(t, "501", summary.PlusRate)
	assert.Equal(t, "250", summary.MinusRate)
	assert.Equal(t, "5000", summary.GrandTotal)
}

func TestCompanyHandler(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodGet, "/api/company", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPut, "/api/company", map[string]string{"address": "Surat"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var company struct {
		Name  string `json:"name"`
		GSTIN string `json:"gstin"`
	}
	w = do(t, r, http.MethodPut, "/api/company", map[string]string{"name": "Surat Diamond Traders", "gstin": "24aaacs1234a1z9"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &company)
	assert.Equal(t, "24AAACS1234A1Z9", company.GSTIN)
}

func TestStatisticsHandler(t *testing.T) {
	r := newTestRouter(t, nil)
	seedInvoice(t, r)

	var stats struct {
		TotalInvoices int64  `json:"total_invoices"`
		TotalInvoiced string `json:"total_invoiced"`
		Monthly       []struct {
			Month string `json:"month"`
		} `json:"monthly"`
	}
	w := do(t, r, http.MethodGet, "/api/statistics/dashboard?start_date=2024-03-01&end_date=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &stats)

	assert.Equal(t, int64(1), stats.TotalInvoices)
	assert.Equal(t, "18500", stats.TotalInvoiced)
	require.Len(t, stats.Monthly, 1)
	assert.Equal(t, "2024-03", stats.Monthly[0].Month)

	w = do(t, r, http.MethodGet, "/api/statistics/dashboard?start_date=03/01/2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/statistics/dashboard?start_date=2024-04-01&end_date=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditHandler(t *testing.T) {
	r := newTestRouter(t, nil)
	seedInvoice(t, r)

	var logs []struct {
		Actor  string `json:"actor"`
		Action string `json:"action"`
	}
	w := do(t, r, http.MethodGet, "/api/audit-logs?limit=50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w, &logs)

	assert.Equal(t, int64(4), env.Meta.Total)
	actors := map[string]string{}
	for _, l := range logs {
		actors[l.Action] = l.Actor
	}
	assert.Equal(t, "priya", actors["CREATE_INVOICE"])
	assert.Equal(t, "system", actors["CREATE_CLIENT"])

	w = do(t, r, http.MethodGet, "/api/audit-logs?action=create_diamond", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w, &logs)
	assert.Equal(t, int64(2), env.Meta.Total)
	for _, l := range logs {
		assert.Equal(t, "CREATE_DIAMOND", l.Action)
	}

	w = do(t, r, http.MethodGet, "/api/audit-logs?actor=priya", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w, &logs)
	assert.Equal(t, int64(1), env.Meta.Total)
	require.Len(t, logs, 1)
	assert.Equal(t, "CREATE_INVOICE", logs[0].Action)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(service.ErrInvalidInput))
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(service.ErrConflict))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(printing.ErrRenderTimeout))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
