package handler

import (
	"fmt"
	"net/http"
	"strings"

	"diamondtrade/internal/printing"
	"diamondtrade/internal/service"
	"diamondtrade/pkg/pagination"
	"diamondtrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	templates      *printing.TemplateEngine
	pdf            printing.PDFRenderer
}

// NewInvoiceHandler wires the invoice endpoints. pdf may be nil, in which
// case PDF export answers 503.
func NewInvoiceHandler(invoiceService service.InvoiceService, templates *printing.TemplateEngine, pdf printing.PDFRenderer) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		templates:      templates,
		pdf:            pdf,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.GET("", h.ListInvoices)
		invoices.POST("", h.CreateInvoice)
		invoices.POST("/preview", h.PreviewSummary)
		invoices.GET("/:id", h.GetInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
		invoices.PUT("/:id/status", h.UpdateInvoiceStatus)
		invoices.GET("/:id/print", h.PrintInvoice)
	}
}

// ListInvoices returns paginated invoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        page       query     int     false  "Page number (default: 1)"
// @Param        limit      query     int     false  "Items per page (default: 20)"
// @Param        status     query     string  false  "pending or paid"
// @Param        client_id  query     string  false  "Client ID"
// @Param        search     query     string  false  "Invoice number fragment"
// @Success      200        {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), service.InvoiceListFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
		Search:   c.Query("search"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, invoices, p.Page, p.Limit, total))
}

// CreateInvoice bills unbilled lots to a client
// @Summary      Create invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                        false  "Who is making the change"
// @Param        payload  body    service.CreateInvoiceRequest  true   "Invoice payload"
// @Success      201  {object}  response.Response{data=service.InvoiceDetail}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response  "Lot already invoiced"
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	detail, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, detail))
}

// GetInvoice returns an invoice with its client, company and summary
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceDetail}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	detail, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// UpdateInvoiceStatus marks an invoice paid or pending
// @Summary      Update invoice status
// @Description  payment_method defaults to cash when marking paid; pending clears payment fields
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path  string                              true  "Invoice ID"
// @Param        payload  body  service.UpdateInvoiceStatusRequest  true  "Status payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	var req service.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes an invoice and releases its lots
// @Summary      Delete invoice
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Invoice deleted"}))
}

// PreviewSummary summarizes entries without storing anything
// @Summary      Preview invoice summary
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        payload  body  service.PreviewRequest  true  "Entries to summarize"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/preview [post]
func (h *InvoiceHandler) PreviewSummary(c *gin.Context) {
	var req service.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	summary, err := h.invoiceService.PreviewSummary(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// PrintInvoice renders the invoice for printing
// @Summary      Print invoice
// @Tags         invoices
// @Produce      html
// @Produce      application/pdf
// @Param        id      path   string  true   "Invoice ID"
// @Param        format  query  string  false  "html (default) or pdf"
// @Success      200
// @Failure      404  {object}  response.Response
// @Failure      503  {object}  response.Response  "PDF export disabled"
// @Router       /api/invoices/{id}/print [get]
func (h *InvoiceHandler) PrintInvoice(c *gin.Context) {
	outFormat := strings.ToLower(c.DefaultQuery("format", "html"))
	if outFormat != "html" && outFormat != "pdf" {
		badRequest(c, "format must be html or pdf")
		return
	}
	if outFormat == "pdf" && h.pdf == nil {
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "PDF export is disabled"))
		return
	}

	ctx := c.Request.Context()
	detail, err := h.invoiceService.GetInvoice(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	html, err := h.templates.RenderInvoice(ctx, printing.NewInvoiceDocument(detail))
	if err != nil {
		respondError(c, err)
		return
	}

	if outFormat == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	pdf, err := h.pdf.RenderPDF(ctx, html)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", detail.Invoice.InvoiceNumber+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
