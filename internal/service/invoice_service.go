package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diamondtrade/internal/invoicecalc"
	"diamondtrade/internal/model"
	"diamondtrade/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultDueDays = 30

// --- DTOs ---

type CreateInvoiceRequest struct {
	InvoiceNumber string   `json:"invoice_number"` // generated when empty
	ClientID      string   `json:"client_id" binding:"required"`
	DiamondIDs    []string `json:"diamond_ids" binding:"required,min=1"`
	IssueDate     *string  `json:"issue_date"`
	DueDate       *string  `json:"due_date"`
	Notes         string   `json:"notes"`
}

type UpdateInvoiceStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	PaymentMethod *string `json:"payment_method"`
	PaymentDate   *string `json:"payment_date"`
}

// PreviewRequest summarizes entries that are not stored anywhere.
type PreviewRequest struct {
	Entries     []invoicecalc.EntryInput `json:"entries"`
	TotalAmount *decimal.Decimal         `json:"total_amount" swaggertype:"string"`
	PlusRate    *decimal.Decimal         `json:"plus_rate" swaggertype:"string"`
	MinusRate   *decimal.Decimal         `json:"minus_rate" swaggertype:"string"`
}

type InvoiceListFilter struct {
	Status   string
	ClientID string
	Search   string
	Page     int
	Limit    int
}

type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      uuid.UUID       `json:"client_id"`
	ClientName    string          `json:"client_name,omitempty"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaymentDate   *time.Time      `json:"payment_date"`
	PaymentMethod *string         `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount" swaggertype:"string"`
	Notes         string          `json:"notes"`
	DiamondCount  int             `json:"diamond_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceDetail is everything needed to show or print one invoice.
type InvoiceDetail struct {
	Invoice InvoiceResponse      `json:"invoice"`
	Client  ClientResponse       `json:"client"`
	Company model.CompanyDetails `json:"company"`
	Summary invoicecalc.Summary  `json:"summary"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceDetail, error)
	ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error)
	GetInvoice(ctx context.Context, id string) (InvoiceDetail, error)
	GetInvoiceByNumber(ctx context.Context, number string) (InvoiceDetail, error)
	UpdateInvoiceStatus(ctx context.Context, id string, req UpdateInvoiceStatusRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	PreviewSummary(ctx context.Context, req PreviewRequest) (invoicecalc.Summary, error)
}

// --- Implementation ---

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	diamondRepo repository.DiamondRepository
	clientRepo  repository.ClientRepository
	companyRepo repository.CompanyRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	invalidator StatsInvalidator
	events      EventPublisher
	log         *zap.Logger
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	diamondRepo repository.DiamondRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	invalidator StatsInvalidator,
	events EventPublisher,
	log *zap.Logger,
) InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		diamondRepo: diamondRepo,
		clientRepo:  clientRepo,
		companyRepo: companyRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		invalidator: invalidatorOrNoop(invalidator),
		events:      publisherOrNoop(events),
		log:         log,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceDetail, error) {
	clientID, err := parseID("client", req.ClientID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	diamondIDs, err := uniqueIDs(req.DiamondIDs)
	if err != nil {
		return InvoiceDetail{}, err
	}
	if len(diamondIDs) == 0 {
		return InvoiceDetail{}, invalidf("an invoice needs at least one diamond")
	}

	issueDate, err := optionalDate("issue_date", req.IssueDate, time.Now())
	if err != nil {
		return InvoiceDetail{}, err
	}
	dueDate, err := optionalDate("due_date", req.DueDate, issueDate.AddDate(0, 0, defaultDueDays))
	if err != nil {
		return InvoiceDetail{}, err
	}
	if dueDate.Before(issueDate) {
		return InvoiceDetail{}, invalidf("due_date cannot be before issue_date")
	}

	invoice := &model.Invoice{
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		ClientID:      clientID,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Status:        model.InvoiceStatusPending,
		Notes:         req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.clientRepo.FindByID(txCtx, clientID); err != nil {
			return lookupErr("client", err)
		}

		diamonds, err := s.diamondRepo.FindByIDsForUpdate(txCtx, diamondIDs)
		if err != nil {
			return fmt.Errorf("failed to load diamonds: %w", err)
		}
		if len(diamonds) != len(diamondIDs) {
			return fmt.Errorf("one or more diamonds %w", ErrNotFound)
		}

		total := decimal.Zero
		for i := range diamonds {
			d := &diamonds[i]
			if d.IsBilled() {
				return conflictf("diamond %s (kapan %s) is already invoiced", d.ID, d.KapanID)
			}
			if d.ClientID != nil && *d.ClientID != clientID {
				return invalidf("diamond %s belongs to another client", d.ID)
			}
			total = total.Add(d.TotalValue)
		}
		invoice.TotalAmount = total.Round(2)

		if invoice.InvoiceNumber == "" {
			number, err := s.generateInvoiceNumber(txCtx, issueDate)
			if err != nil {
				return fmt.Errorf("failed to generate invoice number: %w", err)
			}
			invoice.InvoiceNumber = number
		} else {
			exists, err := s.invoiceRepo.NumberExists(txCtx, invoice.InvoiceNumber)
			if err != nil {
				return fmt.Errorf("failed to check invoice number: %w", err)
			}
			if exists {
				return conflictf("invoice number %s already exists", invoice.InvoiceNumber)
			}
		}

		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		if err := s.diamondRepo.LinkToInvoice(txCtx, diamondIDs, invoice.ID); err != nil {
			return fmt.Errorf("failed to link diamonds: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNumber, map[string]interface{}{
			"client_id":    clientID,
			"diamond_ids":  diamondIDs,
			"total_amount": invoice.TotalAmount,
		})
	})
	if err != nil {
		return InvoiceDetail{}, err
	}

	detail, err := s.detailByID(ctx, invoice.ID)
	if err != nil {
		return InvoiceDetail{}, err
	}

	s.log.Info("Invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total_amount", invoice.TotalAmount.String()),
		zap.Int("diamonds", len(diamondIDs)),
	)
	s.afterChange(ctx, EventInvoiceCreated, detail.Invoice)
	return detail, nil
}

// generateInvoiceNumber returns INV-YYYYMMDD-NNNNN for the issue day.
func (s *invoiceService) generateInvoiceNumber(ctx context.Context, issueDate time.Time) (string, error) {
	prefix := "INV-" + issueDate.Format("20060102") + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	repoFilter := repository.InvoiceFilter{
		Search: filter.Search,
		Page:   page,
		Limit:  limit,
	}
	if filter.Status != "" {
		status, err := parseStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		repoFilter.Status = status
	}
	if filter.ClientID != "" {
		uid, err := parseID("client", filter.ClientID)
		if err != nil {
			return nil, 0, err
		}
		repoFilter.ClientID = &uid
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	res := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		res = append(res, toInvoiceResponse(inv))
	}
	return res, total, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceDetail, error) {
	uid, err := parseID("invoice", id)
	if err != nil {
		return InvoiceDetail{}, err
	}
	return s.detailByID(ctx, uid)
}

func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, number string) (InvoiceDetail, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return InvoiceDetail{}, invalidf("invoice number is required")
	}
	invoice, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return InvoiceDetail{}, lookupErr("invoice", err)
	}
	return s.buildDetail(ctx, invoice)
}

func (s *invoiceService) detailByID(ctx context.Context, id uuid.UUID) (InvoiceDetail, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return InvoiceDetail{}, lookupErr("invoice", err)
	}
	return s.buildDetail(ctx, invoice)
}

func (s *invoiceService) buildDetail(ctx context.Context, invoice *model.Invoice) (InvoiceDetail, error) {
	company, err := s.companyRepo.Get(ctx)
	if err != nil {
		return InvoiceDetail{}, fmt.Errorf("failed to load company details: %w", err)
	}
	if company == nil {
		company = &model.CompanyDetails{}
	}

	var rates *invoicecalc.ClientRates
	detail := InvoiceDetail{
		Invoice: toInvoiceResponse(*invoice),
		Company: *company,
	}
	if invoice.Client != nil {
		detail.Client = toClientResponse(*invoice.Client)
		rates = &invoicecalc.ClientRates{Plus: invoice.Client.PlusRate, Minus: invoice.Client.MinusRate}
	}
	detail.Summary = invoicecalc.Summarize(invoice.Header(), model.ToEntries(invoice.Diamonds), rates)
	return detail, nil
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id string, req UpdateInvoiceStatusRequest) (InvoiceResponse, error) {
	uid, err := parseID("invoice", id)
	if err != nil {
		return InvoiceResponse{}, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return InvoiceResponse{}, err
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByID(txCtx, uid)
		if findErr != nil {
			return lookupErr("invoice", findErr)
		}
		previous := invoice.Status

		if status == model.InvoiceStatusPaid {
			method, err := ResolvePaymentMethod(req.PaymentMethod)
			if err != nil {
				return err
			}
			paidAt, err := optionalDate("payment_date", req.PaymentDate, time.Now())
			if err != nil {
				return err
			}
			invoice.PaymentMethod = &method
			invoice.PaymentDate = &paidAt
		} else {
			invoice.PaymentMethod = nil
			invoice.PaymentDate = nil
		}
		invoice.Status = status

		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice status: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionUpdateInvoiceStatus, invoice.ID.String(), invoice.InvoiceNumber, map[string]interface{}{
			"from":           previous,
			"to":             status,
			"payment_method": invoice.PaymentMethod,
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	resp := toInvoiceResponse(*invoice)
	s.afterChange(ctx, EventInvoiceStatusChanged, resp)
	return resp, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	uid, err := parseID("invoice", id)
	if err != nil {
		return err
	}

	var number string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, uid)
		if err != nil {
			return lookupErr("invoice", err)
		}
		number = invoice.InvoiceNumber

		if err := s.diamondRepo.UnlinkInvoice(txCtx, uid); err != nil {
			return fmt.Errorf("failed to release diamonds: %w", err)
		}
		if err := s.invoiceRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionDeleteInvoice, uid.String(), number, nil)
	})
	if err != nil {
		return err
	}

	s.afterChange(ctx, EventInvoiceDeleted, map[string]string{"id": uid.String(), "invoice_number": number})
	return nil
}

func (s *invoiceService) PreviewSummary(_ context.Context, req PreviewRequest) (invoicecalc.Summary, error) {
	return BuildPreview(req), nil
}

// BuildPreview summarizes loose entries without touching storage. Rates are
// used as fallbacks only when at least one of them is given.
func BuildPreview(req PreviewRequest) invoicecalc.Summary {
	header := invoicecalc.Header{}
	if req.TotalAmount != nil {
		header.TotalAmount = *req.TotalAmount
	}

	var rates *invoicecalc.ClientRates
	if req.PlusRate != nil || req.MinusRate != nil {
		rates = &invoicecalc.ClientRates{}
		if req.PlusRate != nil {
			rates.Plus = *req.PlusRate
		}
		if req.MinusRate != nil {
			rates.Minus = *req.MinusRate
		}
	}

	return invoicecalc.Summarize(header, invoicecalc.NormalizeAll(req.Entries), rates)
}

func (s *invoiceService) afterChange(ctx context.Context, event string, data interface{}) {
	s.invalidator.InvalidateStats(ctx)
	s.events.Publish(event, data)
}

// --- Helpers ---

func parseStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case model.InvoiceStatusPending:
		return model.InvoiceStatusPending, nil
	case model.InvoiceStatusPaid:
		return model.InvoiceStatusPaid, nil
	default:
		return "", invalidf("status must be %q or %q", model.InvoiceStatusPending, model.InvoiceStatusPaid)
	}
}

var paymentAliases = map[string]string{
	"cash":          model.PaymentCash,
	"cheque":        model.PaymentCheque,
	"check":         model.PaymentCheque,
	"upi":           model.PaymentUPI,
	"net-banking":   model.PaymentNetBanking,
	"netbanking":    model.PaymentNetBanking,
	"bank-transfer": model.PaymentNetBanking,
	"neft":          model.PaymentNetBanking,
	"rtgs":          model.PaymentNetBanking,
	"imps":          model.PaymentNetBanking,
	"card":          model.PaymentCard,
	"credit-card":   model.PaymentCard,
	"debit-card":    model.PaymentCard,
	"other":         model.PaymentOther,
}

// ResolvePaymentMethod maps free-form input onto a stored payment method.
// A missing value means cash.
func ResolvePaymentMethod(raw *string) (string, error) {
	if raw == nil {
		return model.PaymentCash, nil
	}
	key := strings.ToLower(strings.TrimSpace(*raw))
	if key == "" {
		return model.PaymentCash, nil
	}
	key = strings.Join(strings.FieldsFunc(key, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "-")

	if method, ok := paymentAliases[key]; ok {
		return method, nil
	}
	return "", invalidf("unknown payment method %q", *raw)
}

func uniqueIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		uid, err := parseID("diamond", r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		ids = append(ids, uid)
	}
	return ids, nil
}

// --- Response mappers ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Status:        inv.Status,
		PaymentDate:   inv.PaymentDate,
		PaymentMethod: inv.PaymentMethod,
		TotalAmount:   inv.TotalAmount,
		Notes:         inv.Notes,
		DiamondCount:  len(inv.Diamonds),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.Client != nil {
		resp.ClientName = inv.Client.Name
	}
	return resp
}
