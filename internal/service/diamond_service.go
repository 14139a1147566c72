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

// --- DTOs ---

// CreateDiamondRequest records a new lot. When TotalValue is omitted it is
// derived from the rate: per carat for 4P Plus, per piece for 4P Minus. The
// rate itself falls back to the client's configured rate.
type CreateDiamondRequest struct {
	KapanID          string           `json:"kapan_id" binding:"required"`
	NumberOfDiamonds *int64           `json:"number_of_diamonds"`
	WeightInKarats   *decimal.Decimal `json:"weight_in_karats" swaggertype:"string"`
	Category         string           `json:"category" binding:"required"`
	Rate             *decimal.Decimal `json:"rate" swaggertype:"string"`
	TotalValue       *decimal.Decimal `json:"total_value" swaggertype:"string"`
	ClientID         *string          `json:"client_id"`
	EntryDate        *string          `json:"entry_date"`
	Notes            string           `json:"notes"`
}

type UpdateDiamondRequest struct {
	KapanID          *string          `json:"kapan_id"`
	NumberOfDiamonds *int64           `json:"number_of_diamonds"`
	WeightInKarats   *decimal.Decimal `json:"weight_in_karats" swaggertype:"string"`
	Category         *string          `json:"category"`
	Rate             *decimal.Decimal `json:"rate" swaggertype:"string"`
	TotalValue       *decimal.Decimal `json:"total_value" swaggertype:"string"`
	ClientID         *string          `json:"client_id"`
	EntryDate        *string          `json:"entry_date"`
	Notes            *string          `json:"notes"`
}

type DiamondResponse struct {
	ID               uuid.UUID       `json:"id"`
	KapanID          string          `json:"kapan_id"`
	NumberOfDiamonds int64           `json:"number_of_diamonds"`
	WeightInKarats   decimal.Decimal `json:"weight_in_karats" swaggertype:"string"`
	Category         string          `json:"category"`
	Rate             decimal.Decimal `json:"rate" swaggertype:"string"`
	TotalValue       decimal.Decimal `json:"total_value" swaggertype:"string"`
	DisplayRate      decimal.Decimal `json:"display_rate" swaggertype:"string"`
	ClientID         *uuid.UUID      `json:"client_id"`
	ClientName       string          `json:"client_name,omitempty"`
	InvoiceID        *uuid.UUID      `json:"invoice_id"`
	Billed           bool            `json:"billed"`
	EntryDate        time.Time       `json:"entry_date"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type DiamondListFilter struct {
	KapanID      string
	Category     string
	ClientID     string
	UnbilledOnly bool
	Page         int
	Limit        int
}

// --- Interface ---

type DiamondService interface {
	CreateDiamond(ctx context.Context, req CreateDiamondRequest) (DiamondResponse, error)
	UpdateDiamond(ctx context.Context, id string, req UpdateDiamondRequest) (DiamondResponse, error)
	DeleteDiamond(ctx context.Context, id string) error
	GetDiamond(ctx context.Context, id string) (DiamondResponse, error)
	ListDiamonds(ctx context.Context, filter DiamondListFilter) ([]DiamondResponse, int64, error)
}

// --- Implementation ---

type diamondService struct {
	diamondRepo repository.DiamondRepository
	clientRepo  repository.ClientRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	invalidator StatsInvalidator
	events      EventPublisher
	log         *zap.Logger
}

func NewDiamondService(
	diamondRepo repository.DiamondRepository,
	clientRepo repository.ClientRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	invalidator StatsInvalidator,
	events EventPublisher,
	log *zap.Logger,
) DiamondService {
	if log == nil {
		log = zap.NewNop()
	}
	return &diamondService{
		diamondRepo: diamondRepo,
		clientRepo:  clientRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		invalidator: invalidatorOrNoop(invalidator),
		events:      publisherOrNoop(events),
		log:         log,
	}
}

// canonicalCategory accepts only the two known spellings, case-insensitively.
func canonicalCategory(raw string) (string, error) {
	c, ok := invoicecalc.LookupCategory(raw)
	if !ok {
		return "", invalidf("category must be %q or %q", invoicecalc.LabelPlus, invoicecalc.LabelMinus)
	}
	return c.String(), nil
}

// clientRate is the configured fallback rate of client for category.
func clientRate(client *model.Client, category string) decimal.Decimal {
	if client == nil {
		return decimal.Zero
	}
	if invoicecalc.ParseCategory(category) == invoicecalc.CategoryPlus {
		return client.PlusRate
	}
	return client.MinusRate
}

// DeriveValue prices a lot from its rate: rate x carats for 4P Plus and
// rate x pieces otherwise, rounded to paise.
func DeriveValue(category string, count int64, weight, rate decimal.Decimal) decimal.Decimal {
	var value decimal.Decimal
	if invoicecalc.ParseCategory(category) == invoicecalc.CategoryPlus {
		value = rate.Mul(weight)
	} else {
		value = rate.Mul(decimal.NewFromInt(count))
	}
	return value.Round(2)
}

func (s *diamondService) loadClient(ctx context.Context, rawID *string) (*model.Client, error) {
	if rawID == nil || strings.TrimSpace(*rawID) == "" {
		return nil, nil
	}
	uid, err := parseID("client", *rawID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("client", err)
	}
	return client, nil
}

func (s *diamondService) CreateDiamond(ctx context.Context, req CreateDiamondRequest) (DiamondResponse, error) {
	kapan := strings.TrimSpace(req.KapanID)
	if kapan == "" {
		return DiamondResponse{}, invalidf("kapan_id is required")
	}
	category, err := canonicalCategory(req.Category)
	if err != nil {
		return DiamondResponse{}, err
	}

	d := &model.Diamond{
		KapanID:        kapan,
		Category:       category,
		WeightInKarats: decimal.Zero,
		Rate:           decimal.Zero,
		TotalValue:     decimal.Zero,
		Notes:          req.Notes,
	}
	if req.NumberOfDiamonds != nil {
		if *req.NumberOfDiamonds < 0 {
			return DiamondResponse{}, invalidf("number_of_diamonds must not be negative")
		}
		d.NumberOfDiamonds = *req.NumberOfDiamonds
	}
	if req.WeightInKarats != nil {
		if err := requireNonNegative("weight_in_karats", *req.WeightInKarats); err != nil {
			return DiamondResponse{}, err
		}
		d.WeightInKarats = *req.WeightInKarats
	}
	if req.Rate != nil {
		if err := requireNonNegative("rate", *req.Rate); err != nil {
			return DiamondResponse{}, err
		}
		d.Rate = *req.Rate
	}
	if req.TotalValue != nil {
		if err := requireNonNegative("total_value", *req.TotalValue); err != nil {
			return DiamondResponse{}, err
		}
		d.TotalValue = req.TotalValue.Round(2)
	}
	if d.EntryDate, err = optionalDate("entry_date", req.EntryDate, time.Now()); err != nil {
		return DiamondResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		client, err := s.loadClient(txCtx, req.ClientID)
		if err != nil {
			return err
		}
		if client != nil {
			d.ClientID = &client.ID
			d.Client = client
		}

		if req.Rate == nil {
			d.Rate = clientRate(client, d.Category)
		}
		if req.TotalValue == nil {
			d.TotalValue = DeriveValue(d.Category, d.NumberOfDiamonds, d.WeightInKarats, d.Rate)
		}

		if err := s.diamondRepo.Create(txCtx, d); err != nil {
			return fmt.Errorf("failed to create diamond: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionCreateDiamond, d.ID.String(), d.KapanID, req)
	})
	if err != nil {
		return DiamondResponse{}, err
	}

	resp := toDiamondResponse(*d)
	s.afterChange(ctx, EventDiamondCreated, resp)
	return resp, nil
}

func (s *diamondService) UpdateDiamond(ctx context.Context, id string, req UpdateDiamondRequest) (DiamondResponse, error) {
	uid, err := parseID("diamond", id)
	if err != nil {
		return DiamondResponse{}, err
	}

	var d *model.Diamond
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		d, findErr = s.diamondRepo.FindByID(txCtx, uid)
		if findErr != nil {
			return lookupErr("diamond", findErr)
		}
		if d.IsBilled() {
			return conflictf("diamond is already on an invoice")
		}

		if req.ClientID != nil {
			client, err := s.loadClient(txCtx, req.ClientID)
			if err != nil {
				return err
			}
			d.Client = client
			d.ClientID = nil
			if client != nil {
				d.ClientID = &client.ID
			}
		}

		previousCategory := d.Category
		repriced, err := applyDiamondUpdate(d, req)
		if err != nil {
			return err
		}
		if repriced && req.TotalValue == nil {
			// A rate is per carat or per piece depending on the category, so
			// a category switch without an explicit rate takes the client's.
			if req.Rate == nil && (d.Rate.IsZero() || d.Category != previousCategory) {
				d.Rate = clientRate(d.Client, d.Category)
			}
			d.TotalValue = DeriveValue(d.Category, d.NumberOfDiamonds, d.WeightInKarats, d.Rate)
		}

		if err := s.diamondRepo.Update(txCtx, d); err != nil {
			return fmt.Errorf("failed to update diamond: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionUpdateDiamond, d.ID.String(), d.KapanID, req)
	})
	if err != nil {
		return DiamondResponse{}, err
	}

	resp := toDiamondResponse(*d)
	s.afterChange(ctx, EventDiamondUpdated, resp)
	return resp, nil
}

// applyDiamondUpdate copies the supplied fields and reports whether any
// pricing input changed.
func applyDiamondUpdate(d *model.Diamond, req UpdateDiamondRequest) (bool, error) {
	repriced := false
	if req.KapanID != nil {
		kapan := strings.TrimSpace(*req.KapanID)
		if kapan == "" {
			return false, invalidf("kapan_id cannot be empty")
		}
		d.KapanID = kapan
	}
	if req.Category != nil {
		category, err := canonicalCategory(*req.Category)
		if err != nil {
			return false, err
		}
		repriced = repriced || category != d.Category
		d.Category = category
	}
	if req.NumberOfDiamonds != nil {
		if *req.NumberOfDiamonds < 0 {
			return false, invalidf("number_of_diamonds must not be negative")
		}
		d.NumberOfDiamonds = *req.NumberOfDiamonds
		repriced = true
	}
	if req.WeightInKarats != nil {
		if err := requireNonNegative("weight_in_karats", *req.WeightInKarats); err != nil {
			return false, err
		}
		d.WeightInKarats = *req.WeightInKarats
		repriced = true
	}
	if req.Rate != nil {
		if err := requireNonNegative("rate", *req.Rate); err != nil {
			return false, err
		}
		d.Rate = *req.Rate
		repriced = true
	}
	if req.TotalValue != nil {
		if err := requireNonNegative("total_value", *req.TotalValue); err != nil {
			return false, err
		}
		d.TotalValue = req.TotalValue.Round(2)
	}
	if req.EntryDate != nil {
		date, err := optionalDate("entry_date", req.EntryDate, d.EntryDate)
		if err != nil {
			return false, err
		}
		d.EntryDate = date
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}
	return repriced, nil
}

func (s *diamondService) DeleteDiamond(ctx context.Context, id string) error {
	uid, err := parseID("diamond", id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		d, err := s.diamondRepo.FindByID(txCtx, uid)
		if err != nil {
			return lookupErr("diamond", err)
		}
		if d.IsBilled() {
			return conflictf("diamond is already on an invoice")
		}
		if err := s.diamondRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete diamond: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionDeleteDiamond, d.ID.String(), d.KapanID, nil)
	})
	if err != nil {
		return err
	}

	s.afterChange(ctx, EventDiamondDeleted, map[string]string{"id": uid.String()})
	return nil
}

func (s *diamondService) GetDiamond(ctx context.Context, id string) (DiamondResponse, error) {
	uid, err := parseID("diamond", id)
	if err != nil {
		return DiamondResponse{}, err
	}
	d, err := s.diamondRepo.FindByID(ctx, uid)
	if err != nil {
		return DiamondResponse{}, lookupErr("diamond", err)
	}
	return toDiamondResponse(*d), nil
}

func (s *diamondService) ListDiamonds(ctx context.Context, filter DiamondListFilter) ([]DiamondResponse, int64, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	repoFilter := repository.DiamondFilter{
		KapanID:      filter.KapanID,
		UnbilledOnly: filter.UnbilledOnly,
		Page:         page,
		Limit:        limit,
	}
	if filter.Category != "" {
		category, err := canonicalCategory(filter.Category)
		if err != nil {
			return nil, 0, err
		}
		repoFilter.Category = category
	}
	if filter.ClientID != "" {
		uid, err := parseID("client", filter.ClientID)
		if err != nil {
			return nil, 0, err
		}
		repoFilter.ClientID = &uid
	}

	diamonds, total, err := s.diamondRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch diamonds: %w", err)
	}

	res := make([]DiamondResponse, 0, len(diamonds))
	for _, d := range diamonds {
		res = append(res, toDiamondResponse(d))
	}
	return res, total, nil
}

func (s *diamondService) afterChange(ctx context.Context, event string, data interface{}) {
	s.invalidator.InvalidateStats(ctx)
	s.events.Publish(event, data)
}

// --- Response mappers ---

func toDiamondResponse(d model.Diamond) DiamondResponse {
	resp := DiamondResponse{
		ID:               d.ID,
		KapanID:          d.KapanID,
		NumberOfDiamonds: d.NumberOfDiamonds,
		WeightInKarats:   d.WeightInKarats,
		Category:         d.Category,
		Rate:             d.Rate,
		TotalValue:       d.TotalValue,
		DisplayRate:      invoicecalc.EntryRate(d.ToEntry()),
		ClientID:         d.ClientID,
		InvoiceID:        d.InvoiceID,
		Billed:           d.IsBilled(),
		EntryDate:        d.EntryDate,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.Client != nil {
		resp.ClientName = d.Client.Name
	}
	return resp
}
