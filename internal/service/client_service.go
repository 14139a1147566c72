package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"diamondtrade/internal/model"
	"diamondtrade/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateClientRequest struct {
	Name          string           `json:"name" binding:"required"`
	CompanyName   string           `json:"company_name"`
	ContactPerson string           `json:"contact_person"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Address       string           `json:"address"`
	GSTIN         string           `json:"gstin"`
	PAN           string           `json:"pan"`
	PlusRate      *decimal.Decimal `json:"plus_rate" swaggertype:"string"`
	MinusRate     *decimal.Decimal `json:"minus_rate" swaggertype:"string"`
}

type UpdateClientRequest struct {
	Name          *string          `json:"name"`
	CompanyName   *string          `json:"company_name"`
	ContactPerson *string          `json:"contact_person"`
	Phone         *string          `json:"phone"`
	Email         *string          `json:"email"`
	Address       *string          `json:"address"`
	GSTIN         *string          `json:"gstin"`
	PAN           *string          `json:"pan"`
	PlusRate      *decimal.Decimal `json:"plus_rate" swaggertype:"string"`
	MinusRate     *decimal.Decimal `json:"minus_rate" swaggertype:"string"`
	IsActive      *bool            `json:"is_active"`
}

type ClientResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	CompanyName   string          `json:"company_name"`
	ContactPerson string          `json:"contact_person"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	GSTIN         string          `json:"gstin"`
	PAN           string          `json:"pan"`
	PlusRate      decimal.Decimal `json:"plus_rate" swaggertype:"string"`
	MinusRate     decimal.Decimal `json:"minus_rate" swaggertype:"string"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ClientListFilter struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
	GetClient(ctx context.Context, id string) (ClientResponse, error)
	ListClients(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error)
}

// --- Implementation ---

type clientService struct {
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	log         *zap.Logger
}

func NewClientService(
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	log *zap.Logger,
) ClientService {
	if log == nil {
		log = zap.NewNop()
	}
	return &clientService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		log:         log,
	}
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalidf("invalid email format")
	}
	return nil
}

func optionalRate(field string, rate *decimal.Decimal) (decimal.Decimal, error) {
	if rate == nil {
		return decimal.Zero, nil
	}
	if err := requireNonNegative(field, *rate); err != nil {
		return decimal.Zero, err
	}
	return *rate, nil
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ClientResponse{}, invalidf("name is required")
	}
	email := strings.TrimSpace(req.Email)
	if err := validateEmail(email); err != nil {
		return ClientResponse{}, err
	}
	plusRate, err := optionalRate("plus_rate", req.PlusRate)
	if err != nil {
		return ClientResponse{}, err
	}
	minusRate, err := optionalRate("minus_rate", req.MinusRate)
	if err != nil {
		return ClientResponse{}, err
	}

	client := &model.Client{
		Name:          name,
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         email,
		Address:       req.Address,
		GSTIN:         strings.ToUpper(strings.TrimSpace(req.GSTIN)),
		PAN:           strings.ToUpper(strings.TrimSpace(req.PAN)),
		PlusRate:      plusRate,
		MinusRate:     minusRate,
		IsActive:      true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.clientRepo.Create(txCtx, client); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionCreateClient, client.ID.String(), client.Name, req)
	})
	if err != nil {
		return ClientResponse{}, err
	}

	s.log.Info("Client created", zap.String("client_id", client.ID.String()))
	return toClientResponse(*client), nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error) {
	uid, err := parseID("client", id)
	if err != nil {
		return ClientResponse{}, err
	}

	var client *model.Client
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		client, findErr = s.clientRepo.FindByID(txCtx, uid)
		if findErr != nil {
			return lookupErr("client", findErr)
		}

		if err := applyClientUpdate(client, req); err != nil {
			return err
		}

		if err := s.clientRepo.Update(txCtx, client); err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionUpdateClient, client.ID.String(), client.Name, req)
	})
	if err != nil {
		return ClientResponse{}, err
	}

	return toClientResponse(*client), nil
}

func applyClientUpdate(client *model.Client, req UpdateClientRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return invalidf("name cannot be empty")
		}
		client.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := validateEmail(email); err != nil {
			return err
		}
		client.Email = email
	}
	if req.PlusRate != nil {
		if err := requireNonNegative("plus_rate", *req.PlusRate); err != nil {
			return err
		}
		client.PlusRate = *req.PlusRate
	}
	if req.MinusRate != nil {
		if err := requireNonNegative("minus_rate", *req.MinusRate); err != nil {
			return err
		}
		client.MinusRate = *req.MinusRate
	}
	if req.CompanyName != nil {
		client.CompanyName = *req.CompanyName
	}
	if req.ContactPerson != nil {
		client.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.GSTIN != nil {
		client.GSTIN = strings.ToUpper(strings.TrimSpace(*req.GSTIN))
	}
	if req.PAN != nil {
		client.PAN = strings.ToUpper(strings.TrimSpace(*req.PAN))
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	return nil
}

// DeleteClient refuses while any invoice still references the client.
func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	uid, err := parseID("client", id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		client, err := s.clientRepo.FindByID(txCtx, uid)
		if err != nil {
			return lookupErr("client", err)
		}

		count, err := s.invoiceRepo.CountByClient(txCtx, uid)
		if err != nil {
			return fmt.Errorf("failed to count invoices: %w", err)
		}
		if count > 0 {
			return conflictf("client has %d invoice(s)", count)
		}

		if err := s.clientRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, model.ActionDeleteClient, client.ID.String(), client.Name, nil)
	})
}

func (s *clientService) GetClient(ctx context.Context, id string) (ClientResponse, error) {
	uid, err := parseID("client", id)
	if err != nil {
		return ClientResponse{}, err
	}
	client, err := s.clientRepo.FindByID(ctx, uid)
	if err != nil {
		return ClientResponse{}, lookupErr("client", err)
	}
	return toClientResponse(*client), nil
}

func (s *clientService) ListClients(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	clients, total, err := s.clientRepo.List(ctx, repository.ClientFilter{
		Search: filter.Search,
		Active: filter.Active,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	res := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		res = append(res, toClientResponse(c))
	}
	return res, total, nil
}

// --- Response mappers ---

func toClientResponse(c model.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID,
		Name:          c.Name,
		CompanyName:   c.CompanyName,
		ContactPerson: c.ContactPerson,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		GSTIN:         c.GSTIN,
		PAN:           c.PAN,
		PlusRate:      c.PlusRate,
		MinusRate:     c.MinusRate,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
