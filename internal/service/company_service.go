package service

import (
	"context"
	"fmt"
	"strings"

	"diamondtrade/internal/model"
	"diamondtrade/internal/repository"

	"go.uber.org/zap"
)

// UpdateCompanyRequest replaces the seller details printed on invoices.
type UpdateCompanyRequest struct {
	Name              string `json:"name" binding:"required"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	GSTIN             string `json:"gstin"`
	BankName          string `json:"bank_name"`
	AccountHolderName string `json:"account_holder_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	UPIID             string `json:"upi_id"`
	InvoiceTerms      string `json:"invoice_terms"`
}

type CompanyService interface {
	GetCompany(ctx context.Context) (model.CompanyDetails, error)
	UpdateCompany(ctx context.Context, req UpdateCompanyRequest) (model.CompanyDetails, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	log         *zap.Logger
}

func NewCompanyService(
	companyRepo repository.CompanyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	log *zap.Logger,
) CompanyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &companyService{
		companyRepo: companyRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		log:         log,
	}
}

// GetCompany returns an empty record until details have been saved.
func (s *companyService) GetCompany(ctx context.Context) (model.CompanyDetails, error) {
	company, err := s.companyRepo.Get(ctx)
	if err != nil {
		return model.CompanyDetails{}, fmt.Errorf("failed to load company details: %w", err)
	}
	if company == nil {
		return model.CompanyDetails{}, nil
	}
	return *company, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, req UpdateCompanyRequest) (model.CompanyDetails, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.CompanyDetails{}, invalidf("name is required")
	}
	if err := validateEmail(req.Email); err != nil {
		return model.CompanyDetails{}, err
	}

	var saved model.CompanyDetails
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		company, err := s.companyRepo.Get(txCtx)
		if err != nil {
			return fmt.Errorf("failed to load company details: %w", err)
		}
		if company == nil {
			company = &model.CompanyDetails{}
		}

		company.Name = name
		company.Address = req.Address
		company.Phone = strings.TrimSpace(req.Phone)
		company.Email = strings.TrimSpace(req.Email)
		company.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
		company.BankName = req.BankName
		company.AccountHolderName = req.AccountHolderName
		company.AccountNumber = strings.TrimSpace(req.AccountNumber)
		company.IFSCCode = strings.ToUpper(strings.TrimSpace(req.IFSCCode))
		company.UPIID = strings.TrimSpace(req.UPIID)
		company.InvoiceTerms = req.InvoiceTerms

		if err := s.companyRepo.Save(txCtx, company); err != nil {
			return fmt.Errorf("failed to save company details: %w", err)
		}
		saved = *company
		return writeAudit(txCtx, s.auditRepo, model.ActionUpdateCompany, company.ID.String(), company.Name, req)
	})
	if err != nil {
		return model.CompanyDetails{}, err
	}
	return saved, nil
}
