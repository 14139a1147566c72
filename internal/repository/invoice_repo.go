package repository

import (
	"context"
	"strings"
	"time"

	"diamondtrade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceFilter narrows ListInvoices.
type InvoiceFilter struct {
	Status   string
	ClientID *uuid.UUID
	Search   string // invoice number fragment
	Page     int
	Limit    int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Update(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*model.Invoice, error)
	FindByIssueDate(ctx context.Context, start, end time.Time) ([]model.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Client").Preload("Diamonds", func(db *gorm.DB) *gorm.DB {
		return db.Order(entryOrder)
	})
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(invoice).Error
}

// Update saves every column of the invoice row. Associations are left alone.
func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Invoice{}).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := withDetails(GetDB(ctx, r.db)).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := withDetails(GetDB(ctx, r.db)).
		Where("invoice_number = ?", strings.TrimSpace(number)).
		First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIssueDate(ctx context.Context, start, end time.Time) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := GetDB(ctx, r.db).Preload("Client").
		Where("issue_date >= ? AND issue_date <= ?", start, end).
		Order("issue_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Invoice{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", likePattern(s))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Client").
		Order("issue_date DESC, created_at DESC").
		Offset(offsetFor(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// CountByPrefix counts invoice numbers starting with prefix, including soft
// deleted ones so that generated numbers are never reused.
func (r *invoiceRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Unscoped().Model(&model.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NumberExists also sees soft deleted invoices, which still hold their
// number in the unique index.
func (r *invoiceRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Unscoped().Model(&model.Invoice{}).
		Where("invoice_number = ?", strings.TrimSpace(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *invoiceRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
