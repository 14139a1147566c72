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

// DiamondFilter narrows ListDiamonds. Zero values mean "any".
type DiamondFilter struct {
	KapanID      string
	Category     string
	ClientID     *uuid.UUID
	UnbilledOnly bool
	Page         int
	Limit        int
}

type DiamondRepository interface {
	Create(ctx context.Context, diamond *model.Diamond) error
	Update(ctx context.Context, diamond *model.Diamond) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Diamond, error)
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]model.Diamond, error)
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]model.Diamond, error)
	FindByEntryDate(ctx context.Context, start, end time.Time) ([]model.Diamond, error)
	List(ctx context.Context, filter DiamondFilter) ([]model.Diamond, int64, error)
	LinkToInvoice(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) error
	UnlinkInvoice(ctx context.Context, invoiceID uuid.UUID) error
}

type diamondRepository struct {
	db *gorm.DB
}

func NewDiamondRepository(db *gorm.DB) DiamondRepository {
	return &diamondRepository{db: db}
}

// entryOrder is the order lots appear in on an invoice.
const entryOrder = "entry_date ASC, created_at ASC"

func (r *diamondRepository) Create(ctx context.Context, diamond *model.Diamond) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(diamond).Error
}

func (r *diamondRepository) Update(ctx context.Context, diamond *model.Diamond) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(diamond).Error
}

func (r *diamondRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Diamond{}).Error
}

func (r *diamondRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Diamond, error) {
	var diamond model.Diamond
	if err := GetDB(ctx, r.db).Preload("Client").First(&diamond, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &diamond, nil
}

// FindByIDsForUpdate locks the rows on postgres. Missing ids are simply
// absent from the result.
func (r *diamondRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]model.Diamond, error) {
	var diamonds []model.Diamond
	if len(ids) == 0 {
		return diamonds, nil
	}
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order(entryOrder).
		Find(&diamonds).Error; err != nil {
		return nil, err
	}
	return diamonds, nil
}

func (r *diamondRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]model.Diamond, error) {
	var diamonds []model.Diamond
	if err := GetDB(ctx, r.db).Where("invoice_id = ?", invoiceID).
		Order(entryOrder).
		Find(&diamonds).Error; err != nil {
		return nil, err
	}
	return diamonds, nil
}

func (r *diamondRepository) FindByEntryDate(ctx context.Context, start, end time.Time) ([]model.Diamond, error) {
	var diamonds []model.Diamond
	if err := GetDB(ctx, r.db).Where("entry_date >= ? AND entry_date <= ?", start, end).
		Order(entryOrder).
		Find(&diamonds).Error; err != nil {
		return nil, err
	}
	return diamonds, nil
}

func (r *diamondRepository) List(ctx context.Context, filter DiamondFilter) ([]model.Diamond, int64, error) {
	var diamonds []model.Diamond
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Diamond{})
	if k := strings.ToLower(strings.TrimSpace(filter.KapanID)); k != "" {
		query = query.Where("LOWER(kapan_id) LIKE ?", likePattern(k))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.UnbilledOnly {
		query = query.Where("invoice_id IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Client").
		Order("entry_date DESC, created_at DESC").
		Offset(offsetFor(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&diamonds).Error; err != nil {
		return nil, 0, err
	}

	return diamonds, total, nil
}

func (r *diamondRepository) LinkToInvoice(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(&model.Diamond{}).
		Where("id IN ?", ids).
		Update("invoice_id", invoiceID).Error
}

func (r *diamondRepository) UnlinkInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Diamond{}).
		Where("invoice_id = ?", invoiceID).
		Update("invoice_id", nil).Error
}
