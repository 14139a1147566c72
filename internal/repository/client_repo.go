package repository

import (
	"context"
	"strings"

	"diamondtrade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientFilter narrows ListClients. A nil Active returns both states.
type ClientFilter struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]model.Client, int64, error)
	Count(ctx context.Context) (int64, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Client{}).Error
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Client{})
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		p := likePattern(s)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?",
			p, p, p, p,
		)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("name ASC").
		Offset(offsetFor(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Client{}).Count(&count).Error
	return count, err
}
