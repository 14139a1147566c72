package repository

import (
	"context"
	"errors"

	"diamondtrade/internal/model"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	// Get returns the stored company details, or nil when none exist yet.
	Get(ctx context.Context) (*model.CompanyDetails, error)
	Save(ctx context.Context, company *model.CompanyDetails) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Get(ctx context.Context) (*model.CompanyDetails, error) {
	var company model.CompanyDetails
	err := GetDB(ctx, r.db).Order("created_at ASC").First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Save(ctx context.Context, company *model.CompanyDetails) error {
	return GetDB(ctx, r.db).Save(company).Error
}
