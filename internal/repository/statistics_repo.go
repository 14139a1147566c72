package repository

import (
	"context"
	"fmt"
	"time"

	"diamondtrade/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	GetTopClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientRanking, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

// GetTopClients ranks clients by the stored totals of invoices issued in the
// range.
func (r *statisticsRepository) GetTopClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientRanking, error) {
	var rankings []model.ClientRanking
	if err := GetDB(ctx, r.db).Table("invoices").
		Select("clients.id AS client_id, clients.name AS client_name, COUNT(invoices.id) AS invoice_count, COALESCE(SUM(invoices.total_amount), 0) AS total_invoiced").
		Joins("JOIN clients ON clients.id = invoices.client_id").
		Where("invoices.deleted_at IS NULL AND invoices.issue_date >= ? AND invoices.issue_date <= ?", start, end).
		Group("clients.id, clients.name").
		Order("total_invoiced DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top clients: %w", err)
	}
	return rankings, nil
}
