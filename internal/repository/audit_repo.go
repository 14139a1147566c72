package repository

import (
	"context"
	"strings"

	"diamondtrade/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows the change history. Empty fields match everything.
type AuditFilter struct {
	Actor    string
	Action   string
	EntityID string
	Page     int
	Limit    int
}

func (f AuditFilter) apply(db *gorm.DB) *gorm.DB {
	if actor := strings.TrimSpace(f.Actor); actor != "" {
		db = db.Where("actor = ?", actor)
	}
	if action := strings.ToUpper(strings.TrimSpace(f.Action)); action != "" {
		db = db.Where("action = ?", action)
	}
	if id := strings.TrimSpace(f.EntityID); id != "" {
		db = db.Where("entity_id = ?", id)
	}
	return db
}

type AuditRepository interface {
	Record(ctx context.Context, entry *model.AuditLog) error
	Search(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Record joins the caller's transaction when there is one, so a rolled
// back change leaves no history behind.
func (r *auditRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	entry.Actor = strings.TrimSpace(entry.Actor)
	if entry.Actor == "" {
		entry.Actor = model.SystemActor
	}
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) Search(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error) {
	var total int64
	scoped := filter.apply(GetDB(ctx, r.db).Model(&model.AuditLog{}))
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.AuditLog{}, 0, nil
	}

	var logs []model.AuditLog
	err := filter.apply(GetDB(ctx, r.db)).
		Order("created_at desc, id desc").
		Offset(offsetFor(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
