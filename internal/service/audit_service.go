package service

import (
	"context"
	"fmt"
	"time"

	"diamondtrade/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditQuery selects entries by who, what and which record.
type AuditQuery struct {
	Actor    string
	Action   string
	EntityID string
	Page     int
	Limit    int
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, query AuditQuery) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// GetAuditLogs returns the newest entries first.
func (s *auditService) GetAuditLogs(ctx context.Context, query AuditQuery) ([]AuditLogResponse, int64, error) {
	page, limit := normalizePage(query.Page, query.Limit)

	logs, total, err := s.auditRepo.Search(ctx, repository.AuditFilter{
		Actor:    query.Actor,
		Action:   query.Action,
		EntityID: query.EntityID,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			Actor:      l.Actor,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.DateTime),
		})
	}

	return res, total, nil
}
