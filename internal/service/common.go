package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"diamondtrade/internal/model"
	"diamondtrade/internal/repository"
	"diamondtrade/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventPublisher pushes change notifications to live clients.
type EventPublisher interface {
	Publish(event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// Event names
const (
	EventDiamondCreated       = "diamond.created"
	EventDiamondUpdated       = "diamond.updated"
	EventDiamondDeleted       = "diamond.deleted"
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceStatusChanged = "invoice.status_changed"
	EventInvoiceDeleted       = "invoice.deleted"
)

type actorKey struct{}

// WithActor records who is making the change, for audit entries.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, strings.TrimSpace(actor))
}

// ActorFromContext returns the caller recorded by WithActor or SystemActor.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return model.SystemActor
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, action, entityID, entityName string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	entry := &model.AuditLog{
		Actor:      ActorFromContext(ctx),
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func parseID(what, id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, invalidf("invalid %s id", what)
	}
	return uid, nil
}

func normalizePage(page, limit int) (int, int) {
	p := pagination.New(page, limit)
	return p.Page, p.Limit
}

func requireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalidf("%s must not be negative", field)
	}
	return nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps and plain yyyy-MM-dd dates.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidf("invalid date %q", value)
}

func optionalDate(field string, value *string, fallback time.Time) (time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback, nil
	}
	t, err := ParseDate(*value)
	if err != nil {
		return time.Time{}, invalidf("invalid %s", field)
	}
	return t, nil
}

// StatsInvalidator drops cached dashboard figures after a write.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateStats(context.Context) {}

func invalidatorOrNoop(i StatsInvalidator) StatsInvalidator {
	if i == nil {
		return noopInvalidator{}
	}
	return i
}
