package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateClient        = "CREATE_CLIENT"
	ActionUpdateClient        = "UPDATE_CLIENT"
	ActionDeleteClient        = "DELETE_CLIENT"
	ActionCreateDiamond       = "CREATE_DIAMOND"
	ActionUpdateDiamond       = "UPDATE_DIAMOND"
	ActionDeleteDiamond       = "DELETE_DIAMOND"
	ActionCreateInvoice       = "CREATE_INVOICE"
	ActionUpdateInvoiceStatus = "UPDATE_INVOICE_STATUS"
	ActionDeleteInvoice       = "DELETE_INVOICE"
	ActionUpdateCompany       = "UPDATE_COMPANY"
)

// SystemActor is recorded when no caller identity is supplied.
const SystemActor = "system"

// AuditLog tracks who changed what and when.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Actor      string    `gorm:"type:varchar(100);not null;default:'system';index" json:"actor"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:text" json:"details"` // JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
