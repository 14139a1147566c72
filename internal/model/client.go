package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client is a buyer invoices are issued to. PlusRate is the default price
// per carat for 4P Plus stones, MinusRate the default price per piece for
// 4P Minus stones.
type Client struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	CompanyName   string          `gorm:"type:varchar(255)" json:"company_name"`
	ContactPerson string          `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string          `gorm:"type:varchar(50)" json:"phone"`
	Email         string          `gorm:"type:varchar(255)" json:"email"`
	Address       string          `gorm:"type:text" json:"address"`
	GSTIN         string          `gorm:"column:gstin;type:varchar(20)" json:"gstin"`
	PAN           string          `gorm:"column:pan;type:varchar(20)" json:"pan"`
	PlusRate      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"plus_rate"`
	MinusRate     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"minus_rate"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
