package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"diamondtrade/internal/invoicecalc"
)

// Diamond is one lot of stones from a kapan (rough parcel). Category holds
// the canonical label, "4P Plus" or "4P Minus".
type Diamond struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	KapanID          string          `gorm:"type:varchar(100);not null;index" json:"kapan_id"`
	NumberOfDiamonds int64           `gorm:"not null;default:0" json:"number_of_diamonds"`
	WeightInKarats   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"weight_in_karats"`
	Category         string          `gorm:"type:varchar(20);not null;index" json:"category"`
	Rate             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"rate"`
	TotalValue       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_value"`
	ClientID         *uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	Client           *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	InvoiceID        *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id"`
	EntryDate        time.Time       `gorm:"index" json:"entry_date"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsBilled reports whether the lot is already on an invoice.
func (d *Diamond) IsBilled() bool {
	return d.InvoiceID != nil && *d.InvoiceID != uuid.Nil
}

// ToEntry converts the row into the aggregator's entry type.
func (d *Diamond) ToEntry() invoicecalc.Entry {
	return invoicecalc.NewEntry(
		d.ID.String(),
		d.KapanID,
		d.NumberOfDiamonds,
		d.WeightInKarats,
		d.Category,
		d.TotalValue,
	)
}

// ToEntries converts rows preserving their order.
func ToEntries(diamonds []Diamond) []invoicecalc.Entry {
	entries := make([]invoicecalc.Entry, 0, len(diamonds))
	for i := range diamonds {
		entries = append(entries, diamonds[i].ToEntry())
	}
	return entries
}
