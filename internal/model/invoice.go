package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"diamondtrade/internal/invoicecalc"
)

// Invoice status values
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Payment method values
const (
	PaymentCash       = "cash"
	PaymentCheque     = "cheque"
	PaymentUPI        = "upi"
	PaymentNetBanking = "net-banking"
	PaymentCard       = "card"
	PaymentOther      = "other"
)

// PaymentMethods lists the accepted payment method values.
var PaymentMethods = []string{
	PaymentCash,
	PaymentCheque,
	PaymentUPI,
	PaymentNetBanking,
	PaymentCard,
	PaymentOther,
}

// Invoice bills a set of diamond lots to one client. TotalAmount is stored
// when the invoice is created and takes precedence over the sum of its lots.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	IssueDate     time.Time       `gorm:"not null;index" json:"issue_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentDate   *time.Time      `json:"payment_date"`
	PaymentMethod *string         `gorm:"type:varchar(20)" json:"payment_method"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Diamonds      []Diamond       `gorm:"foreignKey:InvoiceID" json:"diamonds,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Header converts the invoice into the aggregator's header. Dates are
// rendered as RFC 3339 strings.
func (i *Invoice) Header() invoicecalc.Header {
	h := invoicecalc.Header{
		InvoiceNumber: i.InvoiceNumber,
		IssueDate:     i.IssueDate.Format(time.RFC3339),
		DueDate:       i.DueDate.Format(time.RFC3339),
		ClientID:      i.ClientID.String(),
		Status:        i.Status,
		PaymentMethod: i.PaymentMethod,
		TotalAmount:   i.TotalAmount,
	}
	if i.PaymentDate != nil {
		pd := i.PaymentDate.Format(time.RFC3339)
		h.PaymentDate = &pd
	}
	return h
}

// IsPaid reports whether the invoice is settled.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}
