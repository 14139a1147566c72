package model

import (
	"time"

	"github.com/google/uuid"
)

// CompanyDetails is the seller block printed on every invoice. Only one row
// is kept.
type CompanyDetails struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255)" json:"name"`
	Address           string    `gorm:"type:text" json:"address"`
	Phone             string    `gorm:"type:varchar(50)" json:"phone"`
	Email             string    `gorm:"type:varchar(255)" json:"email"`
	GSTIN             string    `gorm:"column:gstin;type:varchar(20)" json:"gstin"`
	BankName          string    `gorm:"type:varchar(255)" json:"bank_name"`
	AccountHolderName string    `gorm:"type:varchar(255)" json:"account_holder_name"`
	AccountNumber     string    `gorm:"type:varchar(50)" json:"account_number"`
	IFSCCode          string    `gorm:"column:ifsc_code;type:varchar(20)" json:"ifsc_code"`
	UPIID             string    `gorm:"column:upi_id;type:varchar(100)" json:"upi_id"`
	InvoiceTerms      string    `gorm:"type:text" json:"invoice_terms"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName keeps the singleton table name short.
func (CompanyDetails) TableName() string {
	return "company_details"
}

// HasBankDetails reports whether any bank field is filled in.
func (c *CompanyDetails) HasBankDetails() bool {
	return c.BankName != "" || c.AccountNumber != "" || c.IFSCCode != "" || c.UPIID != ""
}
