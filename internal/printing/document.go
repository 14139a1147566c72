package printing

import (
	"time"

	"diamondtrade/internal/invoicecalc"
	"diamondtrade/internal/model"
	"diamondtrade/internal/service"
)

// Party is the bill-to block.
type Party struct {
	Name          string
	CompanyName   string
	ContactPerson string
	Address       string
	Phone         string
	Email         string
	GSTIN         string
	PAN           string
}

// InvoiceDocument is the data bound to the invoice template.
type InvoiceDocument struct {
	Number        string
	IssueDate     time.Time
	DueDate       time.Time
	Status        string
	Paid          bool
	PaymentDate   *time.Time
	PaymentMethod string
	Notes         string
	Client        Party
	Company       model.CompanyDetails
	HasBank       bool
	Summary       invoicecalc.Summary
	GeneratedAt   time.Time
}

// NewInvoiceDocument flattens an invoice detail for printing.
func NewInvoiceDocument(detail service.InvoiceDetail) InvoiceDocument {
	inv := detail.Invoice
	doc := InvoiceDocument{
		Number:      inv.InvoiceNumber,
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		Status:      inv.Status,
		Paid:        inv.Status == model.InvoiceStatusPaid,
		PaymentDate: inv.PaymentDate,
		Notes:       inv.Notes,
		Client: Party{
			Name:          detail.Client.Name,
			CompanyName:   detail.Client.CompanyName,
			ContactPerson: detail.Client.ContactPerson,
			Address:       detail.Client.Address,
			Phone:         detail.Client.Phone,
			Email:         detail.Client.Email,
			GSTIN:         detail.Client.GSTIN,
			PAN:           detail.Client.PAN,
		},
		Company: detail.Company,
		HasBank: detail.Company.HasBankDetails(),
		Summary: detail.Summary,
	}
	if inv.PaymentMethod != nil {
		doc.PaymentMethod = *inv.PaymentMethod
	}
	return doc
}
