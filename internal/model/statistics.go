package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the analytics payload for a date range. Chart series are
// returned as data only.
type DashboardStats struct {
	TotalClients      int64             `json:"total_clients"`
	TotalInvoices     int64             `json:"total_invoices"`
	PendingInvoices   int64             `json:"pending_invoices"`
	PaidInvoices      int64             `json:"paid_invoices"`
	TotalInvoiced     decimal.Decimal   `json:"total_invoiced"`
	TotalPaid         decimal.Decimal   `json:"total_paid"`
	TotalOutstanding  decimal.Decimal   `json:"total_outstanding"`
	CategoryBreakdown CategoryBreakdown `json:"category_breakdown"`
	Monthly           []MonthlyPoint    `json:"monthly"`
	TopClients        []ClientRanking   `json:"top_clients"`
	RangeStart        time.Time         `json:"range_start"`
	RangeEnd          time.Time         `json:"range_end"`
}

// CategoryBreakdown totals diamond lots entered in the range by category.
type CategoryBreakdown struct {
	PlusCount   int64           `json:"plus_count"`
	PlusWeight  decimal.Decimal `json:"plus_weight"`
	PlusValue   decimal.Decimal `json:"plus_value"`
	PlusRate    decimal.Decimal `json:"plus_rate"`
	MinusCount  int64           `json:"minus_count"`
	MinusWeight decimal.Decimal `json:"minus_weight"`
	MinusValue  decimal.Decimal `json:"minus_value"`
	MinusRate   decimal.Decimal `json:"minus_rate"`
}

// MonthlyPoint is one YYYY-MM bucket of the revenue series.
type MonthlyPoint struct {
	Month    string          `json:"month"`
	Invoiced decimal.Decimal `json:"invoiced"`
	Paid     decimal.Decimal `json:"paid"`
	Count    int64           `json:"count"`
}

// ClientRanking ranks clients by invoiced value.
type ClientRanking struct {
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name"`
	InvoiceCount  int64           `json:"invoice_count"`
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
}
