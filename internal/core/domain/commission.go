package domain

import "github.com/shopspring/decimal"

// CommissionStatus tracks whether a salesperson's commission is realized.
type CommissionStatus string

const (
	CommissionPending CommissionStatus = "PENDING" // Credit sale, receivable not yet collected
	CommissionPaid    CommissionStatus = "PAID"    // Cash sale, realized immediately
	CommissionVoid    CommissionStatus = "VOID"    // Fully returned
)

// Commission is a performance-based amount owed to a salesperson, derived
// from sale margin. Created at most once per sale and only when the computed
// amount is positive.
type Commission struct {
	CommissionID  string           `json:"commissionID"` // Primary Key (UUID)
	TenantID      string           `json:"tenantID"`     // FK -> tenants.tenant_id (NON-NULL)
	SaleID        string           `json:"saleID"`       // Back-reference, lookup only
	SalespersonID string           `json:"salespersonID"`
	RatePercent   decimal.Decimal  `json:"ratePercent"`
	Amount        decimal.Decimal  `json:"amount"`
	Status        CommissionStatus `json:"status"`
	AuditFields
}
