package domain

import "github.com/shopspring/decimal"

// Product is a stocked catalog item. StockQuantity is mutated only through
// the inventory adjuster; cost price is snapshotted onto sale lines at ship
// time so later cost changes never rewrite history.
type Product struct {
	ProductID     string          `json:"productID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`  // FK -> tenants.tenant_id (NON-NULL)
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"` // e.g. "pcs", "kg"
	CostPrice     decimal.Decimal `json:"costPrice"`
	SellPrice     decimal.Decimal `json:"sellPrice"`
	StockQuantity decimal.Decimal `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
