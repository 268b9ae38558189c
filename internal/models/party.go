package models

// Customer represents a buyer row.
type Customer struct {
	CustomerID string `db:"customer_id"`
	TenantID   string `db:"tenant_id"`
	Name       string `db:"name"`
	Phone      string `db:"phone"`
	Address    string `db:"address"`
	Notes      string `db:"notes"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}

// Supplier represents a vendor row.
type Supplier struct {
	SupplierID string `db:"supplier_id"`
	TenantID   string `db:"tenant_id"`
	Name       string `db:"name"`
	Phone      string `db:"phone"`
	Address    string `db:"address"`
	Notes      string `db:"notes"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}
