package domain

// Supplier is a vendor the business purchases stock from.
type Supplier struct {
	SupplierID string `json:"supplierID"` // Primary Key (UUID)
	TenantID   string `json:"tenantID"`   // FK -> tenants.tenant_id (NON-NULL)
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}
