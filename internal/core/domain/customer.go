package domain

// Customer is a buyer the business extends credit to.
type Customer struct {
	CustomerID string `json:"customerID"` // Primary Key (UUID)
	TenantID   string `json:"tenantID"`   // FK -> tenants.tenant_id (NON-NULL)
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}
