package dto

import "github.com/mitrakasir/retail_backend_app/internal/core/domain"

// CreatePartyRequest creates a customer or supplier.
type CreatePartyRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdatePartyRequest updates a customer or supplier.
type UpdatePartyRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// CustomerResponse is the API shape of a customer.
type CustomerResponse struct {
	CustomerID string `json:"customerID"`
	TenantID   string `json:"tenantID"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	IsActive   bool   `json:"isActive"`
}

// SupplierResponse is the API shape of a supplier.
type SupplierResponse struct {
	SupplierID string `json:"supplierID"`
	TenantID   string `json:"tenantID"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	IsActive   bool   `json:"isActive"`
}

// ToCustomerResponse converts a domain customer to its API shape.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		TenantID:   c.TenantID,
		Name:       c.Name,
		Phone:      c.Phone,
		Address:    c.Address,
		Notes:      c.Notes,
		IsActive:   c.IsActive,
	}
}

// ToSupplierResponse converts a domain supplier to its API shape.
func ToSupplierResponse(s *domain.Supplier) SupplierResponse {
	return SupplierResponse{
		SupplierID: s.SupplierID,
		TenantID:   s.TenantID,
		Name:       s.Name,
		Phone:      s.Phone,
		Address:    s.Address,
		Notes:      s.Notes,
		IsActive:   s.IsActive,
	}
}
