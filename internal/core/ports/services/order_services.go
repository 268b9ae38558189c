package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// OrderSvcFacade drives the order lifecycle. It is the only entry point for
// order state transitions; ledger, stock, receivable and commission effects
// happen inside the ship/return transitions, never independently.
type OrderSvcFacade interface {
	CreateOrder(ctx context.Context, tenantID string, req dto.CreateOrderRequest, salespersonID string) (*domain.Order, error)
	EditOrder(ctx context.Context, tenantID string, orderID string, req dto.EditOrderRequest, salespersonID string) (*domain.Order, error)
	GetOrder(ctx context.Context, tenantID string, orderID string, requestingUserID string) (*domain.Order, error)
	ListOrders(ctx context.Context, tenantID string, requestingUserID string, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error)
	ApproveOrder(ctx context.Context, tenantID string, orderID string, req dto.ApproveOrderRequest, adminUserID string) (*domain.Order, error)
	RejectOrder(ctx context.Context, tenantID string, orderID string, adminUserID string) error

	// ShipOrder executes the composite must-be-atomic transition and returns
	// the created sale ID.
	ShipOrder(ctx context.Context, tenantID string, orderID string, req dto.ShipOrderRequest, adminUserID string) (string, error)

	// ReverseForReturn reverses part or all of a shipped sale's financial and
	// inventory effects atomically.
	ReverseForReturn(ctx context.Context, tenantID string, saleID string, req dto.ReturnRequest, adminUserID string) error

	GetSale(ctx context.Context, tenantID string, saleID string, requestingUserID string) (*domain.Sale, error)
	ListSales(ctx context.Context, tenantID string, requestingUserID string, limit int, nextToken *string) ([]domain.Sale, *string, error)
}
