package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
	"github.com/mitrakasir/retail_backend_app/internal/utils/commission"
)

var (
	ErrOrderNotEditable    = errors.New("order can only be edited while pending")
	ErrCreditNeedsCustomer = errors.New("credit orders require a customer")
	ErrNotOrderOwner       = errors.New("only the creating salesperson or an admin may edit this order")
)

// orderService drives the order lifecycle and the composite ship/return
// transitions. All financial and inventory side effects of an order happen
// here, through single atomic repository commits.
type orderService struct {
	BaseService
	orderRepo      portsrepo.OrderRepositoryFacade
	productRepo    portsrepo.ProductReader
	customerRepo   portsrepo.CustomerReader
	ledgerRepo     portsrepo.CashAccountReader
	commissionRepo portsrepo.CommissionReader
	tenantRepo     portsrepo.TenantReader
	tenantSvc      portssvc.TenantAuthorizerSvc

	// allowNegativeStock disables the stock floor check at ship time.
	allowNegativeStock bool
}

// NewOrderService creates a new order service with the provided dependencies
func NewOrderService(
	orderRepo portsrepo.OrderRepositoryFacade,
	productRepo portsrepo.ProductReader,
	customerRepo portsrepo.CustomerReader,
	ledgerRepo portsrepo.CashAccountReader,
	commissionRepo portsrepo.CommissionReader,
	tenantRepo portsrepo.TenantReader,
	tenantSvc portssvc.TenantAuthorizerSvc,
	allowNegativeStock bool,
) portssvc.OrderSvcFacade {
	return &orderService{
		orderRepo:          orderRepo,
		productRepo:        productRepo,
		customerRepo:       customerRepo,
		ledgerRepo:         ledgerRepo,
		commissionRepo:     commissionRepo,
		tenantRepo:         tenantRepo,
		tenantSvc:          tenantSvc,
		allowNegativeStock: allowNegativeStock,
	}
}

// Ensure orderService implements the OrderSvcFacade interface
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// buildLines validates the requested lines against the tenant's catalog and
// returns fully computed domain lines. Catalog lines must reference an active
// product of the same tenant; free-text lines must carry a name. A provided
// LineID is preserved (approve reconciliation) only when it already belongs to
// this order, otherwise a new one is minted; foreign line IDs are rejected so
// the reconciliation upsert can never touch another order's rows.
func (s *orderService) buildLines(ctx context.Context, tenantID, orderID string, reqLines []dto.OrderLineRequest, existingLineIDs map[string]struct{}) ([]domain.OrderLine, error) {
	// Batch-fetch all referenced products up front.
	productIDs := make([]string, 0, len(reqLines))
	for _, lr := range reqLines {
		if domain.OrderLineKind(lr.Kind) == domain.LineCatalog {
			if lr.ProductID == nil || *lr.ProductID == "" {
				return nil, fmt.Errorf("%w: catalog line requires a productID", apperrors.ErrValidation)
			}
			productIDs = append(productIDs, *lr.ProductID)
		}
	}

	var products map[string]domain.Product
	if len(productIDs) > 0 {
		var err error
		products, err = s.productRepo.FindProductsByIDs(ctx, productIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch products for order lines",
				slog.String("tenant_id", tenantID))
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}
	}

	lines := make([]domain.OrderLine, 0, len(reqLines))
	for _, lr := range reqLines {
		if !lr.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line quantity must be positive", apperrors.ErrValidation)
		}
		if lr.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: line unit price must not be negative", apperrors.ErrValidation)
		}

		lineID := uuid.NewString()
		if lr.LineID != nil && *lr.LineID != "" {
			if _, ok := existingLineIDs[*lr.LineID]; !ok {
				return nil, fmt.Errorf("%w: line %s does not belong to this order", apperrors.ErrValidation, *lr.LineID)
			}
			lineID = *lr.LineID
		}

		switch domain.OrderLineKind(lr.Kind) {
		case domain.LineCatalog:
			product, found := products[*lr.ProductID]
			if !found || product.TenantID != tenantID {
				return nil, fmt.Errorf("%w: ID %s", apperrors.ErrProductNotFound, *lr.ProductID)
			}
			if !product.IsActive {
				return nil, fmt.Errorf("%w: product %s is inactive", apperrors.ErrValidation, product.ProductID)
			}
			name := lr.ProductName
			if name == "" {
				name = product.Name
			}
			lines = append(lines, domain.NewCatalogLine(lineID, orderID, product.ProductID, name, lr.UnitPrice, lr.Quantity))
		case domain.LineFreeText:
			if lr.ProductName == "" {
				return nil, fmt.Errorf("%w: free-text line requires a product name", apperrors.ErrValidation)
			}
			lines = append(lines, domain.NewFreeTextLine(lineID, orderID, lr.ProductName, lr.UnitPrice, lr.Quantity))
		default:
			return nil, fmt.Errorf("%w: unknown line kind %q", apperrors.ErrValidation, lr.Kind)
		}
	}
	return lines, nil
}

// existingLineIDSet fetches the order's current line IDs when any requested
// line carries one. Requests without line IDs skip the lookup.
func (s *orderService) existingLineIDSet(ctx context.Context, orderID string, reqLines []dto.OrderLineRequest) (map[string]struct{}, error) {
	hasIDs := false
	for _, lr := range reqLines {
		if lr.LineID != nil && *lr.LineID != "" {
			hasIDs = true
			break
		}
	}
	if !hasIDs {
		return nil, nil
	}

	lines, err := s.orderRepo.FindOrderLines(ctx, orderID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch order lines for line ID validation",
			slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to retrieve order lines: %w", err)
	}
	ids := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		ids[l.LineID] = struct{}{}
	}
	return ids, nil
}

// findTenantOrder fetches an order and verifies tenant ownership. Cross-tenant
// access is reported as NotFound to obscure existence.
func (s *orderService) findTenantOrder(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find order by ID",
				slog.String("order_id", orderID))
		}
		return nil, err
	}
	if order.TenantID != tenantID {
		s.LogWarn(ctx, "Order belongs to different tenant",
			slog.String("order_id", orderID),
			slog.String("order_tenant", order.TenantID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return order, nil
}

// CreateOrder creates a new PENDING order owned by the calling salesperson.
func (s *orderService) CreateOrder(ctx context.Context, tenantID string, req dto.CreateOrderRequest, salespersonID string) (*domain.Order, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, salespersonID, tenantID, domain.RoleSalesperson); err != nil {
		return nil, err
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if method == domain.PaymentCredit && req.CustomerID == nil {
		return nil, fmt.Errorf("%w", ErrCreditNeedsCustomer)
	}

	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindCustomerByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to find customer %s: %w", *req.CustomerID, err)
		}
		if customer.TenantID != tenantID {
			return nil, apperrors.ErrNotFound
		}
	}

	now := time.Now()
	orderID := uuid.NewString()

	lines, err := s.buildLines(ctx, tenantID, orderID, req.Lines, nil)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		OrderID:        orderID,
		TenantID:       tenantID,
		SalespersonID:  salespersonID,
		CustomerID:     req.CustomerID,
		PaymentMethod:  method,
		CreditTermDays: req.CreditTermDays,
		Status:         domain.OrderPending,
		Total:          domain.LinesTotal(lines),
		OrderDate:      now,
		Lines:          lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     salespersonID,
			LastUpdatedAt: now,
			LastUpdatedBy: salespersonID,
		},
	}

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		s.LogError(ctx, err, "Failed to save order",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.LogInfo(ctx, "Order created",
		slog.String("order_id", order.OrderID),
		slog.String("tenant_id", tenantID),
		slog.Int("line_count", len(lines)))
	return &order, nil
}

// EditOrder replaces all lines of a PENDING order. Only the creating
// salesperson or an admin may edit.
func (s *orderService) EditOrder(ctx context.Context, tenantID string, orderID string, req dto.EditOrderRequest, salespersonID string) (*domain.Order, error) {
	membership, err := s.tenantSvc.AuthorizeUserAction(ctx, salespersonID, tenantID, domain.RoleSalesperson)
	if err != nil {
		return nil, err
	}

	order, err := s.findTenantOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderPending {
		return nil, fmt.Errorf("%w: status is %s: %w", ErrOrderNotEditable, order.Status, apperrors.ErrInvalidState)
	}

	if membership.Role != domain.RoleAdmin && order.SalespersonID != salespersonID {
		s.LogWarn(ctx, "Salesperson attempted to edit another salesperson's order",
			slog.String("order_id", orderID),
			slog.String("actor_id", salespersonID),
			slog.String("owner_id", order.SalespersonID))
		return nil, fmt.Errorf("%w: %w", ErrNotOrderOwner, apperrors.ErrForbidden)
	}

	existingIDs, err := s.existingLineIDSet(ctx, orderID, req.Lines)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, tenantID, orderID, req.Lines, existingIDs)
	if err != nil {
		return nil, err
	}

	order.Lines = lines
	order.Total = domain.LinesTotal(lines)
	order.LastUpdatedAt = time.Now()
	order.LastUpdatedBy = salespersonID

	if err := s.orderRepo.ReplaceOrderLines(ctx, *order); err != nil {
		s.LogError(ctx, err, "Failed to replace order lines",
			slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to replace order lines: %w", err)
	}

	s.LogInfo(ctx, "Order edited",
		slog.String("order_id", orderID),
		slog.Int("line_count", len(lines)))
	return order, nil
}

// GetOrder retrieves an order with its lines.
func (s *orderService) GetOrder(ctx context.Context, tenantID string, orderID string, requestingUserID string) (*domain.Order, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	order, err := s.findTenantOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.orderRepo.FindOrderLines(ctx, orderID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch order lines",
			slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to retrieve order lines: %w", err)
	}
	order.Lines = lines
	return order, nil
}

// ListOrders retrieves a page of orders using token pagination.
func (s *orderService) ListOrders(ctx context.Context, tenantID string, requestingUserID string, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var status *domain.OrderStatus
	if params.Status != nil {
		st := domain.OrderStatus(*params.Status)
		status = &st
	}

	orders, nextToken, err := s.orderRepo.ListOrdersByTenant(ctx, tenantID, status, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = dto.ToOrderResponse(&orders[i])
	}

	return &dto.ListOrdersResponse{
		Orders:    responses,
		NextToken: nextToken,
	}, nil
}

// ApproveOrder reconciles the order's lines against the admin-supplied target
// set and moves the order to APPROVED. Approving an already APPROVED order is
// idempotent: the reconciliation applies again and the status stays APPROVED.
func (s *orderService) ApproveOrder(ctx context.Context, tenantID string, orderID string, req dto.ApproveOrderRequest, adminUserID string) (*domain.Order, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, adminUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	order, err := s.findTenantOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderPending && order.Status != domain.OrderApproved {
		return nil, fmt.Errorf("%w: cannot approve order in status %s", apperrors.ErrInvalidState, order.Status)
	}

	existingIDs, err := s.existingLineIDSet(ctx, orderID, req.Lines)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, tenantID, orderID, req.Lines, existingIDs)
	if err != nil {
		return nil, err
	}

	order.Lines = lines
	order.Total = domain.LinesTotal(lines)
	order.Status = domain.OrderApproved
	order.LastUpdatedAt = time.Now()
	order.LastUpdatedBy = adminUserID

	if err := s.orderRepo.ReconcileOrderLines(ctx, *order); err != nil {
		s.LogError(ctx, err, "Failed to reconcile order lines on approval",
			slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to approve order: %w", err)
	}

	s.LogInfo(ctx, "Order approved",
		slog.String("order_id", orderID),
		slog.String("admin_id", adminUserID))
	return order, nil
}

// RejectOrder cancels a PENDING or APPROVED order. Terminal orders stay put.
func (s *orderService) RejectOrder(ctx context.Context, tenantID string, orderID string, adminUserID string) error {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, adminUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	order, err := s.findTenantOrder(ctx, tenantID, orderID)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(domain.OrderCancelled) {
		return fmt.Errorf("%w: cannot cancel order in status %s", apperrors.ErrInvalidState, order.Status)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, domain.OrderCancelled, adminUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel order",
			slog.String("order_id", orderID))
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	s.LogInfo(ctx, "Order cancelled",
		slog.String("order_id", orderID),
		slog.String("admin_id", adminUserID))
	return nil
}

// ShipOrder executes the composite ship transition: order flips to SHIPPED,
// a sale with cost snapshots is created, stock decrements, and either a cash
// IN ledger entry or a receivable is recorded, plus a commission when the
// sale margin yields one. Everything is committed in one transaction; a
// concurrent ship loses the row lock race inside the repository and fails
// with ErrInvalidState.
func (s *orderService) ShipOrder(ctx context.Context, tenantID string, orderID string, req dto.ShipOrderRequest, adminUserID string) (string, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, adminUserID, tenantID, domain.RoleAdmin); err != nil {
		return "", err
	}

	order, err := s.findTenantOrder(ctx, tenantID, orderID)
	if err != nil {
		return "", err
	}

	if order.Status != domain.OrderApproved {
		return "", fmt.Errorf("%w: cannot ship order in status %s", apperrors.ErrInvalidState, order.Status)
	}

	lines, err := s.orderRepo.FindOrderLines(ctx, orderID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch order lines for shipment",
			slog.String("order_id", orderID))
		return "", fmt.Errorf("failed to retrieve order lines: %w", err)
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: order has no lines", apperrors.ErrValidation)
	}

	// Snapshot cost prices for catalog lines.
	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Kind == domain.LineCatalog {
			productIDs = append(productIDs, *l.ProductID)
		}
	}
	var products map[string]domain.Product
	if len(productIDs) > 0 {
		products, err = s.productRepo.FindProductsByIDs(ctx, productIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch products for shipment",
				slog.String("order_id", orderID))
			return "", fmt.Errorf("failed to fetch products: %w", err)
		}
	}

	now := time.Now()
	saleID := uuid.NewString()

	saleLines := make([]domain.SaleLine, 0, len(lines))
	stockDeltas := make(map[string]decimal.Decimal)
	for _, l := range lines {
		costAtSale := decimal.Zero
		if l.Kind == domain.LineCatalog {
			product, found := products[*l.ProductID]
			if !found {
				return "", fmt.Errorf("%w: ID %s", apperrors.ErrProductNotFound, *l.ProductID)
			}
			costAtSale = product.CostPrice
			stockDeltas[*l.ProductID] = stockDeltas[*l.ProductID].Sub(l.Quantity)
		}
		saleLines = append(saleLines, domain.SaleLine{
			SaleLineID:      uuid.NewString(),
			SaleID:          saleID,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			CostPriceAtSale: costAtSale,
			SellPrice:       l.UnitPrice,
			Quantity:        l.Quantity,
			Subtotal:        l.Subtotal,
			MarginPotential: l.UnitPrice.Sub(costAtSale).Mul(l.Quantity),
		})
	}

	sale := domain.Sale{
		SaleID:        saleID,
		TenantID:      tenantID,
		OrderID:       orderID,
		CustomerID:    order.CustomerID,
		SalespersonID: order.SalespersonID,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		SaleDate:      now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminUserID,
		},
	}

	commit := portsrepo.ShipmentCommit{
		OrderID:            orderID,
		TenantID:           tenantID,
		SaleLines:          saleLines,
		StockDeltas:        stockDeltas,
		AllowNegativeStock: s.allowNegativeStock,
		ActorID:            adminUserID,
		Now:                now,
	}

	switch order.PaymentMethod {
	case domain.PaymentCash:
		if req.CashAccountID == nil || *req.CashAccountID == "" {
			return "", apperrors.ErrMissingCashAccount
		}
		account, err := s.ledgerRepo.FindCashAccountByID(ctx, *req.CashAccountID)
		if err != nil {
			return "", fmt.Errorf("failed to find cash account %s: %w", *req.CashAccountID, err)
		}
		if account.TenantID != tenantID {
			return "", apperrors.ErrTenantMismatch
		}

		sale.Status = domain.SalePaid
		if order.Total.IsPositive() {
			commit.LedgerEntry = &domain.LedgerEntry{
				EntryID:       uuid.NewString(),
				TenantID:      tenantID,
				CashAccountID: account.CashAccountID,
				OccurredAt:    now,
				Amount:        order.Total,
				Direction:     domain.DirectionIn,
				Memo:          fmt.Sprintf("Sale %s (order %s)", saleID, orderID),
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     adminUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: adminUserID,
				},
			}
		}

	case domain.PaymentCredit:
		dueDate := now.AddDate(0, 0, order.CreditTermDays)
		sale.Status = domain.SaleUnpaid
		sale.DueDate = &dueDate
		commit.Receivable = &domain.Receivable{
			ReceivableID:    uuid.NewString(),
			TenantID:        tenantID,
			SaleID:          saleID,
			CustomerID:      order.CustomerID,
			TotalAmount:     order.Total,
			RemainingAmount: order.Total,
			DueDate:         dueDate,
			Status:          domain.SettlementOpen,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     adminUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: adminUserID,
			},
		}

	default:
		return "", fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, order.PaymentMethod)
	}

	// Commission from the salesperson's rate table, keyed by payment method.
	// Memberships that vanished since the order was drafted yield no commission.
	salesMembership, err := s.tenantRepo.FindUserTenant(ctx, order.SalespersonID, tenantID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to fetch salesperson membership for commission",
			slog.String("order_id", orderID),
			slog.String("salesperson_id", order.SalespersonID))
		return "", fmt.Errorf("failed to fetch salesperson membership: %w", err)
	}
	if salesMembership != nil {
		rate := salesMembership.CommissionRateFor(order.PaymentMethod)
		amount := commission.Compute(saleLines, rate)
		if amount.IsPositive() {
			status := domain.CommissionPending
			if order.PaymentMethod == domain.PaymentCash {
				status = domain.CommissionPaid
			}
			commit.Commission = &domain.Commission{
				CommissionID:  uuid.NewString(),
				TenantID:      tenantID,
				SaleID:        saleID,
				SalespersonID: order.SalespersonID,
				RatePercent:   rate,
				Amount:        amount,
				Status:        status,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     adminUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: adminUserID,
				},
			}
		}
	}

	commit.Sale = sale

	if err := s.orderRepo.CommitShipment(ctx, commit); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) || errors.Is(err, apperrors.ErrInsufficientStock) {
			s.LogWarn(ctx, "Shipment commit rejected",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()))
			return "", err
		}
		s.LogError(ctx, err, "Failed to commit shipment",
			slog.String("order_id", orderID))
		return "", fmt.Errorf("failed to commit shipment: %w", err)
	}

	s.LogInfo(ctx, "Order shipped",
		slog.String("order_id", orderID),
		slog.String("sale_id", saleID),
		slog.String("payment_method", string(order.PaymentMethod)),
		slog.String("total", order.Total.String()))
	return saleID, nil
}

// findTenantSale fetches a sale and verifies tenant ownership.
func (s *orderService) findTenantSale(ctx context.Context, tenantID, saleID string) (*domain.Sale, error) {
	sale, err := s.orderRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find sale by ID",
				slog.String("sale_id", saleID))
		}
		return nil, err
	}
	if sale.TenantID != tenantID {
		s.LogWarn(ctx, "Sale belongs to different tenant",
			slog.String("sale_id", saleID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return sale, nil
}

// ReverseForReturn reverses part or all of a shipped sale atomically: the sale
// total shrinks (VOID at zero), any open receivable shrinks with it, returned
// catalog stock is restored, the recorded commission is reduced proportionally
// and an OUT entry for the returned amount is appended to the given cash
// account. The ledger reversal applies to credit sales too, so every return
// shows up in the cash trail regardless of how the sale was settled.
func (s *orderService) ReverseForReturn(ctx context.Context, tenantID string, saleID string, req dto.ReturnRequest, adminUserID string) error {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, adminUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	sale, err := s.findTenantSale(ctx, tenantID, saleID)
	if err != nil {
		return err
	}

	if sale.Status == domain.SaleVoid {
		return fmt.Errorf("%w: sale is already fully returned", apperrors.ErrInvalidState)
	}

	if !req.ReturnedAmount.IsPositive() {
		return fmt.Errorf("%w: returned amount must be positive", apperrors.ErrInvalidAmount)
	}
	if req.ReturnedAmount.GreaterThan(sale.Total) {
		return fmt.Errorf("%w: returned amount %s exceeds sale total %s", apperrors.ErrInvalidAmount, req.ReturnedAmount.String(), sale.Total.String())
	}

	now := time.Now()
	commit := portsrepo.ReturnCommit{
		TenantID:       tenantID,
		SaleID:         saleID,
		ReturnedAmount: req.ReturnedAmount,
		ActorID:        adminUserID,
		Now:            now,
	}

	// Stock restores for returned catalog lines, bounded by what the sale
	// actually shipped.
	if len(req.LineAdjustments) > 0 {
		saleLines, err := s.orderRepo.FindSaleLines(ctx, saleID)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch sale lines for return",
				slog.String("sale_id", saleID))
			return fmt.Errorf("failed to retrieve sale lines: %w", err)
		}
		shipped := make(map[string]decimal.Decimal, len(saleLines))
		for _, sl := range saleLines {
			if sl.ProductID != nil {
				shipped[*sl.ProductID] = shipped[*sl.ProductID].Add(sl.Quantity)
			}
		}

		deltas := make(map[string]decimal.Decimal, len(req.LineAdjustments))
		for _, adj := range req.LineAdjustments {
			if !adj.Quantity.IsPositive() {
				return fmt.Errorf("%w: return quantity must be positive", apperrors.ErrValidation)
			}
			shippedQty, found := shipped[adj.ProductID]
			if !found {
				return fmt.Errorf("%w: product %s was not part of sale %s", apperrors.ErrValidation, adj.ProductID, saleID)
			}
			deltas[adj.ProductID] = deltas[adj.ProductID].Add(adj.Quantity)
			if deltas[adj.ProductID].GreaterThan(shippedQty) {
				return fmt.Errorf("%w: return quantity for product %s exceeds shipped quantity %s", apperrors.ErrValidation, adj.ProductID, shippedQty.String())
			}
		}
		commit.StockDeltas = deltas
	}

	// Every return reverses money through the ledger, whether it came in at
	// ship time (cash sale) or was still owed (credit sale).
	if req.CashAccountID == nil || *req.CashAccountID == "" {
		return apperrors.ErrMissingCashAccount
	}
	account, err := s.ledgerRepo.FindCashAccountByID(ctx, *req.CashAccountID)
	if err != nil {
		return fmt.Errorf("failed to find cash account %s: %w", *req.CashAccountID, err)
	}
	if account.TenantID != tenantID {
		return apperrors.ErrTenantMismatch
	}
	commit.LedgerEntry = &domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		TenantID:      tenantID,
		CashAccountID: account.CashAccountID,
		OccurredAt:    now,
		Amount:        req.ReturnedAmount,
		Direction:     domain.DirectionOut,
		Memo:          fmt.Sprintf("Refund for sale %s", saleID),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminUserID,
		},
	}

	// Proportional commission reduction, clamped inside the commit.
	comm, err := s.commissionRepo.FindCommissionBySaleID(ctx, saleID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to fetch commission for return",
			slog.String("sale_id", saleID))
		return fmt.Errorf("failed to fetch commission: %w", err)
	}
	if comm != nil && comm.Status != domain.CommissionVoid {
		commit.CommissionReduction = commission.Scale(req.ReturnedAmount, comm.RatePercent)
	}

	if err := s.orderRepo.CommitReturn(ctx, commit); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return err
		}
		s.LogError(ctx, err, "Failed to commit return",
			slog.String("sale_id", saleID))
		return fmt.Errorf("failed to commit return: %w", err)
	}

	s.LogInfo(ctx, "Sale return committed",
		slog.String("sale_id", saleID),
		slog.String("returned_amount", req.ReturnedAmount.String()))
	return nil
}

// GetSale retrieves a sale with its lines.
func (s *orderService) GetSale(ctx context.Context, tenantID string, saleID string, requestingUserID string) (*domain.Sale, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	sale, err := s.findTenantSale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}

	saleLines, err := s.orderRepo.FindSaleLines(ctx, saleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch sale lines",
			slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to retrieve sale lines: %w", err)
	}
	sale.Lines = saleLines
	return sale, nil
}

// ListSales retrieves a page of sales using token pagination.
func (s *orderService) ListSales(ctx context.Context, tenantID string, requestingUserID string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	sales, token, err := s.orderRepo.ListSalesByTenant(ctx, tenantID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sales",
			slog.String("tenant_id", tenantID))
		return nil, nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return sales, token, nil
}
