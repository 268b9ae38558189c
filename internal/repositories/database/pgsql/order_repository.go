package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	"github.com/mitrakasir/retail_backend_app/internal/models"
	"github.com/mitrakasir/retail_backend_app/internal/utils/mapping"
	"github.com/mitrakasir/retail_backend_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type PgxOrderRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// newPgxOrderRepository creates a new repository for orders, sales and the
// composite ship/return commits.
func newPgxOrderRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// Ensure PgxOrderRepository implements portsrepo.OrderRepositoryFacade
var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

const orderColumns = `order_id, tenant_id, salesperson_id, customer_id, payment_method, credit_term_days, status, total, order_date, created_at, created_by, last_updated_at, last_updated_by`
const orderLineColumns = `line_id, order_id, kind, product_id, product_name, unit_price, quantity, subtotal`
const saleColumns = `sale_id, tenant_id, order_id, customer_id, salesperson_id, payment_method, total, due_date, status, sale_date, created_at, created_by, last_updated_at, last_updated_by`
const saleLineColumns = `sale_line_id, sale_id, product_id, product_name, cost_price_at_sale, sell_price, quantity, subtotal, margin_potential`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID,
		&m.TenantID,
		&m.SalespersonID,
		&m.CustomerID,
		&m.PaymentMethod,
		&m.CreditTermDays,
		&m.Status,
		&m.Total,
		&m.OrderDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanSale(row pgx.Row) (*models.Sale, error) {
	var m models.Sale
	err := row.Scan(
		&m.SaleID,
		&m.TenantID,
		&m.OrderID,
		&m.CustomerID,
		&m.SalespersonID,
		&m.PaymentMethod,
		&m.Total,
		&m.DueDate,
		&m.Status,
		&m.SaleDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const insertOrderLineQuery = `
	INSERT INTO order_lines (line_id, order_id, kind, product_id, product_name, unit_price, quantity, subtotal)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

func queueOrderLines(batch *pgx.Batch, query string, lines []domain.OrderLine) {
	for _, line := range lines {
		m := mapping.ToModelOrderLine(line)
		batch.Queue(query,
			m.LineID,
			m.OrderID,
			m.Kind,
			m.ProductID,
			m.ProductName,
			m.UnitPrice,
			m.Quantity,
			m.Subtotal,
		)
	}
}

// SaveOrder persists a new order header together with its lines in one
// transaction.
func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelOrder(order)
	headerQuery := `
		INSERT INTO orders (order_id, tenant_id, salesperson_id, customer_id, payment_method, credit_term_days, status, total, order_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.OrderID,
		m.TenantID,
		m.SalespersonID,
		m.CustomerID,
		m.PaymentMethod,
		m.CreditTermDays,
		m.Status,
		m.Total,
		m.OrderDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", m.OrderID, err)
	}

	batch := &pgx.Batch{}
	queueOrderLines(batch, insertOrderLineQuery, order.Lines)
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert lines for order %s: %w", m.OrderID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// ReplaceOrderLines deletes all existing lines of the order, inserts the given
// ones, and updates the header total in one transaction.
func (r *PgxOrderRepository) ReplaceOrderLines(ctx context.Context, order domain.Order) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1;`, order.OrderID); err != nil {
		return fmt.Errorf("failed to delete lines for order %s: %w", order.OrderID, err)
	}

	batch := &pgx.Batch{}
	queueOrderLines(batch, insertOrderLineQuery, order.Lines)
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert replacement lines for order %s: %w", order.OrderID, err)
		}
	}

	if err := updateOrderHeaderInTx(ctx, tx, order); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ReconcileOrderLines deletes lines absent from order.Lines, upserts the
// present ones, and updates the header total and status, in one transaction.
func (r *PgxOrderRepository) ReconcileOrderLines(ctx context.Context, order domain.Order) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	keepIDs := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		keepIDs = append(keepIDs, line.LineID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1 AND line_id != ALL($2);`, order.OrderID, keepIDs); err != nil {
		return fmt.Errorf("failed to prune lines for order %s: %w", order.OrderID, err)
	}

	// The conflict update is scoped to this order so a colliding line_id can
	// never rewrite a line that belongs to another order.
	upsertQuery := `
		INSERT INTO order_lines (line_id, order_id, kind, product_id, product_name, unit_price, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (line_id) DO UPDATE
		SET kind = EXCLUDED.kind,
		    product_id = EXCLUDED.product_id,
		    product_name = EXCLUDED.product_name,
		    unit_price = EXCLUDED.unit_price,
		    quantity = EXCLUDED.quantity,
		    subtotal = EXCLUDED.subtotal
		WHERE order_lines.order_id = EXCLUDED.order_id;
	`
	batch := &pgx.Batch{}
	queueOrderLines(batch, upsertQuery, order.Lines)
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to upsert lines for order %s: %w", order.OrderID, err)
		}
	}

	if err := updateOrderHeaderInTx(ctx, tx, order); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func updateOrderHeaderInTx(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	query := `
		UPDATE orders
		SET customer_id = $2, payment_method = $3, credit_term_days = $4, status = $5, total = $6, last_updated_at = $7, last_updated_by = $8
		WHERE order_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.OrderID,
		m.CustomerID,
		m.PaymentMethod,
		m.CreditTermDays,
		m.Status,
		m.Total,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update header for order %s: %w", m.OrderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateOrderStatus updates only the lifecycle status of an order.
func (r *PgxOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, orderID, status, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindOrderByID retrieves an order header by its ID.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1;`

	m, err := scanOrder(r.Pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID %s: %w", orderID, err)
	}

	d := mapping.ToDomainOrder(*m)
	return &d, nil
}

// FindOrderLines retrieves all lines of an order.
func (r *PgxOrderRepository) FindOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	query := `SELECT ` + orderLineColumns + ` FROM order_lines WHERE order_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for order %s: %w", orderID, err)
	}
	defer rows.Close()

	lines := []models.OrderLine{}
	for rows.Next() {
		var m models.OrderLine
		err := rows.Scan(
			&m.LineID,
			&m.OrderID,
			&m.Kind,
			&m.ProductID,
			&m.ProductName,
			&m.UnitPrice,
			&m.Quantity,
			&m.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for order %s: %w", orderID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for order %s: %w", orderID, err)
	}

	return mapping.ToDomainOrderLineSlice(lines), nil
}

// ListOrdersByTenant retrieves a paginated list of orders using token-based
// keyset pagination, optionally filtered by status.
func (r *PgxOrderRepository) ListOrdersByTenant(ctx context.Context, tenantID string, status *domain.OrderStatus, limit int, nextToken *string) ([]domain.Order, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + orderColumns + ` FROM orders`
	filterClause := `WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}
	orderByClause := `ORDER BY order_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastOrderDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (order_date, created_at) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastOrderDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query orders for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan order row for tenant %s: %w", tenantID, scanErr)
		}
		orders = append(orders, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating order rows for tenant %s: %w", tenantID, err)
	}

	var nextTokenVal *string
	results := orders
	if len(orders) > limit {
		last := orders[limit-1]
		token := pagination.EncodeToken(last.OrderDate, last.CreatedAt)
		nextTokenVal = &token
		results = orders[:limit]
	}

	domainOrders := make([]domain.Order, len(results))
	for i, m := range results {
		domainOrders[i] = mapping.ToDomainOrder(m)
	}
	return domainOrders, nextTokenVal, nil
}

// FindSaleByID retrieves a sale header by its ID.
func (r *PgxOrderRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_id = $1;`

	m, err := scanSale(r.Pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID %s: %w", saleID, err)
	}

	d := mapping.ToDomainSale(*m)
	return &d, nil
}

// FindSaleLines retrieves all lines of a sale.
func (r *PgxOrderRepository) FindSaleLines(ctx context.Context, saleID string) ([]domain.SaleLine, error) {
	query := `SELECT ` + saleLineColumns + ` FROM sale_lines WHERE sale_id = $1 ORDER BY sale_line_id;`

	rows, err := r.Pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for sale %s: %w", saleID, err)
	}
	defer rows.Close()

	lines := []models.SaleLine{}
	for rows.Next() {
		var m models.SaleLine
		err := rows.Scan(
			&m.SaleLineID,
			&m.SaleID,
			&m.ProductID,
			&m.ProductName,
			&m.CostPriceAtSale,
			&m.SellPrice,
			&m.Quantity,
			&m.Subtotal,
			&m.MarginPotential,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for sale %s: %w", saleID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for sale %s: %w", saleID, err)
	}

	return mapping.ToDomainSaleLineSlice(lines), nil
}

// ListSalesByTenant retrieves a paginated list of sales using token-based
// keyset pagination.
func (r *PgxOrderRepository) ListSalesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + saleColumns + ` FROM sales WHERE tenant_id = $1`
	orderByClause := `ORDER BY sale_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID}

	if nextToken != nil && *nextToken != "" {
		lastSaleDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (sale_date, created_at) < ($2, $3)`
		args = append(args, lastSaleDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sales for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	sales := make([]models.Sale, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanSale(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan sale row for tenant %s: %w", tenantID, scanErr)
		}
		sales = append(sales, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating sale rows for tenant %s: %w", tenantID, err)
	}

	var nextTokenVal *string
	results := sales
	if len(sales) > limit {
		last := sales[limit-1]
		token := pagination.EncodeToken(last.SaleDate, last.CreatedAt)
		nextTokenVal = &token
		results = sales[:limit]
	}

	domainSales := make([]domain.Sale, len(results))
	for i, m := range results {
		domainSales[i] = mapping.ToDomainSale(m)
	}
	return domainSales, nextTokenVal, nil
}

// CommitShipment executes the full ship transition atomically: it re-checks
// the order status under lock, inserts the sale with its lines, decrements
// stock, records the cash entry or receivable, inserts the commission, and
// flips the order to SHIPPED. Any failure rolls back all of it.
func (r *PgxOrderRepository) CommitShipment(ctx context.Context, commit portsrepo.ShipmentCommit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// 1. Lock the order row and re-check the lifecycle state. The service
	// checked it too, but only this check under lock is authoritative.
	var status string
	lockQuery := `SELECT status FROM orders WHERE order_id = $1 AND tenant_id = $2 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, commit.OrderID, commit.TenantID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: order %s", apperrors.ErrNotFound, commit.OrderID)
		}
		return fmt.Errorf("failed to lock order %s: %w", commit.OrderID, err)
	}
	if domain.OrderStatus(status) != domain.OrderApproved {
		return fmt.Errorf("%w: order %s is %s, expected %s", apperrors.ErrInvalidState, commit.OrderID, status, domain.OrderApproved)
	}

	// 2. Insert the sale header and lines.
	if err := insertSaleInTx(ctx, tx, commit.Sale, commit.SaleLines); err != nil {
		return err
	}

	// 3. Lock the affected products and apply the negative stock deltas.
	if len(commit.StockDeltas) > 0 {
		productIDs := make([]string, 0, len(commit.StockDeltas))
		for id := range commit.StockDeltas {
			productIDs = append(productIDs, id)
		}
		if _, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs); err != nil {
			return fmt.Errorf("failed to lock products for shipment of order %s: %w", commit.OrderID, err)
		}
		if err := r.productRepo.ApplyStockDeltasInTx(ctx, tx, commit.StockDeltas, !commit.AllowNegativeStock, commit.ActorID, commit.Now); err != nil {
			return err
		}
	}

	// 4. Cash sale: append the IN entry. Credit sale: open the receivable.
	if commit.LedgerEntry != nil {
		if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, *commit.LedgerEntry); err != nil {
			return err
		}
	}
	if commit.Receivable != nil {
		if err := insertReceivableInTx(ctx, tx, *commit.Receivable); err != nil {
			return err
		}
	}

	// 5. Commission, when one was computed.
	if commit.Commission != nil {
		if err := insertCommissionInTx(ctx, tx, *commit.Commission); err != nil {
			return err
		}
	}

	// 6. Flip the order to SHIPPED.
	statusQuery := `
		UPDATE orders
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1;
	`
	if _, err := tx.Exec(ctx, statusQuery, commit.OrderID, domain.OrderShipped, commit.Now, commit.ActorID); err != nil {
		return fmt.Errorf("failed to flip order %s to shipped: %w", commit.OrderID, err)
	}

	return r.Commit(ctx, tx)
}

// CommitReturn applies a return/void of a previously shipped sale atomically:
// sale total reduction (VOID at zero), receivable reduction for credit sales,
// commission reduction (VOID at zero), stock restore, and the cash refund
// entry for cash sales.
func (r *PgxOrderRepository) CommitReturn(ctx context.Context, commit portsrepo.ReturnCommit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// 1. Lock the sale and re-check the amount bounds under lock.
	var paymentMethod, status string
	var total decimal.Decimal
	lockQuery := `SELECT payment_method, status, total FROM sales WHERE sale_id = $1 AND tenant_id = $2 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, commit.SaleID, commit.TenantID).Scan(&paymentMethod, &status, &total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, commit.SaleID)
		}
		return fmt.Errorf("failed to lock sale %s: %w", commit.SaleID, err)
	}
	if domain.SaleStatus(status) == domain.SaleVoid {
		return fmt.Errorf("%w: sale %s is already void", apperrors.ErrInvalidState, commit.SaleID)
	}
	if commit.ReturnedAmount.GreaterThan(total) {
		return fmt.Errorf("%w: return %s exceeds sale total %s", apperrors.ErrInvalidAmount, commit.ReturnedAmount.String(), total.String())
	}

	// 2. Reduce the sale total; a total of exactly zero voids the sale.
	newTotal := total.Sub(commit.ReturnedAmount)
	newStatus := domain.SaleStatus(status)
	if newTotal.IsZero() {
		newStatus = domain.SaleVoid
	}
	saleQuery := `
		UPDATE sales
		SET total = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE sale_id = $1;
	`
	if _, err := tx.Exec(ctx, saleQuery, commit.SaleID, newTotal, newStatus, commit.Now, commit.ActorID); err != nil {
		return fmt.Errorf("failed to reduce total for sale %s: %w", commit.SaleID, err)
	}

	// 3. Credit sale: reduce the outstanding receivable instead of moving cash.
	if domain.PaymentMethod(paymentMethod) == domain.PaymentCredit {
		if err := reduceReceivableInTx(ctx, tx, commit); err != nil {
			return err
		}
	}

	// 4. Claw back the commission proportionally.
	if commit.CommissionReduction.IsPositive() {
		if err := reduceCommissionInTx(ctx, tx, commit); err != nil {
			return err
		}
	}

	// 5. Restore stock for returned catalog lines. The floor never applies to
	// increments.
	if len(commit.StockDeltas) > 0 {
		productIDs := make([]string, 0, len(commit.StockDeltas))
		for id := range commit.StockDeltas {
			productIDs = append(productIDs, id)
		}
		if _, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs); err != nil {
			return fmt.Errorf("failed to lock products for return of sale %s: %w", commit.SaleID, err)
		}
		if err := r.productRepo.ApplyStockDeltasInTx(ctx, tx, commit.StockDeltas, false, commit.ActorID, commit.Now); err != nil {
			return err
		}
	}

	// 6. Cash sale: refund through the ledger.
	if commit.LedgerEntry != nil {
		if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, *commit.LedgerEntry); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

func reduceReceivableInTx(ctx context.Context, tx pgx.Tx, commit portsrepo.ReturnCommit) error {
	var receivableID string
	var remaining decimal.Decimal
	lockQuery := `SELECT receivable_id, remaining_amount FROM receivables WHERE sale_id = $1 FOR UPDATE;`
	err := tx.QueryRow(ctx, lockQuery, commit.SaleID).Scan(&receivableID, &remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already fully collected; nothing left to reduce.
			return nil
		}
		return fmt.Errorf("failed to lock receivable for sale %s: %w", commit.SaleID, err)
	}

	newRemaining := remaining.Sub(commit.ReturnedAmount)
	if newRemaining.IsNegative() {
		newRemaining = decimal.Zero
	}
	newStatus := domain.SettlementOpen
	if newRemaining.IsZero() {
		newStatus = domain.SettlementPaid
	}

	query := `
		UPDATE receivables
		SET remaining_amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE receivable_id = $1;
	`
	if _, err := tx.Exec(ctx, query, receivableID, newRemaining, newStatus, commit.Now, commit.ActorID); err != nil {
		return fmt.Errorf("failed to reduce receivable %s: %w", receivableID, err)
	}
	return nil
}

func reduceCommissionInTx(ctx context.Context, tx pgx.Tx, commit portsrepo.ReturnCommit) error {
	var commissionID, status string
	var amount decimal.Decimal
	lockQuery := `SELECT commission_id, status, amount FROM commissions WHERE sale_id = $1 FOR UPDATE;`
	err := tx.QueryRow(ctx, lockQuery, commit.SaleID).Scan(&commissionID, &status, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No commission was ever created for this sale.
			return nil
		}
		return fmt.Errorf("failed to lock commission for sale %s: %w", commit.SaleID, err)
	}
	if domain.CommissionStatus(status) == domain.CommissionVoid {
		return nil
	}

	newAmount := amount.Sub(commit.CommissionReduction)
	if newAmount.IsNegative() {
		newAmount = decimal.Zero
	}
	newStatus := domain.CommissionStatus(status)
	if newAmount.IsZero() {
		newStatus = domain.CommissionVoid
	}

	query := `
		UPDATE commissions
		SET amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE commission_id = $1;
	`
	if _, err := tx.Exec(ctx, query, commissionID, newAmount, newStatus, commit.Now, commit.ActorID); err != nil {
		return fmt.Errorf("failed to reduce commission %s: %w", commissionID, err)
	}
	return nil
}

func insertSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale, lines []domain.SaleLine) error {
	m := mapping.ToModelSale(sale)
	headerQuery := `
		INSERT INTO sales (sale_id, tenant_id, order_id, customer_id, salesperson_id, payment_method, total, due_date, status, sale_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, headerQuery,
		m.SaleID,
		m.TenantID,
		m.OrderID,
		m.CustomerID,
		m.SalespersonID,
		m.PaymentMethod,
		m.Total,
		m.DueDate,
		m.Status,
		m.SaleDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale %s: %w", m.SaleID, err)
	}

	lineQuery := `
		INSERT INTO sale_lines (sale_line_id, sale_id, product_id, product_name, cost_price_at_sale, sell_price, quantity, subtotal, margin_potential)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		lm := mapping.ToModelSaleLine(line)
		batch.Queue(lineQuery,
			lm.SaleLineID,
			lm.SaleID,
			lm.ProductID,
			lm.ProductName,
			lm.CostPriceAtSale,
			lm.SellPrice,
			lm.Quantity,
			lm.Subtotal,
			lm.MarginPotential,
		)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert lines for sale %s: %w", m.SaleID, err)
		}
	}
	return nil
}

func insertReceivableInTx(ctx context.Context, tx pgx.Tx, receivable domain.Receivable) error {
	m := mapping.ToModelReceivable(receivable)
	query := `
		INSERT INTO receivables (receivable_id, tenant_id, sale_id, customer_id, total_amount, remaining_amount, due_date, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.ReceivableID,
		m.TenantID,
		m.SaleID,
		m.CustomerID,
		m.TotalAmount,
		m.RemainingAmount,
		m.DueDate,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receivable %s: %w", m.ReceivableID, err)
	}
	return nil
}

func insertCommissionInTx(ctx context.Context, tx pgx.Tx, commission domain.Commission) error {
	m := mapping.ToModelCommission(commission)
	query := `
		INSERT INTO commissions (commission_id, tenant_id, sale_id, salesperson_id, rate_percent, amount, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.CommissionID,
		m.TenantID,
		m.SaleID,
		m.SalespersonID,
		m.RatePercent,
		m.Amount,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert commission %s: %w", m.CommissionID, err)
	}
	return nil
}
