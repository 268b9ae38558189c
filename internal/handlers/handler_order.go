package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
	"github.com/mitrakasir/retail_backend_app/internal/middleware"
)

// orderHandler handles HTTP requests for the order lifecycle and the sales
// it produces.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

func newOrderHandler(os portssvc.OrderSvcFacade) *orderHandler {
	return &orderHandler{orderService: os}
}

// registerOrderRoutes registers order and sale routes under a specific tenant.
func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := newOrderHandler(orderService)

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:order_id", h.getOrder)
		orders.PUT("/:order_id", h.editOrder)
		orders.POST("/:order_id/approve", h.approveOrder)
		orders.POST("/:order_id/reject", h.rejectOrder)
		orders.POST("/:order_id/ship", h.shipOrder)
	}

	sales := rg.Group("/sales")
	{
		sales.GET("", h.listSales)
		sales.GET("/:sale_id", h.getSale)
		sales.POST("/:sale_id/returns", h.recordReturn)
	}
}

// createOrder godoc
// @Summary Create an order
// @Description Creates a PENDING order with the supplied lines. Free-text lines need no product reference.
// @Tags orders
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Customer or product not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create order")
		return
	}

	logger.Info("Order created", slog.String("order_id", order.OrderID), slog.String("payment_method", string(order.PaymentMethod)))
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// listOrders godoc
// @Summary List orders
// @Description Retrieves the tenant's orders newest first with keyset pagination. Salespeople only see their own orders.
// @Tags orders
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, SHIPPED, CANCELLED)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.orderService.ListOrders(c.Request.Context(), c.Param("tenant_id"), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getOrder godoc
// @Summary Get order by ID
// @Description Retrieves an order with its lines.
// @Tags orders
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param order_id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/orders/{order_id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("tenant_id"), c.Param("order_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// editOrder godoc
// @Summary Edit a pending order
// @Description Replaces all lines of a PENDING order. Only the creating salesperson or an admin may edit.
// @Tags orders
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param order_id path string true "Order ID"
// @Param order body dto.EditOrderRequest true "Replacement lines"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Order is not PENDING"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/orders/{order_id} [put]
func (h *orderHandler) editOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	order, err := h.orderService.EditOrder(c.Request.Context(), c.Param("tenant_id"), c.Param("order_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to edit order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// approveOrder godoc
// @Summary Approve an order
// @Description Reconciles the order's lines against the submitted set and moves it to APPROVED. Requires admin role.
// @Tags orders
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param order_id path string true "Order ID"
// @Param order body dto.ApproveOrderRequest true "Final line set"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Order is not PENDING"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/orders/{order_id}/approve [post]
func (h *orderHandler) approveOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApproveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("order_id", c.Param("order_id")))

	order, err := h.orderService.ApproveOrder(c.Request.Context(), c.Param("tenant_id"), c.Param("order_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve order")
		return
	}

	logger.Info("Order approved", slog.String("total", order.Total.String()))
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// rejectOrder godoc
// @Summary Reject an order
// @Description Moves a PENDING order to CANCELLED. Requires admin role.
// @Tags orders
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param order_id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Order is not PENDING"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/orders/{order_id}/reject [post]
func (h *orderHandler) rejectOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.orderService.RejectOrder(c.Request.Context(), c.Param("tenant_id"), c.Param("order_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to reject order")
		return
	}

	logger.Info("Order rejected", slog.String("order_id", c.Param("order_id")))
	c.Status(http.StatusNoContent)
}

// shipOrder godoc
// @Summary Ship an approved order
// @Description Atomically creates the sale, decrements stock, records the cash entry or opens a receivable, and accrues the salesperson commission. Requires admin role.
// @Tags orders
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param order_id path string true "Order ID"
// @Param shipment body dto.ShipOrderRequest true "Shipment details (cash account for cash orders)"
// @Success 200 {object} map[string]string "saleID of the created sale"
// @Failure 400 {object} ErrorResponse "Missing cash account for a cash order"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Order is not APPROVED or stock insufficient"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/orders/{order_id}/ship [post]
func (h *orderHandler) shipOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("order_id", c.Param("order_id")))

	saleID, err := h.orderService.ShipOrder(c.Request.Context(), c.Param("tenant_id"), c.Param("order_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to ship order")
		return
	}

	logger.Info("Order shipped", slog.String("sale_id", saleID))
	c.JSON(http.StatusOK, gin.H{"saleID": saleID})
}

// listSales godoc
// @Summary List sales
// @Description Retrieves the tenant's realized sales newest first with keyset pagination.
// @Tags sales
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/sales [get]
func (h *orderHandler) listSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	var nextToken *string
	if t := c.Query("nextToken"); t != "" {
		nextToken = &t
	}

	sales, newToken, err := h.orderService.ListSales(c.Request.Context(), c.Param("tenant_id"), userID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list sales")
		return
	}

	resp := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, dto.ToSaleResponse(&sales[i]))
	}
	c.JSON(http.StatusOK, gin.H{"sales": resp, "nextToken": newToken})
}

// getSale godoc
// @Summary Get sale by ID
// @Description Retrieves a sale with its lines, including captured cost prices and margin potential.
// @Tags sales
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param sale_id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/sales/{sale_id} [get]
func (h *orderHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	sale, err := h.orderService.GetSale(c.Request.Context(), c.Param("tenant_id"), c.Param("sale_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// recordReturn godoc
// @Summary Record a return against a sale
// @Description Atomically reverses part or all of a shipped sale: refunds cash or reduces the open receivable, restores stock for returned catalog lines, and claws back the commission. Requires admin role.
// @Tags sales
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param sale_id path string true "Sale ID"
// @Param return body dto.ReturnRequest true "Return details"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Amount exceeds sale total or missing cash account"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Sale already voided"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/sales/{sale_id}/returns [post]
func (h *orderHandler) recordReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("sale_id", c.Param("sale_id")), slog.String("returned_amount", req.ReturnedAmount.String()))

	if err := h.orderService.ReverseForReturn(c.Request.Context(), c.Param("tenant_id"), c.Param("sale_id"), req, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to record return")
		return
	}

	logger.Info("Return recorded")
	c.Status(http.StatusNoContent)
}
