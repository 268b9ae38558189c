package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
	"github.com/mitrakasir/retail_backend_app/internal/middleware"
)

// settlementHandler handles HTTP requests for receivables and payables.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// registerSettlementRoutes registers receivable and payable routes under a
// specific tenant.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	receivables := rg.Group("/receivables")
	{
		receivables.GET("", h.listReceivables)
		receivables.GET("/:receivable_id", h.getReceivable)
		receivables.POST("/:receivable_id/payments", h.applyReceivablePayment)
	}

	payables := rg.Group("/payables")
	{
		payables.GET("", h.listPayables)
		payables.GET("/:payable_id", h.getPayable)
		payables.POST("/:payable_id/payments", h.applyPayablePayment)
	}
}

// listReceivables godoc
// @Summary List receivables
// @Description Retrieves the tenant's receivables ordered by due date, optionally filtered by status.
// @Tags settlements
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param status query string false "Filter by status" Enums(OPEN, PAID)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.ReceivableResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/receivables [get]
func (h *settlementHandler) listReceivables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListSettlementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receivables, err := h.settlementService.ListReceivables(c.Request.Context(), c.Param("tenant_id"), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list receivables")
		return
	}

	resp := make([]dto.ReceivableResponse, 0, len(receivables))
	for i := range receivables {
		resp = append(resp, dto.ToReceivableResponse(&receivables[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getReceivable godoc
// @Summary Get receivable by ID
// @Tags settlements
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param receivable_id path string true "Receivable ID"
// @Success 200 {object} dto.ReceivableResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/receivables/{receivable_id} [get]
func (h *settlementHandler) getReceivable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receivable, err := h.settlementService.GetReceivable(c.Request.Context(), c.Param("tenant_id"), c.Param("receivable_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get receivable")
		return
	}
	c.JSON(http.StatusOK, dto.ToReceivableResponse(receivable))
}

// applyReceivablePayment godoc
// @Summary Apply a payment to a receivable
// @Description Atomically reduces the remaining amount, records the cash-in entry, and flips the sale and commission to PAID on full settlement. Requires admin role.
// @Tags settlements
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param receivable_id path string true "Receivable ID"
// @Param payment body dto.ApplyPaymentRequest true "Payment amount and cash account"
// @Success 200 {object} dto.ReceivableResponse
// @Failure 400 {object} ErrorResponse "Overpayment or invalid amount"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Receivable is not OPEN"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/receivables/{receivable_id}/payments [post]
func (h *settlementHandler) applyReceivablePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("receivable_id", c.Param("receivable_id")), slog.String("amount", req.Amount.String()))

	receivable, err := h.settlementService.ApplyReceivablePayment(c.Request.Context(), c.Param("tenant_id"), c.Param("receivable_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply payment")
		return
	}

	logger.Info("Receivable payment applied", slog.String("remaining", receivable.RemainingAmount.String()))
	c.JSON(http.StatusOK, dto.ToReceivableResponse(receivable))
}

// listPayables godoc
// @Summary List payables
// @Description Retrieves the tenant's payables ordered by due date, optionally filtered by status.
// @Tags settlements
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param status query string false "Filter by status" Enums(OPEN, PAID)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.PayableResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/payables [get]
func (h *settlementHandler) listPayables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListSettlementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	payables, err := h.settlementService.ListPayables(c.Request.Context(), c.Param("tenant_id"), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payables")
		return
	}

	resp := make([]dto.PayableResponse, 0, len(payables))
	for i := range payables {
		resp = append(resp, dto.ToPayableResponse(&payables[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getPayable godoc
// @Summary Get payable by ID
// @Tags settlements
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param payable_id path string true "Payable ID"
// @Success 200 {object} dto.PayableResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/payables/{payable_id} [get]
func (h *settlementHandler) getPayable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	payable, err := h.settlementService.GetPayable(c.Request.Context(), c.Param("tenant_id"), c.Param("payable_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get payable")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayableResponse(payable))
}

// applyPayablePayment godoc
// @Summary Apply a payment to a payable
// @Description Atomically reduces the remaining amount, records the cash-out entry, and flips the purchase to PAID on full settlement. Requires admin role.
// @Tags settlements
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param payable_id path string true "Payable ID"
// @Param payment body dto.ApplyPaymentRequest true "Payment amount and cash account"
// @Success 200 {object} dto.PayableResponse
// @Failure 400 {object} ErrorResponse "Overpayment or invalid amount"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Payable is not OPEN"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/payables/{payable_id}/payments [post]
func (h *settlementHandler) applyPayablePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("payable_id", c.Param("payable_id")), slog.String("amount", req.Amount.String()))

	payable, err := h.settlementService.ApplyPayablePayment(c.Request.Context(), c.Param("tenant_id"), c.Param("payable_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply payment")
		return
	}

	logger.Info("Payable payment applied", slog.String("remaining", payable.RemainingAmount.String()))
	c.JSON(http.StatusOK, dto.ToPayableResponse(payable))
}
