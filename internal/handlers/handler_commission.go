package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
	"github.com/mitrakasir/retail_backend_app/internal/middleware"
)

// commissionHandler handles HTTP requests related to salesperson commissions.
type commissionHandler struct {
	commissionService portssvc.CommissionSvcFacade
}

func newCommissionHandler(cs portssvc.CommissionSvcFacade) *commissionHandler {
	return &commissionHandler{commissionService: cs}
}

// registerCommissionRoutes registers commission routes under a specific tenant.
func registerCommissionRoutes(rg *gin.RouterGroup, commissionService portssvc.CommissionSvcFacade) {
	h := newCommissionHandler(commissionService)

	commissions := rg.Group("/commissions")
	{
		commissions.GET("", h.listCommissions)
		commissions.GET("/:commission_id", h.getCommission)
		commissions.POST("/:commission_id/pay", h.markCommissionPaid)
	}
}

// listCommissions godoc
// @Summary List commissions
// @Description Retrieves commissions for the tenant, optionally filtered by salesperson and status. Salespeople only see their own.
// @Tags commissions
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param salespersonID query string false "Filter by salesperson"
// @Param status query string false "Filter by status" Enums(PENDING, PAID, VOID)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.CommissionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/commissions [get]
func (h *commissionHandler) listCommissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCommissionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	commissions, err := h.commissionService.ListCommissions(c.Request.Context(), c.Param("tenant_id"), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list commissions")
		return
	}

	resp := make([]dto.CommissionResponse, 0, len(commissions))
	for i := range commissions {
		resp = append(resp, dto.ToCommissionResponse(&commissions[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getCommission godoc
// @Summary Get commission by ID
// @Tags commissions
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param commission_id path string true "Commission ID"
// @Success 200 {object} dto.CommissionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/commissions/{commission_id} [get]
func (h *commissionHandler) getCommission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	commission, err := h.commissionService.GetCommission(c.Request.Context(), c.Param("tenant_id"), c.Param("commission_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get commission")
		return
	}
	c.JSON(http.StatusOK, dto.ToCommissionResponse(commission))
}

// markCommissionPaid godoc
// @Summary Mark a commission as paid
// @Description Flips a PENDING commission to PAID. Requires admin role.
// @Tags commissions
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param commission_id path string true "Commission ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Commission is not PENDING"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/commissions/{commission_id}/pay [post]
func (h *commissionHandler) markCommissionPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("commission_id", c.Param("commission_id")))

	if err := h.commissionService.MarkCommissionPaid(c.Request.Context(), c.Param("tenant_id"), c.Param("commission_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to mark commission paid")
		return
	}

	logger.Info("Commission marked paid")
	c.Status(http.StatusNoContent)
}
