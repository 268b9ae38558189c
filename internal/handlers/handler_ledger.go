package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
	"github.com/mitrakasir/retail_backend_app/internal/middleware"
)

// ledgerHandler handles HTTP requests related to cash accounts and the
// append-only cash ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers cash account and ledger routes under a
// specific tenant. Exported so handler tests can wire a router with mock
// services.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/cash-accounts")
	{
		accounts.POST("", h.createCashAccount)
		accounts.GET("", h.listCashAccounts)
		accounts.GET("/:cash_account_id", h.getCashAccount)
		accounts.GET("/:cash_account_id/entries", h.listEntries)
	}

	// Manual entries (expenses, capital injections, corrections recorded as
	// reverse movements). Sales, purchases and settlements write their own
	// entries inside their transactions.
	rg.POST("/ledger-entries", h.recordEntry)
}

// createCashAccount godoc
// @Summary Create a cash account
// @Description Creates a named cash account with a zero opening balance. Requires admin role.
// @Tags ledger
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param account body dto.CreateCashAccountRequest true "Account details"
// @Success 201 {object} dto.CashAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cash-accounts [post]
func (h *ledgerHandler) createCashAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCashAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.ledgerService.CreateCashAccount(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create cash account")
		return
	}

	logger.Info("Cash account created", slog.String("cash_account_id", account.CashAccountID))
	c.JSON(http.StatusCreated, dto.ToCashAccountResponse(account))
}

// listCashAccounts godoc
// @Summary List cash accounts
// @Description Retrieves the tenant's cash accounts with current balances.
// @Tags ledger
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.CashAccountResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cash-accounts [get]
func (h *ledgerHandler) listCashAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	accounts, err := h.ledgerService.ListCashAccounts(c.Request.Context(), c.Param("tenant_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cash accounts")
		return
	}

	resp := make([]dto.CashAccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, dto.ToCashAccountResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// getCashAccount godoc
// @Summary Get cash account by ID
// @Tags ledger
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param cash_account_id path string true "Cash account ID"
// @Success 200 {object} dto.CashAccountResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cash-accounts/{cash_account_id} [get]
func (h *ledgerHandler) getCashAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.ledgerService.GetCashAccountByID(c.Request.Context(), c.Param("tenant_id"), c.Param("cash_account_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get cash account")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashAccountResponse(account))
}

// recordEntry godoc
// @Summary Record a ledger entry
// @Description Appends one cash movement to a cash account and updates the balance atomically. Requires admin role.
// @Tags ledger
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param entry body dto.RecordEntryRequest true "Cash movement"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Cash account not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/ledger-entries [post]
func (h *ledgerHandler) recordEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("cash_account_id", req.CashAccountID))

	entry, err := h.ledgerService.RecordEntry(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		// Writing against another tenant's account is a permission problem,
		// not a lookup miss.
		if errors.Is(err, apperrors.ErrTenantMismatch) {
			logger.Warn("Ledger entry rejected: account belongs to another tenant")
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
			return
		}
		respondServiceError(c, logger, err, "Failed to record ledger entry")
		return
	}

	logger.Info("Ledger entry recorded", slog.String("entry_id", entry.EntryID), slog.String("direction", string(entry.Direction)))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(*entry))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Retrieves a cash account's entries newest first with keyset pagination.
// @Tags ledger
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param cash_account_id path string true "Cash account ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/cash-accounts/{cash_account_id}/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), c.Param("tenant_id"), c.Param("cash_account_id"), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}
