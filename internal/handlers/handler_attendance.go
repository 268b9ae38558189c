package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
	"github.com/mitrakasir/retail_backend_app/internal/middleware"
)

// attendanceHandler handles HTTP requests related to attendance tracking.
type attendanceHandler struct {
	attendanceService portssvc.AttendanceSvcFacade
}

func newAttendanceHandler(as portssvc.AttendanceSvcFacade) *attendanceHandler {
	return &attendanceHandler{attendanceService: as}
}

// registerAttendanceRoutes registers attendance routes under a specific tenant.
func registerAttendanceRoutes(rg *gin.RouterGroup, attendanceService portssvc.AttendanceSvcFacade) {
	h := newAttendanceHandler(attendanceService)

	attendance := rg.Group("/attendance")
	{
		attendance.POST("/clock-in", h.clockIn)
		attendance.POST("/clock-out", h.clockOut)
		attendance.GET("", h.listAttendance)
	}
}

// clockIn godoc
// @Summary Clock in
// @Description Opens an attendance interval for the caller. Fails if one is already open.
// @Tags attendance
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param clockIn body dto.ClockInRequest false "Optional notes"
// @Success 201 {object} dto.AttendanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already clocked in"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/attendance/clock-in [post]
func (h *attendanceHandler) clockIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ClockInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	interval, err := h.attendanceService.ClockIn(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to clock in")
		return
	}

	logger.Info("Clocked in", slog.String("attendance_id", interval.AttendanceID))
	c.JSON(http.StatusCreated, dto.ToAttendanceResponse(interval))
}

// clockOut godoc
// @Summary Clock out
// @Description Closes the caller's open attendance interval.
// @Tags attendance
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.AttendanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No open interval"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/attendance/clock-out [post]
func (h *attendanceHandler) clockOut(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	interval, err := h.attendanceService.ClockOut(c.Request.Context(), c.Param("tenant_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to clock out")
		return
	}

	logger.Info("Clocked out", slog.String("attendance_id", interval.AttendanceID))
	c.JSON(http.StatusOK, dto.ToAttendanceResponse(interval))
}

// listAttendance godoc
// @Summary List attendance intervals
// @Description Retrieves attendance intervals in a date range. Salespeople only see their own intervals; admins may filter by user.
// @Tags attendance
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Param userID query string false "Filter by user (admin only)"
// @Success 200 {array} dto.AttendanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/attendance [get]
func (h *attendanceHandler) listAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAttendanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	intervals, err := h.attendanceService.ListAttendance(c.Request.Context(), c.Param("tenant_id"), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list attendance")
		return
	}

	resp := make([]dto.AttendanceResponse, 0, len(intervals))
	for i := range intervals {
		resp = append(resp, dto.ToAttendanceResponse(&intervals[i]))
	}
	c.JSON(http.StatusOK, resp)
}
