package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
	"github.com/diyaa-Iskandar/petotec-app/internal/middleware"
)

// advanceHandler handles HTTP requests related to advances.
type advanceHandler struct {
	advanceService portssvc.AdvanceSvcFacade
	expenseService portssvc.ExpenseSvcFacade
}

func newAdvanceHandler(as portssvc.AdvanceSvcFacade, es portssvc.ExpenseSvcFacade) *advanceHandler {
	return &advanceHandler{advanceService: as, expenseService: es}
}

// registerAdvanceRoutes registers all advance-related routes.
func registerAdvanceRoutes(rg *gin.RouterGroup, advanceService portssvc.AdvanceSvcFacade, expenseService portssvc.ExpenseSvcFacade) {
	h := newAdvanceHandler(advanceService, expenseService)

	advances := rg.Group("/advances")
	{
		advances.POST("", h.requestAdvance)
		advances.GET("", h.listMyAdvances)
		advances.GET("/:id", h.getAdvance)
		advances.GET("/:id/expenses", h.listExpenses)
		advances.POST("/:id/approve", h.approveAdvance) // Admin only
		advances.POST("/:id/reject", h.rejectAdvance)   // Admin only
		advances.POST("/:id/settle", h.settleAdvance)   // Admin only
	}
}

// requestAdvance godoc
// @Summary Request an advance
// @Description Creates a PENDING advance request against an active project.
// @Tags advances
// @Accept json
// @Produce json
// @Param advance body dto.CreateAdvanceRequest true "Advance details"
// @Success 201 {object} dto.AdvanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances [post]
func (h *advanceHandler) requestAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	advance, err := h.advanceService.RequestAdvance(c.Request.Context(), req, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Advance requested", slog.String("advance_id", advance.AdvanceID))
	c.JSON(http.StatusCreated, dto.ToAdvanceResponse(advance))
}

// getAdvance godoc
// @Summary Get an advance by ID
// @Tags advances
// @Produce json
// @Param id path string true "Advance ID"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances/{id} [get]
func (h *advanceHandler) getAdvance(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	advance, err := h.advanceService.GetAdvanceByID(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}

// listMyAdvances godoc
// @Summary List advances of the authenticated user
// @Description Lists the caller's advances, or another user's with ?userId= for admins.
// @Tags advances
// @Produce json
// @Param userId query string false "Target user ID (admin only)"
// @Success 200 {array} dto.AdvanceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances [get]
func (h *advanceHandler) listMyAdvances(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	targetUserID := c.Query("userId")
	if targetUserID == "" {
		targetUserID = requesterID
	}

	advances, err := h.advanceService.ListAdvancesByUser(c.Request.Context(), targetUserID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponses(advances))
}

// listExpenses godoc
// @Summary List expenses of an advance
// @Tags advances
// @Produce json
// @Param id path string true "Advance ID"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances/{id}/expenses [get]
func (h *advanceHandler) listExpenses(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	expenses, err := h.expenseService.ListExpensesByAdvance(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponses(expenses))
}

// approveAdvance godoc
// @Summary Approve a pending advance
// @Description Transitions a PENDING advance to OPEN, starting the custody. Admin only.
// @Tags advances
// @Produce json
// @Param id path string true "Advance ID"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances/{id}/approve [post]
func (h *advanceHandler) approveAdvance(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	advance, err := h.advanceService.ApproveAdvance(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}

// rejectAdvance godoc
// @Summary Reject a pending advance
// @Description Transitions a PENDING advance to REJECTED with a mandatory reason. Admin only.
// @Tags advances
// @Accept json
// @Produce json
// @Param id path string true "Advance ID"
// @Param rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances/{id}/reject [post]
func (h *advanceHandler) rejectAdvance(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Rejection reason is required"})
		return
	}

	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	advance, err := h.advanceService.RejectAdvance(c.Request.Context(), c.Param("id"), requesterID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}

// settleAdvance godoc
// @Summary Settle an open advance
// @Description Closes an OPEN advance, recording returned cash and any deficit. Admin only.
// @Tags advances
// @Accept json
// @Produce json
// @Param id path string true "Advance ID"
// @Param settlement body dto.SettleAdvanceRequest true "Settlement details"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances/{id}/settle [post]
func (h *advanceHandler) settleAdvance(c *gin.Context) {
	var req dto.SettleAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	advance, err := h.advanceService.SettleAdvance(c.Request.Context(), c.Param("id"), requesterID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}
