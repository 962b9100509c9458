package handler

import (
	"net/http"
	"strconv"

	"backend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// AssignSupervisor rewires the supervision back-reference
// @Summary Assign supervisor
// @Description Overwrites the subordinate's supervisor link; cycles are rejected
// @Tags Org
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subordinate ID"
// @Param request body dto.AssignSupervisorRequest true "Supervisor"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/org/{id}/supervisor [put]
func (h *Handler) AssignSupervisor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid actor ID")
		return
	}

	var req dto.AssignSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.Org.AssignSupervisor(uint(id), req.SupervisorID); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "supervisor assigned", nil)
}

// AssignLocation sets an actor's geographic scope
// @Summary Assign location
// @Description Sets the actor's state/city scope used by location-based visibility
// @Tags Org
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Actor ID"
// @Param request body dto.AssignLocationRequest true "Location"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/org/{id}/location [put]
func (h *Handler) AssignLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid actor ID")
		return
	}

	var req dto.AssignLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.Org.AssignLocation(uint(id), req.State, req.City); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "location assigned", nil)
}
