package handler

import (
	"net/http"
	"strconv"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/visibility"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func leadToDTO(l *ds.Lead) dto.LeadResponse {
	author := "unknown"
	if l.Author != nil && l.Author.Login != "" {
		author = l.Author.Login
	}
	resp := dto.LeadResponse{
		ID:         l.ID,
		CreatedAt:  l.CreatedAt,
		Author:     author,
		ClientName: l.ClientName,
		Phone:      l.Phone,
		State:      l.State,
		City:       l.City,
		Status:     l.Status,
	}
	if l.AssignedAreaManagerID != nil {
		resp.AssignedAreaManagerID = *l.AssignedAreaManagerID
	}
	return resp
}

// GetLeads lists the caller's visible leads
// @Summary List visible leads
// @Description Returns the leads in the actor's scope, same precedence as projects
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LeadListResponse
// @Router /api/leads [get]
func (h *Handler) GetLeads(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	ids, err := h.Resolver.VisibleIDs(userID, visibility.KindLead)
	if err != nil {
		logrus.Error("Error resolving visible leads: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list leads")
		return
	}

	leads, err := h.Repository.GetLeadsByIDs(ids)
	if err != nil {
		logrus.Error("Error getting leads: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list leads")
		return
	}

	dtoLeads := make([]dto.LeadResponse, len(leads))
	for i := range leads {
		dtoLeads[i] = leadToDTO(&leads[i])
	}

	c.JSON(http.StatusOK, dto.LeadListResponse{
		Leads: dtoLeads,
		Total: len(dtoLeads),
	})
}

// CreateLead creates a lead
// @Summary Create lead
// @Description Creates a lead; the assigned area manager derives from the creator's supervisor
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLeadRequest true "Lead fields"
// @Success 201 {object} dto.LeadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/leads [post]
func (h *Handler) CreateLead(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	lead := &ds.Lead{
		CreatedAt:  time.Now(),
		AuthorID:   userID,
		ClientName: req.ClientName,
		Phone:      req.Phone,
		State:      req.State,
		City:       req.City,
		Status:     ds.LeadNew,
	}

	// Snapshot of the creator's supervisor at creation time; a later
	// supervisor change does not retroactively move existing leads.
	author, err := h.Repository.GetUser(userID)
	if err == nil && author.SupervisorID != nil {
		lead.AssignedAreaManagerID = author.SupervisorID
	}

	if err := h.Repository.CreateLead(lead); err != nil {
		logrus.Error("Error creating lead: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to create lead")
		return
	}

	lead.Author = author
	c.JSON(http.StatusCreated, leadToDTO(lead))
}

// UpdateLeadStatus moves a lead along its funnel
// @Summary Update lead status
// @Description Sets the status of a lead within the actor's scope
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.UpdateLeadStatusRequest true "New status"
// @Success 200 {object} dto.LeadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/leads/{id}/status [put]
func (h *Handler) UpdateLeadStatus(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid lead ID")
		return
	}

	var req dto.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ids, err := h.Resolver.VisibleIDs(userID, visibility.KindLead)
	if err != nil {
		logrus.Error("Error resolving visible leads: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to resolve visibility")
		return
	}
	inScope := false
	for _, leadID := range ids {
		if leadID == uint(id) {
			inScope = true
			break
		}
	}
	if !inScope {
		h.errorResponse(c, http.StatusForbidden, "lead is outside your scope")
		return
	}

	if err := h.Repository.UpdateLeadStatus(uint(id), req.Status); err != nil {
		logrus.Error("Error updating lead: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to update lead")
		return
	}

	lead, err := h.Repository.GetLead(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "lead not found")
		return
	}
	c.JSON(http.StatusOK, leadToDTO(lead))
}
