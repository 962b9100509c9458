package handler

import (
	"net/http"
	"strconv"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func projectToDTO(p *ds.Project) dto.ProjectResponse {
	author := "unknown"
	if p.Author != nil && p.Author.Login != "" {
		author = p.Author.Login
	}

	resp := dto.ProjectResponse{
		ID:                     p.ID,
		Title:                  p.Title,
		CreatedAt:              p.CreatedAt,
		Author:                 author,
		ClientID:               p.ClientID,
		State:                  p.State,
		City:                   p.City,
		Status:                 p.Status,
		VendorAssignmentMethod: p.VendorAssignmentMethod,
		TotalCost:              p.TotalCost,
		ClientPaid:             p.ClientPaid,
		VendorPaid:             p.VendorPaid,
	}
	if p.AssignedAreaManagerID != nil {
		resp.AssignedAreaManagerID = *p.AssignedAreaManagerID
	}
	if p.AssignedVendorID != nil {
		resp.AssignedVendorID = *p.AssignedVendorID
	}
	return resp
}

// stepToDTO swaps the stored evidence object name for a temporary download
// URL when object storage is available.
func (h *Handler) stepToDTO(s *ds.ProcessStep) dto.StepResponse {
	resp := dto.StepResponse{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		StepNumber:      s.StepNumber,
		Name:            s.Name,
		ReviewStatus:    s.ReviewStatus,
		ReviewerComment: s.ReviewerComment,
		EvidenceURL:     s.EvidenceURL,
	}
	if h.MinIOClient != nil && s.EvidenceURL != "" {
		if url, err := h.MinIOClient.EvidenceURL(s.EvidenceURL); err == nil {
			resp.EvidenceURL = url
		}
	}
	return resp
}

// GetProjects lists the caller's visible projects
// @Summary List visible projects
// @Description Returns the projects the authenticated actor may see, per the hierarchy visibility rules
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProjectListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/projects [get]
func (h *Handler) GetProjects(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	ids, err := h.Resolver.VisibleProjectIDs(userID)
	if err != nil {
		logrus.Error("Error resolving visible projects: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list projects")
		return
	}

	projects, err := h.Repository.GetProjectsByIDs(ids)
	if err != nil {
		logrus.Error("Error getting projects: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list projects")
		return
	}

	dtoProjects := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		dtoProjects[i] = projectToDTO(&projects[i])
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects: dtoProjects,
		Total:    len(dtoProjects),
	})
}

// GetProject returns one visible project with its steps
// @Summary Get project by ID
// @Description Returns project details when the actor's visibility scope includes it
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *Handler) GetProject(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	if !h.projectVisible(c, userID, uint(id)) {
		return
	}

	project, err := h.Repository.GetProject(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "project not found")
		return
	}

	resp := projectToDTO(project)
	steps, err := h.Repository.ListSteps(project.ID)
	if err == nil {
		resp.Steps = make([]dto.StepResponse, len(steps))
		for i := range steps {
			resp.Steps[i] = h.stepToDTO(&steps[i])
		}
	}

	c.JSON(http.StatusOK, resp)
}

// projectVisible enforces the read scope on single-project endpoints. Writes
// a 403 and returns false when out of scope.
func (h *Handler) projectVisible(c *gin.Context, userID, projectID uint) bool {
	ids, err := h.Resolver.VisibleProjectIDs(userID)
	if err != nil {
		logrus.Error("Error resolving visible projects: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to resolve visibility")
		return false
	}
	for _, id := range ids {
		if id == projectID {
			return true
		}
	}
	h.errorResponse(c, http.StatusForbidden, "project is outside your scope")
	return false
}

// CreateProject creates a project
// @Summary Create project
// @Description Creates a pending project; with manual assignment and a vendor supplied the award runs immediately
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project fields"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects [post]
func (h *Handler) CreateProject(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	project, err := h.Engine.CreateProject(userID, lifecycle.CreateProjectInput{
		Title:            req.Title,
		State:            req.State,
		City:             req.City,
		ClientID:         req.ClientID,
		TotalCost:        req.TotalCost,
		AssignmentMethod: req.AssignmentMethod,
		VendorID:         req.VendorID,
		AreaManagerID:    req.AreaManagerID,
	})
	if err != nil {
		h.domainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, projectToDTO(project))
}

// AwardProject assigns a vendor to a pending project
// @Summary Award project
// @Description Assigns the vendor (directly or via a bid) and instantiates the default step batch exactly once
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.AwardProjectRequest true "Vendor or bid reference"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/projects/{id}/award [put]
func (h *Handler) AwardProject(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	var req dto.AwardProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.Engine.Award(userID, uint(id), lifecycle.AwardInput{
		VendorID: req.VendorID,
		BidID:    req.BidID,
	})
	if err != nil {
		h.domainError(c, err)
		return
	}

	message := "project awarded"
	if !result.StepsInitialized {
		message = "project awarded (steps already initialized)"
	}
	h.successResponse(c, http.StatusOK, message, gin.H{
		"vendor_id": result.VendorID,
	})
}

// CompleteProject completes a project
// @Summary Complete project
// @Description Closes a project once every process step is approved
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/projects/{id}/complete [put]
func (h *Handler) CompleteProject(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	if err := h.Engine.Complete(userID, uint(id)); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "project completed", nil)
}

// CancelProject cancels a project
// @Summary Cancel project
// @Description Aborts a project from any non-terminal status
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/projects/{id}/cancel [put]
func (h *Handler) CancelProject(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	if err := h.Engine.Cancel(userID, uint(id)); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "project cancelled", nil)
}
