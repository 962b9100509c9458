package handler

import (
	"io"
	"net/http"
	"strconv"

	"backend/internal/app/dto"
	"backend/internal/app/visibility"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetProjectSteps lists the steps of a visible project
// @Summary List process steps
// @Description Returns the installation checklist of a project within the actor's scope
// @Tags Steps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.StepListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/projects/{id}/steps [get]
func (h *Handler) GetProjectSteps(c *gin.Context) {
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

	steps, err := h.Repository.ListSteps(uint(id))
	if err != nil {
		logrus.Error("Error getting steps: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list steps")
		return
	}

	dtoSteps := make([]dto.StepResponse, len(steps))
	for i := range steps {
		dtoSteps[i] = h.stepToDTO(&steps[i])
	}

	c.JSON(http.StatusOK, dto.StepListResponse{
		Steps: dtoSteps,
		Total: len(dtoSteps),
	})
}

// GetReviewQueue lists the steps under review within the actor's scope
// @Summary List review queue
// @Description Returns the review items the actor may decide on, via the shared visibility precedence
// @Tags Steps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StepListResponse
// @Router /api/steps/review-queue [get]
func (h *Handler) GetReviewQueue(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	ids, err := h.Resolver.VisibleIDs(userID, visibility.KindReviewItem)
	if err != nil {
		logrus.Error("Error resolving review items: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list review items")
		return
	}

	dtoSteps := make([]dto.StepResponse, 0, len(ids))
	for _, stepID := range ids {
		step, err := h.Repository.GetStep(stepID)
		if err != nil {
			continue
		}
		dtoSteps = append(dtoSteps, h.stepToDTO(step))
	}

	c.JSON(http.StatusOK, dto.StepListResponse{
		Steps: dtoSteps,
		Total: len(dtoSteps),
	})
}

// SubmitStep is the vendor evidence submission
// @Summary Submit step evidence
// @Description Moves a pending or rejected step to under_review, with an optional evidence photo
// @Tags Steps
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Step ID"
// @Param evidence formData file false "Evidence photo"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/steps/{id}/submit [put]
func (h *Handler) SubmitStep(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid step ID")
		return
	}

	var priorEvidence string
	if step, err := h.Repository.GetStep(uint(id)); err == nil {
		priorEvidence = step.EvidenceURL
	}

	var evidenceURL string
	if file, err := c.FormFile("evidence"); err == nil && h.MinIOClient != nil {
		openedFile, err := file.Open()
		if err != nil {
			h.errorResponse(c, http.StatusInternalServerError, "failed to read file")
			return
		}
		defer openedFile.Close()

		fileData, err := io.ReadAll(openedFile)
		if err != nil {
			h.errorResponse(c, http.StatusInternalServerError, "failed to read file")
			return
		}

		evidenceURL, err = h.MinIOClient.UploadEvidence(fileData, file.Filename)
		if err != nil {
			logrus.Error("Error uploading evidence: ", err)
			h.errorResponse(c, http.StatusInternalServerError, "failed to upload evidence")
			return
		}
	}

	if err := h.Engine.SubmitStep(userID, uint(id), evidenceURL); err != nil {
		h.domainError(c, err)
		return
	}

	// A resubmission with a new photo replaces the old object.
	if evidenceURL != "" && priorEvidence != "" && priorEvidence != evidenceURL {
		if err := h.MinIOClient.DeleteEvidence(priorEvidence); err != nil {
			logrus.Warn("Error deleting replaced evidence: ", err)
		}
	}

	h.successResponse(c, http.StatusOK, "step submitted for review", nil)
}

// ReviewStep records a reviewer decision
// @Summary Review step
// @Description Approves or rejects a step under review; rejecting requires a comment
// @Tags Steps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Step ID"
// @Param request body dto.ReviewStepRequest true "Decision"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/steps/{id}/review [put]
func (h *Handler) ReviewStep(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid step ID")
		return
	}

	var req dto.ReviewStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.Engine.ReviewStep(userID, uint(id), req.Decision, req.Comment); err != nil {
		h.domainError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "step "+req.Decision, nil)
}
