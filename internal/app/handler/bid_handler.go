package handler

import (
	"net/http"
	"strconv"

	"backend/internal/app/ds"
	"backend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func bidToDTO(b *ds.Bid) dto.BidResponse {
	vendor := ""
	if b.Vendor != nil {
		vendor = b.Vendor.Login
	}
	return dto.BidResponse{
		ID:        b.ID,
		ProjectID: b.ProjectID,
		VendorID:  b.VendorID,
		Vendor:    vendor,
		Amount:    b.Amount,
		Comment:   b.Comment,
		CreatedAt: b.CreatedAt,
	}
}

// PlaceBid records a vendor offer
// @Summary Place bid
// @Description Records a vendor bid on an open bidding project
// @Tags Bids
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.PlaceBidRequest true "Bid amount"
// @Success 201 {object} dto.BidResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/projects/{id}/bids [post]
func (h *Handler) PlaceBid(c *gin.Context) {
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

	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	bid, err := h.Engine.PlaceBid(userID, uint(id), req.Amount, req.Comment)
	if err != nil {
		h.domainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bidToDTO(bid))
}

// GetBids lists all bids in the caller's scope
// @Summary List visible bids
// @Description Returns every bid the actor may see: own bids for vendors, bids on visible projects otherwise
// @Tags Bids
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BidListResponse
// @Router /api/bids [get]
func (h *Handler) GetBids(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	ids, err := h.Resolver.VisibleBidIDs(userID)
	if err != nil {
		logrus.Error("Error resolving visible bids: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list bids")
		return
	}

	bids, err := h.Repository.GetBidsByIDs(ids)
	if err != nil {
		logrus.Error("Error getting bids: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list bids")
		return
	}

	dtoBids := make([]dto.BidResponse, len(bids))
	for i := range bids {
		dtoBids[i] = bidToDTO(&bids[i])
	}

	c.JSON(http.StatusOK, dto.BidListResponse{
		Bids:  dtoBids,
		Total: len(dtoBids),
	})
}

// GetProjectBids lists the visible bids on a project
// @Summary List project bids
// @Description Returns the bids on a project restricted to the actor's bid scope
// @Tags Bids
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.BidListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id}/bids [get]
func (h *Handler) GetProjectBids(c *gin.Context) {
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

	visibleIDs, err := h.Resolver.VisibleBidIDs(userID)
	if err != nil {
		logrus.Error("Error resolving visible bids: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list bids")
		return
	}
	visible := make(map[uint]struct{}, len(visibleIDs))
	for _, bidID := range visibleIDs {
		visible[bidID] = struct{}{}
	}

	bids, err := h.Repository.ListBidsForProject(uint(id))
	if err != nil {
		logrus.Error("Error getting bids: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "failed to list bids")
		return
	}

	dtoBids := make([]dto.BidResponse, 0, len(bids))
	for i := range bids {
		if _, ok := visible[bids[i].ID]; !ok {
			continue
		}
		dtoBids = append(dtoBids, bidToDTO(&bids[i]))
	}

	c.JSON(http.StatusOK, dto.BidListResponse{
		Bids:  dtoBids,
		Total: len(dtoBids),
	})
}
