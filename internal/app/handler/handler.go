package handler

import (
	"fmt"
	"net/http"

	"backend/internal/app/apperr"
	"backend/internal/app/dto"
	"backend/internal/app/lifecycle"
	"backend/internal/app/orggraph"
	"backend/internal/app/repository"
	"backend/internal/app/storage"
	"backend/internal/app/visibility"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler holds the REST API dependencies.
type Handler struct {
	Repository  *repository.Repository
	Resolver    *visibility.Resolver
	Engine      *lifecycle.Engine
	Org         *orggraph.Graph
	MinIOClient *storage.MinIOClient
	AuthHandler *AuthHandler
}

func NewHandler(r *repository.Repository, resolver *visibility.Resolver, engine *lifecycle.Engine,
	org *orggraph.Graph, minioClient *storage.MinIOClient, authHandler *AuthHandler) *Handler {
	return &Handler{
		Repository:  r,
		Resolver:    resolver,
		Engine:      engine,
		Org:         org,
		MinIOClient: minioClient,
		AuthHandler: authHandler,
	}
}

// getUserFromContext reads the id the auth middleware stored.
func (h *Handler) getUserFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		logrus.Warn("userID not found in context")
		return 0, fmt.Errorf("user not authenticated")
	}
	id, ok := userID.(uint)
	if !ok {
		logrus.Errorf("getUserFromContext: invalid userID type: %T", userID)
		return 0, fmt.Errorf("invalid user ID")
	}
	return id, nil
}

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *Handler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// domainError maps the error taxonomy onto HTTP statuses. Authorization and
// validation errors surface verbatim; anything unclassified becomes a 500
// without leaking internals.
func (h *Handler) domainError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.Authorization:
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case apperr.Validation:
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case apperr.Conflict:
		h.errorResponse(c, http.StatusConflict, err.Error())
	case apperr.NotFound:
		h.errorResponse(c, http.StatusNotFound, err.Error())
	default:
		logrus.Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "internal error")
	}
}
