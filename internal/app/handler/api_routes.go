package handler

import (
	"backend/internal/app/middleware"
	"backend/internal/app/role"

	_ "backend/docs"

	"github.com/gin-gonic/gin"
	swaggofiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes wires all REST routes with the role gates. State-changing
// calls additionally pass the anti-forgery check.
func (h *Handler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	anyActor := authMiddleware.WithAuthCheck()
	managersUp := authMiddleware.WithAuthCheck(role.AreaManager, role.Manager, role.Admin)
	orgAdmins := authMiddleware.WithAuthCheck(role.Manager, role.Admin)
	csrf := authMiddleware.WithCSRFCheck()

	// ============ Projects ============
	projects := api.Group("/projects")
	{
		projects.GET("", anyActor, h.GetProjects)
		projects.GET("/:id", anyActor, h.GetProject)
		projects.GET("/:id/steps", anyActor, h.GetProjectSteps)
		projects.GET("/:id/bids", anyActor, h.GetProjectBids)

		projects.POST("", managersUp, csrf, h.CreateProject)
		projects.PUT("/:id/award", managersUp, csrf, h.AwardProject)
		projects.PUT("/:id/complete", managersUp, csrf, h.CompleteProject)
		projects.PUT("/:id/cancel", managersUp, csrf, h.CancelProject)

		projects.POST("/:id/bids", authMiddleware.WithAuthCheck(role.Vendor), csrf, h.PlaceBid)
	}

	api.GET("/bids", anyActor, h.GetBids)

	// ============ Process steps ============
	steps := api.Group("/steps")
	{
		steps.GET("/review-queue", managersUp, h.GetReviewQueue)
		steps.PUT("/:id/submit", authMiddleware.WithAuthCheck(role.Vendor, role.Admin), csrf, h.SubmitStep)
		steps.PUT("/:id/review", managersUp, csrf, h.ReviewStep)
	}

	// ============ Leads ============
	leads := api.Group("/leads")
	{
		leads.GET("", anyActor, h.GetLeads)
		leads.POST("", authMiddleware.WithAuthCheck(role.SalesManager, role.AreaManager, role.Manager, role.Admin), csrf, h.CreateLead)
		leads.PUT("/:id/status", authMiddleware.WithAuthCheck(role.SalesManager, role.AreaManager, role.Manager, role.Admin), csrf, h.UpdateLeadStatus)
	}

	// ============ Dashboard ============
	api.GET("/dashboard/stats", managersUp, h.GetDashboardStats)

	// ============ Org graph ============
	org := api.Group("/org")
	{
		org.PUT("/:id/supervisor", orgAdmins, csrf, h.AssignSupervisor)
		org.PUT("/:id/location", orgAdmins, csrf, h.AssignLocation)
	}

	// ============ Authentication ============
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		auth.POST("/logout", anyActor, h.AuthHandler.LogoutUser)
		auth.GET("/profile", anyActor, h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", anyActor, csrf, h.AuthHandler.UpdateUserProfile)
	}

	router.GET("/swagger/*any", ginswagger.WrapHandler(swaggofiles.Handler))
	router.GET("/ping", h.Ping)
}

// Ping health check
// @Summary Health check
// @Description Returns a simple response to verify the server is up
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
