package routes

import (
	"net/http"

	"dispatchhub_backend/internal/handlers"
	"dispatchhub_backend/internal/middleware"
	"dispatchhub_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the HTTP surface onto the router.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
	}

	i18n := api.Group("/i18n")
	{
		i18n.GET("", h.I18n.Languages)
		i18n.GET("/:lang", h.I18n.Translations)
	}

	// Billing callback is hit by a gateway redirect, no token attached.
	api.GET("/billing/callback", h.Billing.Callback)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/profiles/me", h.Profile.Me)
		authed.GET("/earnings", h.Job.Earnings)

		jobs := authed.Group("/jobs")
		{
			jobs.POST("", h.Job.Create)
			jobs.GET("", h.Job.List)
			jobs.GET("/:id", h.Job.Get)
			jobs.POST("/:id/claim", h.Job.Claim)
			jobs.POST("/:id/complete", h.Job.Complete)
			jobs.POST("/:id/assign", h.Job.Assign)
		}

		billing := authed.Group("/billing")
		{
			billing.GET("/plans", h.Billing.Plans)
			billing.POST("/checkout", h.Billing.Checkout)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
		{
			admin.DELETE("/jobs", h.Job.DeleteAll)
			admin.GET("/jobs/stats", h.Job.Stats)
		}
	}
}
