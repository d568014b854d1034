package routes

import (
	"garage_backend/pkg/controllers/auth"
	"garage_backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAuthRoutes registers all authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, h *auth.Handler) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/signin", h.Signin)
		authGroup.POST("/signout", h.Signout)

		// Protected routes
		protected := authGroup.Group("", middleware.AuthenticateToken(db))
		protected.GET("/me", h.Me)
		protected.PUT("/password", h.ChangePassword)
		protected.GET("/2fa/status", h.TwoFactorStatus)
		protected.POST("/2fa/setup", h.TwoFactorSetup)
		protected.POST("/2fa/enable", h.TwoFactorEnable)
		protected.POST("/2fa/disable", h.TwoFactorDisable)
	}
}
