package routes

import (
	"net/http"

	"garage_backend/pkg/controllers/auth"
	garagectl "garage_backend/pkg/controllers/garage"
	"garage_backend/pkg/garage"
	"garage_backend/pkg/middleware"
	"garage_backend/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup mounts the API on router. Session and CORS middleware are the
// caller's concern and must be installed first.
func Setup(router *gin.Engine, db *gorm.DB, svc *garage.Service, archive garagectl.Archiver) {
	router.Use(middleware.ErrorMiddleware())
	router.NoRoute(middleware.NotFoundHandler())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Garage Backend Server is running...")
	})

	api := router.Group("/api")
	{
		RegisterAuthRoutes(api, db, auth.NewHandler(db, svc))
		RegisterGarageRoutes(api, db, garagectl.NewHandler(svc, archive))

		api.GET("/health", func(c *gin.Context) {
			status := http.StatusOK
			database := "connected"
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				status = http.StatusServiceUnavailable
				database = "unreachable"
			}
			c.JSON(status, gin.H{
				"status":          http.StatusText(status),
				"database":        database,
				"push":            services.FCMReady(),
				"invoice_archive": services.StorageReady(),
			})
		})
	}
}
