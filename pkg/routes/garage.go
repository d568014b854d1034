package routes

import (
	"garage_backend/pkg/controllers/garage"
	"garage_backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterGarageRoutes registers the workshop routes; all of them require
// a signed-in operator
func RegisterGarageRoutes(router *gin.RouterGroup, db *gorm.DB, h *garage.Handler) {
	g := router.Group("/garage", middleware.AuthenticateToken(db))

	g.GET("/dashboard", h.Dashboard)

	// Customers & bikes
	g.GET("/customers", h.ListCustomers)
	g.POST("/customers", h.CreateCustomer)
	g.GET("/customers/:id", h.GetCustomer)
	g.PUT("/customers/:id", h.UpdateCustomer)
	g.DELETE("/customers/:id", h.DeleteCustomer)
	g.GET("/customers/:id/communication-logs", h.ListCommunicationLogs)

	g.GET("/bikes", h.ListBikes)
	g.POST("/bikes", h.CreateBike)
	g.GET("/bikes/:id", h.GetBike)
	g.PUT("/bikes/:id", h.UpdateBike)
	g.DELETE("/bikes/:id", h.DeleteBike)
	g.GET("/bikes/:id/jobs", h.BikeJobs)

	// Jobs
	g.GET("/jobs", h.ListJobs)
	g.POST("/jobs", h.CreateJob)
	g.GET("/jobs/:id", h.GetJob)
	g.PUT("/jobs/:id", h.UpdateJob)
	g.DELETE("/jobs/:id", h.DeleteJob)
	g.PATCH("/jobs/:id/status", h.SetJobStatus)
	g.PATCH("/jobs/:id/payment", h.SetPayment)
	g.POST("/jobs/:id/apply-package", h.ApplyPackage)
	g.POST("/jobs/:id/invoice", h.GenerateInvoice)
	g.GET("/jobs/:id/invoice", h.InvoicePage)
	g.POST("/jobs/:id/invoice/archive", h.ArchiveInvoice)
	g.GET("/jobs/:id/parts", h.ListJobParts)
	g.POST("/jobs/:id/parts", h.AddJobPart)
	g.PUT("/jobs/:id/parts", h.ReplaceJobParts)
	g.PUT("/jobs/:id/parts/:partId", h.UpdateJobPart)
	g.DELETE("/jobs/:id/parts/:partId", h.DeleteJobPart)
	g.GET("/pending-payments", h.PendingPayments)
	g.GET("/reminders", h.Reminders)

	// Inventory
	g.GET("/inventory", h.ListInventory)
	g.POST("/inventory", h.CreateInventoryItem)
	g.GET("/inventory/:id", h.GetInventoryItem)
	g.PUT("/inventory/:id", h.UpdateInventoryItem)
	g.DELETE("/inventory/:id", h.DeleteInventoryItem)
	g.POST("/inventory/:id/adjust", h.AdjustStock)
	g.GET("/inventory/:id/movements", h.StockMovements)

	// Service packages
	g.GET("/packages", h.ListPackages)
	g.POST("/packages", h.CreatePackage)
	g.GET("/packages/:id", h.GetPackage)
	g.PUT("/packages/:id", h.UpdatePackage)
	g.DELETE("/packages/:id", h.DeletePackage)

	// Communication
	g.GET("/templates", h.ListTemplates)
	g.POST("/templates", h.CreateTemplate)
	g.PUT("/templates/:id", h.UpdateTemplate)
	g.DELETE("/templates/:id", h.DeleteTemplate)
	g.POST("/messages/compose", h.Compose)
	g.GET("/communication-logs", h.ListCommunicationLogs)
	g.POST("/communication-logs", h.LogCommunication)

	// Settings & devices
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
	g.POST("/devices", h.RegisterDevice)
	g.DELETE("/devices", h.UnregisterDevice)

	// Reports
	g.GET("/reports", h.Report)
	g.GET("/reports/export", h.ExportReport)
}
