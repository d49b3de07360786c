package routes

import (
	"github.com/civicdesk/backend/internal/controllers"
	"github.com/civicdesk/backend/internal/media"
	"github.com/civicdesk/backend/internal/middleware"
	"github.com/civicdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(r *gin.Engine, db *gorm.DB, store media.Store) {
	// Initialize services
	complaintService := services.NewComplaintService(db)
	updateService := services.NewUpdateService(db)
	slaService := services.NewSLAService(db)
	statsService := services.NewStatsService(db)
	reportService := services.NewReportService(db, store, statsService)

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	complaintController := controllers.NewComplaintController(complaintService, slaService, reportService, store)
	adminController := controllers.NewAdminController(complaintService, updateService, statsService, store)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			complaints := protected.Group("/complaints")
			{
				complaints.POST("", complaintController.Create)
				complaints.GET("", complaintController.ListMine)
				complaints.GET("/:id", complaintController.GetMine)
				complaints.GET("/:id/report", complaintController.DownloadReport)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/complaints", adminController.ListComplaints)
				admin.GET("/complaints/:id", adminController.GetComplaint)
				admin.POST("/complaints/:id/updates", adminController.AppendUpdate)
				admin.GET("/stats", adminController.Stats)
			}
		}
	}
}
