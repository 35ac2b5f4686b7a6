package routes

import (
	"research-metrics-api/controllers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Research Metrics API is running",
			})
		})

		// Publications pipeline
		publications := v1.Group("/publications")
		{
			publications.GET("", controllers.GetPublications)
			publications.GET("/titles", controllers.GetPublicationTitles)
			publications.GET("/by-faculty", controllers.GetPublicationsByFaculty)
		}

		// Dashboard statistics
		v1.GET("/dashboard/stats", controllers.GetDashboardStats)

		// Institution lookup
		v1.GET("/organizations", controllers.SearchScopusOrganizations)
		v1.GET("/institutions", controllers.SearchOpenAlexInstitution)

		// Faculty roster management
		faculty := v1.Group("/faculty")
		{
			faculty.GET("", controllers.ListFaculty)
			faculty.GET("/count", controllers.CountFaculty)
			faculty.GET("/departments", controllers.ListDepartments)
			faculty.POST("", controllers.AddFaculty)
			faculty.GET("/:id", controllers.GetFaculty)
			faculty.PUT("/:id", controllers.UpdateFaculty)
			faculty.DELETE("/:id", controllers.DeleteFaculty)
			faculty.POST("/upload-excel", controllers.UploadFacultyRoster)
			faculty.POST("/refresh", controllers.RefreshFacultyVariants)
		}

		// Quarterly publication report
		reports := v1.Group("/reports")
		{
			reports.GET("/publications", controllers.DownloadPublicationReport)
			reports.POST("/email", controllers.EmailPublicationReport)
		}
	}

	// Catch-all for undefined routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"success": false,
			"error":   "Route not found",
		})
	})
}
