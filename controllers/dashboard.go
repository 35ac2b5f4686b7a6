// controllers/dashboard.go - Dashboard statistics endpoint
package controllers

import (
	"net/http"

	"research-metrics-api/services"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns the aggregate view of the reconciled publication
// set: totals, h-index, quarterly and per-college breakdowns.
func GetDashboardStats(c *gin.Context) {
	year := parseYearParam(c)

	result, err := fetchAndAttribute(c.Request.Context(), year, PolicyMix)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	stats := services.BuildDashboardStats(result.Publications, result.Attribution, collegeMapping.MapDepartment, year)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"degraded": result.Degraded,
		"stats":    stats,
	})
}
