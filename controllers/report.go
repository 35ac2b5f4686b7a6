// controllers/report.go - Quarterly report endpoints
package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"research-metrics-api/config"
	"research-metrics-api/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func buildReport(c *gin.Context) ([]byte, int, error) {
	year := parseYearParam(c)

	result, err := fetchAndAttribute(c.Request.Context(), year, PolicyMix)
	if err != nil {
		return nil, year, err
	}

	data, err := services.BuildPublicationReport(result.Publications, year)
	if err != nil {
		return nil, year, err
	}
	return data, year, nil
}

// DownloadPublicationReport streams the quarterly report workbook.
func DownloadPublicationReport(c *gin.Context) {
	data, year, err := buildReport(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ReportFileName(year)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

type emailReportInput struct {
	To []string `json:"to" binding:"required"`
}

// EmailPublicationReport builds the workbook and mails it to the recipients.
func EmailPublicationReport(c *gin.Context) {
	var input emailReportInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.To) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "recipient list is required"})
		return
	}

	data, year, err := buildReport(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}

	subject := "Research Publications Report"
	if year > 0 {
		subject = fmt.Sprintf("%s %d", subject, year)
	}
	body := fmt.Sprintf("<p>Attached is the %s.</p>", strings.ToLower(subject))

	if err := config.SendMail(input.To, subject, body, config.Attachment{
		Filename: services.ReportFileName(year),
		Content:  data,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send report email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recipients": len(input.To)})
}
