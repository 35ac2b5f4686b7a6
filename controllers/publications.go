// controllers/publications.go - Publication listing endpoints
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"research-metrics-api/services"

	"github.com/gin-gonic/gin"
)

func parseYearParam(c *gin.Context) int {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return 0
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 {
		return 0
	}
	return year
}

func parsePolicyParam(c *gin.Context) string {
	switch strings.ToLower(strings.TrimSpace(c.Query("policy"))) {
	case PolicyScopus:
		return PolicyScopus
	case PolicyOpenAlex:
		return PolicyOpenAlex
	case PolicyOpenAlexFiltered:
		return PolicyOpenAlexFiltered
	default:
		return PolicyMix
	}
}

// GetPublications returns the reconciled, attributed publication list.
func GetPublications(c *gin.Context) {
	year := parseYearParam(c)
	policy := parsePolicyParam(c)

	result, err := fetchAndAttribute(c.Request.Context(), year, policy)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	pubs := result.Publications
	total := len(pubs)
	offset := parseCountParam(c, "offset", 0)
	limit := parseCountParam(c, "limit", total)
	if offset > total {
		offset = total
	}
	if end := offset + limit; end < total {
		pubs = pubs[offset:end]
	} else {
		pubs = pubs[offset:]
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"policy":          policy,
		"year":            year,
		"degraded":        result.Degraded,
		"total":           total,
		"offset":          offset,
		"total_matched":   result.Attribution.TotalMatched,
		"available_years": services.AvailableYears(result.Publications),
		"publications":    pubs,
	})
}

// GetPublicationsByFaculty groups the reconciled set by matched roster member.
func GetPublicationsByFaculty(c *gin.Context) {
	year := parseYearParam(c)
	policy := parsePolicyParam(c)

	result, err := fetchAndAttribute(c.Request.Context(), year, policy)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"policy":               policy,
		"year":                 year,
		"degraded":             result.Degraded,
		"total":                len(result.Publications),
		"total_matched":        result.Attribution.TotalMatched,
		"faculty_publications": result.Attribution.FacultyPublications,
		"department_counts":    result.Attribution.DepartmentCounts,
	})
}

// GetPublicationTitles returns just the titles of the reconciled set.
func GetPublicationTitles(c *gin.Context) {
	year := parseYearParam(c)
	policy := parsePolicyParam(c)

	result, err := fetchPublications(c.Request.Context(), year, policy)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	titles := make([]string, 0, len(result.Publications))
	for i, p := range result.Publications {
		titles = append(titles, strconv.Itoa(i+1)+". "+p.Title)
	}

	total := len(titles)
	offset := parseCountParam(c, "offset", 0)
	limit := parseCountParam(c, "limit", total)
	if offset > total {
		offset = total
	}
	if end := offset + limit; end < total {
		titles = titles[offset:end]
	} else {
		titles = titles[offset:]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"offset":  offset,
		"titles":  titles,
	})
}

func parseCountParam(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
