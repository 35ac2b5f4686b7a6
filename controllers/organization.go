// controllers/organization.go - Institution lookup endpoints
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SearchScopusOrganizations looks up Scopus affiliation profiles by name.
func SearchScopusOrganizations(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name query parameter is required"})
		return
	}

	orgs, err := scopusSvc.SearchOrganizations(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": len(orgs), "organizations": orgs})
}

// SearchOpenAlexInstitution resolves the best OpenAlex institution profile
// for a name, optionally biased by a country code.
func SearchOpenAlexInstitution(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name query parameter is required"})
		return
	}
	country := strings.TrimSpace(c.Query("country"))
	if country == "" {
		country = settings.InstitutionCountry
	}

	match, err := openAlexSvc.SearchInstitution(c.Request.Context(), name, country)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "institution": match})
}
