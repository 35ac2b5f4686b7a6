// controllers/faculty.go - Faculty roster endpoints
package controllers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"research-metrics-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxRosterUploadBytes = 10 << 20

type facultyInput struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// ListFaculty returns the roster with generated name variants.
func ListFaculty(c *gin.Context) {
	records, err := facultySvc.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch faculty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": len(records), "faculty": records})
}

// CountFaculty returns the roster size.
func CountFaculty(c *gin.Context) {
	count, err := facultySvc.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count faculty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// ListDepartments returns the distinct departments in the roster.
func ListDepartments(c *gin.Context) {
	departments, err := facultySvc.DistinctDepartments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch departments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": departments})
}

// AddFaculty inserts one roster entry. skip_duplicate=true turns a repeated
// name/department pair into a no-op.
func AddFaculty(c *gin.Context) {
	var input facultyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid faculty payload"})
		return
	}
	skipDuplicate := strings.EqualFold(c.Query("skip_duplicate"), "true")

	row, created, err := facultySvc.Add(c.Request.Context(), input.Name, input.Department, input.Position, skipDuplicate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add faculty"})
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"success": true, "created": created, "faculty": row})
}

func GetFaculty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid faculty id"})
		return
	}

	row, err := facultySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Faculty not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load faculty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "faculty": row})
}

// UpdateFaculty rewrites one roster entry.
func UpdateFaculty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid faculty id"})
		return
	}

	var input facultyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid faculty payload"})
		return
	}

	row, err := facultySvc.Update(c.Request.Context(), id, input.Name, input.Department, input.Position)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Faculty not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update faculty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "faculty": row})
}

// DeleteFaculty removes one roster entry.
func DeleteFaculty(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid faculty id"})
		return
	}

	if err := facultySvc.Delete(c.Request.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Faculty not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete faculty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadFacultyRoster imports a roster workbook. clear_existing wipes the
// table first; skip_duplicates keeps existing rows over repeated imports.
func UploadFacultyRoster(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}
	if fileHeader.Size > maxRosterUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to open upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxRosterUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read upload"})
		return
	}

	records, err := services.ParseFacultyRoster(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	clearExisting := strings.EqualFold(c.PostForm("clear_existing"), "true")
	skipDuplicates := !strings.EqualFold(c.PostForm("skip_duplicates"), "false")

	summary, err := facultySvc.ImportRecords(c.Request.Context(), records, clearExisting, skipDuplicates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to import roster"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// RefreshFacultyVariants regenerates stored name variants for the roster.
func RefreshFacultyVariants(c *gin.Context) {
	updated, err := facultySvc.RefreshVariants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to refresh variants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}
