package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/models"
)

// CreateLeadRequest represents the request body from the marketing site's
// contact form
type CreateLeadRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// UpdateLeadRequest represents the request body for updating a lead
type UpdateLeadRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted converted closed"`
}

// CreateLead handles POST /api/v1/leads - public lead intake from the
// marketing site
func CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	source := req.Source
	if source == "" {
		source = "website"
	}

	lead := models.Lead{
		Name:    req.Name,
		Email:   strings.ToLower(req.Email),
		Phone:   req.Phone,
		Message: req.Message,
		Source:  source,
		Status:  models.LeadNew,
	}

	db := config.GetDB()
	if err := db.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to submit inquiry",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thanks for reaching out, we'll be in touch shortly",
	})
}

// ListLeads handles GET /api/v1/leads - lists leads (admin only)
func ListLeads(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Lead{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch leads",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    leads,
	})
}

// UpdateLead handles PUT /api/v1/leads/:id - updates a lead's status (admin only)
func UpdateLead(c *gin.Context) {
	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var lead models.Lead
	if err := db.First(&lead, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LEAD_NOT_FOUND",
				"message": "Lead not found",
			},
		})
		return
	}

	if err := db.Model(&lead).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update lead",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    lead,
	})
}
