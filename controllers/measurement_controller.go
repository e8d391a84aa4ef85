package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"gorm.io/gorm"
)

// UpdateMeasurementsRequest represents the request body for saving measurements
type UpdateMeasurementsRequest struct {
	Chest        float64 `json:"chest" binding:"omitempty,gt=0"`
	Waist        float64 `json:"waist" binding:"omitempty,gt=0"`
	Shoulders    float64 `json:"shoulders" binding:"omitempty,gt=0"`
	ArmLength    float64 `json:"arm_length" binding:"omitempty,gt=0"`
	JacketLength float64 `json:"jacket_length" binding:"omitempty,gt=0"`
	Neck         float64 `json:"neck" binding:"omitempty,gt=0"`
	Notes        string  `json:"notes"`
}

// GetMyMeasurements handles GET /api/v1/measurements/me - returns the current
// customer's measurements
func GetMyMeasurements(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var measurement models.Measurement
	if err := db.Where("user_id = ?", user.ID).First(&measurement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MEASUREMENTS_NOT_FOUND",
					"message": "No measurements on file yet",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch measurements",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// UpdateMyMeasurements handles PUT /api/v1/measurements/me - creates or
// updates the current customer's measurements (one row per user)
func UpdateMyMeasurements(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateMeasurementsRequest
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
	var measurement models.Measurement
	err := db.Where("user_id = ?", user.ID).First(&measurement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		measurement = models.Measurement{
			UserID:       user.ID,
			Chest:        req.Chest,
			Waist:        req.Waist,
			Shoulders:    req.Shoulders,
			ArmLength:    req.ArmLength,
			JacketLength: req.JacketLength,
			Neck:         req.Neck,
			Notes:        req.Notes,
		}
		if err := db.Create(&measurement).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to save measurements",
				},
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    measurement,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch measurements",
			},
		})
		return
	}

	updates := map[string]interface{}{
		"chest":         req.Chest,
		"waist":         req.Waist,
		"shoulders":     req.Shoulders,
		"arm_length":    req.ArmLength,
		"jacket_length": req.JacketLength,
		"neck":          req.Neck,
		"notes":         req.Notes,
	}
	if err := db.Model(&measurement).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save measurements",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}

// GetUserMeasurements handles GET /api/v1/users/:id/measurements - returns a
// customer's measurements (admin and tailor)
func GetUserMeasurements(c *gin.Context) {
	db := config.GetDB()

	var measurement models.Measurement
	if err := db.Where("user_id = ?", c.Param("id")).First(&measurement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MEASUREMENTS_NOT_FOUND",
					"message": "No measurements on file for this user",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch measurements",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}
