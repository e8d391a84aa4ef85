package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/marwah-tailors/marwah-tailors-api/services"
	"github.com/marwah-tailors/marwah-tailors-api/utils"
	"gorm.io/gorm"
)

// CreateFabricRequest represents the request body for adding a fabric
type CreateFabricRequest struct {
	Name          string  `json:"name" binding:"required"`
	Color         string  `json:"color" binding:"required"`
	PricePerMeter float64 `json:"price_per_meter" binding:"omitempty,gt=0"`
	InStock       *bool   `json:"in_stock"`
}

// UpdateFabricRequest represents the request body for updating a fabric
type UpdateFabricRequest struct {
	Name          string   `json:"name"`
	Color         string   `json:"color"`
	PricePerMeter *float64 `json:"price_per_meter" binding:"omitempty,gt=0"`
	InStock       *bool    `json:"in_stock"`
}

// attachSwatchURL fills in the computed presigned URL for a fabric's swatch.
func attachSwatchURL(fabric *models.Fabric) {
	if fabric.SwatchS3Key == nil {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*fabric.SwatchS3Key)
	if err != nil {
		log.Printf("warning: failed to presign swatch URL for fabric %d: %v", fabric.ID, err)
		return
	}
	fabric.SwatchURL = &url
}

// ListFabrics handles GET /api/v1/fabrics - lists the fabric catalog (public)
func ListFabrics(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Fabric{})
	if c.Query("in_stock") == "true" {
		query = query.Where("in_stock = ?", true)
	}

	var fabrics []models.Fabric
	if err := query.Order("name ASC").Find(&fabrics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch fabrics",
			},
		})
		return
	}

	for i := range fabrics {
		attachSwatchURL(&fabrics[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fabrics,
	})
}

// CreateFabric handles POST /api/v1/fabrics - adds a fabric (admin only)
func CreateFabric(c *gin.Context) {
	var req CreateFabricRequest
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

	fabric := models.Fabric{
		Name:          req.Name,
		Color:         req.Color,
		PricePerMeter: req.PricePerMeter,
		InStock:       true,
	}
	if req.InStock != nil {
		fabric.InStock = *req.InStock
	}

	db := config.GetDB()
	if err := db.Create(&fabric).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create fabric",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    fabric,
	})
}

// UpdateFabric handles PUT /api/v1/fabrics/:id - updates a fabric (admin only)
func UpdateFabric(c *gin.Context) {
	var req UpdateFabricRequest
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
	var fabric models.Fabric
	if err := db.First(&fabric, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FABRIC_NOT_FOUND",
					"message": "Fabric not found",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch fabric",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.PricePerMeter != nil {
		updates["price_per_meter"] = *req.PricePerMeter
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}

	if len(updates) > 0 {
		if err := db.Model(&fabric).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update fabric",
				},
			})
			return
		}
	}

	attachSwatchURL(&fabric)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fabric,
	})
}

// DeleteFabric handles DELETE /api/v1/fabrics/:id - removes a fabric from the
// catalog (admin only). Orders referencing it keep their inlined fabric fields.
func DeleteFabric(c *gin.Context) {
	db := config.GetDB()
	var fabric models.Fabric
	if err := db.First(&fabric, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FABRIC_NOT_FOUND",
				"message": "Fabric not found",
			},
		})
		return
	}

	if err := db.Delete(&fabric).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete fabric",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Fabric deleted",
	})
}

// UploadSwatch handles POST /api/v1/fabrics/:id/swatch - uploads a swatch
// photo for a fabric (admin only)
func UploadSwatch(c *gin.Context) {
	db := config.GetDB()
	var fabric models.Fabric
	if err := db.First(&fabric, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FABRIC_NOT_FOUND",
				"message": "Fabric not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("swatch")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A swatch file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		log.Printf("swatch upload failed for fabric %d: %v", fabric.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload swatch",
			},
		})
		return
	}

	// Replace any previous swatch
	oldKey := fabric.SwatchS3Key
	if err := db.Model(&fabric).Update("swatch_s3_key", imageKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save swatch reference",
			},
		})
		return
	}
	if oldKey != nil && *oldKey != imageKey {
		if err := imageService.DeleteImage(*oldKey); err != nil {
			log.Printf("warning: failed to delete old swatch %s: %v", *oldKey, err)
		}
	}

	attachSwatchURL(&fabric)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    fabric,
	})
}
