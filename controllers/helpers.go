package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/middleware"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/marwah-tailors/marwah-tailors-api/services"
)

// currentUser loads the authenticated user's database row. On failure it
// writes the error response and returns false.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User account not found",
			},
		})
		return nil, false
	}

	return &user, true
}

// respondLifecycleError translates a lifecycle service error into the JSON
// envelope. Persistence failures are logged and surfaced as a generic message.
func respondLifecycleError(c *gin.Context, err error) {
	var lcErr *services.LifecycleError
	if !errors.As(err, &lcErr) {
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Something went wrong",
			},
		})
		return
	}

	switch lcErr.Code {
	case services.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": lcErr.Code, "message": lcErr.Message},
		})
	case services.CodeForbidden:
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": lcErr.Code, "message": lcErr.Message},
		})
	case services.CodeInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": lcErr.Code, "message": lcErr.Message},
		})
	case services.CodeConflict:
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   gin.H{"code": lcErr.Code, "message": lcErr.Message},
		})
	default:
		log.Printf("persistence failure: %v", lcErr)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Something went wrong",
			},
		})
	}
}
