package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"gorm.io/gorm"
)

// CreateTicketRequest represents the request body for opening a support ticket
type CreateTicketRequest struct {
	Subject    string `json:"subject" binding:"required"`
	Message    string `json:"message" binding:"required"`
	OrderToken string `json:"order_id"` // optional reference to one of the customer's orders
}

// UpdateTicketRequest represents the request body for updating a ticket
type UpdateTicketRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress closed"`
}

// CreateTicket handles POST /api/v1/tickets - opens a support ticket
func CreateTicket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
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

	ticket := models.Ticket{
		UserID:  user.ID,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.TicketOpen,
	}

	// Tickets may reference one of the caller's own orders
	if req.OrderToken != "" {
		var order models.Order
		err := db.Where("order_id = ? AND customer_id = ?", req.OrderToken, user.ID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to look up order",
				},
			})
			return
		}
		ticket.OrderID = &order.ID
	}

	if err := db.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create ticket",
			},
		})
		return
	}

	if err := db.Preload("User").First(&ticket, ticket.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load ticket details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ticket,
	})
}

// ListTickets handles GET /api/v1/tickets - customers see their own tickets,
// admins see everything
func ListTickets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Ticket{}).Preload("User")
	if user.Role != models.RoleAdmin {
		query = query.Where("user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []models.Ticket
	if err := query.Order("created_at DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch tickets",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tickets,
	})
}

// UpdateTicket handles PUT /api/v1/tickets/:id - updates a ticket's status
// (admin only)
func UpdateTicket(c *gin.Context) {
	var req UpdateTicketRequest
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
	var ticket models.Ticket
	if err := db.First(&ticket, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TICKET_NOT_FOUND",
				"message": "Ticket not found",
			},
		})
		return
	}

	if err := db.Model(&ticket).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update ticket",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ticket,
	})
}
