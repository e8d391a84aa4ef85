package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/marwah-tailors/marwah-tailors-api/services"
)

// MeasurementsPayload represents the measurements block of an order request
type MeasurementsPayload struct {
	Chest        float64 `json:"chest"`
	Waist        float64 `json:"waist"`
	Shoulders    float64 `json:"shoulders"`
	ArmLength    float64 `json:"arm_length"`
	JacketLength float64 `json:"jacket_length"`
	Neck         float64 `json:"neck"`
	Notes        string  `json:"notes"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID   uint                 `json:"customer_id" binding:"required"`
	Style        string               `json:"style" binding:"required"`
	FabricName   string               `json:"fabric_name"`
	FabricColor  string               `json:"fabric_color"`
	FabricID     *uint                `json:"fabric_id"`
	Price        float64              `json:"price" binding:"required,gt=0"`
	Measurements *MeasurementsPayload `json:"measurements"`
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// AssignTailorRequest represents the request body for assigning a tailor
type AssignTailorRequest struct {
	TailorID uint `json:"tailor_id" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order (admin only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
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

	input := services.CreateOrderInput{
		CustomerID:  req.CustomerID,
		Style:       req.Style,
		FabricName:  req.FabricName,
		FabricColor: req.FabricColor,
		FabricID:    req.FabricID,
		Price:       req.Price,
		Actor:       services.Actor{ID: user.ID, Role: user.Role},
	}
	if req.Measurements != nil {
		input.Measurements = &services.MeasurementInput{
			Chest:        req.Measurements.Chest,
			Waist:        req.Measurements.Waist,
			Shoulders:    req.Measurements.Shoulders,
			ArmLength:    req.Measurements.ArmLength,
			JacketLength: req.Measurements.JacketLength,
			Neck:         req.Measurements.Neck,
			Notes:        req.Measurements.Notes,
		}
	}

	order, err := services.CreateOrder(config.GetDB(), input)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders scoped by role.
// Customers see their own orders, tailors the orders assigned to them,
// admins everything.
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Order{}).Preload("Customer").Preload("Tailor")

	switch user.Role {
	case models.RoleCustomer:
		query = query.Where("customer_id = ?", user.ID)
	case models.RoleTailor:
		query = query.Where("tailor_id = ?", user.ID)
	case models.RoleAdmin:
		// no scoping
	}

	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown status filter",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:orderId - returns one order with its
// timeline. Customers can only view their own orders, tailors only orders
// assigned to them.
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.FindOrderByToken(db, c.Param("orderId"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	canView := false
	switch user.Role {
	case models.RoleCustomer:
		canView = order.CustomerID == user.ID
	case models.RoleTailor:
		canView = order.TailorID != nil && *order.TailorID == user.ID
	case models.RoleAdmin:
		canView = true
	}

	if !canView {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view this order",
			},
		})
		return
	}

	timeline, err := services.OrderTimeline(db, order.ID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":    order,
			"timeline": timeline,
		},
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:orderId/status - transitions
// an order to a new status (admin or assigned tailor)
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
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
	order, err := services.FindOrderByToken(db, c.Param("orderId"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	actor := services.Actor{ID: user.ID, Role: user.Role}
	order, err = services.TransitionOrder(db, order.ID, models.OrderStatus(req.Status), actor, req.Notes)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated",
		"data":    order,
	})
}

// AssignTailor handles PUT /api/v1/orders/:orderId/assign-tailor - assigns a
// tailor to an order (admin only)
func AssignTailor(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AssignTailorRequest
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
	order, err := services.FindOrderByToken(db, c.Param("orderId"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	actor := services.Actor{ID: user.ID, Role: user.Role}
	order, err = services.AssignTailor(db, order.ID, req.TailorID, actor)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tailor assigned",
		"data":    order,
	})
}
