package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/services"
)

// TrackOrder handles GET /api/v1/track/:orderId - public order tracking by the
// human-readable order token. Returns a sanitized view: no internal ids, no
// customer details, no pricing.
func TrackOrder(c *gin.Context) {
	db := config.GetDB()

	order, err := services.FindOrderByToken(db, c.Param("orderId"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	timeline, err := services.OrderTimeline(db, order.ID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	events := make([]gin.H, 0, len(timeline))
	for _, entry := range timeline {
		events = append(events, gin.H{
			"status":    entry.Status,
			"note":      entry.Note,
			"timestamp": entry.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order_id":           order.Token,
			"style":              order.Style,
			"status":             order.Status,
			"estimated_delivery": order.EstimatedDelivery,
			"timeline":           events,
		},
	})
}
