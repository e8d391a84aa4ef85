package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/marwah-tailors/marwah-tailors-api/utils"
	"gorm.io/gorm"
)

// Lifecycle error codes. Controllers map these onto HTTP statuses.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeInvalidInput = "INVALID_INPUT"
	CodeConflict     = "CONFLICT"
	CodePersistence  = "PERSISTENCE_FAILURE"
)

// LifecycleError is the typed error returned by the order lifecycle functions.
type LifecycleError struct {
	Code    string
	Message string
	Err     error
}

func (e *LifecycleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

func notFound(message string) *LifecycleError {
	return &LifecycleError{Code: CodeNotFound, Message: message}
}

func forbidden(message string) *LifecycleError {
	return &LifecycleError{Code: CodeForbidden, Message: message}
}

func invalidInput(message string) *LifecycleError {
	return &LifecycleError{Code: CodeInvalidInput, Message: message}
}

func conflict(message string) *LifecycleError {
	return &LifecycleError{Code: CodeConflict, Message: message}
}

func persistence(message string, err error) *LifecycleError {
	return &LifecycleError{Code: CodePersistence, Message: message, Err: err}
}

// Actor is the already-authenticated caller of a lifecycle operation. The
// route layer verifies credentials; this package only applies the policy.
type Actor struct {
	ID   uint
	Role string
}

// MeasurementInput carries a customer's measurements, in inches.
type MeasurementInput struct {
	Chest        float64
	Waist        float64
	Shoulders    float64
	ArmLength    float64
	JacketLength float64
	Neck         float64
	Notes        string
}

// CreateOrderInput is everything needed to open a new order.
type CreateOrderInput struct {
	CustomerID   uint
	Style        string
	FabricName   string
	FabricColor  string
	FabricID     *uint
	Price        float64
	Measurements *MeasurementInput
	Actor        Actor
}

// CreateOrder opens a new order in status pending. The order row, its initial
// history entry and the customer's measurement row are written in a single
// transaction so the timeline is never empty for an order that exists.
func CreateOrder(db *gorm.DB, input CreateOrderInput) (*models.Order, error) {
	if input.Style == "" {
		return nil, invalidInput("Style is required")
	}
	if input.Price <= 0 {
		return nil, invalidInput("Price must be greater than zero")
	}

	var customer models.User
	if err := db.First(&customer, input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Customer not found")
		}
		return nil, persistence("Failed to look up customer", err)
	}
	if customer.Role != models.RoleCustomer {
		return nil, invalidInput("Orders can only be created for customer accounts")
	}

	fabricName := input.FabricName
	fabricColor := input.FabricColor
	if input.FabricID != nil {
		var fabric models.Fabric
		if err := db.First(&fabric, *input.FabricID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("Fabric not found")
			}
			return nil, persistence("Failed to look up fabric", err)
		}
		// Inline the catalog values so the order keeps them even if the
		// catalog entry changes later.
		if fabricName == "" {
			fabricName = fabric.Name
		}
		if fabricColor == "" {
			fabricColor = fabric.Color
		}
	}

	token, err := utils.GenerateOrderToken()
	if err != nil {
		return nil, persistence("Failed to generate order token", err)
	}

	order := models.Order{
		Token:       token,
		Style:       input.Style,
		FabricName:  fabricName,
		FabricColor: fabricColor,
		FabricID:    input.FabricID,
		Price:       input.Price,
		Status:      models.StatusPending,
		CustomerID:  customer.ID,
	}

	actorID := input.Actor.ID

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  models.StatusPending,
			Note:    "Order created",
			ActorID: &actorID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if input.Measurements != nil {
			if err := upsertMeasurement(tx, customer.ID, input.Measurements); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, persistence("Failed to create order", err)
	}

	if err := db.Preload("Customer").First(&order, order.ID).Error; err != nil {
		return nil, persistence("Failed to load order details", err)
	}

	return &order, nil
}

// upsertMeasurement creates or updates the single measurement row for a user.
func upsertMeasurement(tx *gorm.DB, userID uint, input *MeasurementInput) error {
	var existing models.Measurement
	err := tx.Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Measurement{
			UserID:       userID,
			Chest:        input.Chest,
			Waist:        input.Waist,
			Shoulders:    input.Shoulders,
			ArmLength:    input.ArmLength,
			JacketLength: input.JacketLength,
			Neck:         input.Neck,
			Notes:        input.Notes,
		}).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&existing).Updates(map[string]interface{}{
		"chest":         input.Chest,
		"waist":         input.Waist,
		"shoulders":     input.Shoulders,
		"arm_length":    input.ArmLength,
		"jacket_length": input.JacketLength,
		"neck":          input.Neck,
		"notes":         input.Notes,
	}).Error
}

// FindOrderByToken resolves an order by its external token.
func FindOrderByToken(db *gorm.DB, token string) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Customer").Preload("Tailor").Where("order_id = ?", token).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, persistence("Failed to look up order", err)
	}
	return &order, nil
}

// TransitionOrder moves an order to target and appends the matching history
// entry, atomically. Policy: admins may move any non-terminal order to any
// other status; tailors are limited to the production adjacency table and to
// orders assigned to them; customers may never transition. Same-status moves
// are rejected.
func TransitionOrder(db *gorm.DB, orderID uint, target models.OrderStatus, actor Actor, note string) (*models.Order, error) {
	if !target.Valid() {
		return nil, invalidInput(fmt.Sprintf("Unknown status %q", target))
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, persistence("Failed to look up order", err)
	}

	switch actor.Role {
	case models.RoleAdmin:
		if order.Status.Terminal() {
			return nil, conflict(fmt.Sprintf("Order is already %s", order.Status))
		}
		if target == order.Status {
			return nil, conflict(fmt.Sprintf("Order is already %s", target))
		}
	case models.RoleTailor:
		if order.TailorID == nil || *order.TailorID != actor.ID {
			return nil, forbidden("Order is not assigned to you")
		}
		if !order.Status.TailorCanMove(target) {
			return nil, conflict(fmt.Sprintf("Cannot move order from %s to %s", order.Status, target))
		}
	default:
		return nil, forbidden("Only admins and tailors can update order status")
	}

	if note == "" {
		note = fmt.Sprintf("Status updated to %s", target)
	}

	actorID := actor.ID
	fromStatus := order.Status

	err := db.Transaction(func(tx *gorm.DB) error {
		// Compare-and-set on the status column. If a concurrent transition
		// got there first, zero rows match and the whole operation aborts,
		// so the status field and the history trail never diverge.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, fromStatus).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return conflict("Order status changed concurrently, please retry")
		}

		return tx.Create(&models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  target,
			Note:    note,
			ActorID: &actorID,
		}).Error
	})
	if err != nil {
		var lcErr *LifecycleError
		if errors.As(err, &lcErr) {
			return nil, lcErr
		}
		return nil, persistence("Failed to update order status", err)
	}

	if err := db.Preload("Customer").Preload("Tailor").First(&order, order.ID).Error; err != nil {
		return nil, persistence("Failed to load order details", err)
	}

	// Best-effort customer notification; a mail failure never fails the call.
	if ms := GetMailService(); ms != nil {
		if err := ms.SendStatusUpdate(order.Customer.Email, order.Customer.Name, order.Token, target); err != nil {
			log.Printf("warning: failed to send status email for order %s: %v", order.Token, err)
		}
	}

	return &order, nil
}

// AssignTailor sets the tailor on an order and logs the assignment in the
// status history at the order's current status, so the audit trail stays
// complete without breaking the latest-entry invariant.
func AssignTailor(db *gorm.DB, orderID uint, tailorID uint, actor Actor) (*models.Order, error) {
	if actor.Role != models.RoleAdmin {
		return nil, forbidden("Only admins can assign tailors")
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, persistence("Failed to look up order", err)
	}
	if order.Status.Terminal() {
		return nil, conflict(fmt.Sprintf("Cannot assign a tailor to a %s order", order.Status))
	}

	var tailor models.User
	if err := db.First(&tailor, tailorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Tailor not found")
		}
		return nil, persistence("Failed to look up tailor", err)
	}
	if tailor.Role != models.RoleTailor {
		return nil, invalidInput("Assignee is not a tailor")
	}

	actorID := actor.ID

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("tailor_id", tailor.ID).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  order.Status,
			Note:    fmt.Sprintf("Tailor assigned: %s", tailor.Name),
			ActorID: &actorID,
		}).Error
	})
	if err != nil {
		return nil, persistence("Failed to assign tailor", err)
	}

	if err := db.Preload("Customer").Preload("Tailor").First(&order, order.ID).Error; err != nil {
		return nil, persistence("Failed to load order details", err)
	}

	return &order, nil
}

// OrderTimeline returns an order's status history in chronological order.
// Orders created before history logging existed have no rows; that yields an
// empty slice, not an error.
func OrderTimeline(db *gorm.DB, orderID uint) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	if err := db.Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, persistence("Failed to fetch order timeline", err)
	}
	return entries, nil
}
