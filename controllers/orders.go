package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"bayorder-backend/models"
	"bayorder-backend/services"
	"bayorder-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderLineInput struct {
	ItemName   string   `json:"itemName" binding:"required"`
	Price      float64  `json:"price" binding:"required,gt=0"`
	Quantity   int      `json:"quantity" binding:"required,min=1"`
	Modifiers  []string `json:"modifiers"`
	CustomNote string   `json:"customNote"`
}

type CreateOrderInput struct {
	MenuType     string           `json:"menuType" binding:"required"`
	CustomerName string           `json:"customerName" binding:"required"`
	Location     string           `json:"location" binding:"required"`
	DeliveryType string           `json:"deliveryType" binding:"required"`
	Items        []OrderLineInput `json:"items" binding:"required,min=1,dive"`
	OrderNotes   string           `json:"orderNotes"`
}

// OrderController handles customer order submission and the staff
// dashboard's order views and status transitions.
type OrderController struct {
	DB       *gorm.DB
	Feed     *services.OrderFeed
	Notifier *services.OrderNotifier
}

// Create submits an order. The ID and timestamp are server-assigned;
// the client's clock is never trusted. Nothing is written when
// validation fails, so the customer keeps their cart and can resubmit.
func (oc *OrderController) Create(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.MenuType != models.MenuTypeBeachDrinks && input.MenuType != models.MenuTypeRoomService {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid menu type")
		return
	}
	switch input.DeliveryType {
	case models.DeliveryTypeBeach:
	case models.DeliveryTypeRoom:
		if !utils.ValidateRoomNumber(input.Location) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid room number")
			return
		}
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid delivery type")
		return
	}

	lines := make(models.OrderLines, 0, len(input.Items))
	for _, item := range input.Items {
		modifiers := item.Modifiers
		if modifiers == nil {
			modifiers = []string{}
		}
		lines = append(lines, models.OrderLine{
			ItemName:   item.ItemName,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Modifiers:  modifiers,
			CustomNote: item.CustomNote,
		})
	}

	order := models.Order{
		MenuType:     input.MenuType,
		CustomerName: input.CustomerName,
		Location:     input.Location,
		DeliveryType: input.DeliveryType,
		Items:        lines,
		OrderNotes:   input.OrderNotes,
		Status:       models.OrderStatusNew,
		Timestamp:    time.Now().UTC(),
	}

	// Link the order when a guest session token came along.
	if userID, exists := c.Get("userId"); exists {
		order.UserID, _ = userID.(string)
	}
	if userEmail, exists := c.Get("userEmail"); exists {
		order.UserEmail, _ = userEmail.(string)
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save order")
		return
	}

	oc.broadcastActive()
	if oc.Notifier != nil {
		go oc.Notifier.NotifyNewOrder(&order)
	}

	c.JSON(http.StatusCreated, order)
}

// Active lists orders still in flight for the dashboard, newest first.
func (oc *OrderController) Active(c *gin.Context) {
	orders, err := oc.loadActive()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Confirm moves a new order to confirmed.
func (oc *OrderController) Confirm(c *gin.Context) {
	oc.transition(c, models.OrderStatusConfirmed)
}

// Complete moves an order to its terminal state. The order drops out
// of the active view but stays in storage.
func (oc *OrderController) Complete(c *gin.Context) {
	oc.transition(c, models.OrderStatusCompleted)
}

func (oc *OrderController) transition(c *gin.Context, to string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !models.ValidStatusTransition(order.Status, to) {
		utils.RespondWithError(c, http.StatusConflict, "Cannot move order from "+order.Status+" to "+to)
		return
	}

	now := time.Now().UTC()
	order.Status = to
	switch to {
	case models.OrderStatusConfirmed:
		order.ConfirmedAt = &now
	case models.OrderStatusCompleted:
		order.CompletedAt = &now
	}

	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	oc.broadcastActive()
	c.JSON(http.StatusOK, order)
}

// History lists completed orders within a time window, newest first.
// Defaults to the last 24 hours when no lower bound is given.
func (oc *OrderController) History(c *gin.Context) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid since timestamp, expected RFC3339")
			return
		}
		since = parsed
	}

	var orders []models.Order
	err := oc.DB.
		Where("status = ? AND completed_at >= ?", models.OrderStatusCompleted, since).
		Order("completed_at desc").
		Find(&orders).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, orders)
}

// Mine lists the signed-in guest's own orders, backing the reorder
// shortcut on the ordering page.
func (oc *OrderController) Mine(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var orders []models.Order
	err := oc.DB.
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(20).
		Find(&orders).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, orders)
}

// Stream is the dashboard's live feed: an SSE subscription that gets
// the current active snapshot on connect and a fresh snapshot on every
// order change. Disconnecting cancels the subscription.
func (oc *OrderController) Stream(c *gin.Context) {
	// Subscribe before reading the snapshot. An order that lands in
	// between is then delivered as the next broadcast instead of being
	// invisible until something else changes.
	ch, cancel := oc.Feed.Subscribe()
	defer cancel()

	orders, err := oc.loadActive()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("orders", orders)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("orders", snapshot)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (oc *OrderController) loadActive() ([]models.Order, error) {
	var orders []models.Order
	err := oc.DB.
		Where("status <> ?", models.OrderStatusCompleted).
		Order("timestamp desc").
		Find(&orders).Error
	return orders, err
}

func (oc *OrderController) broadcastActive() {
	if oc.Feed == nil {
		return
	}
	orders, err := oc.loadActive()
	if err != nil {
		return
	}
	oc.Feed.Broadcast(orders)
}
