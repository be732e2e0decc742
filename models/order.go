package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order lifecycle. Completed is terminal; completed orders stay in
// storage but drop out of the dashboard's active view.
const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
)

// Delivery targets.
const (
	DeliveryTypeBeach = "beach"
	DeliveryTypeRoom  = "room"
)

type OrderLine struct {
	ItemName   string   `json:"itemName"`
	Price      float64  `json:"price"`
	Quantity   int      `json:"quantity"`
	Modifiers  []string `json:"modifiers"`
	CustomNote string   `json:"customNote"`
}

// OrderLines is stored as a JSONB column.
type OrderLines []OrderLine

func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		l = OrderLines{}
	}
	return json.Marshal(l)
}

func (l *OrderLines) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return errors.New("unsupported type for OrderLines scan")
	}
}

type Order struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	MenuType     string     `gorm:"type:varchar(20);index" json:"menuType"`
	CustomerName string     `gorm:"not null" json:"customerName"`
	Location     string     `gorm:"not null" json:"location"`
	DeliveryType string     `gorm:"type:varchar(10)" json:"deliveryType"`
	Items        OrderLines `gorm:"type:jsonb" json:"items"`
	OrderNotes   string     `json:"orderNotes"`
	Status       string     `gorm:"type:varchar(20);index;default:'new'" json:"status"`
	Timestamp    time.Time  `gorm:"index" json:"timestamp"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"`
	CompletedAt  *time.Time `gorm:"index" json:"completedAt,omitempty"`
	UserID       string     `gorm:"index" json:"userId,omitempty"`
	UserEmail    string     `json:"userEmail,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// Total sums price*quantity across all lines.
func (o *Order) Total() float64 {
	var total float64
	for _, line := range o.Items {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// ValidStatusTransition reports whether a staff action may move an
// order from one status to another. Completed has no way back.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case OrderStatusNew:
		return to == OrderStatusConfirmed || to == OrderStatusCompleted
	case OrderStatusConfirmed:
		return to == OrderStatusCompleted
	default:
		return false
	}
}
