package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Menu slots. Staging holds the latest spreadsheet import, production is
// what the ordering pages serve.
const (
	SlotStaging    = "staging"
	SlotProduction = "production"
)

// Menu sections. These strings are part of the wire format shared with
// the ordering UI and the spreadsheet type column.
const (
	MenuTypeBeachDrinks = "beachDrinks"
	MenuTypeRoomService = "roomService"
)

type MenuItem struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	Image     string   `json:"image"`
	Available bool     `json:"available"`
	Modifiers []string `json:"modifiers"`
}

// MenuItems is stored as a JSONB column.
type MenuItems []MenuItem

func (m MenuItems) Value() (driver.Value, error) {
	if m == nil {
		m = MenuItems{}
	}
	return json.Marshal(m)
}

func (m *MenuItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	default:
		return errors.New("unsupported type for MenuItems scan")
	}
}

// MenuDocument is one menu slot. Exactly two rows exist at most:
// staging and production. Imports and publishes overwrite a slot
// wholesale, never item by item.
type MenuDocument struct {
	Slot        string    `gorm:"primaryKey;type:varchar(20)" json:"-"`
	BeachDrinks MenuItems `gorm:"type:jsonb" json:"beachDrinks"`
	RoomService MenuItems `gorm:"type:jsonb" json:"roomService"`
	LastUpdated time.Time `json:"lastUpdated"`
	UpdatedBy   string    `json:"updatedBy"`
	ItemCount   int       `json:"itemCount"`
}

func (MenuDocument) TableName() string {
	return "menu_documents"
}

// TotalItems counts items across both sections.
func (d *MenuDocument) TotalItems() int {
	return len(d.BeachDrinks) + len(d.RoomService)
}

// Items returns the section list for a menu type, nil for unknown types.
func (d *MenuDocument) Items(menuType string) MenuItems {
	switch menuType {
	case MenuTypeBeachDrinks:
		return d.BeachDrinks
	case MenuTypeRoomService:
		return d.RoomService
	}
	return nil
}
