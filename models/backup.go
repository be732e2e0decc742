package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RawJSON stores an already-serialized JSON document.
type RawJSON json.RawMessage

func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return []byte(r), nil
}

func (r *RawJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*r = append((*r)[:0], v...)
		return nil
	case string:
		*r = RawJSON(v)
		return nil
	case nil:
		*r = nil
		return nil
	default:
		return errors.New("unsupported type for RawJSON scan")
	}
}

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *RawJSON) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// MenuBackup is an immutable snapshot of a production menu taken right
// before a publish overwrote it. Backups are never updated or deleted.
type MenuBackup struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	Filename    string    `gorm:"uniqueIndex;not null" json:"filename"`
	PublishedBy string    `json:"publishedBy"`
	Snapshot    RawJSON   `gorm:"type:jsonb" json:"-"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"timestamp"`
}

func (b *MenuBackup) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
