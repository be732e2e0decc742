package models

import (
	"time"

	"bayorder-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a guest account. Guests can order without one; an account
// remembers the room number and makes past orders reorderable.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"not null" json:"displayName"`
	RoomNumber  string    `json:"roomNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Hash the password before the row is written.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
