package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved shipping address in a user's address book. Exactly one
// address per user may be the default; the service flips the flag explicitly,
// there are no persistence-layer side effects.
type Address struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	FullName   string    `gorm:"column:full_name;not null" json:"full_name"`
	Phone      string    `gorm:"column:phone;not null" json:"phone"`
	Line1      string    `gorm:"column:line1;not null" json:"line1"`
	Line2      *string   `gorm:"column:line2" json:"line2,omitempty"`
	City       string    `gorm:"column:city;not null" json:"city"`
	State      string    `gorm:"column:state;not null" json:"state"`
	PostalCode string    `gorm:"column:postal_code;not null" json:"postal_code"`
	Country    string    `gorm:"column:country;not null;default:'IN'" json:"country"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false" json:"is_default"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
