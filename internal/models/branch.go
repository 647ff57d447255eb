package models

import "time"

// Branch represents a physical school location.
type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:8;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:32" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
