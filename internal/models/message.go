package models

import (
	"time"

	"gorm.io/datatypes"
)

// Message is an in-app message between two users. Bodies are sanitized before
// storage; Attachments carries upload metadata as JSON.
type Message struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SenderID    uint           `gorm:"not null;index" json:"sender_id"`
	Sender      User           `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uint           `gorm:"not null;index" json:"recipient_id"`
	Recipient   User           `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Subject     string         `gorm:"size:255" json:"subject"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	Attachments datatypes.JSON `json:"attachments,omitempty"`
	ReadAt      *time.Time     `json:"read_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
