package models

import "time"

// Course is the brand identity a batch teaches. Compensation classes may move
// between batches only when both batches share the same course.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:8;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
