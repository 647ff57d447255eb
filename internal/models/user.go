package models

import "time"

// User represents an account that can authenticate against the API.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;index" json:"role"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Address      string    `gorm:"type:text" json:"address"`
	BranchID     *uint     `gorm:"index" json:"branch_id,omitempty"`
	Branch       *Branch   `json:"branch,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
