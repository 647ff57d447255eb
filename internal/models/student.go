package models

import "time"

// StudentStatus represents a student's registration state.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
	StudentStatusAlumni   StudentStatus = "alumni"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusAlumni:
		return true
	default:
		return false
	}
}

// Student represents an enrolled learner. StudentID is the business key
// (e.g. "STU10284"); ParentID references a user holding the parent role.
type Student struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	StudentID string        `gorm:"size:16;uniqueIndex;not null" json:"student_id"`
	FirstName string        `gorm:"size:128;not null" json:"first_name"`
	LastName  string        `gorm:"size:128;not null" json:"last_name"`
	ParentID  uint          `gorm:"not null;index" json:"parent_id"`
	Parent    *User         `json:"parent,omitempty"`
	BatchID   *uint         `gorm:"index" json:"batch_id,omitempty"`
	Batch     *Batch        `json:"batch,omitempty"`
	BranchID  uint          `gorm:"not null;index" json:"branch_id"`
	Branch    Branch        `json:"branch,omitempty"`
	PhotoURL  string        `gorm:"size:512" json:"photo_url"`
	Status    StudentStatus `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
