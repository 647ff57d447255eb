package models

import (
	"regexp"
	"time"
)

// BatchStatus represents the lifecycle state of a batch.
type BatchStatus string

const (
	BatchStatusUpcoming BatchStatus = "upcoming"
	BatchStatusActive   BatchStatus = "active"
	BatchStatusFinished BatchStatus = "finished"
)

// Valid returns true when the status is a supported value.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchStatusUpcoming, BatchStatusActive, BatchStatusFinished:
		return true
	default:
		return false
	}
}

// batchCodePattern matches the CCBBSSYY batch naming format: two characters
// each for course, branch, slot and year.
var batchCodePattern = regexp.MustCompile(`^[A-Z0-9]{2}[A-Z0-9]{2}[0-9]{2}[0-9]{2}$`)

// ValidBatchCode reports whether code follows the CCBBSSYY format.
func ValidBatchCode(code string) bool {
	return batchCodePattern.MatchString(code)
}

// Batch is a scheduled, recurring class grouping that students enroll into.
type Batch struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Code      string      `gorm:"size:8;uniqueIndex;not null" json:"code"`
	CourseID  uint        `gorm:"not null;index" json:"course_id"`
	Course    Course      `json:"course,omitempty"`
	BranchID  uint        `gorm:"not null;index" json:"branch_id"`
	Branch    Branch      `json:"branch,omitempty"`
	TeacherID *uint       `gorm:"index" json:"teacher_id,omitempty"`
	Teacher   *User       `json:"teacher,omitempty"`
	TimeSlot  string      `gorm:"size:64" json:"time_slot"`
	Room      string      `gorm:"size:64" json:"room"`
	Capacity  int         `gorm:"not null;default:20" json:"capacity"`
	StartDate time.Time   `gorm:"not null" json:"start_date"`
	EndDate   time.Time   `gorm:"not null" json:"end_date"`
	Status    BatchStatus `gorm:"size:16;not null;default:upcoming" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Contains reports whether date falls inside the batch's active window.
// Comparison is date-granular; the boundary days are inclusive.
func (b Batch) Contains(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	start := b.StartDate.Truncate(24 * time.Hour)
	end := b.EndDate.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}
