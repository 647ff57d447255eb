package models

import "time"

// EnrollmentStatus represents the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// Valid returns true when the status is a supported value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusDropped:
		return true
	default:
		return false
	}
}

// Enrollment binds a student to a batch. At most one active enrollment may
// exist per (student, batch) pair; the service layer enforces this.
type Enrollment struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	StudentID      uint             `gorm:"not null;index:idx_enrollment_pair" json:"student_id"`
	Student        Student          `json:"student,omitempty"`
	BatchID        uint             `gorm:"not null;index:idx_enrollment_pair" json:"batch_id"`
	Batch          Batch            `json:"batch,omitempty"`
	EnrollmentDate time.Time        `gorm:"not null" json:"enrollment_date"`
	Status         EnrollmentStatus `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
