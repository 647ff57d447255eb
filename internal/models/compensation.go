package models

import "time"

// CompensationStatus represents the lifecycle state of a compensation request.
type CompensationStatus string

const (
	CompensationStatusPending   CompensationStatus = "pending"
	CompensationStatusApproved  CompensationStatus = "approved"
	CompensationStatusRejected  CompensationStatus = "rejected"
	CompensationStatusCompleted CompensationStatus = "completed"
)

// Valid returns true when the status is a supported value.
func (s CompensationStatus) Valid() bool {
	switch s {
	case CompensationStatusPending, CompensationStatusApproved,
		CompensationStatusRejected, CompensationStatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine allows moving from s to
// next. Allowed: pending→approved, pending→rejected, approved→completed.
func (s CompensationStatus) CanTransitionTo(next CompensationStatus) bool {
	switch s {
	case CompensationStatusPending:
		return next == CompensationStatusApproved || next == CompensationStatusRejected
	case CompensationStatusApproved:
		return next == CompensationStatusCompleted
	default:
		return false
	}
}

// CompensationRequest proposes relocating a missed class to a different batch,
// possibly at a different branch, without changing the student's permanent
// batch assignment.
type CompensationRequest struct {
	ID                  uint               `gorm:"primaryKey" json:"id"`
	StudentID           uint               `gorm:"not null;index" json:"student_id"`
	Student             Student            `json:"student,omitempty"`
	OriginalBatchID     uint               `gorm:"not null;index" json:"original_batch_id"`
	OriginalBatch       Batch              `gorm:"foreignKey:OriginalBatchID" json:"original_batch,omitempty"`
	CompensationBatchID uint               `gorm:"not null;index" json:"compensation_batch_id"`
	CompensationBatch   Batch              `gorm:"foreignKey:CompensationBatchID" json:"compensation_batch,omitempty"`
	OriginalClassDate   time.Time          `gorm:"not null" json:"original_class_date"`
	RequestedDate       time.Time          `gorm:"not null" json:"requested_compensation_date"`
	Status              CompensationStatus `gorm:"size:16;not null;default:pending" json:"status"`
	Remarks             string             `gorm:"type:text" json:"remarks"`
	RequestedBy         uint               `gorm:"index" json:"requested_by"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}
