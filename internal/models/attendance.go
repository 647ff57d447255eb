package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent      AttendanceStatus = "present"
	AttendanceStatusAbsent       AttendanceStatus = "absent"
	AttendanceStatusLate         AttendanceStatus = "late"
	AttendanceStatusExcused      AttendanceStatus = "excused"
	AttendanceStatusLeave        AttendanceStatus = "leave"
	AttendanceStatusClassCancel  AttendanceStatus = "class_cancel"
	AttendanceStatusCompensation AttendanceStatus = "compensation"
)

// AttendanceStatuses lists every supported status in a stable order. Summaries
// zero-initialize all of them so callers always see the full vocabulary.
var AttendanceStatuses = []AttendanceStatus{
	AttendanceStatusPresent,
	AttendanceStatusAbsent,
	AttendanceStatusLate,
	AttendanceStatusExcused,
	AttendanceStatusLeave,
	AttendanceStatusClassCancel,
	AttendanceStatusCompensation,
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate,
		AttendanceStatusExcused, AttendanceStatusLeave, AttendanceStatusClassCancel,
		AttendanceStatusCompensation:
		return true
	default:
		return false
	}
}

// CompensationDetails captures where a missed class was made up. Present on an
// attendance record exactly when its status is compensation.
type CompensationDetails struct {
	OriginalClassDate   time.Time `json:"original_class_date"`
	OriginalBatchID     uint      `json:"original_batch_id"`
	CompensationBatchID uint      `json:"compensation_batch_id"`
	Branch              string    `gorm:"size:64" json:"branch"`
}

// Complete reports whether all four required compensation fields are populated.
func (d CompensationDetails) Complete() bool {
	return !d.OriginalClassDate.IsZero() && d.OriginalBatchID != 0 &&
		d.CompensationBatchID != 0 && d.Branch != ""
}

// AttendanceRecord is one row per (enrollment, date). Records are immutable
// once created; correction flows live outside this service.
type AttendanceRecord struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	EnrollmentID uint                 `gorm:"not null;uniqueIndex:idx_attendance_day" json:"enrollment_id"`
	Enrollment   Enrollment           `json:"enrollment,omitempty"`
	Date         time.Time            `gorm:"not null;uniqueIndex:idx_attendance_day" json:"date"`
	Status       AttendanceStatus     `gorm:"size:16;not null" json:"status"`
	Remarks      string               `gorm:"type:text" json:"remarks"`
	Compensation *CompensationDetails `gorm:"embedded;embeddedPrefix:comp_" json:"compensation_details,omitempty"`
	RecordedBy   uint                 `gorm:"index" json:"recorded_by"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
