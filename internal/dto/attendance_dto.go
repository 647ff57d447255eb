package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// CompensationDetailsPayload carries the four compensation fields on an
// attendance write.
type CompensationDetailsPayload struct {
	OriginalClassDate   string `json:"original_class_date" validate:"required,datetime=2006-01-02"`
	OriginalBatchID     uint   `json:"original_batch_id" validate:"required"`
	CompensationBatchID uint   `json:"compensation_batch_id" validate:"required"`
	Branch              string `json:"branch" validate:"required"`
}

// AttendanceRecordRequest describes the payload for recording attendance.
type AttendanceRecordRequest struct {
	EnrollmentID uint                        `json:"enrollment_id" validate:"required"`
	Date         string                      `json:"date" validate:"required,datetime=2006-01-02"`
	Status       models.AttendanceStatus     `json:"status" validate:"required"`
	Remarks      string                      `json:"remarks"`
	Compensation *CompensationDetailsPayload `json:"compensation_details"`
}

// AttendanceRecordResponse is the serialized representation of one record.
type AttendanceRecordResponse struct {
	ID           uint                        `json:"id"`
	EnrollmentID uint                        `json:"enrollment_id"`
	Date         time.Time                   `json:"date"`
	Status       models.AttendanceStatus     `json:"status"`
	Remarks      string                      `json:"remarks,omitempty"`
	Compensation *models.CompensationDetails `json:"compensation_details,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// NewAttendanceRecordResponse converts a model into a DTO.
func NewAttendanceRecordResponse(model models.AttendanceRecord) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:           model.ID,
		EnrollmentID: model.EnrollmentID,
		Date:         model.Date,
		Status:       model.Status,
		Remarks:      model.Remarks,
		Compensation: model.Compensation,
		CreatedAt:    model.CreatedAt,
	}
}

// NewAttendanceRecordResponseSlice converts a slice of models into DTOs.
func NewAttendanceRecordResponseSlice(records []models.AttendanceRecord) []AttendanceRecordResponse {
	responses := make([]AttendanceRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceRecordResponse(record))
	}

	return responses
}

// AttendanceSummaryResponse is the per-status percentage breakdown for a set
// of records. Percentages are rounded independently; their sum may not equal
// exactly 100 and is deliberately not normalized.
type AttendanceSummaryResponse struct {
	Total       int                             `json:"total"`
	Percentages map[models.AttendanceStatus]int `json:"percentages"`
}
