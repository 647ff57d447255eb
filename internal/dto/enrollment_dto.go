package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// EnrollmentCreateRequest describes the payload binding a student to a batch.
type EnrollmentCreateRequest struct {
	StudentID      uint   `json:"student_id" validate:"required"`
	BatchID        uint   `json:"batch_id" validate:"required"`
	EnrollmentDate string `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
}

// EnrollmentResponse is the serialized representation of an enrollment.
type EnrollmentResponse struct {
	ID             uint                    `json:"id"`
	StudentID      uint                    `json:"student_id"`
	BatchID        uint                    `json:"batch_id"`
	BatchCode      string                  `json:"batch_code,omitempty"`
	EnrollmentDate time.Time               `json:"enrollment_date"`
	Status         models.EnrollmentStatus `json:"status"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:             model.ID,
		StudentID:      model.StudentID,
		BatchID:        model.BatchID,
		BatchCode:      model.Batch.Code,
		EnrollmentDate: model.EnrollmentDate,
		Status:         model.Status,
	}
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
