package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// CompensationCreateRequest describes the payload proposing a makeup class.
type CompensationCreateRequest struct {
	StudentID           uint   `json:"student_id" validate:"required"`
	OriginalBatchID     uint   `json:"original_batch_id" validate:"required"`
	CompensationBatchID uint   `json:"compensation_batch_id" validate:"required"`
	OriginalClassDate   string `json:"original_class_date" validate:"required,datetime=2006-01-02"`
	RequestedDate       string `json:"requested_compensation_date" validate:"required,datetime=2006-01-02"`
	Remarks             string `json:"remarks"`
}

// CompensationTransitionRequest describes a status change.
type CompensationTransitionRequest struct {
	Status models.CompensationStatus `json:"status" validate:"required"`
}

// CompensationResponse is the serialized representation of a request.
type CompensationResponse struct {
	ID                  uint                      `json:"id"`
	StudentID           uint                      `json:"student_id"`
	OriginalBatchID     uint                      `json:"original_batch_id"`
	CompensationBatchID uint                      `json:"compensation_batch_id"`
	OriginalClassDate   time.Time                 `json:"original_class_date"`
	RequestedDate       time.Time                 `json:"requested_compensation_date"`
	Status              models.CompensationStatus `json:"status"`
	Remarks             string                    `json:"remarks,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// NewCompensationResponse converts a model into a DTO.
func NewCompensationResponse(model models.CompensationRequest) CompensationResponse {
	return CompensationResponse{
		ID:                  model.ID,
		StudentID:           model.StudentID,
		OriginalBatchID:     model.OriginalBatchID,
		CompensationBatchID: model.CompensationBatchID,
		OriginalClassDate:   model.OriginalClassDate,
		RequestedDate:       model.RequestedDate,
		Status:              model.Status,
		Remarks:             model.Remarks,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

// NewCompensationResponseSlice converts a slice of models into DTOs.
func NewCompensationResponseSlice(requests []models.CompensationRequest) []CompensationResponse {
	responses := make([]CompensationResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, NewCompensationResponse(request))
	}

	return responses
}

// PagedCompensationsResponse wraps a page with its total count.
type PagedCompensationsResponse struct {
	Items []CompensationResponse `json:"items"`
	Total int64                  `json:"total"`
}
