package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// BatchCreateRequest describes the payload for creating a batch.
type BatchCreateRequest struct {
	Code      string `json:"code" validate:"required,len=8"`
	CourseID  uint   `json:"course_id" validate:"required"`
	BranchID  uint   `json:"branch_id" validate:"required"`
	TeacherID *uint  `json:"teacher_id"`
	TimeSlot  string `json:"time_slot" validate:"required"`
	Room      string `json:"room"`
	Capacity  int    `json:"capacity" validate:"required,min=1"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// BatchResponse is the serialized representation returned to API clients.
type BatchResponse struct {
	ID        uint               `json:"id"`
	Code      string             `json:"code"`
	CourseID  uint               `json:"course_id"`
	Course    string             `json:"course,omitempty"`
	BranchID  uint               `json:"branch_id"`
	Branch    string             `json:"branch,omitempty"`
	TeacherID *uint              `json:"teacher_id,omitempty"`
	TimeSlot  string             `json:"time_slot"`
	Room      string             `json:"room"`
	Capacity  int                `json:"capacity"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Status    models.BatchStatus `json:"status"`
}

// NewBatchResponse converts a model into a DTO.
func NewBatchResponse(model models.Batch) BatchResponse {
	return BatchResponse{
		ID:        model.ID,
		Code:      model.Code,
		CourseID:  model.CourseID,
		Course:    model.Course.Name,
		BranchID:  model.BranchID,
		Branch:    model.Branch.Name,
		TeacherID: model.TeacherID,
		TimeSlot:  model.TimeSlot,
		Room:      model.Room,
		Capacity:  model.Capacity,
		StartDate: model.StartDate,
		EndDate:   model.EndDate,
		Status:    model.Status,
	}
}

// NewBatchResponseSlice converts a slice of models into DTOs.
func NewBatchResponseSlice(batches []models.Batch) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, NewBatchResponse(batch))
	}

	return responses
}

// PagedBatchesResponse wraps a batch page with its total count.
type PagedBatchesResponse struct {
	Items []BatchResponse `json:"items"`
	Total int64           `json:"total"`
}

// BranchRequest describes the payload for creating or updating a branch.
type BranchRequest struct {
	Code    string `json:"code" validate:"required,min=2,max=8"`
	Name    string `json:"name" validate:"required,min=2"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CourseRequest describes the payload for creating or updating a course.
type CourseRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=8"`
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}
