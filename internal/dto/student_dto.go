package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// StudentCreateRequest describes the payload for registering a new student.
type StudentCreateRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	ParentID  uint   `json:"parent_id" validate:"required"`
	BranchID  uint   `json:"branch_id" validate:"required"`
	BatchID   *uint  `json:"batch_id"`
}

// StudentUpdateRequest describes the payload for updating a student.
type StudentUpdateRequest struct {
	FirstName *string               `json:"first_name" validate:"omitempty,min=2"`
	LastName  *string               `json:"last_name" validate:"omitempty,min=2"`
	BatchID   *uint                 `json:"batch_id"`
	Status    *models.StudentStatus `json:"status"`
}

// StudentResponse is the serialized representation returned to API clients.
type StudentResponse struct {
	ID        uint                 `json:"id"`
	StudentID string               `json:"student_id"`
	FirstName string               `json:"first_name"`
	LastName  string               `json:"last_name"`
	ParentID  uint                 `json:"parent_id"`
	BatchID   *uint                `json:"batch_id,omitempty"`
	BatchCode string               `json:"batch_code,omitempty"`
	BranchID  uint                 `json:"branch_id"`
	Branch    string               `json:"branch,omitempty"`
	PhotoURL  string               `json:"photo_url,omitempty"`
	Status    models.StudentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	response := StudentResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		ParentID:  model.ParentID,
		BatchID:   model.BatchID,
		BranchID:  model.BranchID,
		Branch:    model.Branch.Name,
		PhotoURL:  model.PhotoURL,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if model.Batch != nil {
		response.BatchCode = model.Batch.Code
	}

	return response
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}

// PagedStudentsResponse wraps a student page with its total count.
type PagedStudentsResponse struct {
	Items []StudentResponse `json:"items"`
	Total int64             `json:"total"`
}
