package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// MessageSendRequest describes the payload for sending a message.
type MessageSendRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject" validate:"max=255"`
	Body        string `json:"body" validate:"required,min=1"`
}

// MessageResponse is the serialized representation of a message.
type MessageResponse struct {
	ID          uint       `json:"id"`
	SenderID    uint       `json:"sender_id"`
	RecipientID uint       `json:"recipient_id"`
	Subject     string     `json:"subject,omitempty"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewMessageResponse converts a model into a DTO.
func NewMessageResponse(model models.Message) MessageResponse {
	return MessageResponse{
		ID:          model.ID,
		SenderID:    model.SenderID,
		RecipientID: model.RecipientID,
		Subject:     model.Subject,
		Body:        model.Body,
		ReadAt:      model.ReadAt,
		CreatedAt:   model.CreatedAt,
	}
}

// NewMessageResponseSlice converts a slice of models into DTOs.
func NewMessageResponseSlice(messages []models.Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, NewMessageResponse(message))
	}

	return responses
}

// NotificationEvent is pushed over the websocket stream when something a user
// cares about happens (new message, compensation status change).
type NotificationEvent struct {
	Kind      string      `json:"kind"`
	UserID    uint        `json:"user_id"`
	Payload   interface{} `json:"payload,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
