package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// PaymentCreateRequest describes the payload raising a tuition invoice.
type PaymentCreateRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method"`
	DueDate   string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// PaymentSettleRequest marks an invoice as paid.
type PaymentSettleRequest struct {
	Method string `json:"method" validate:"required"`
}

// PaymentResponse is the serialized representation of an invoice.
type PaymentResponse struct {
	ID         uint                 `json:"id"`
	InvoiceID  string               `json:"invoice_id"`
	StudentID  uint                 `json:"student_id"`
	BranchID   uint                 `json:"branch_id"`
	Amount     float64              `json:"amount"`
	Method     string               `json:"method,omitempty"`
	Status     models.PaymentStatus `json:"status"`
	DueDate    time.Time            `json:"due_date"`
	PaidAt     *time.Time           `json:"paid_at,omitempty"`
	ReceiptURL string               `json:"receipt_url,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// NewPaymentResponse converts a model into a DTO.
func NewPaymentResponse(model models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         model.ID,
		InvoiceID:  model.InvoiceID,
		StudentID:  model.StudentID,
		BranchID:   model.BranchID,
		Amount:     model.Amount,
		Method:     model.Method,
		Status:     model.Status,
		DueDate:    model.DueDate,
		PaidAt:     model.PaidAt,
		ReceiptURL: model.ReceiptURL,
		CreatedAt:  model.CreatedAt,
	}
}

// NewPaymentResponseSlice converts a slice of models into DTOs.
func NewPaymentResponseSlice(payments []models.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, NewPaymentResponse(payment))
	}

	return responses
}

// PagedPaymentsResponse wraps a payment page with its total count.
type PagedPaymentsResponse struct {
	Items []PaymentResponse `json:"items"`
	Total int64             `json:"total"`
}
