package models

import "time"

// PaymentStatus represents the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid returns true when the status is a supported value.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// Payment is a tuition invoice raised against a student. InvoiceID is the
// business key (e.g. "INV24007").
type Payment struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	InvoiceID  string        `gorm:"size:16;uniqueIndex;not null" json:"invoice_id"`
	StudentID  uint          `gorm:"not null;index" json:"student_id"`
	Student    Student       `json:"student,omitempty"`
	BranchID   uint          `gorm:"not null;index" json:"branch_id"`
	Amount     float64       `gorm:"not null" json:"amount"`
	Method     string        `gorm:"size:32" json:"method"`
	Status     PaymentStatus `gorm:"size:16;not null;default:pending" json:"status"`
	DueDate    time.Time     `gorm:"not null" json:"due_date"`
	PaidAt     *time.Time    `json:"paid_at,omitempty"`
	ReceiptURL string        `gorm:"size:512" json:"receipt_url"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
