package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

var (
	// ErrPaymentNotFound indicates the requested invoice does not exist.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentAlreadySettled indicates the invoice is not pending.
	ErrPaymentAlreadySettled = errors.New("payment is not pending settlement")
	// ErrPaymentValidation indicates a constraint-violating payment payload.
	ErrPaymentValidation = errors.New("payment validation failed")
)

// PaymentService raises and settles tuition invoices. Invoice keys follow the
// INVYYNNN format, two year digits plus a running sequence.
type PaymentService interface {
	Create(ctx context.Context, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error)
	Settle(ctx context.Context, id uint, payload dto.PaymentSettleRequest) (dto.PaymentResponse, error)
	AttachReceipt(ctx context.Context, id uint, file *multipart.FileHeader) (dto.PaymentResponse, error)
	Get(ctx context.Context, id uint) (dto.PaymentResponse, error)
	List(ctx context.Context, filter repository.PaymentFilter) (dto.PagedPaymentsResponse, error)
}

type paymentService struct {
	payments repository.PaymentRepository
	students repository.StudentRepository
	media    MediaService
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPaymentService builds a new payment service.
func NewPaymentService(payments repository.PaymentRepository, students repository.StudentRepository, media MediaService, validate *validator.Validate, logger zerolog.Logger) PaymentService {
	return &paymentService{
		payments: payments,
		students: students,
		media:    media,
		validate: validate,
		logger:   logger.With().Str("component", "payment_service").Logger(),
		now:      time.Now,
	}
}

func (s *paymentService) Create(ctx context.Context, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrStudentNotFound
		}
		return dto.PaymentResponse{}, err
	}

	dueDate, err := time.Parse(dateLayout, payload.DueDate)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("%w: invalid due date", ErrPaymentValidation)
	}

	payment := models.Payment{
		InvoiceID: s.nextInvoiceID(),
		StudentID: student.ID,
		BranchID:  student.BranchID,
		Amount:    payload.Amount,
		Method:    payload.Method,
		Status:    models.PaymentStatusPending,
		DueDate:   dueDate,
	}

	if err := s.payments.Create(ctx, &payment); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().
		Str("invoice_id", payment.InvoiceID).
		Float64("amount", payment.Amount).
		Msg("invoice raised")

	return dto.NewPaymentResponse(payment), nil
}

// nextInvoiceID derives a key like "INV2400731". The two year digits keep
// invoices sortable per fiscal year; the tail disambiguates within the year.
func (s *paymentService) nextInvoiceID() string {
	now := s.now()
	return fmt.Sprintf("INV%02d%05d", now.Year()%100, now.UnixNano()%100000)
}

func (s *paymentService) Settle(ctx context.Context, id uint, payload dto.PaymentSettleRequest) (dto.PaymentResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentResponse{}, err
	}

	if payment.Status != models.PaymentStatusPending && payment.Status != models.PaymentStatusOverdue {
		return dto.PaymentResponse{}, ErrPaymentAlreadySettled
	}

	paidAt := s.now()
	payment.Status = models.PaymentStatusPaid
	payment.Method = payload.Method
	payment.PaidAt = &paidAt

	if err := s.payments.Update(ctx, &payment); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().Str("invoice_id", payment.InvoiceID).Msg("invoice settled")

	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) AttachReceipt(ctx context.Context, id uint, file *multipart.FileHeader) (dto.PaymentResponse, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentResponse{}, err
	}

	url, err := s.media.Store(ctx, file)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	payment.ReceiptURL = url
	if err := s.payments.Update(ctx, &payment); err != nil {
		return dto.PaymentResponse{}, err
	}

	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) Get(ctx context.Context, id uint) (dto.PaymentResponse, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentResponse{}, err
	}

	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) List(ctx context.Context, filter repository.PaymentFilter) (dto.PagedPaymentsResponse, error) {
	payments, total, err := s.payments.ListWithFilter(ctx, filter)
	if err != nil {
		return dto.PagedPaymentsResponse{}, err
	}

	return dto.PagedPaymentsResponse{
		Items: dto.NewPaymentResponseSlice(payments),
		Total: total,
	}, nil
}
