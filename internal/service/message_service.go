package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

var (
	// ErrMessageNotFound indicates the requested message does not exist.
	ErrMessageNotFound = errors.New("message not found")
	// ErrMessageForbidden indicates the caller is neither sender nor recipient.
	ErrMessageForbidden = errors.New("message does not involve this user")
	// ErrMessageValidation indicates a constraint-violating message payload.
	ErrMessageValidation = errors.New("message validation failed")
)

// MessageService delivers in-app messages between users. Bodies pass through
// a strict HTML sanitizer before storage; every send publishes an event so
// the notifier can push it to connected recipients.
type MessageService interface {
	Send(ctx context.Context, senderID uint, payload dto.MessageSendRequest) (dto.MessageResponse, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]dto.MessageResponse, error)
	MarkRead(ctx context.Context, id, userID uint) (dto.MessageResponse, error)
}

type messageService struct {
	messages  repository.MessageRepository
	users     repository.UserRepository
	publisher EventPublisher
	sanitizer *bluemonday.Policy
	validate  *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewMessageService builds a new message service.
func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, publisher EventPublisher, validate *validator.Validate, logger zerolog.Logger) MessageService {
	return &messageService{
		messages:  messages,
		users:     users,
		publisher: publisher,
		sanitizer: bluemonday.StrictPolicy(),
		validate:  validate,
		logger:    logger.With().Str("component", "message_service").Logger(),
		now:       time.Now,
	}
}

func (s *messageService) Send(ctx context.Context, senderID uint, payload dto.MessageSendRequest) (dto.MessageResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}

	if payload.RecipientID == senderID {
		return dto.MessageResponse{}, fmt.Errorf("%w: cannot message yourself", ErrMessageValidation)
	}

	if _, err := s.users.GetByID(ctx, payload.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, fmt.Errorf("%w: recipient not found", ErrMessageValidation)
		}
		return dto.MessageResponse{}, err
	}

	body := strings.TrimSpace(s.sanitizer.Sanitize(payload.Body))
	if body == "" {
		return dto.MessageResponse{}, fmt.Errorf("%w: body empty after sanitization", ErrMessageValidation)
	}

	message := models.Message{
		SenderID:    senderID,
		RecipientID: payload.RecipientID,
		Subject:     strings.TrimSpace(s.sanitizer.Sanitize(payload.Subject)),
		Body:        body,
	}

	if err := s.messages.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, err
	}

	_ = s.publisher.Publish(SubjectMessageSent, MessageEvent{
		MessageID:   message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Subject:     message.Subject,
		OccurredAt:  s.now(),
	})

	s.logger.Info().
		Uint("message_id", message.ID).
		Uint("recipient_id", message.RecipientID).
		Msg("message sent")

	return dto.NewMessageResponse(message), nil
}

func (s *messageService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]dto.MessageResponse, error) {
	messages, err := s.messages.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewMessageResponseSlice(messages), nil
}

func (s *messageService) MarkRead(ctx context.Context, id, userID uint) (dto.MessageResponse, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrMessageNotFound
		}
		return dto.MessageResponse{}, err
	}

	if message.RecipientID != userID {
		return dto.MessageResponse{}, ErrMessageForbidden
	}

	if message.ReadAt == nil {
		readAt := s.now()
		message.ReadAt = &readAt
		if err := s.messages.Update(ctx, &message); err != nil {
			return dto.MessageResponse{}, err
		}
	}

	return dto.NewMessageResponse(message), nil
}
