package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error)
	GetByID(ctx context.Context, id uint) (models.Message, error)
	Create(ctx context.Context, message *models.Message) error
	Update(ctx context.Context, message *models.Message) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository instantiates a GORM-backed repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return models.Message{}, err
	}

	return message, nil
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) Update(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}
