package repository

import (
	"vyapaar-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *model.Message) error
	// FindConversation returns both directions of the chat between two
	// parties, oldest first.
	FindConversation(a, b uuid.UUID) ([]model.Message, error)
	FindByID(id uuid.UUID) (*model.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db}
}

func (r *messageRepo) Create(message *model.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepo) FindConversation(a, b uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Preload("ReplyTo").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepo) FindByID(id uuid.UUID) (*model.Message, error) {
	var message model.Message
	err := r.db.Preload("ReplyTo").First(&message, "id = ?", id).Error
	return &message, err
}
