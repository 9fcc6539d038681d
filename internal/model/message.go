package model

import "github.com/google/uuid"

// Message is an opaque chat record. The agent pipeline only reads the
// text and writes reply messages; everything else about the chat is the
// transport layer's business.
type Message struct {
	BaseModel
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id" validate:"uuid_required"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id" validate:"uuid_required"`
	Text       string    `json:"text"`

	ReplyToID *uuid.UUID `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	ReplyTo   *Message   `gorm:"foreignKey:ReplyToID" json:"reply_to,omitempty" validate:"-"`
}
