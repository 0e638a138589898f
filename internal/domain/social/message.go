package social

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users. Only Read changes after creation.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index;column:sender_id" json:"senderId"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_message_receiver_read,priority:1;column:receiver_id" json:"receiverId"`
	Content    string    `gorm:"type:text;not null;column:content" json:"content"`
	Read       bool      `gorm:"not null;default:false;index:idx_message_receiver_read,priority:2;column:read" json:"read"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Message) TableName() string { return "message" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
