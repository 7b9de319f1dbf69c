package models

import (
	"time"

	"gorm.io/gorm"
)

// Message types. The client may extend this set (e.g. "video"); the
// server treats the type as opaque apart from defaulting to text.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
)

// ChatMessage is one persisted message. Immutable after creation except
// for IsRead, which flips when the recipient fetches history.
// The embedded gorm.Model provides the message ID and created/updated
// timestamps; Timestamp is the authoritative ordering key.
type ChatMessage struct {
	gorm.Model

	ChatID      string    `gorm:"type:text;not null;index:idx_chat_msg" json:"chatId"`
	SenderID    string    `gorm:"type:text;not null;index" json:"senderId"`
	RecipientID string    `gorm:"type:text;not null;index" json:"recipientId"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	MessageType string    `gorm:"type:text;not null;default:text" json:"messageType"`
	Timestamp   time.Time `gorm:"index:idx_chat_msg" json:"timestamp"`
	IsRead      bool      `gorm:"default:false" json:"isRead"`
}

// MessageView is a ChatMessage annotated with resolved participant
// display info, as returned to clients after a send.
type MessageView struct {
	ChatMessage
	SenderName    string `json:"senderName"`
	RecipientName string `json:"recipientName"`
}
