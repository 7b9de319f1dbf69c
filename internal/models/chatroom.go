package models

import "time"

// ChatRoom represents a 1-on-1 conversation between two users.
// ChatID is the canonical, order-independent identifier derived from the
// sorted participant pair, so exactly one row can exist per pair.
type ChatRoom struct {
	// ChatID is the sorted-pair key, e.g. "u1_u2" for users u1 and u2.
	ChatID string `gorm:"primaryKey" json:"chatId"`
	// SenderID is whoever created the room on first contact.
	SenderID string `gorm:"type:text;not null;uniqueIndex:idx_room_pair" json:"senderId"`
	// RecipientID is the other participant.
	RecipientID string `gorm:"type:text;not null;uniqueIndex:idx_room_pair" json:"recipientId"`

	// Denormalized for fast roster rendering.
	LastMessage     string    `gorm:"type:text" json:"lastMessage"`
	LastMessageTime time.Time `gorm:"index" json:"lastMessageTime"`

	// Per-participant unread counters, keyed by room role. Incremented when
	// a message is delivered to that participant, reset when they fetch
	// history.
	UnreadSender    int `gorm:"default:0" json:"unreadSender"`
	UnreadRecipient int `gorm:"default:0" json:"unreadRecipient"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnreadFor returns the unread counter relevant to the given participant.
func (r *ChatRoom) UnreadFor(userID string) int {
	if userID == r.SenderID {
		return r.UnreadSender
	}
	return r.UnreadRecipient
}

// OtherParticipant returns the participant that is not userID.
func (r *ChatRoom) OtherParticipant(userID string) string {
	if userID == r.SenderID {
		return r.RecipientID
	}
	return r.SenderID
}

// RoomSummary is one entry of a user's chat roster: the room plus the
// other participant's profile and the unread count relevant to the caller.
type RoomSummary struct {
	ChatID          string    `json:"chatId"`
	Participant     User      `json:"participant"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}
