package models

// Payloads exchanged over the live websocket connection. Inbound events
// carry one of these in the event's data field; outbound events reuse the
// same shapes plus MessageView and User.

// SendMessageRequest is the payload of an inbound sendMessage event and
// of POST /chat/messages.
type SendMessageRequest struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
}

// TypingEvent is forwarded verbatim to the recipient, never persisted.
type TypingEvent struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	IsTyping    bool   `json:"isTyping"`
}

// StatusUpdate is the payload of an inbound updateStatus event and of the
// userStatusUpdate broadcast.
type StatusUpdate struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// GuestInfo identifies an anonymous website visitor for the support chat.
type GuestInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GuestMessage is an ephemeral guest-to-staff message. It is never
// written to the message store; history does not survive a reconnect.
type GuestMessage struct {
	GuestID     string    `json:"guestId"`
	GuestInfo   GuestInfo `json:"guestInfo"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   string    `json:"timestamp"`
}

// GuestReply is the staff-to-guest direction, likewise not persisted.
type GuestReply struct {
	GuestID    string `json:"guestId"`
	Content    string `json:"content"`
	SenderName string `json:"senderName"`
	Timestamp  string `json:"timestamp"`
}
