package chathub

import (
	"encoding/json"
	"log"
)

// Inbound event names, split by connection kind. An authenticated
// connection only dispatches the authenticated set, a guest connection
// only the guest set; anything else is answered with an error event.
const (
	// Authenticated connections.
	EventJoinUserRoom   = "join-user-room"
	EventSendMessage    = "sendMessage"
	EventTyping         = "typing"
	EventUpdateStatus   = "updateStatus"
	EventRespondToGuest = "respond-to-guest"

	// Guest connections.
	EventJoinGuestRoom  = "join-guest-room"
	EventGetSupportTeam = "get-support-team"
	EventGuestMessage   = "guest-message"
)

// Outbound event names.
const (
	EventNewMessage          = "newMessage"
	EventMessageDelivered    = "messageDelivered"
	EventMessageNotification = "messageNotification"
	EventUserTyping          = "userTyping"
	EventUserStatusUpdate    = "userStatusUpdate"
	EventMessageError        = "messageError"

	EventSupportTeamList      = "support-team-list"
	EventGuestMessageReceived = "guest-message-received"
	EventGuestMessageSent     = "guest-message-sent"
	EventGuestMessageError    = "guest-message-error"
)

// Event is the wire frame for the live connection: a type tag plus an
// opaque payload decoded by the handler for that type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals payload into an Event frame.
func NewEvent(eventType string, payload interface{}) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: Failed to encode %s payload: %v", eventType, err)
		return Event{Type: eventType}
	}
	return Event{Type: eventType, Data: data}
}

// ErrorPayload is the body of messageError and guest-message-error.
type ErrorPayload struct {
	Message string `json:"message"`
}
