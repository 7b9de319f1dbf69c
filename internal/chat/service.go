package chat

import (
	"errors"
	"log"
	"strings"
	"time"

	"crmchat/backend/internal/models"
	"crmchat/backend/internal/storage"
)

// Service holds the chat domain logic: room identity, message
// persistence, unread bookkeeping, presence and roster queries. It
// depends only on the Store; delivery to live connections is the
// gateway's job.
type Service struct {
	store        storage.Store
	supportRoles map[string]bool
}

func NewService(store storage.Store, supportRoles []string) *Service {
	roles := make(map[string]bool, len(supportRoles))
	for _, r := range supportRoles {
		roles[strings.ToLower(r)] = true
	}
	return &Service{store: store, supportRoles: roles}
}

// GetOrCreateRoom resolves the room for an unordered pair, creating it
// on first contact. Argument order only matters for a brand-new room,
// where userA becomes the room's SenderID. Safe under concurrent
// first-contact from both sides: the store's insert-if-absent on the
// canonical ChatID returns the winner's row to both callers.
func (s *Service) GetOrCreateRoom(userA, userB string) (*models.ChatRoom, error) {
	if userA == "" || userB == "" {
		return nil, errMissing("participant")
	}
	chatID := RoomKey(userA, userB)

	room, err := s.store.GetRoom(chatID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	return s.store.CreateRoomIfAbsent(&models.ChatRoom{
		ChatID:          chatID,
		SenderID:        userA,
		RecipientID:     userB,
		LastMessageTime: time.Now(),
	})
}

// SaveMessage persists one message: resolves the room, writes the row,
// then updates the room's roster fields and the recipient's unread
// counter. Returns the message annotated with display names.
func (s *Service) SaveMessage(req models.SendMessageRequest) (*models.MessageView, error) {
	if req.RecipientID == "" {
		return nil, errMissing("recipientId")
	}
	if req.Content == "" {
		return nil, errMissing("content")
	}
	if req.MessageType == "" {
		req.MessageType = models.MessageTypeText
	}

	room, err := s.GetOrCreateRoom(req.SenderID, req.RecipientID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		ChatID:      room.ChatID,
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		MessageType: req.MessageType,
		Timestamp:   time.Now(),
	}
	if err := s.store.SaveMessage(msg); err != nil {
		return nil, err
	}

	// The unread counter to bump belongs to whichever room role the
	// recipient holds.
	unreadForSender := req.RecipientID == room.SenderID
	if err := s.store.TouchRoom(room.ChatID, msg.Content, msg.Timestamp, unreadForSender); err != nil {
		// The message is already durable; counters catch up on the next
		// send. Log and carry on.
		log.Printf("WARNING: Failed to update room %s after message %d: %v", room.ChatID, msg.ID, err)
	}

	view := &models.MessageView{ChatMessage: *msg}
	if sender, err := s.store.GetUser(req.SenderID); err == nil {
		view.SenderName = sender.Name
	}
	if recipient, err := s.store.GetUser(req.RecipientID); err == nil {
		view.RecipientName = recipient.Name
	}
	return view, nil
}

// GetMessages returns one page of the history between userA and its
// peer, oldest first. As part of the contract it marks every message
// addressed to userA in that room as read and resets userA's unread
// counter. Use PeekMessages to read without the side effect.
func (s *Service) GetMessages(userA, userB string, page, limit int) ([]models.ChatMessage, error) {
	messages, room, err := s.peek(userA, userB, page, limit)
	if err != nil || room == nil {
		return messages, err
	}

	if err := s.store.MarkMessagesRead(room.ChatID, userA); err != nil {
		return nil, err
	}
	if err := s.store.ResetUnread(room.ChatID, userA == room.SenderID); err != nil {
		return nil, err
	}
	for i := range messages {
		if messages[i].RecipientID == userA {
			messages[i].IsRead = true
		}
	}
	return messages, nil
}

// PeekMessages is GetMessages without the read-marking side effect.
func (s *Service) PeekMessages(userA, userB string, page, limit int) ([]models.ChatMessage, error) {
	messages, _, err := s.peek(userA, userB, page, limit)
	return messages, err
}

func (s *Service) peek(userA, userB string, page, limit int) ([]models.ChatMessage, *models.ChatRoom, error) {
	if userA == "" || userB == "" {
		return nil, nil, errMissing("participant")
	}
	room, err := s.store.GetRoom(RoomKey(userA, userB))
	if errors.Is(err, storage.ErrNotFound) {
		// No conversation yet; an empty history, not an error.
		return []models.ChatMessage{}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.store.ListMessages(room.ChatID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return messages, room, nil
}

// MarkRead resets userID's unread state for the conversation with peerID
// without returning any history.
func (s *Service) MarkRead(userID, peerID string) error {
	room, err := s.store.GetRoom(RoomKey(userID, peerID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.store.MarkMessagesRead(room.ChatID, userID); err != nil {
		return err
	}
	return s.store.ResetUnread(room.ChatID, userID == room.SenderID)
}

// ListRooms returns the caller's roster, each room annotated with the
// other participant's profile and the caller-relevant unread count,
// sorted by last activity descending. Rooms whose other participant no
// longer resolves are dropped.
func (s *Service) ListRooms(userID string) ([]models.RoomSummary, error) {
	if userID == "" {
		return nil, errMissing("userId")
	}
	rooms, err := s.store.ListRoomsForUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		peer, err := s.store.GetUser(room.OtherParticipant(userID))
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.RoomSummary{
			ChatID:          room.ChatID,
			Participant:     *peer,
			LastMessage:     room.LastMessage,
			LastMessageTime: room.LastMessageTime,
			UnreadCount:     room.UnreadFor(userID),
		})
	}
	return summaries, nil
}

// UpdateStatus writes the user's presence and refreshes last-seen. No
// history of transitions is kept.
func (s *Service) UpdateStatus(userID, status string) error {
	if userID == "" {
		return errMissing("userId")
	}
	if !models.ValidStatus(status) {
		return &ValidationError{Field: "status", Reason: "must be ONLINE, OFFLINE or AWAY"}
	}
	return s.store.UpdateUserStatus(userID, status, time.Now())
}

// OnlineUsers returns the directory filtered to ONLINE, optionally
// excluding one user (typically the caller).
func (s *Service) OnlineUsers(excludingID string) ([]models.User, error) {
	return s.store.ListUsersByStatus(models.StatusOnline, excludingID)
}

// Directory returns every user except the caller, for roster population.
func (s *Service) Directory(excludingID string) ([]models.User, error) {
	return s.store.ListUsers(excludingID)
}

// SupportTeam returns the ONLINE staff members whose role is eligible to
// take guest support chats.
func (s *Service) SupportTeam() ([]models.User, error) {
	online, err := s.store.ListUsersByStatus(models.StatusOnline, "")
	if err != nil {
		return nil, err
	}
	team := make([]models.User, 0, len(online))
	for _, u := range online {
		if s.supportRoles[strings.ToLower(u.Role)] {
			team = append(team, u)
		}
	}
	return team, nil
}
