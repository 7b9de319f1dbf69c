package chathub_test

import (
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"crmchat/backend/internal/chathub"
	"crmchat/backend/internal/models"
	"crmchat/backend/internal/storage"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory storage.Store so gateway tests can exercise
// the full send/read/presence flow without a database.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	rooms    map[string]*models.ChatRoom
	messages []models.ChatMessage
	nextID   uint
}

func newMemStore(users ...models.User) *memStore {
	s := &memStore{
		users: make(map[string]models.User),
		rooms: make(map[string]*models.ChatRoom),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) CreateRoomIfAbsent(room *models.ChatRoom) (*models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.rooms[room.ChatID]; ok {
		return existing, nil
	}
	clone := *room
	s.rooms[room.ChatID] = &clone
	return &clone, nil
}

func (s *memStore) GetRoom(chatID string) (*models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[chatID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *room
	return &clone, nil
}

func (s *memStore) TouchRoom(chatID, lastMessage string, at time.Time, unreadForSender bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[chatID]
	if !ok {
		return storage.ErrNotFound
	}
	room.LastMessage = lastMessage
	room.LastMessageTime = at
	if unreadForSender {
		room.UnreadSender++
	} else {
		room.UnreadRecipient++
	}
	return nil
}

func (s *memStore) ResetUnread(chatID string, forSender bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[chatID]
	if !ok {
		return storage.ErrNotFound
	}
	if forSender {
		room.UnreadSender = 0
	} else {
		room.UnreadRecipient = 0
	}
	return nil
}

func (s *memStore) ListRoomsForUser(userID string) ([]models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatRoom
	for _, room := range s.rooms {
		if room.SenderID == userID || room.RecipientID == userID {
			out = append(out, *room)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out, nil
}

func (s *memStore) SaveMessage(msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	msg.ID = s.nextID
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *memStore) ListMessages(chatID string, page, limit int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) MarkMessagesRead(chatID, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ChatID == chatID && s.messages[i].RecipientID == recipientID {
			s.messages[i].IsRead = true
		}
	}
	return nil
}

func (s *memStore) GetUser(userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) ListUsers(excludingID string) ([]models.User, error) {
	return s.listUsers(func(u models.User) bool { return u.ID != excludingID })
}

func (s *memStore) ListUsersByStatus(status, excludingID string) ([]models.User, error) {
	return s.listUsers(func(u models.User) bool {
		return u.ChatStatus == status && u.ID != excludingID
	})
}

func (s *memStore) listUsers(keep func(models.User) bool) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) UpdateUserStatus(userID, status string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.ChatStatus = status
	u.LastSeen = at
	s.users[userID] = u
	return nil
}

func (s *memStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *memStore) userStatus(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID].ChatStatus
}

// fakeClient records every delivered event.
type fakeClient struct {
	connID string
	userID string
	kind   chathub.Kind

	mu       sync.Mutex
	received []chathub.Event
}

func newFakeClient(connID, userID string, kind chathub.Kind) *fakeClient {
	return &fakeClient{connID: connID, userID: userID, kind: kind}
}

func (f *fakeClient) ConnID() string     { return f.connID }
func (f *fakeClient) UserID() string     { return f.userID }
func (f *fakeClient) Kind() chathub.Kind { return f.kind }
func (f *fakeClient) Close()             {}

func (f *fakeClient) Deliver(ev chathub.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, ev)
}

func (f *fakeClient) eventsOfType(eventType string) []chathub.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []chathub.Event
	for _, ev := range f.received {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// lastPayload decodes the most recent event of the given type into dst
// and fails the test when no such event arrived.
func (f *fakeClient) lastPayload(t *testing.T, eventType string, dst interface{}) {
	t.Helper()
	events := f.eventsOfType(eventType)
	require.NotEmpty(t, events, "expected a %s event", eventType)
	require.NoError(t, json.Unmarshal(events[len(events)-1].Data, dst))
}

func (f *fakeClient) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = nil
}
