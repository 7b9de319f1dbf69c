package handler_test

import (
	"sync"
	"time"

	"crmchat/backend/internal/chathub"
	"crmchat/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of storage.Store backing the real chat
// service in handler tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateRoomIfAbsent(room *models.ChatRoom) (*models.ChatRoom, error) {
	args := m.Called(room)
	if r := args.Get(0); r != nil {
		return r.(*models.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetRoom(chatID string) (*models.ChatRoom, error) {
	args := m.Called(chatID)
	if r := args.Get(0); r != nil {
		return r.(*models.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) TouchRoom(chatID, lastMessage string, at time.Time, unreadForSender bool) error {
	return m.Called(chatID, lastMessage, at, unreadForSender).Error(0)
}

func (m *MockStore) ResetUnread(chatID string, forSender bool) error {
	return m.Called(chatID, forSender).Error(0)
}

func (m *MockStore) ListRoomsForUser(userID string) ([]models.ChatRoom, error) {
	args := m.Called(userID)
	if r := args.Get(0); r != nil {
		return r.([]models.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) SaveMessage(msg *models.ChatMessage) error {
	return m.Called(msg).Error(0)
}

func (m *MockStore) ListMessages(chatID string, page, limit int) ([]models.ChatMessage, error) {
	args := m.Called(chatID, page, limit)
	if r := args.Get(0); r != nil {
		return r.([]models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) MarkMessagesRead(chatID, recipientID string) error {
	return m.Called(chatID, recipientID).Error(0)
}

func (m *MockStore) GetUser(userID string) (*models.User, error) {
	args := m.Called(userID)
	if r := args.Get(0); r != nil {
		return r.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListUsers(excludingID string) ([]models.User, error) {
	args := m.Called(excludingID)
	if r := args.Get(0); r != nil {
		return r.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListUsersByStatus(status, excludingID string) ([]models.User, error) {
	args := m.Called(status, excludingID)
	if r := args.Get(0); r != nil {
		return r.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) UpdateUserStatus(userID, status string, at time.Time) error {
	return m.Called(userID, status, at).Error(0)
}

// recordingBroadcaster captures events emitted by the REST facade.
type recordingBroadcaster struct {
	mu      sync.Mutex
	toAll   []chathub.Event
	toGroup map[string][]chathub.Event
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{toGroup: make(map[string][]chathub.Event)}
}

func (b *recordingBroadcaster) EmitToGroup(group string, ev chathub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toGroup[group] = append(b.toGroup[group], ev)
}

func (b *recordingBroadcaster) EmitToAll(ev chathub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toAll = append(b.toAll, ev)
}

// recordingNotifier captures messages pushed out after a REST send.
type recordingNotifier struct {
	mu    sync.Mutex
	views []*models.MessageView
}

func (n *recordingNotifier) BroadcastMessage(view *models.MessageView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views = append(n.views, view)
}
