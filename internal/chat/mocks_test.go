package chat_test

import (
	"time"

	"crmchat/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of storage.Store.
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
