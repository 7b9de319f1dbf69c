package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"crmchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: record not found")

// Store is the persistence surface consumed by the chat service.
type Store interface {
	CreateRoomIfAbsent(room *models.ChatRoom) (*models.ChatRoom, error)
	GetRoom(chatID string) (*models.ChatRoom, error)
	TouchRoom(chatID, lastMessage string, at time.Time, unreadForSender bool) error
	ResetUnread(chatID string, forSender bool) error
	ListRoomsForUser(userID string) ([]models.ChatRoom, error)

	SaveMessage(msg *models.ChatMessage) error
	ListMessages(chatID string, page, limit int) ([]models.ChatMessage, error)
	MarkMessagesRead(chatID, recipientID string) error

	GetUser(userID string) (*models.User, error)
	ListUsers(excludingID string) ([]models.User, error)
	ListUsersByStatus(status, excludingID string) ([]models.User, error)
	UpdateUserStatus(userID, status string, at time.Time) error
}

// Service implements Store over PostgreSQL, with Redis carrying the
// fast-path presence state (online set + last-seen hash).
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CreateRoomIfAbsent inserts the room keyed on its ChatID, doing nothing
// on conflict. Two users first-contacting each other concurrently both
// end up with the same single row; the loser of the race re-reads it.
func (s *Service) CreateRoomIfAbsent(room *models.ChatRoom) (*models.ChatRoom, error) {
	result := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(room)
	if result.Error != nil {
		log.Printf("ERROR: Failed to create room %s: %v", room.ChatID, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race (or the room already existed); return the winner.
		return s.GetRoom(room.ChatID)
	}
	return room, nil
}

func (s *Service) GetRoom(chatID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("chat_id = ?", chatID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", chatID, err)
		return nil, err
	}
	return &room, nil
}

// TouchRoom updates the denormalized roster fields and bumps the unread
// counter of the participant the message was delivered to, in one UPDATE.
func (s *Service) TouchRoom(chatID, lastMessage string, at time.Time, unreadForSender bool) error {
	counter := "unread_recipient"
	if unreadForSender {
		counter = "unread_sender"
	}
	return s.DB.Model(&models.ChatRoom{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]interface{}{
			"last_message":      lastMessage,
			"last_message_time": at,
			counter:             gorm.Expr(counter + " + 1"),
		}).Error
}

// ResetUnread zeroes one participant's unread counter.
func (s *Service) ResetUnread(chatID string, forSender bool) error {
	counter := "unread_recipient"
	if forSender {
		counter = "unread_sender"
	}
	return s.DB.Model(&models.ChatRoom{}).
		Where("chat_id = ?", chatID).
		Update(counter, 0).Error
}

// ListRoomsForUser returns every room the user participates in, most
// recently active first.
func (s *Service) ListRoomsForUser(userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("last_message_time desc").
		Find(&rooms).Error
	if err != nil {
		log.Printf("ERROR: Failed to list rooms for user %s: %v", userID, err)
		return nil, err
	}
	return rooms, nil
}

func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.ChatID, err)
		return err
	}
	return nil
}

// ListMessages pages through a room's history oldest-first. Ties on
// Timestamp fall back to insertion order via the auto-increment id.
func (s *Service) ListMessages(chatID string, page, limit int) ([]models.ChatMessage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	var messages []models.ChatMessage
	err := s.DB.
		Where("chat_id = ?", chatID).
		Order("timestamp asc, id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get chat history for room %s: %v", chatID, err)
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead flips IsRead on every unread message in the room that
// is addressed to recipientID.
func (s *Service) MarkMessagesRead(chatID, recipientID string) error {
	return s.DB.Model(&models.ChatMessage{}).
		Where("chat_id = ? AND recipient_id = ? AND is_read = ?", chatID, recipientID, false).
		Update("is_read", true).Error
}

func (s *Service) GetUser(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", userID, err)
		return nil, err
	}
	return &user, nil
}

func (s *Service) ListUsers(excludingID string) ([]models.User, error) {
	var users []models.User
	q := s.DB.Order("name asc")
	if excludingID != "" {
		q = q.Where("id <> ?", excludingID)
	}
	if err := q.Find(&users).Error; err != nil {
		log.Printf("ERROR: Failed to list users: %v", err)
		return nil, err
	}
	return users, nil
}

// ListUsersByStatus filters the directory by presence. The ONLINE case
// goes through the Redis online set when available, saving the
// chat_status scan the roster UI would otherwise trigger constantly.
func (s *Service) ListUsersByStatus(status, excludingID string) ([]models.User, error) {
	if status == models.StatusOnline && s.Redis != nil {
		ids, err := s.OnlineUserIDs()
		if err != nil {
			log.Printf("WARNING: Redis online set unavailable, falling back to DB: %v", err)
		} else {
			return s.usersByIDs(ids, excludingID)
		}
	}

	var users []models.User
	q := s.DB.Where("chat_status = ?", status).Order("name asc")
	if excludingID != "" {
		q = q.Where("id <> ?", excludingID)
	}
	if err := q.Find(&users).Error; err != nil {
		log.Printf("ERROR: Failed to list users by status %s: %v", status, err)
		return nil, err
	}
	return users, nil
}

// UpdateUserStatus writes the presence fields and mirrors them into the
// Redis online set so roster queries stay cheap.
func (s *Service) UpdateUserStatus(userID, status string, at time.Time) error {
	err := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"chat_status": status,
			"last_seen":   at,
		}).Error
	if err != nil {
		log.Printf("ERROR: Failed to update status for user %s: %v", userID, err)
		return err
	}
	s.mirrorPresence(userID, status, at)
	return nil
}
