package storage

import (
	"log"
	"time"

	"crmchat/backend/internal/models"
)

// Redis keys for the presence fast path. The users table stays the
// source of truth; the set and hash exist so "who is online" does not
// need a table scan on every roster refresh.
const (
	onlineSetKey = "chat:online"
	lastSeenKey  = "chat:last_seen"
	presenceTTL  = 24 * time.Hour
)

func (s *Service) mirrorPresence(userID, status string, at time.Time) {
	if s.Redis == nil {
		return
	}
	if status == models.StatusOnline {
		if err := s.Redis.SAdd(s.Ctx, onlineSetKey, userID).Err(); err != nil {
			log.Printf("WARNING: Failed to mirror presence for %s: %v", userID, err)
			return
		}
	} else {
		if err := s.Redis.SRem(s.Ctx, onlineSetKey, userID).Err(); err != nil {
			log.Printf("WARNING: Failed to mirror presence for %s: %v", userID, err)
			return
		}
	}
	s.Redis.HSet(s.Ctx, lastSeenKey, userID, at.Unix())
	s.Redis.Expire(s.Ctx, lastSeenKey, presenceTTL)
}

// OnlineUserIDs returns the members of the Redis online set.
func (s *Service) OnlineUserIDs() ([]string, error) {
	if s.Redis == nil {
		return nil, nil
	}
	return s.Redis.SMembers(s.Ctx, onlineSetKey).Result()
}

// usersByIDs loads profiles for the online-set members.
func (s *Service) usersByIDs(ids []string, excludingID string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	q := s.DB.Where("id IN ?", ids).Order("name asc")
	if excludingID != "" {
		q = q.Where("id <> ?", excludingID)
	}
	if err := q.Find(&users).Error; err != nil {
		log.Printf("ERROR: Failed to load online users: %v", err)
		return nil, err
	}
	return users, nil
}
