package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Chat presence states. Presence is self-reported by the client; the
// server only flips a user to OFFLINE when its last live connection drops.
const (
	StatusOnline  = "ONLINE"
	StatusOffline = "OFFLINE"
	StatusAway    = "AWAY"
)

// ValidStatus reports whether s is one of the recognized presence states.
func ValidStatus(s string) bool {
	return s == StatusOnline || s == StatusOffline || s == StatusAway
}

// User is the chat-relevant slice of the CRM user record. Account
// management (creation, roles, passwords) lives in the main CRM modules;
// this service only mutates ChatStatus and LastSeen.
type User struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	Email       string         `gorm:"uniqueIndex" json:"email"`
	Role        string         `gorm:"type:text;index" json:"role"`
	Departments pq.StringArray `gorm:"type:text[]" json:"departments"`
	ChatStatus  string         `gorm:"type:text;default:OFFLINE;index" json:"chatStatus"`
	LastSeen    time.Time      `json:"lastSeen"`
}

// BeforeCreate generates a UUID for the user if the CRM did not assign one.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
