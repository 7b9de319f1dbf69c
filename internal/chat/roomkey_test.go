package chat_test

import (
	"testing"

	"crmchat/backend/internal/chat"

	"github.com/stretchr/testify/assert"
)

func TestRoomKeySortsParticipants(t *testing.T) {
	assert.Equal(t, "u1_u2", chat.RoomKey("u1", "u2"))
	assert.Equal(t, "u1_u2", chat.RoomKey("u2", "u1"))
}

func TestRoomKeySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"9f1c", "0a2b"},
		{"same", "same"},
	}
	for _, p := range pairs {
		assert.Equal(t, chat.RoomKey(p[0], p[1]), chat.RoomKey(p[1], p[0]),
			"RoomKey must be order-independent for %v", p)
	}
}

func TestRoomKeyDistinctPairsDistinctKeys(t *testing.T) {
	assert.NotEqual(t, chat.RoomKey("u1", "u2"), chat.RoomKey("u1", "u3"))
	assert.NotEqual(t, chat.RoomKey("u1", "u2"), chat.RoomKey("u2", "u3"))
}
