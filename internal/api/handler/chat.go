package handler

import (
	"net/http"
	"strconv"

	"crmchat/backend/internal/chathub"
	"crmchat/backend/internal/metrics"
	"crmchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SendMessage persists a message on behalf of the authenticated caller
// and fans it out to the recipient's live connections.
func (h *Handler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}
	req.SenderID = currentUserID(c)

	view, err := h.svc.SaveMessage(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	metrics.MessagesSaved.Inc()

	if h.notifier != nil {
		h.notifier.BroadcastMessage(view)
	}
	respondCreated(c, view)
}

// GetMessages returns one page of history with the given peer, oldest
// first, marking the caller's messages in that room as read. peek=1
// skips the read-marking.
func (h *Handler) GetMessages(c *gin.Context) {
	userID := currentUserID(c)
	peerID := c.Param("recipientId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var (
		messages []models.ChatMessage
		err      error
	)
	if c.Query("peek") == "1" {
		messages, err = h.svc.PeekMessages(userID, peerID, page, limit)
	} else {
		messages, err = h.svc.GetMessages(userID, peerID, page, limit)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, messages)
}

// MarkRead resets the caller's unread state for the conversation with
// the given sender, without returning history.
func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(currentUserID(c), c.Param("senderId")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

// GetRooms returns the caller's roster.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.svc.ListRooms(currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rooms)
}

// GetUsers returns the full chat directory minus the caller.
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.svc.Directory(currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, users)
}

// GetOnlineUsers returns the directory filtered to ONLINE, minus the
// caller.
func (h *Handler) GetOnlineUsers(c *gin.Context) {
	users, err := h.svc.OnlineUsers(currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, users)
}

// UpdateStatus writes the caller's presence and broadcasts the change to
// every live connection.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	userID := currentUserID(c)
	if err := h.svc.UpdateStatus(userID, body.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	if h.broadcaster != nil {
		h.broadcaster.EmitToAll(chathub.NewEvent(chathub.EventUserStatusUpdate, models.StatusUpdate{
			UserID: userID,
			Status: body.Status,
		}))
	}
	respondOK(c, gin.H{"status": body.Status})
}
