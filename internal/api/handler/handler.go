package handler

import (
	"errors"
	"net/http"

	"crmchat/backend/internal/chat"
	"crmchat/backend/internal/chathub"
	"crmchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// MessageNotifier pushes a freshly persisted message out to live
// connections, so REST-originated sends reach websocket clients too.
type MessageNotifier interface {
	BroadcastMessage(view *models.MessageView)
}

// Handler wires the chat service and the live-delivery capabilities into
// gin. The broadcaster and notifier are injected, never taken from
// ambient state.
type Handler struct {
	svc         *chat.Service
	gateway     *chathub.Gateway
	broadcaster chathub.Broadcaster
	notifier    MessageNotifier
	jwtSecret   []byte
}

func NewHandler(svc *chat.Service, gateway *chathub.Gateway, broadcaster chathub.Broadcaster, notifier MessageNotifier, jwtSecret []byte) *Handler {
	return &Handler{
		svc:         svc,
		gateway:     gateway,
		broadcaster: broadcaster,
		notifier:    notifier,
		jwtSecret:   jwtSecret,
	}
}

// RegisterRoutes mounts the REST facade and the websocket endpoint.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/chat", h.AuthRequired())
	{
		api.POST("/messages", h.SendMessage)
		api.GET("/messages/:recipientId", h.GetMessages)
		api.PUT("/messages/read/:senderId", h.MarkRead)
		api.GET("/rooms", h.GetRooms)
		api.GET("/users", h.GetUsers)
		api.GET("/users/online", h.GetOnlineUsers)
		api.PUT("/status", h.UpdateStatus)
	}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondServiceError maps domain errors onto the REST taxonomy:
// validation 400, unresolvable participant 404, anything else a generic
// 500 (store failures are never silently swallowed).
func respondServiceError(c *gin.Context, err error) {
	var vErr *chat.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, chat.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
