package handler

import (
	"net/http"
	"strings"

	"crmchat/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict to the CRM origin once the client domains settle.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection and hands it to the event
// gateway. Two entry kinds: authenticated CRM users (bearer token, via
// header or ?token= for browser websocket clients) and anonymous guests
// (?isGuest=true&guestId=...).
func (h *Handler) ServeWebSocket(c *gin.Context) {
	if c.Query("isGuest") == "true" {
		h.serveGuest(c)
		return
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authorization token missing"})
		return
	}

	userID, err := parseToken(tokenString, h.jwtSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
		return
	}

	h.upgradeAndRun(c, userID, chathub.KindAuthenticated)
}

func (h *Handler) serveGuest(c *gin.Context) {
	guestID := c.Query("guestId")
	if guestID == "" {
		guestID = uuid.New().String()
	}
	h.upgradeAndRun(c, guestID, chathub.KindGuest)
}

func (h *Handler) upgradeAndRun(c *gin.Context, userID string, kind chathub.Kind) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to upgrade connection"})
		return
	}

	client := chathub.NewWebSocketClient(h.gateway, conn, uuid.New().String(), userID, kind)
	h.gateway.HandleConnect(client)
	client.Run()
}
