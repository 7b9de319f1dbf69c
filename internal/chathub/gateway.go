package chathub

import (
	"encoding/json"
	"log"

	"crmchat/backend/internal/chat"
	"crmchat/backend/internal/metrics"
	"crmchat/backend/internal/models"
)

// Gateway translates inbound connection events into chat service calls
// and fans the results out through the hub. Events from one connection
// are handled synchronously in that connection's read loop, so a single
// client's sends never interleave with each other; different connections
// are independent.
type Gateway struct {
	hub *Hub
	svc *chat.Service
}

func NewGateway(hub *Hub, svc *chat.Service) *Gateway {
	return &Gateway{hub: hub, svc: svc}
}

// Hub exposes the broadcaster for wiring into the REST facade.
func (g *Gateway) Hub() *Hub { return g.hub }

// HandleConnect registers a freshly upgraded connection.
func (g *Gateway) HandleConnect(c Client) {
	g.hub.Register(c)
}

// HandleDisconnect drops the connection's group memberships and, when it
// was the user's last live connection, flips their presence to OFFLINE
// and broadcasts the change.
func (g *Gateway) HandleDisconnect(c Client) {
	ownerID, stillLive := g.hub.Unregister(c)
	if ownerID == "" || stillLive {
		return
	}
	if err := g.svc.UpdateStatus(ownerID, models.StatusOffline); err != nil {
		log.Printf("ERROR: Failed to mark %s offline on disconnect: %v", ownerID, err)
		return
	}
	g.hub.EmitToAll(NewEvent(EventUserStatusUpdate, models.StatusUpdate{
		UserID: ownerID,
		Status: models.StatusOffline,
	}))
}

// HandleEvent dispatches one inbound event according to the connection's
// kind. Unknown or out-of-kind events get a scoped error event back.
func (g *Gateway) HandleEvent(c Client, ev Event) {
	switch c.Kind() {
	case KindGuest:
		g.handleGuestEvent(c, ev)
		return
	case KindAuthenticated:
	default:
		return
	}

	switch ev.Type {
	case EventJoinUserRoom:
		g.handleJoinUserRoom(c)
	case EventSendMessage:
		g.handleSendMessage(c, ev)
	case EventTyping:
		g.handleTyping(c, ev)
	case EventUpdateStatus:
		g.handleUpdateStatus(c, ev)
	case EventRespondToGuest:
		g.handleRespondToGuest(c, ev)
	default:
		c.Deliver(NewEvent(EventMessageError, ErrorPayload{Message: "unknown event: " + ev.Type}))
	}
}

// handleJoinUserRoom binds the connection to its user's broadcast group
// and immediately marks the user ONLINE, broadcasting the change.
func (g *Gateway) handleJoinUserRoom(c Client) {
	userID := c.UserID()
	g.hub.JoinGroup(c, userGroup(userID))
	g.hub.BindUser(c, userID)

	if err := g.svc.UpdateStatus(userID, models.StatusOnline); err != nil {
		log.Printf("ERROR: Failed to mark %s online: %v", userID, err)
		return
	}
	g.hub.EmitToAll(NewEvent(EventUserStatusUpdate, models.StatusUpdate{
		UserID: userID,
		Status: models.StatusOnline,
	}))
}

// handleSendMessage persists the message, then emits it to the recipient
// group and acknowledges delivery to the sending connection. On failure
// only the sender hears about it.
func (g *Gateway) handleSendMessage(c Client, ev Event) {
	var req models.SendMessageRequest
	if err := json.Unmarshal(ev.Data, &req); err != nil {
		c.Deliver(NewEvent(EventMessageError, ErrorPayload{Message: "malformed sendMessage payload"}))
		return
	}
	req.SenderID = c.UserID()

	view, err := g.svc.SaveMessage(req)
	if err != nil {
		c.Deliver(NewEvent(EventMessageError, ErrorPayload{Message: err.Error()}))
		return
	}
	metrics.MessagesSaved.Inc()

	g.BroadcastMessage(view)
	c.Deliver(NewEvent(EventMessageDelivered, view))
}

// BroadcastMessage emits a persisted message and a notification to the
// recipient's group. Shared with the REST facade so REST-originated
// sends reach live clients too.
func (g *Gateway) BroadcastMessage(view *models.MessageView) {
	group := userGroup(view.RecipientID)
	g.hub.EmitToGroup(group, NewEvent(EventNewMessage, view))
	g.hub.EmitToGroup(group, NewEvent(EventMessageNotification, view))
}

// handleTyping forwards the indicator verbatim to the recipient's group.
// Nothing is persisted.
func (g *Gateway) handleTyping(c Client, ev Event) {
	var typing models.TypingEvent
	if err := json.Unmarshal(ev.Data, &typing); err != nil {
		return
	}
	typing.SenderID = c.UserID()
	g.hub.EmitToGroup(userGroup(typing.RecipientID), NewEvent(EventUserTyping, typing))
}

// handleUpdateStatus writes the new presence and broadcasts it to every
// connection.
func (g *Gateway) handleUpdateStatus(c Client, ev Event) {
	var update models.StatusUpdate
	if err := json.Unmarshal(ev.Data, &update); err != nil {
		c.Deliver(NewEvent(EventMessageError, ErrorPayload{Message: "malformed updateStatus payload"}))
		return
	}
	update.UserID = c.UserID()

	if err := g.svc.UpdateStatus(update.UserID, update.Status); err != nil {
		c.Deliver(NewEvent(EventMessageError, ErrorPayload{Message: err.Error()}))
		return
	}
	g.hub.EmitToAll(NewEvent(EventUserStatusUpdate, update))
}
