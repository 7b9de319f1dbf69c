package chathub

import (
	"encoding/json"
	"log"

	"crmchat/backend/internal/models"
)

// Guest bridge: the unauthenticated support-chat path for anonymous
// website visitors. Guest traffic never touches the message store, so a
// guest's history does not survive a reconnect; the only failure mode is
// delivery (recipient not live), reported to the guest with no retry.
//
// The staff half of the bridge (respond-to-guest) arrives on
// authenticated connections and is dispatched from HandleEvent.

// offlineRecipient is the placeholder the website widget sends when no
// support agent was picked. The guest still gets a send confirmation,
// but nothing is delivered.
const offlineRecipient = "offline"

func (g *Gateway) handleGuestEvent(c Client, ev Event) {
	switch ev.Type {
	case EventJoinGuestRoom:
		g.hub.JoinGroup(c, guestGroup(c.UserID()))
	case EventGetSupportTeam:
		g.handleGetSupportTeam(c)
	case EventGuestMessage:
		g.handleGuestMessage(c, ev)
	default:
		c.Deliver(NewEvent(EventGuestMessageError, ErrorPayload{Message: "unknown event: " + ev.Type}))
	}
}

// handleGetSupportTeam answers only the asking guest with the ONLINE,
// support-eligible staff list.
func (g *Gateway) handleGetSupportTeam(c Client) {
	team, err := g.svc.SupportTeam()
	if err != nil {
		log.Printf("ERROR: Failed to load support team for guest %s: %v", c.UserID(), err)
		c.Deliver(NewEvent(EventGuestMessageError, ErrorPayload{Message: "support team unavailable"}))
		return
	}
	c.Deliver(NewEvent(EventSupportTeamList, team))
}

// handleGuestMessage forwards an ephemeral message to a live staff
// member's group and always confirms the send back to the guest. A
// recipient of "offline" confirms without delivering; a named recipient
// with no live connection is a delivery failure.
func (g *Gateway) handleGuestMessage(c Client, ev Event) {
	var msg models.GuestMessage
	if err := json.Unmarshal(ev.Data, &msg); err != nil {
		c.Deliver(NewEvent(EventGuestMessageError, ErrorPayload{Message: "malformed guest-message payload"}))
		return
	}
	msg.GuestID = c.UserID()

	if msg.Content == "" {
		c.Deliver(NewEvent(EventGuestMessageError, ErrorPayload{Message: "content is required"}))
		return
	}

	if msg.RecipientID != "" && msg.RecipientID != offlineRecipient {
		group := userGroup(msg.RecipientID)
		if !g.hub.GroupLive(group) {
			c.Deliver(NewEvent(EventGuestMessageError, ErrorPayload{Message: "support agent is no longer connected"}))
			return
		}
		g.hub.EmitToGroup(group, NewEvent(EventGuestMessageReceived, msg))
		g.hub.EmitToGroup(group, NewEvent(EventMessageNotification, msg))
	}

	c.Deliver(NewEvent(EventGuestMessageSent, msg))
}

// handleRespondToGuest relays a staff reply to the guest's group.
// Arrives on the staff member's authenticated connection.
func (g *Gateway) handleRespondToGuest(c Client, ev Event) {
	var reply models.GuestReply
	if err := json.Unmarshal(ev.Data, &reply); err != nil {
		c.Deliver(NewEvent(EventMessageError, ErrorPayload{Message: "malformed respond-to-guest payload"}))
		return
	}
	if reply.GuestID == "" {
		c.Deliver(NewEvent(EventMessageError, ErrorPayload{Message: "guestId is required"}))
		return
	}
	g.hub.EmitToGroup(guestGroup(reply.GuestID), NewEvent(EventRespondToGuest, reply))
}
