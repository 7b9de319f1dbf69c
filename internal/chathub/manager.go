package chathub

import (
	"log"
	"sync"

	"crmchat/backend/internal/metrics"
)

// Broadcast group names. A user's group holds every live connection that
// user has; a guest's group holds the single guest connection.
func userGroup(userID string) string   { return "user-" + userID }
func guestGroup(guestID string) string { return "guest-" + guestID }

// Broadcaster is the delivery capability handed to the gateway and the
// REST facade at construction time. Neither ever reaches for the hub
// through globals.
type Broadcaster interface {
	EmitToGroup(group string, ev Event)
	EmitToAll(ev Event)
}

// Hub tracks live connections and their broadcast-group memberships. It
// is the single in-memory event-routing node; membership drops
// implicitly when a connection unregisters.
type Hub struct {
	mu sync.RWMutex

	// group name -> connID -> client
	groups map[string]map[string]Client
	// connID -> client, for direct delivery and teardown
	clients map[string]Client
	// connID -> groups the connection joined, for unregister
	joined map[string][]string
	// connID -> owning userID, populated on join-user-room so a dropped
	// connection can be mapped back to its user.
	owners map[string]string
}

func NewHub() *Hub {
	return &Hub{
		groups:  make(map[string]map[string]Client),
		clients: make(map[string]Client),
		joined:  make(map[string][]string),
		owners:  make(map[string]string),
	}
}

// Register adds a freshly upgraded connection, before it joins any group.
func (h *Hub) Register(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ConnID()] = c
	metrics.LiveConnections.Inc()
}

// Unregister removes the connection from every group it joined and
// returns the userID it was bound to, if any. The second return reports
// whether the user still has another live connection in their group.
func (h *Hub) Unregister(c Client) (ownerID string, stillLive bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	connID := c.ConnID()
	if _, ok := h.clients[connID]; !ok {
		return "", false
	}
	delete(h.clients, connID)
	metrics.LiveConnections.Dec()

	for _, group := range h.joined[connID] {
		if members, ok := h.groups[group]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.groups, group)
			}
		}
	}
	delete(h.joined, connID)

	ownerID = h.owners[connID]
	delete(h.owners, connID)
	if ownerID != "" {
		_, stillLive = h.groups[userGroup(ownerID)]
	}
	return ownerID, stillLive
}

// JoinGroup adds the connection to a broadcast group.
func (h *Hub) JoinGroup(c Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	connID := c.ConnID()
	if _, ok := h.clients[connID]; !ok {
		log.Printf("WARNING: JoinGroup for unregistered connection %s", connID)
		return
	}
	if h.groups[group] == nil {
		h.groups[group] = make(map[string]Client)
	}
	h.groups[group][connID] = c
	h.joined[connID] = append(h.joined[connID], group)
}

// BindUser records which user owns the connection, so disconnect can be
// mapped back to a presence change.
func (h *Hub) BindUser(c Client, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.owners[c.ConnID()] = userID
}

// GroupLive reports whether any connection is currently in the group.
func (h *Hub) GroupLive(group string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group]) > 0
}

// EmitToGroup fans an event out to every connection in the group. A
// group with no members is a no-op, not an error.
func (h *Hub) EmitToGroup(group string, ev Event) {
	h.mu.RLock()
	members := make([]Client, 0, len(h.groups[group]))
	for _, c := range h.groups[group] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.Deliver(ev)
	}
	metrics.EventsEmitted.WithLabelValues(ev.Type).Add(float64(len(members)))
}

// EmitToAll delivers an event to every registered connection, guests
// included.
func (h *Hub) EmitToAll(ev Event) {
	h.mu.RLock()
	all := make([]Client, 0, len(h.clients))
	for _, c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		c.Deliver(ev)
	}
	metrics.EventsEmitted.WithLabelValues(ev.Type).Add(float64(len(all)))
}
