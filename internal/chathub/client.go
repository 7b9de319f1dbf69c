package chathub

// Kind tags what a live connection is: a token-authenticated CRM user or
// an anonymous website guest. The two kinds carry disjoint event sets.
type Kind int

const (
	KindAuthenticated Kind = iota
	KindGuest
)

// Client is one live connection, independent of transport. The hub
// addresses clients only through this interface, which keeps the gateway
// testable without real websockets.
type Client interface {
	// ConnID uniquely identifies this connection (not the user; one user
	// may hold several connections).
	ConnID() string
	// UserID is the authenticated user id, or the guest id for guests.
	UserID() string
	Kind() Kind

	// Deliver queues an event for the client's write pump. It must not
	// block; implementations drop the event when the client is too slow.
	Deliver(ev Event)

	// Close tears the connection down and releases its send channel.
	Close()
}
