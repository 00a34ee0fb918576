// Package event defines the named events pushed to connected clients.
// Every event crosses the wire as an {event, data} envelope; the payload
// types here are the data shapes.
package event

// Name identifies an event on the push channel.
type Name string

const (
	UserOnline  Name = "user-online"
	UserOffline Name = "user-offline"
	TypingStart Name = "typing-start"
	TypingStop  Name = "typing-stop"
	// MessageReceived keeps its historical spelling: deployed clients
	// subscribe to "msg-recieve" and renaming it would break them.
	MessageReceived Name = "msg-recieve"
	MessagesBlocked Name = "messages-blocked"
)

// Event is a named push event with a JSON-serializable payload.
type Event struct {
	Name    Name `json:"event"`
	Payload any  `json:"data"`
}

// Presence announces an identity going online or offline.
type Presence struct {
	UserID string `json:"userId"`
}

// Typing carries the sender of a typing indicator; the recipient is
// implicit in the connection it is delivered to.
type Typing struct {
	From string `json:"from"`
}

// RegularMessage is the reduced live payload for a non-anonymous message.
// The recipient identity is deliberately omitted: only the sender and the
// client's own channel matter on the receiving side.
type RegularMessage struct {
	Msg  string `json:"msg"`
	From string `json:"from"`
}

// AnonymousMessage carries the full context so the recipient client can
// route it into the anonymous inbox instead of an open conversation view.
type AnonymousMessage struct {
	ID          string `json:"id"`
	Msg         string `json:"msg"`
	From        string `json:"from"`
	To          string `json:"to"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// Blocked tells a sender that a recipient stopped receiving their
// anonymous messages, so the client can disable its input immediately.
type Blocked struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

func New(name Name, payload any) Event {
	return Event{Name: name, Payload: payload}
}
