// Package domain contains core concepts of the chat system.
// This file defines Message records and their lifecycle flags.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted chat record. Text and IsAnonymous are immutable
// once created; the lifecycle flags only ever move forward, except that
// ReceivingStopped is applied retroactively to a whole sender→recipient
// anonymous history in one batch.
type Message struct {
	ID        uuid.UUID
	Sender    string
	Recipient string
	Text      string
	CreatedAt time.Time

	IsAnonymous bool

	// Anonymous lifecycle flags. Always false on regular messages.
	IdentityRevealRequested bool
	IdentityRevealed        bool
	ReceivingStopped        bool
}

// OrderPair returns the two identities in lexicographic order so that
// (a, b) and (b, a) resolve to the same conversation scope.
func OrderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
