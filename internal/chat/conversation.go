// Package chat implements the conversation core: the append-only turn
// log and the controller that orchestrates completion round trips and
// appointment booking.
package chat

import "github.com/bea-tech/site-assistant/internal/model"

// Greeting opens every fresh conversation.
const Greeting = "Hello! How can I help you today? Feel free to ask any questions about Bea-Tech IT or book an appointment."

// Conversation is the ordered, append-only log of turns for one open
// widget session. It is not safe for concurrent use on its own; the
// owning controller serializes access.
type Conversation struct {
	turns []model.Turn
}

// NewConversation creates a conversation seeded with the greeting turn.
func NewConversation() *Conversation {
	c := &Conversation{}
	c.Reset()
	return c
}

// Append adds a turn at the end of the log.
func (c *Conversation) Append(t model.Turn) {
	c.turns = append(c.turns, t)
}

// Reset discards all turns and reseeds the greeting. Resetting an
// already-fresh conversation yields the same single-greeting state.
func (c *Conversation) Reset() {
	c.turns = []model.Turn{model.TextTurn(model.RoleModel, Greeting)}
}

// Len reports the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Turns returns a copy of the full log, ack turns included, for
// rendering.
func (c *Conversation) Turns() []model.Turn {
	out := make([]model.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// History returns the turns replayed to the completion service: the
// full log minus locally synthesized ack turns. The service is
// stateless per call, so this is resent in full every round trip.
func (c *Conversation) History() []model.Turn {
	out := make([]model.Turn, 0, len(c.turns))
	for _, t := range c.turns {
		if t.Role == model.RoleAck {
			continue
		}
		out = append(out, t)
	}
	return out
}
