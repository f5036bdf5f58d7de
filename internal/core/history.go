package core

import "wellmate-chatbot/pkg"

// History is the per-request conversation buffer. It is rebuilt from the
// persisted transcript at the start of each request, mutated by exactly one
// handler, and discarded once its tail has been written back. It is never
// shared across requests.
type History struct {
	turns []pkg.Turn
}

// NewHistory returns an empty buffer.
func NewHistory() *History { return &History{} }

// NewHistoryFromStored rebuilds a buffer from stored turns, preserving
// chronology. Entries with an unrecognized role tag are dropped.
func NewHistoryFromStored(stored []pkg.Turn) *History {
	h := &History{turns: make([]pkg.Turn, 0, len(stored))}
	for _, t := range stored {
		if t.Type == pkg.RoleHuman || t.Type == pkg.RoleAI {
			h.turns = append(h.turns, t)
		}
	}
	return h
}

// Append adds one turn at the tail.
func (h *History) Append(role pkg.TurnRole, content string) {
	h.turns = append(h.turns, pkg.Turn{Type: role, Content: content})
}

// Truncate keeps only the most recent maxLen turns.
func (h *History) Truncate(maxLen int) {
	if maxLen >= 0 && len(h.turns) > maxLen {
		h.turns = h.turns[len(h.turns)-maxLen:]
	}
}

// Len reports the number of buffered turns.
func (h *History) Len() int { return len(h.turns) }

// Stored serializes the buffer back to the persisted shape.
func (h *History) Stored() []pkg.Turn {
	out := make([]pkg.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}
