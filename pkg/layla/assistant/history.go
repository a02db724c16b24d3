// Package assistant – history.go implements the per-user conversation log.
package assistant

import (
	"strings"
	"sync"
)

// Turn is a single conversation entry. Immutable once appended.
type Turn struct {
	// Speaker is the display label ("username" or the bot name).
	Speaker string

	// Text is the raw message or response text.
	Text string
}

// History keeps a bounded ordered log of recent turns per user.
//
// Each user's log is isolated by key and capped at maxTurns entries; the
// oldest entries are evicted silently (FIFO) on overflow. Appends for the
// same user are serialized by a per-user mutex. We assume the platform
// delivers one user's messages in order; History preserves whatever order
// appends arrive in, it does not re-sort.
//
// History lives for the process lifetime only. Durability across restarts
// is deliberately not provided.
type History struct {
	maxTurns int

	mu    sync.RWMutex
	users map[string]*userLog
}

type userLog struct {
	mu    sync.Mutex
	turns []Turn
}

// NewHistory creates a History keeping at most maxTurns entries per user.
func NewHistory(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &History{
		maxTurns: maxTurns,
		users:    make(map[string]*userLog),
	}
}

// Append pushes a turn onto the user's log, evicting the oldest entry if
// the log is at capacity.
func (h *History) Append(userID, speaker, text string) {
	log := h.logFor(userID)

	log.mu.Lock()
	defer log.mu.Unlock()

	log.turns = append(log.turns, Turn{Speaker: speaker, Text: text})
	if len(log.turns) > h.maxTurns {
		log.turns = log.turns[len(log.turns)-h.maxTurns:]
	}
}

// Render returns the user's turns as newline-delimited "speaker : text"
// lines in chronological order, ready for prompt inclusion.
func (h *History) Render(userID string) string {
	log := h.logFor(userID)

	log.mu.Lock()
	defer log.mu.Unlock()

	var b strings.Builder
	for i, turn := range log.turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(turn.Speaker)
		b.WriteString(" : ")
		b.WriteString(turn.Text)
	}
	return b.String()
}

// Turns returns a copy of the user's current turns.
func (h *History) Turns(userID string) []Turn {
	log := h.logFor(userID)

	log.mu.Lock()
	defer log.mu.Unlock()

	out := make([]Turn, len(log.turns))
	copy(out, log.turns)
	return out
}

// Len returns the number of turns currently held for the user.
func (h *History) Len(userID string) int {
	log := h.logFor(userID)

	log.mu.Lock()
	defer log.mu.Unlock()
	return len(log.turns)
}

// Clear drops all logs for all users.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users = make(map[string]*userLog)
}

// logFor returns the user's log, creating it on first use.
func (h *History) logFor(userID string) *userLog {
	h.mu.RLock()
	log, ok := h.users[userID]
	h.mu.RUnlock()
	if ok {
		return log
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if log, ok = h.users[userID]; ok {
		return log
	}
	log = &userLog{}
	h.users[userID] = log
	return log
}
