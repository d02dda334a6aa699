package chat

import (
	"context"

	"github.com/clarify-hr/clarify/pkg/kernel"
)

// SessionStore is the durable/keyed store for session state, message
// history and pub/sub delivery. Keys expire on a per-session TTL.
type SessionStore interface {
	// SaveState writes the session state and refreshes its TTL
	SaveState(ctx context.Context, state *SessionState) error

	// LoadState reads the session state; a missing session yields
	// ErrSessionNotFound
	LoadState(ctx context.Context, id kernel.SessionID) (*SessionState, error)

	// AppendMessage appends one turn to the session's history list
	AppendMessage(ctx context.Context, id kernel.SessionID, msg Message) error

	// Messages returns the session's full history list
	Messages(ctx context.Context, id kernel.SessionID) ([]Message, error)

	// Publish broadcasts a payload to the session's channel
	Publish(ctx context.Context, id kernel.SessionID, payload any) error

	// Subscribe delivers raw published payloads until the returned
	// cancel func is called or the context ends
	Subscribe(ctx context.Context, id kernel.SessionID) (<-chan []byte, func() error, error)

	// Delete releases all keys for the session
	Delete(ctx context.Context, id kernel.SessionID) error
}

// ApplicationContext is the slice of application data the chat flow
// needs: who is being interviewed and what was scored.
type ApplicationContext struct {
	ApplicationID kernel.ApplicationID
	FirstName     string
	LastName      string
	FitScore      *int
	Requirements  []Requirement
}

// ApplicationGateway connects the chat flow to the application record.
type ApplicationGateway interface {
	// ChatContext loads the context for a session over the given
	// application
	ChatContext(ctx context.Context, id kernel.ApplicationID) (*ApplicationContext, error)

	// MergeClarifications overwrites the application's persisted
	// clarification list with the given records and commits. The
	// overwrite semantics make repeated finalization idempotent.
	MergeClarifications(ctx context.Context, id kernel.ApplicationID, records []ClarificationRecord) error
}

// Renderer turns an engine intent into assistant text. Implementations
// receive only the bounded history window handed to them.
type Renderer interface {
	Render(ctx context.Context, intent Intent, state *SessionState, history []Message) (string, error)

	// Greeting builds the opening message of a fresh session
	Greeting(state *SessionState) string
}

// LastTurns returns at most n of the most recent history entries.
func LastTurns(history []Message, n int) []Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
