package chat

import (
	"encoding/json"

	"github.com/clarify-hr/clarify/pkg/errx"
	"github.com/clarify-hr/clarify/pkg/kernel"
)

// Outbound message types on the gateway channel.
const (
	OutboundStatus  = "status"
	OutboundMessage = "message"
	OutboundError   = "error"
)

// InboundMessage is the payload a client sends for one turn. Context is
// an optional free-form object; it is kept on the session and fed to the
// assistant on generic turns.
type InboundMessage struct {
	Message string          `json:"message"`
	History []Message       `json:"history"`
	Context json.RawMessage `json:"context,omitempty"`
}

// DecodeInbound parses a raw gateway frame. A malformed frame yields a
// typed validation error and must not mutate any session state.
func DecodeInbound(raw []byte) (*InboundMessage, error) {
	var in InboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, ErrInvalidPayload().WithCause(err)
	}
	return &in, nil
}

// Outbound is one frame sent back over the gateway channel.
type Outbound struct {
	Type    string `json:"type"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusOutbound builds a status frame.
func StatusOutbound(message string) Outbound {
	return Outbound{Type: OutboundStatus, Message: message}
}

// AssistantOutbound builds an assistant message frame.
func AssistantOutbound(content string) Outbound {
	return Outbound{Type: OutboundMessage, Role: RoleAssistant, Content: content}
}

// ErrorOutbound builds an error frame. Failures always degrade to a
// short assistant-style message over the normal channel.
func ErrorOutbound(err error) Outbound {
	if e, ok := err.(*errx.Error); ok {
		return Outbound{Type: OutboundError, Message: e.Message}
	}
	return Outbound{Type: OutboundError, Message: "Something went wrong"}
}

// CreateSessionRequest - DTO for opening a session over an application
type CreateSessionRequest struct {
	ApplicationID kernel.ApplicationID `json:"application_id" validate:"required"`
}

// CreateSessionResponse - DTO returned when a session is created
type CreateSessionResponse struct {
	SessionID kernel.SessionID `json:"session_id"`
	Greeting  string           `json:"greeting"`
}

// SessionStatusResponse - DTO describing a session's progress
type SessionStatusResponse struct {
	SessionID            kernel.SessionID     `json:"session_id"`
	ApplicationID        kernel.ApplicationID `json:"application_id"`
	CurrentQuestionIndex int                  `json:"current_question_index"`
	UnresolvedCount      int                  `json:"unresolved_count"`
	ClarifiedCount       int                  `json:"clarified_count"`
	Finalized            bool                 `json:"finalized"`
}
