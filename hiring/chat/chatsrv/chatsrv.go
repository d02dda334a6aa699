package chatsrv

import (
	"context"
	"errors"
	"time"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/pkg/errx"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/clarify-hr/clarify/pkg/logx"
	"github.com/google/uuid"
)

// ChatService drives clarification sessions: one session per open
// conversation, keyed by an explicit session ID rather than by the
// connection that created it.
type ChatService struct {
	store    chat.SessionStore
	gateway  chat.ApplicationGateway
	renderer chat.Renderer
}

// NewChatService creates a new instance of the chat service
func NewChatService(
	store chat.SessionStore,
	gateway chat.ApplicationGateway,
	renderer chat.Renderer,
) *ChatService {
	return &ChatService{
		store:    store,
		gateway:  gateway,
		renderer: renderer,
	}
}

// CreateSession opens a session over an application. The application's
// scored requirements are snapshotted into the session; re-scoring the
// application later does not touch a running conversation.
func (s *ChatService) CreateSession(ctx context.Context, applicationID kernel.ApplicationID) (*chat.SessionState, string, error) {
	appCtx, err := s.gateway.ChatContext(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}

	state := &chat.SessionState{
		SessionID:      kernel.NewSessionID(uuid.NewString()),
		ApplicationID:  appCtx.ApplicationID,
		ApplicantName:  appCtx.FirstName,
		FitScore:       appCtx.FitScore,
		Clarifications: []chat.ClarificationRecord{},
		Requirements:   appCtx.Requirements,
		CreatedAt:      time.Now(),
	}

	if err := s.store.SaveState(ctx, state); err != nil {
		return nil, "", errx.Wrap(err, "failed to save session state", errx.TypeInternal)
	}

	greeting := s.renderer.Greeting(state)
	if err := s.store.AppendMessage(ctx, state.SessionID, chat.Message{Role: chat.RoleAssistant, Content: greeting}); err != nil {
		logx.Warnf("failed to record greeting for session %s: %v", state.SessionID, err)
	}
	s.publish(ctx, state.SessionID, chat.AssistantOutbound(greeting))

	return state, greeting, nil
}

// HandleMessage runs one turn of a session over a raw inbound frame.
// A frame that fails to decode leaves the session untouched.
func (s *ChatService) HandleMessage(ctx context.Context, sessionID kernel.SessionID, raw []byte) (chat.Outbound, error) {
	in, err := chat.DecodeInbound(raw)
	if err != nil {
		return chat.Outbound{}, err
	}

	return s.Advance(ctx, sessionID, in)
}

// Advance runs one turn of a session over a decoded message.
func (s *ChatService) Advance(ctx context.Context, sessionID kernel.SessionID, in *chat.InboundMessage) (chat.Outbound, error) {
	state, err := s.store.LoadState(ctx, sessionID)
	if err != nil {
		// A client carrying a transcript once had a live session; a
		// missing state for it means the TTL ran out.
		var e *errx.Error
		if errors.As(err, &e) && e.Code == chat.CodeSessionNotFound && len(in.History) > 0 {
			return chat.Outbound{}, chat.ErrSessionExpired().WithCause(err)
		}
		return chat.Outbound{}, err
	}

	if len(in.Context) > 0 && string(in.Context) != "null" {
		state.Context = in.Context
	}

	result := chat.Advance(state, in.Message, in.History)

	if result.Finalize {
		if err := s.gateway.MergeClarifications(ctx, state.ApplicationID, state.Clarifications); err != nil {
			// The session stays unfinalized so the next turn retries
			// the merge. The answer recorded this turn is kept.
			if saveErr := s.store.SaveState(ctx, state); saveErr != nil {
				logx.Errorf("failed to save session %s after merge failure: %v", sessionID, saveErr)
			}
			return chat.Outbound{}, chat.ErrFinalizeFailed().WithCause(err)
		}
		state.Finalized = true
	}

	reply, err := s.renderer.Render(ctx, result.Intent, state, in.History)
	if err != nil {
		return chat.Outbound{}, errx.Wrap(err, "failed to render reply", errx.TypeExternal)
	}

	if err := s.store.SaveState(ctx, state); err != nil {
		return chat.Outbound{}, errx.Wrap(err, "failed to save session state", errx.TypeInternal)
	}

	if in.Message != "" {
		if err := s.store.AppendMessage(ctx, sessionID, chat.Message{Role: chat.RoleUser, Content: in.Message}); err != nil {
			logx.Warnf("failed to record user message for session %s: %v", sessionID, err)
		}
	}
	if err := s.store.AppendMessage(ctx, sessionID, chat.Message{Role: chat.RoleAssistant, Content: reply}); err != nil {
		logx.Warnf("failed to record assistant message for session %s: %v", sessionID, err)
	}

	out := chat.AssistantOutbound(reply)
	s.publish(ctx, sessionID, out)

	return out, nil
}

// SessionStatus reports the progress of a session
func (s *ChatService) SessionStatus(ctx context.Context, sessionID kernel.SessionID) (*chat.SessionStatusResponse, error) {
	state, err := s.store.LoadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &chat.SessionStatusResponse{
		SessionID:            state.SessionID,
		ApplicationID:        state.ApplicationID,
		CurrentQuestionIndex: state.CurrentQuestionIndex,
		UnresolvedCount:      len(state.Unresolved()),
		ClarifiedCount:       len(state.Clarifications),
		Finalized:            state.Finalized,
	}, nil
}

// History returns the full message history of a session
func (s *ChatService) History(ctx context.Context, sessionID kernel.SessionID) ([]chat.Message, error) {
	if _, err := s.store.LoadState(ctx, sessionID); err != nil {
		return nil, err
	}

	return s.store.Messages(ctx, sessionID)
}

// Observe subscribes to the session's outbound channel
func (s *ChatService) Observe(ctx context.Context, sessionID kernel.SessionID) (<-chan []byte, func() error, error) {
	if _, err := s.store.LoadState(ctx, sessionID); err != nil {
		return nil, nil, err
	}

	return s.store.Subscribe(ctx, sessionID)
}

// DestroySession releases all session state
func (s *ChatService) DestroySession(ctx context.Context, sessionID kernel.SessionID) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *ChatService) publish(ctx context.Context, sessionID kernel.SessionID, out chat.Outbound) {
	if err := s.store.Publish(ctx, sessionID, out); err != nil {
		logx.Warnf("failed to publish to session %s: %v", sessionID, err)
	}
}
