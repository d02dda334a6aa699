package chatapi

import (
	"context"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/hiring/chat/chatsrv"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/clarify-hr/clarify/pkg/logx"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides the WebSocket gateway and the REST surface for
// clarification sessions
type Handlers struct {
	service *chatsrv.ChatService
}

// NewHandlers creates a new chat handlers instance
func NewHandlers(service *chatsrv.ChatService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// ChatSocket runs a clarification conversation over one WebSocket
// connection. The session is created on connect and destroyed on
// disconnect; its ID travels in every status frame so observers can
// attach to the same session by ID.
// GET /ws/chat/:applicationId
func (h *Handlers) ChatSocket(c *websocket.Conn) {
	// The fiber request context dies with the upgrade; socket work
	// runs on its own context.
	ctx := context.Background()
	applicationID := kernel.ApplicationID(c.Params("applicationId"))

	if err := c.WriteJSON(chat.StatusOutbound("connected")); err != nil {
		return
	}

	state, greeting, err := h.service.CreateSession(ctx, applicationID)
	if err != nil {
		logx.Warnf("failed to open chat session for application %s: %v", applicationID, err)
		_ = c.WriteJSON(chat.ErrorOutbound(err))
		return
	}
	sessionID := state.SessionID

	defer func() {
		if err := h.service.DestroySession(ctx, sessionID); err != nil {
			logx.Warnf("failed to destroy chat session %s: %v", sessionID, err)
		}
	}()

	if err := c.WriteJSON(fiber.Map{
		"type":       "status",
		"message":    "session created",
		"session_id": sessionID,
	}); err != nil {
		return
	}
	if err := c.WriteJSON(chat.AssistantOutbound(greeting)); err != nil {
		return
	}

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}

		out, err := h.service.HandleMessage(ctx, sessionID, raw)
		if err != nil {
			logx.Warnf("chat session %s turn failed: %v", sessionID, err)
			if writeErr := c.WriteJSON(chat.ErrorOutbound(err)); writeErr != nil {
				return
			}
			continue
		}

		if err := c.WriteJSON(out); err != nil {
			return
		}
	}
}

// ObserveSocket streams a running session's outbound frames to a
// read-only observer. Frames arrive via the session's pub/sub channel.
// GET /ws/chat/sessions/:id/observe
func (h *Handlers) ObserveSocket(c *websocket.Conn) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()
	sessionID := kernel.SessionID(c.Params("id"))

	frames, cancel, err := h.service.Observe(ctx, sessionID)
	if err != nil {
		_ = c.WriteJSON(chat.ErrorOutbound(err))
		return
	}
	defer cancel()

	if err := c.WriteJSON(chat.StatusOutbound("observing")); err != nil {
		return
	}

	// Drain reads so peer close is noticed while we stream.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// CreateSession opens a session without a socket attached
// POST /api/chat/sessions
func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	var req chat.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return chat.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if req.ApplicationID.IsEmpty() {
		return chat.ErrInvalidRequest().WithDetail("application_id", "missing or empty")
	}

	state, greeting, err := h.service.CreateSession(c.Context(), req.ApplicationID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(chat.CreateSessionResponse{
		SessionID: state.SessionID,
		Greeting:  greeting,
	})
}

// PostMessage runs one turn of a session over HTTP
// POST /api/chat/sessions/:id/messages
func (h *Handlers) PostMessage(c *fiber.Ctx) error {
	sessionID := kernel.SessionID(c.Params("id"))
	if sessionID.IsEmpty() {
		return chat.ErrSessionNotFound().WithDetail("id", "missing or empty")
	}

	out, err := h.service.HandleMessage(c.Context(), sessionID, c.Body())
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// GetSessionStatus reports a session's progress
// GET /api/chat/sessions/:id
func (h *Handlers) GetSessionStatus(c *fiber.Ctx) error {
	sessionID := kernel.SessionID(c.Params("id"))
	if sessionID.IsEmpty() {
		return chat.ErrSessionNotFound().WithDetail("id", "missing or empty")
	}

	status, err := h.service.SessionStatus(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return c.JSON(status)
}

// GetSessionHistory returns the recorded message history of a session
// GET /api/chat/sessions/:id/messages
func (h *Handlers) GetSessionHistory(c *fiber.Ctx) error {
	sessionID := kernel.SessionID(c.Params("id"))
	if sessionID.IsEmpty() {
		return chat.ErrSessionNotFound().WithDetail("id", "missing or empty")
	}

	messages, err := h.service.History(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"messages":   messages,
	})
}

// DeleteSession destroys a session and its history
// DELETE /api/chat/sessions/:id
func (h *Handlers) DeleteSession(c *fiber.Ctx) error {
	sessionID := kernel.SessionID(c.Params("id"))
	if sessionID.IsEmpty() {
		return chat.ErrSessionNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DestroySession(c.Context(), sessionID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// ============================================================================
// Helper Functions
// ============================================================================

// upgradeRequired gates websocket routes behind a proper upgrade
// handshake
func upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket gateway and the REST mirror
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	app.Use("/ws", upgradeRequired)
	app.Get("/ws/chat/sessions/:id/observe", websocket.New(handlers.ObserveSocket))
	app.Get("/ws/chat/:applicationId", websocket.New(handlers.ChatSocket))

	api := app.Group("/api/chat")
	api.Post("/sessions", handlers.CreateSession)
	api.Post("/sessions/:id/messages", handlers.PostMessage)
	api.Get("/sessions/:id/messages", handlers.GetSessionHistory)
	api.Get("/sessions/:id", handlers.GetSessionStatus)
	api.Delete("/sessions/:id", handlers.DeleteSession)
}
