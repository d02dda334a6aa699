package chatsrv

import (
	"context"
	"errors"
	"testing"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/pkg/errx"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeStore struct {
	states   map[kernel.SessionID]*chat.SessionState
	messages map[kernel.SessionID][]chat.Message
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		states:   map[kernel.SessionID]*chat.SessionState{},
		messages: map[kernel.SessionID][]chat.Message{},
	}
}

func (f *fakeStore) SaveState(_ context.Context, state *chat.SessionState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *state
	f.states[state.SessionID] = &copied
	return nil
}

func (f *fakeStore) LoadState(_ context.Context, id kernel.SessionID) (*chat.SessionState, error) {
	state, ok := f.states[id]
	if !ok {
		return nil, chat.ErrSessionNotFound()
	}
	copied := *state
	return &copied, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, id kernel.SessionID, msg chat.Message) error {
	f.messages[id] = append(f.messages[id], msg)
	return nil
}

func (f *fakeStore) Messages(_ context.Context, id kernel.SessionID) ([]chat.Message, error) {
	return f.messages[id], nil
}

func (f *fakeStore) Publish(context.Context, kernel.SessionID, any) error { return nil }

func (f *fakeStore) Subscribe(context.Context, kernel.SessionID) (<-chan []byte, func() error, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, func() error { return nil }, nil
}

func (f *fakeStore) Delete(_ context.Context, id kernel.SessionID) error {
	delete(f.states, id)
	delete(f.messages, id)
	return nil
}

type fakeGateway struct {
	ctx        *chat.ApplicationContext
	ctxErr     error
	merged     [][]chat.ClarificationRecord
	mergeErr   error
	mergeCalls int
}

func (f *fakeGateway) ChatContext(context.Context, kernel.ApplicationID) (*chat.ApplicationContext, error) {
	if f.ctxErr != nil {
		return nil, f.ctxErr
	}
	return f.ctx, nil
}

func (f *fakeGateway) MergeClarifications(_ context.Context, _ kernel.ApplicationID, records []chat.ClarificationRecord) error {
	f.mergeCalls++
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merged = append(f.merged, records)
	return nil
}

type fakeRenderer struct {
	lastIntent chat.Intent
}

func (f *fakeRenderer) Render(_ context.Context, intent chat.Intent, _ *chat.SessionState, _ []chat.Message) (string, error) {
	f.lastIntent = intent
	return "rendered:" + string(intent.Kind), nil
}

func (f *fakeRenderer) Greeting(state *chat.SessionState) string {
	return "hello " + state.ApplicantName
}

// ============================================================================
// Tests
// ============================================================================

func fitScore(v int) *int { return &v }

func testGateway() *fakeGateway {
	return &fakeGateway{
		ctx: &chat.ApplicationContext{
			ApplicationID: "app-1",
			FirstName:     "Ada",
			FitScore:      fitScore(55),
			Requirements: []chat.Requirement{
				{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
				{VacancyReq: "Go", UserReqData: "5 years of Go", MatchPercent: 95},
			},
		},
	}
}

func TestCreateSessionSnapshotsApplication(t *testing.T) {
	store := newFakeStore()
	gateway := testGateway()
	service := NewChatService(store, gateway, &fakeRenderer{})

	state, greeting, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	assert.Equal(t, "hello Ada", greeting)
	assert.False(t, state.SessionID.IsEmpty())
	assert.Equal(t, kernel.ApplicationID("app-1"), state.ApplicationID)
	assert.Len(t, state.Requirements, 2)

	saved, err := store.LoadState(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", saved.ApplicantName)

	history := store.messages[state.SessionID]
	require.Len(t, history, 1)
	assert.Equal(t, chat.RoleAssistant, history[0].Role)
	assert.Equal(t, "hello Ada", history[0].Content)
}

func TestCreateSessionUnknownApplication(t *testing.T) {
	gateway := &fakeGateway{ctxErr: errors.New("no such application")}
	service := NewChatService(newFakeStore(), gateway, &fakeRenderer{})

	_, _, err := service.CreateSession(context.Background(), "missing")
	assert.Error(t, err)
}

func TestHandleMessageUnknownSession(t *testing.T) {
	service := NewChatService(newFakeStore(), testGateway(), &fakeRenderer{})

	_, err := service.HandleMessage(context.Background(), "nope", []byte(`{"message":"hi"}`))

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, chat.CodeSessionNotFound, e.Code)
}

func TestHandleMessageBadPayloadLeavesSessionUntouched(t *testing.T) {
	store := newFakeStore()
	service := NewChatService(store, testGateway(), &fakeRenderer{})

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	_, err = service.HandleMessage(context.Background(), state.SessionID, []byte(`not json`))
	require.Error(t, err)

	saved, err := store.LoadState(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.CurrentQuestionIndex)
	assert.Empty(t, saved.Clarifications)
	assert.Len(t, store.messages[state.SessionID], 1) // greeting only
}

func TestHandleMessageRecordsAnswerAndReplies(t *testing.T) {
	store := newFakeStore()
	renderer := &fakeRenderer{}
	service := NewChatService(store, testGateway(), renderer)

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	raw := []byte(`{"message":"ran EKS for two years","history":[{"role":"user","content":"ran EKS for two years"}]}`)
	out, err := service.HandleMessage(context.Background(), state.SessionID, raw)
	require.NoError(t, err)

	assert.Equal(t, chat.OutboundMessage, out.Type)
	assert.Equal(t, "rendered:conclude", out.Content)

	saved, err := store.LoadState(context.Background(), state.SessionID)
	require.NoError(t, err)
	require.Len(t, saved.Clarifications, 1)
	assert.Equal(t, "Kubernetes", saved.Clarifications[0].Requirement)
	assert.Equal(t, "ran EKS for two years", saved.Clarifications[0].Clarification)

	history := store.messages[state.SessionID]
	require.Len(t, history, 3) // greeting, user, assistant
	assert.Equal(t, chat.RoleUser, history[1].Role)
	assert.Equal(t, chat.RoleAssistant, history[2].Role)
}

func TestHandleMessageFinalizesOnce(t *testing.T) {
	store := newFakeStore()
	gateway := testGateway()
	service := NewChatService(store, gateway, &fakeRenderer{})

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	raw := []byte(`{"message":"ran EKS","history":[{"role":"user","content":"ran EKS"}]}`)
	_, err = service.HandleMessage(context.Background(), state.SessionID, raw)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.mergeCalls)

	saved, _ := store.LoadState(context.Background(), state.SessionID)
	assert.True(t, saved.Finalized)

	// Further turns conclude without another merge.
	chatter := []byte(`{"message":"thanks","history":[{"role":"assistant","content":"bye"},{"role":"user","content":"thanks"}]}`)
	_, err = service.HandleMessage(context.Background(), state.SessionID, chatter)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.mergeCalls)
}

func TestHandleMessageMergeFailureRetries(t *testing.T) {
	store := newFakeStore()
	gateway := testGateway()
	gateway.mergeErr = errors.New("db down")
	service := NewChatService(store, gateway, &fakeRenderer{})

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	raw := []byte(`{"message":"ran EKS","history":[{"role":"user","content":"ran EKS"}]}`)
	_, err = service.HandleMessage(context.Background(), state.SessionID, raw)

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, chat.CodeFinalizeFailed, e.Code)

	// The answer is kept but the session stays open for a retry.
	saved, _ := store.LoadState(context.Background(), state.SessionID)
	assert.False(t, saved.Finalized)
	require.Len(t, saved.Clarifications, 1)

	// Once the gateway recovers the next turn completes the merge.
	gateway.mergeErr = nil
	chatter := []byte(`{"message":"hello?","history":[{"role":"assistant","content":"..."},{"role":"user","content":"hello?"}]}`)
	_, err = service.HandleMessage(context.Background(), state.SessionID, chatter)
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.mergeCalls)
	require.Len(t, gateway.merged, 1)
	assert.Equal(t, "Kubernetes", gateway.merged[0][0].Requirement)

	saved, _ = store.LoadState(context.Background(), state.SessionID)
	assert.True(t, saved.Finalized)
}

func TestHandleMessageExpiredSession(t *testing.T) {
	store := newFakeStore()
	service := NewChatService(store, testGateway(), &fakeRenderer{})

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)
	require.NoError(t, service.DestroySession(context.Background(), state.SessionID))

	// A turn that carries a transcript points at a session that timed out.
	raw := []byte(`{"message":"still there?","history":[{"role":"assistant","content":"hi"},{"role":"user","content":"still there?"}]}`)
	_, err = service.HandleMessage(context.Background(), state.SessionID, raw)

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, chat.CodeSessionExpired, e.Code)
}

func TestHandleMessageKeepsClientContext(t *testing.T) {
	store := newFakeStore()
	gateway := testGateway()
	gateway.ctx.Requirements = nil
	service := NewChatService(store, gateway, &fakeRenderer{})

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	raw := []byte(`{"message":"hi","history":[{"role":"user","content":"hi"}],"context":{"source":"careers-page"}}`)
	_, err = service.HandleMessage(context.Background(), state.SessionID, raw)
	require.NoError(t, err)

	saved, err := store.LoadState(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"careers-page"}`, string(saved.Context))

	// A turn without context leaves the stored context alone.
	_, err = service.HandleMessage(context.Background(), state.SessionID, []byte(`{"message":"hello again","history":[]}`))
	require.NoError(t, err)

	saved, err = store.LoadState(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"careers-page"}`, string(saved.Context))
}

func TestSessionStatus(t *testing.T) {
	store := newFakeStore()
	service := NewChatService(store, testGateway(), &fakeRenderer{})

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	status, err := service.SessionStatus(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, status.SessionID)
	assert.Equal(t, 1, status.UnresolvedCount)
	assert.Equal(t, 0, status.ClarifiedCount)
	assert.False(t, status.Finalized)
}

func TestDestroySession(t *testing.T) {
	store := newFakeStore()
	service := NewChatService(store, testGateway(), &fakeRenderer{})

	state, _, err := service.CreateSession(context.Background(), "app-1")
	require.NoError(t, err)

	require.NoError(t, service.DestroySession(context.Background(), state.SessionID))

	_, err = service.SessionStatus(context.Background(), state.SessionID)
	assert.Error(t, err)
}
