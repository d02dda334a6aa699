package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(reqs []Requirement) *SessionState {
	return &SessionState{
		SessionID:      "sess-1",
		ApplicationID:  "app-1",
		ApplicantName:  "Ada",
		Clarifications: []ClarificationRecord{},
		Requirements:   reqs,
	}
}

func userTurn(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

func TestAdvanceNoRequirements(t *testing.T) {
	state := newTestState(nil)

	result := Advance(state, "hello", nil)

	assert.Equal(t, IntentGeneric, result.Intent.Kind)
	assert.Nil(t, result.Recorded)
	assert.False(t, result.Finalize)
	assert.Equal(t, 0, state.CurrentQuestionIndex)
}

func TestAdvanceAllResolved(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Go", UserReqData: "5 years of Go", MatchPercent: 95},
		{VacancyReq: "Postgres", UserReqData: "heavy SQL work", MatchPercent: 80},
	})

	result := Advance(state, "hi there", userTurn("hi there"))

	assert.Equal(t, IntentGeneric, result.Intent.Kind)
	assert.Empty(t, state.Clarifications)
}

func TestAdvanceFirstQuestionWithoutUserTurn(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
	})

	// Empty history: nothing to record, just ask the first question.
	result := Advance(state, "", nil)

	require.Equal(t, IntentAsk, result.Intent.Kind)
	require.NotNil(t, result.Intent.Requirement)
	assert.Equal(t, "Kubernetes", result.Intent.Requirement.VacancyReq)
	assert.False(t, result.Intent.JustAnswered)
	assert.Nil(t, result.Recorded)
	assert.Equal(t, 0, state.CurrentQuestionIndex)
}

func TestAdvanceRecordsAnswerAndAsksNext(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
		{VacancyReq: "Terraform", UserReqData: "some IaC exposure", MatchPercent: 40},
	})

	result := Advance(state, "I ran k8s clusters at my last job", userTurn("I ran k8s clusters at my last job"))

	require.NotNil(t, result.Recorded)
	assert.Equal(t, "Kubernetes", result.Recorded.Requirement)
	assert.Equal(t, "not mentioned", result.Recorded.OriginalData)
	assert.Equal(t, "I ran k8s clusters at my last job", result.Recorded.Clarification)
	assert.Equal(t, 10, result.Recorded.OriginalMatch)

	require.Equal(t, IntentAsk, result.Intent.Kind)
	assert.Equal(t, "Terraform", result.Intent.Requirement.VacancyReq)
	assert.True(t, result.Intent.JustAnswered)
	assert.Equal(t, 1, state.CurrentQuestionIndex)
	assert.Len(t, state.Clarifications, 1)
}

func TestAdvanceSkipsResolvedRequirements(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Go", UserReqData: "5 years of Go", MatchPercent: 95},
		{VacancyReq: "Kafka", UserReqData: "no mention", MatchPercent: 20},
		{VacancyReq: "SQL", UserReqData: "solid SQL", MatchPercent: 85},
		{VacancyReq: "Redis", UserReqData: "basic caching", MatchPercent: 60},
	})

	// Only Kafka and Redis fall below the threshold, in that order.
	result := Advance(state, "", nil)
	require.Equal(t, IntentAsk, result.Intent.Kind)
	assert.Equal(t, "Kafka", result.Intent.Requirement.VacancyReq)

	result = Advance(state, "built a Kafka pipeline", userTurn("built a Kafka pipeline"))
	require.Equal(t, IntentAsk, result.Intent.Kind)
	assert.Equal(t, "Redis", result.Intent.Requirement.VacancyReq)
}

func TestAdvanceConcludesAfterLastAnswer(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
	})

	result := Advance(state, "I ran k8s clusters", userTurn("I ran k8s clusters"))

	assert.Equal(t, IntentConclude, result.Intent.Kind)
	assert.Equal(t, 1, result.Intent.Answered)
	require.NotNil(t, result.Recorded)
	assert.True(t, result.Finalize)
	assert.Equal(t, 1, state.CurrentQuestionIndex)
}

func TestAdvanceFinalizesOnlyOnce(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
	})

	result := Advance(state, "I ran k8s clusters", userTurn("I ran k8s clusters"))
	require.True(t, result.Finalize)
	state.Finalized = true

	// Chatter after wrap-up keeps concluding but never re-finalizes.
	result = Advance(state, "thanks!", []Message{
		{Role: RoleAssistant, Content: "All done, thank you."},
		{Role: RoleUser, Content: "thanks!"},
	})

	assert.Equal(t, IntentConclude, result.Intent.Kind)
	assert.Nil(t, result.Recorded)
	assert.False(t, result.Finalize)
	assert.Len(t, state.Clarifications, 1)
}

func TestAdvanceIgnoresAssistantLastTurn(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
	})

	history := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "Tell me about your Kubernetes work."},
	}
	result := Advance(state, "hello", history)

	assert.Nil(t, result.Recorded)
	assert.Equal(t, 0, state.CurrentQuestionIndex)
	assert.Equal(t, IntentAsk, result.Intent.Kind)
}

func TestAdvanceReplayRecordsAgainstNextRequirement(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
		{VacancyReq: "Terraform", UserReqData: "some IaC exposure", MatchPercent: 40},
	})

	answer := "I ran k8s clusters"
	Advance(state, answer, userTurn(answer))
	require.Equal(t, 1, state.CurrentQuestionIndex)

	// The same answer re-sent lands on the next open question; there is
	// no content-based dedup.
	result := Advance(state, answer, userTurn(answer))

	require.NotNil(t, result.Recorded)
	assert.Equal(t, "Terraform", result.Recorded.Requirement)
	assert.Equal(t, answer, result.Recorded.Clarification)
	assert.Len(t, state.Clarifications, 2)
}

func TestAdvanceFullConversation(t *testing.T) {
	state := newTestState([]Requirement{
		{VacancyReq: "Go", UserReqData: "5 years of Go", MatchPercent: 95},
		{VacancyReq: "Kubernetes", UserReqData: "not mentioned", MatchPercent: 10},
		{VacancyReq: "Terraform", UserReqData: "some IaC exposure", MatchPercent: 40},
	})

	result := Advance(state, "", nil)
	require.Equal(t, IntentAsk, result.Intent.Kind)
	assert.Equal(t, "Kubernetes", result.Intent.Requirement.VacancyReq)

	result = Advance(state, "managed EKS for two years", userTurn("managed EKS for two years"))
	require.Equal(t, IntentAsk, result.Intent.Kind)
	assert.Equal(t, "Terraform", result.Intent.Requirement.VacancyReq)

	result = Advance(state, "wrote all our Terraform modules", userTurn("wrote all our Terraform modules"))
	require.Equal(t, IntentConclude, result.Intent.Kind)
	assert.True(t, result.Finalize)
	assert.Equal(t, 2, result.Intent.Answered)

	require.Len(t, state.Clarifications, 2)
	assert.Equal(t, "Kubernetes", state.Clarifications[0].Requirement)
	assert.Equal(t, "Terraform", state.Clarifications[1].Requirement)
	assert.True(t, state.Done())
}

func TestUnresolvedPreservesOrder(t *testing.T) {
	reqs := []Requirement{
		{VacancyReq: "A", MatchPercent: 79},
		{VacancyReq: "B", MatchPercent: 80},
		{VacancyReq: "C", MatchPercent: 0},
		{VacancyReq: "D", MatchPercent: 100},
	}

	unresolved := Unresolved(reqs)

	require.Len(t, unresolved, 2)
	assert.Equal(t, "A", unresolved[0].VacancyReq)
	assert.Equal(t, "C", unresolved[1].VacancyReq)
}

func TestLastTurns(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
		{Role: RoleUser, Content: "three"},
	}

	assert.Len(t, LastTurns(history, 2), 2)
	assert.Equal(t, "two", LastTurns(history, 2)[0].Content)
	assert.Equal(t, history, LastTurns(history, 5))
	assert.Empty(t, LastTurns(nil, 2))
}

func TestDecodeInbound(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"message":"hi","history":[{"role":"user","content":"hi"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", in.Message)
	require.Len(t, in.History, 1)
	assert.Equal(t, RoleUser, in.History[0].Role)
	assert.Empty(t, in.Context)

	in, err = DecodeInbound([]byte(`{"message":"hi","history":[],"context":{"source":"careers-page"}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"careers-page"}`, string(in.Context))

	_, err = DecodeInbound([]byte(`not json`))
	assert.Error(t, err)
}
