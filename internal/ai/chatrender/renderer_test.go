package chatrender

import (
	"testing"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/stretchr/testify/assert"
)

func testState() *chat.SessionState {
	score := 55
	return &chat.SessionState{
		SessionID:     "sess-1",
		ApplicationID: "app-1",
		ApplicantName: "Ada",
		FitScore:      &score,
		Requirements: []chat.Requirement{
			{VacancyReq: "Kubernetes", UserReqData: "", MatchPercent: 10},
			{VacancyReq: "Go", UserReqData: "5 years", MatchPercent: 95},
		},
	}
}

func TestGreeting(t *testing.T) {
	r := NewRenderer(nil, "")
	state := testState()

	greeting := r.Greeting(state)
	assert.Contains(t, greeting, "Ada")
	assert.Contains(t, greeting, "55%")
	assert.Contains(t, greeting, "1 quick question")
}

func TestGreetingWithoutScore(t *testing.T) {
	r := NewRenderer(nil, "")
	state := testState()
	state.FitScore = nil

	greeting := r.Greeting(state)
	assert.Contains(t, greeting, "Ada")
	assert.NotContains(t, greeting, "%")
}

func TestGreetingNothingToClarify(t *testing.T) {
	r := NewRenderer(nil, "")
	state := testState()
	state.Requirements = []chat.Requirement{
		{VacancyReq: "Go", UserReqData: "5 years", MatchPercent: 95},
	}

	greeting := r.Greeting(state)
	assert.Contains(t, greeting, "nothing we need to clarify")
}

func TestGreetingWithoutName(t *testing.T) {
	r := NewRenderer(nil, "")
	state := testState()
	state.ApplicantName = ""

	assert.Contains(t, r.Greeting(state), "Hi there!")
}

func TestPromptsAsk(t *testing.T) {
	r := NewRenderer(nil, "")
	state := testState()
	req := state.Requirements[0]

	system, fallback := r.prompts(chat.Intent{Kind: chat.IntentAsk, Requirement: &req}, state)
	assert.Contains(t, system, "Kubernetes")
	assert.Contains(t, fallback, "Kubernetes")
	assert.NotContains(t, fallback, "Got it.")

	_, fallback = r.prompts(chat.Intent{Kind: chat.IntentAsk, Requirement: &req, JustAnswered: true}, state)
	assert.Contains(t, fallback, "Got it.")
}

func TestPromptsConclude(t *testing.T) {
	r := NewRenderer(nil, "")

	system, fallback := r.prompts(chat.Intent{Kind: chat.IntentConclude, Answered: 2}, testState())
	assert.Contains(t, system, "Ada")
	assert.Contains(t, system, "2 questions")
	assert.Contains(t, fallback, "added to your application")
}

func TestPromptsGeneric(t *testing.T) {
	r := NewRenderer(nil, "")

	system, fallback := r.prompts(chat.Intent{Kind: chat.IntentGeneric}, testState())
	assert.Contains(t, system, "nothing left to clarify")
	assert.NotContains(t, system, "Additional context")
	assert.NotEmpty(t, fallback)
}

func TestPromptsGenericWithClientContext(t *testing.T) {
	r := NewRenderer(nil, "")
	state := testState()
	state.Context = []byte(`{"source":"careers-page"}`)

	system, _ := r.prompts(chat.Intent{Kind: chat.IntentGeneric}, state)
	assert.Contains(t, system, "Additional context")
	assert.Contains(t, system, "careers-page")
}
