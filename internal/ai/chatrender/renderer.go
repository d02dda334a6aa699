package chatrender

import (
	"context"
	"fmt"
	"strings"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/pkg/logx"
	"github.com/openai/openai-go/v3"
)

// Renderer generates assistant turns with an LLM. Generation failures
// degrade to canned lines so the dialogue never surfaces an error to
// the applicant.
type Renderer struct {
	client *openai.Client
	model  string
}

// NewRenderer creates a renderer on a shared OpenAI client.
func NewRenderer(client *openai.Client, model string) *Renderer {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Renderer{
		client: client,
		model:  model,
	}
}

var _ chat.Renderer = (*Renderer)(nil)

// Render produces the next assistant message for the given intent.
func (r *Renderer) Render(ctx context.Context, intent chat.Intent, state *chat.SessionState, history []chat.Message) (string, error) {
	systemPrompt, fallback := r.prompts(intent, state)

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	for _, msg := range chat.LastTurns(history, 2) {
		if msg.Role == chat.RoleUser {
			messages = append(messages, openai.UserMessage(msg.Content))
		} else {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       r.model,
		Temperature: openai.Float(0.5),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		logx.Warnf("chat render failed, using fallback: %v", err)
		return fallback, nil
	}

	if len(completion.Choices) == 0 {
		logx.Warn("chat render returned no choices, using fallback")
		return fallback, nil
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return fallback, nil
	}

	return content, nil
}

// prompts builds the system prompt and a canned fallback line for an intent.
func (r *Renderer) prompts(intent chat.Intent, state *chat.SessionState) (string, string) {
	switch intent.Kind {
	case chat.IntentAsk:
		req := intent.Requirement
		var lead string
		if intent.JustAnswered {
			lead = "The applicant just answered the previous question. Briefly acknowledge the answer (a few words, like \"Got it.\" or \"Thanks.\"), then ask the next question."
		} else {
			lead = "Ask the applicant one short, friendly question."
		}

		system := fmt.Sprintf(
			`You are a recruiting assistant interviewing an applicant about gaps between their resume and a vacancy.

%s

The question is about this requirement: %q
What the resume said about it: %q (match: %d%%)

Ask what concrete experience the applicant has with this requirement. One question only, conversational tone, no bullet lists.`,
			lead, req.VacancyReq, req.UserReqData, req.MatchPercent,
		)

		fallback := fmt.Sprintf("Could you tell me more about your experience with %s?", req.VacancyReq)
		if intent.JustAnswered {
			fallback = "Got it. " + fallback
		}
		return system, fallback

	case chat.IntentConclude:
		system := fmt.Sprintf(
			`You are a recruiting assistant wrapping up a clarification interview with %s. All %d questions have been answered. Thank the applicant warmly, tell them their answers have been added to their application, and say the recruiting team will be in touch. Two sentences at most.`,
			applicantName(state), intent.Answered,
		)
		return system, "Thank you for your answers! They have been added to your application, and our team will be in touch soon."

	default:
		system := fmt.Sprintf(
			`You are a recruiting assistant chatting with %s about their application. There is nothing left to clarify. Respond helpfully and briefly to whatever the applicant says.`,
			applicantName(state),
		)
		if state != nil && len(state.Context) > 0 {
			system += fmt.Sprintf("\n\nAdditional context supplied by the client:\n%s", state.Context)
		}
		return system, "Thanks for reaching out! Your application looks complete, and our team will be in touch soon."
	}
}

// Greeting builds the opening message of a session.
func (r *Renderer) Greeting(state *chat.SessionState) string {
	name := applicantName(state)
	unresolved := len(state.Unresolved())

	if unresolved == 0 {
		return fmt.Sprintf("Hi %s! Your application looks complete, there is nothing we need to clarify right now.", name)
	}

	if state.FitScore != nil {
		return fmt.Sprintf(
			"Hi %s! Thanks for applying. Your resume matched the vacancy at %d%%. I have %d quick question(s) to fill in the gaps, let's get started.",
			name, *state.FitScore, unresolved,
		)
	}

	return fmt.Sprintf(
		"Hi %s! Thanks for applying. I have %d quick question(s) about your resume, let's get started.",
		name, unresolved,
	)
}

func applicantName(state *chat.SessionState) string {
	if state == nil || state.ApplicantName == "" {
		return "there"
	}
	return state.ApplicantName
}
