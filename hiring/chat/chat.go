package chat

import (
	"encoding/json"
	"time"

	"github.com/clarify-hr/clarify/pkg/kernel"
)

// ResolveThreshold is the match percentage at or above which a
// requirement needs no clarification.
const ResolveThreshold = 80

// Message roles used in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Requirement is one scored line item comparing resume evidence to a
// vacancy need, as produced by the requirement matcher.
type Requirement struct {
	VacancyReq   string `json:"vacancy_req"`
	UserReqData  string `json:"user_req_data"`
	MatchPercent int    `json:"match_percent"`
}

// Resolved reports whether the requirement scored high enough to skip
// clarification.
func (r Requirement) Resolved() bool {
	return r.MatchPercent >= ResolveThreshold
}

// ClarificationRecord is one resolved question/answer exchange for an
// unresolved requirement. Field names match the persisted
// matching_sections.clarifications entries.
type ClarificationRecord struct {
	Requirement   string `json:"requirement"`
	OriginalData  string `json:"original_data"`
	Clarification string `json:"clarification"`
	OriginalMatch int    `json:"original_match"`
}

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionState ties a chat session to one application. Requirements are
// snapshotted at session creation and stay fixed for the session's
// lifetime; later re-scoring of the application does not affect it.
type SessionState struct {
	SessionID            kernel.SessionID      `json:"session_id"`
	ApplicationID        kernel.ApplicationID  `json:"application_id"`
	ApplicantName        string                `json:"applicant_name"`
	FitScore             *int                  `json:"fit_score,omitempty"`
	CurrentQuestionIndex int                   `json:"current_question_index"`
	Clarifications       []ClarificationRecord `json:"clarifications"`
	Requirements         []Requirement         `json:"requirements"`
	Context              json.RawMessage       `json:"context,omitempty"`
	Finalized            bool                  `json:"finalized"`
	CreatedAt            time.Time             `json:"created_at"`
}

// Unresolved returns the requirements scoring below the threshold,
// preserving their original order.
func Unresolved(reqs []Requirement) []Requirement {
	out := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		if !r.Resolved() {
			out = append(out, r)
		}
	}
	return out
}

// Unresolved returns the session's unresolved requirements.
func (s *SessionState) Unresolved() []Requirement {
	return Unresolved(s.Requirements)
}

// Done reports whether every unresolved requirement has been answered.
func (s *SessionState) Done() bool {
	return s.CurrentQuestionIndex >= len(s.Unresolved())
}
