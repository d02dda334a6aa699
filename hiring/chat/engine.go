package chat

// IntentKind selects how the next assistant turn should be rendered.
type IntentKind string

const (
	// IntentAsk asks the applicant about one unresolved requirement.
	IntentAsk IntentKind = "ask"
	// IntentConclude thanks the applicant and closes the dialogue.
	IntentConclude IntentKind = "conclude"
	// IntentGeneric is the fallback when there is nothing to clarify.
	IntentGeneric IntentKind = "generic"
)

// Intent is the engine's decision for the next assistant turn. It is
// handed to the text renderer together with a bounded slice of history.
type Intent struct {
	Kind IntentKind

	// Requirement is set for IntentAsk.
	Requirement *Requirement

	// JustAnswered marks an ask that directly follows a recorded
	// answer; it affects phrasing only, never state.
	JustAnswered bool

	// Answered is the number of clarifications collected so far,
	// used by the wrap-up prompt.
	Answered int
}

// TurnResult is the outcome of one engine transition.
type TurnResult struct {
	Intent Intent

	// Recorded is the clarification stored this turn, if any.
	Recorded *ClarificationRecord

	// Finalize is true the first time the session reaches wrap-up:
	// the collected clarifications must be merged into the
	// application record before the state is saved with
	// Finalized set.
	Finalize bool
}

// Advance runs one transition of the clarification state machine over
// in-memory state. It performs no I/O; persistence and text generation
// happen around it.
//
// The incoming message is treated as the answer to the requirement at
// the current question index whenever the history's most recent entry
// was spoken by the user and questions remain. There is no
// content-based dedup: if a client re-sends an answer after the index
// has advanced, it is recorded against the NEXT unresolved requirement.
// That replay gap is inherited behavior, kept deliberately rather than
// papered over with guessed dedup semantics.
func Advance(state *SessionState, incoming string, history []Message) TurnResult {
	unresolved := state.Unresolved()

	// Nothing to clarify: generic assistant mode, no questioning.
	if len(state.Requirements) == 0 || len(unresolved) == 0 {
		return TurnResult{Intent: Intent{Kind: IntentGeneric}}
	}

	var recorded *ClarificationRecord
	if len(history) > 0 && history[len(history)-1].Role == RoleUser &&
		state.CurrentQuestionIndex < len(unresolved) {
		req := unresolved[state.CurrentQuestionIndex]
		rec := ClarificationRecord{
			Requirement:   req.VacancyReq,
			OriginalData:  req.UserReqData,
			Clarification: incoming,
			OriginalMatch: req.MatchPercent,
		}
		state.Clarifications = append(state.Clarifications, rec)
		state.CurrentQuestionIndex++
		recorded = &rec
	}

	if state.CurrentQuestionIndex < len(unresolved) {
		req := unresolved[state.CurrentQuestionIndex]
		return TurnResult{
			Intent: Intent{
				Kind:         IntentAsk,
				Requirement:  &req,
				JustAnswered: recorded != nil && state.CurrentQuestionIndex > 0,
			},
			Recorded: recorded,
		}
	}

	return TurnResult{
		Intent: Intent{
			Kind:     IntentConclude,
			Answered: len(state.Clarifications),
		},
		Recorded: recorded,
		Finalize: !state.Finalized,
	}
}
