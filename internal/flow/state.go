package flow

import "github.com/ivmel/reflecta/internal/models"

// Phase names the controller's position in the daily flow.
type Phase string

const (
	// PhaseIdle is the pre-start phase; Start moves the controller out of it.
	PhaseIdle Phase = "idle"
	// PhaseLoading means a question request is in flight.
	PhaseLoading Phase = "loading"
	// PhaseAwaitingAnswer means a question is on screen.
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	// PhaseSubmitting means an answer submission is in flight.
	PhaseSubmitting Phase = "submitting"
	// PhaseEmpty is terminal for the day: no more questions.
	PhaseEmpty Phase = "empty"
	// PhaseError holds a retryable failure.
	PhaseError Phase = "error"
)

// Actions is the set of user actions valid in the current state. The
// presentation layer renders exactly these affordances.
type Actions struct {
	Submit           bool `json:"submit"`
	Skip             bool `json:"skip"`
	SkipAll          bool `json:"skip_all"`
	NotUnderstood    bool `json:"not_understood"`
	Retry            bool `json:"retry"`
	ProceedToSummary bool `json:"proceed_to_summary"`
}

// State is the controller's presentation-facing snapshot. Question is set
// in AwaitingAnswer and, after a failed submission, in Error so the typed
// answer is not lost. Err is set only in Error.
type State struct {
	Phase    Phase
	Question *models.Question
	Err      error
	Actions  Actions
	Day      models.DayState
}

func (s State) withActions(focusLen int) State {
	s.Actions = actionsFor(s, focusLen)
	return s
}

func actionsFor(s State, focusLen int) Actions {
	var a Actions
	switch s.Phase {
	case PhaseAwaitingAnswer:
		a.Submit = true
		// With two focus spheres the skip action stays available (it drives
		// sphere advancement); with one it hides after the second skip.
		a.Skip = focusLen == 2 || s.Day.SkipCount < skipThreshold
		a.SkipAll = s.Day.SkipCount >= skipThreshold
		a.NotUnderstood = s.Day.NotUnderstoodCount < notUnderstoodLimit
	case PhaseEmpty:
		a.ProceedToSummary = true
	case PhaseError:
		a.Retry = true
		if s.Question != nil {
			a.Submit = true
			a.SkipAll = s.Day.SkipCount >= skipThreshold
		}
	}
	return a
}
