package flow

import (
	"context"

	"github.com/ivmel/reflecta/internal/models"
)

// Provider serves questions and accepts answers. The concrete
// implementation wraps the reflection backend; a NOT_FOUND error from
// NextQuestion means no question remains for that sphere today.
type Provider interface {
	NextQuestion(ctx context.Context, sphereKey string) (*models.Question, error)
	SubmitAnswer(ctx context.Context, questionID int64, text string) error
}

// DayStore persists DayState across reloads within a calendar day.
// Failures must be reported as errors, not panics; the controller degrades
// to in-memory counters when the store misbehaves.
type DayStore interface {
	Read(ctx context.Context, date string) (*models.DayState, error)
	Write(ctx context.Context, state models.DayState) error
}

// Recorder receives flow events for the local activity log. Recording is
// best effort: failures are logged and never block a transition.
type Recorder interface {
	Record(ctx context.Context, event models.FlowEvent) error
}
