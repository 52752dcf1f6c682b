package flow

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/sphere"
)

// DateFormat is the calendar-day key used for DayState persistence.
const DateFormat = "2006-01-02"

// Controller owns the per-day question-serving state machine: which
// sphere is active, how many times the user skipped or flagged "didn't
// understand", and when the flow hands off to the daily summary.
//
// Transitions are strictly sequential per controller: a request arriving
// while another transition is in flight is rejected with CONFLICT rather
// than interleaved. Day counters are persisted through the DayStore before
// a transition is considered committed; if the store fails, the controller
// degrades to in-memory counters for the rest of the session.
type Controller struct {
	provider Provider
	store    DayStore
	recorder Recorder
	focus    sphere.FocusSet
	clock    func() time.Time
	log      *logger.Logger

	mu      sync.Mutex
	busy    bool
	closed  bool
	gen     uint64
	memOnly bool
	day     models.DayState
	state   State
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRecorder attaches a flow event recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger overrides the controller's logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController creates a controller for one user session. The focus set
// may be empty; questions are then requested without a sphere filter.
func NewController(provider Provider, store DayStore, focus sphere.FocusSet, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		store:    store,
		focus:    focus,
		clock:    time.Now,
		log:      logger.Default().WithPrefix("flow"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = State{Phase: PhaseIdle}
	return c
}

// State returns the current presentation-facing snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Day returns the current day counters.
func (c *Controller) Day() models.DayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// Close invalidates the controller. Any in-flight transition result is
// discarded on resolution instead of being applied to a stale instance.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.busy = false
	c.gen++
}

func (c *Controller) today() string {
	return c.clock().Format(DateFormat)
}

// begin claims the single transition slot. It fails with CONFLICT when
// another transition is still in flight.
func (c *Controller) begin() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, errors.NewConflictError("flow session is closed")
	}
	if c.busy {
		return 0, errors.NewConflictError("another action is still being processed")
	}
	c.busy = true
	return c.gen, nil
}

// publish applies a new state if the controller generation still matches;
// a stale in-flight result is dropped silently.
func (c *Controller) publish(gen uint64, day models.DayState, st State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		c.log.Debug("discarding stale transition result: phase=%s", st.Phase)
		return c.state
	}
	c.day = day
	st.Day = day
	c.state = st.withActions(c.focus.Len())
	return c.state
}

func (c *Controller) end(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.busy = false
	}
}

// Start loads the persisted day state and requests the first question.
// It is also safe to call on a reload: for the same calendar day the
// persisted counters are reproduced exactly.
func (c *Controller) Start(ctx context.Context) (State, error) {
	gen, err := c.begin()
	if err != nil {
		return c.State(), err
	}
	defer c.end(gen)

	today := c.today()
	day := c.loadDay(ctx, today)
	c.publish(gen, day, State{Phase: PhaseLoading})

	return c.loadQuestion(ctx, gen, day), nil
}

// Submit sends the answer for the question on screen. On success the day
// state fully resets and the next question is requested for sphere index
// 0. On failure the question and counters are preserved and the error is
// surfaced as a retryable Error state.
func (c *Controller) Submit(ctx context.Context, text string) (State, error) {
	gen, err := c.begin()
	if err != nil {
		return c.State(), err
	}
	defer c.end(gen)

	st := c.State()
	question := st.Question
	if (st.Phase != PhaseAwaitingAnswer && st.Phase != PhaseError) || question == nil {
		return st, errors.NewValidationError("answer", "no question is awaiting an answer")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return st, errors.NewValidationError("answer", "text must not be empty")
	}

	today := c.today()
	day := normalizeDayState(&st.Day, today)
	c.publish(gen, day, State{Phase: PhaseSubmitting, Question: question})

	if err := c.provider.SubmitAnswer(ctx, question.ID, text); err != nil {
		c.log.Warn("answer submission failed: question_id=%d: %v", question.ID, err)
		return c.publish(gen, day, State{Phase: PhaseError, Question: question, Err: err}), nil
	}

	c.record(ctx, models.FlowEvent{
		Date:       today,
		Kind:       models.FlowEventAnswered,
		Sphere:     question.Sphere,
		QuestionID: question.ID,
	})

	// Successful submission resets the day: counters to zero, sphere back
	// to primary.
	day = freshDayState(today)
	c.persistDay(ctx, day)
	c.publish(gen, day, State{Phase: PhaseLoading})

	return c.loadQuestion(ctx, gen, day), nil
}

// Skip defers the current question and requests another one. The second
// skip of the day activates the second focus sphere when there is one.
func (c *Controller) Skip(ctx context.Context) (State, error) {
	gen, err := c.begin()
	if err != nil {
		return c.State(), err
	}
	defer c.end(gen)

	st := c.State()
	if st.Phase != PhaseAwaitingAnswer {
		return st, errors.NewValidationError("skip", "no question is on screen")
	}
	if !st.Actions.Skip {
		return st, errors.NewValidationError("skip", "skip limit reached for today")
	}

	today := c.today()
	day := normalizeDayState(&st.Day, today)
	day.SkipCount++
	advanceSphere(&day, day.SkipCount, c.focus.Len())
	c.persistDay(ctx, day)

	c.record(ctx, models.FlowEvent{
		Date:       today,
		Kind:       models.FlowEventSkip,
		Sphere:     st.Question.Sphere,
		QuestionID: st.Question.ID,
	})

	c.publish(gen, day, State{Phase: PhaseLoading})
	return c.loadQuestion(ctx, gen, day), nil
}

// NotUnderstood requests a replacement question, capped at two per day.
// The cap is enforced here as well as in the action set, so a stale UI
// cannot push past it.
func (c *Controller) NotUnderstood(ctx context.Context) (State, error) {
	gen, err := c.begin()
	if err != nil {
		return c.State(), err
	}
	defer c.end(gen)

	st := c.State()
	if st.Phase != PhaseAwaitingAnswer {
		return st, errors.NewValidationError("not_understood", "no question is on screen")
	}

	today := c.today()
	day := normalizeDayState(&st.Day, today)
	if day.NotUnderstoodCount >= notUnderstoodLimit {
		return st, errors.NewValidationError("not_understood", "limit reached for today")
	}
	day.NotUnderstoodCount++
	advanceSphere(&day, day.NotUnderstoodCount, c.focus.Len())
	c.persistDay(ctx, day)

	c.record(ctx, models.FlowEvent{
		Date:       today,
		Kind:       models.FlowEventNotUnderstood,
		Sphere:     st.Question.Sphere,
		QuestionID: st.Question.ID,
	})

	c.publish(gen, day, State{Phase: PhaseLoading})
	return c.loadQuestion(ctx, gen, day), nil
}

// SkipAll is the deliberate escape hatch: once two questions have been
// skipped, the user may end the flow for the day from any state.
func (c *Controller) SkipAll(ctx context.Context) (State, error) {
	gen, err := c.begin()
	if err != nil {
		return c.State(), err
	}
	defer c.end(gen)

	st := c.State()
	today := c.today()
	day := normalizeDayState(&st.Day, today)
	if day.SkipCount < skipThreshold {
		return st, errors.NewValidationError("skip_all", "not enough skips today")
	}

	c.record(ctx, models.FlowEvent{Date: today, Kind: models.FlowEventSkipAll})

	return c.publish(gen, day, State{Phase: PhaseEmpty}), nil
}

// Retry recovers from an Error state: a failed load is re-issued, a
// failed submission returns to the question so the kept answer text can
// be sent again.
func (c *Controller) Retry(ctx context.Context) (State, error) {
	gen, err := c.begin()
	if err != nil {
		return c.State(), err
	}
	defer c.end(gen)

	st := c.State()
	if st.Phase != PhaseError {
		return st, errors.NewValidationError("retry", "nothing to retry")
	}

	today := c.today()
	day := normalizeDayState(&st.Day, today)

	if st.Question != nil {
		return c.publish(gen, day, State{Phase: PhaseAwaitingAnswer, Question: st.Question}), nil
	}

	c.publish(gen, day, State{Phase: PhaseLoading})
	return c.loadQuestion(ctx, gen, day), nil
}

func (c *Controller) loadQuestion(ctx context.Context, gen uint64, day models.DayState) State {
	sphereKey := c.focus.At(day.ActiveSphereIndex).String()

	question, err := c.provider.NextQuestion(ctx, sphereKey)
	switch {
	case errors.IsNotFound(err):
		// Running out of questions is the expected end of the day, not a
		// fault.
		c.log.Debug("no question available: sphere=%q", sphereKey)
		return c.publish(gen, day, State{Phase: PhaseEmpty})
	case err != nil:
		c.log.Warn("question load failed: sphere=%q: %v", sphereKey, err)
		return c.publish(gen, day, State{Phase: PhaseError, Err: err})
	default:
		return c.publish(gen, day, State{Phase: PhaseAwaitingAnswer, Question: question})
	}
}

func (c *Controller) loadDay(ctx context.Context, today string) models.DayState {
	if c.memOnly {
		current := c.Day()
		return normalizeDayState(&current, today)
	}
	stored, err := c.store.Read(ctx, today)
	if err != nil {
		c.log.Warn("day state read failed, continuing in-memory only: %v", err)
		c.setMemOnly()
		return freshDayState(today)
	}
	return normalizeDayState(stored, today)
}

func (c *Controller) persistDay(ctx context.Context, day models.DayState) {
	if c.memOnly {
		return
	}
	if err := c.store.Write(ctx, day); err != nil {
		c.log.Warn("day state write failed, continuing in-memory only: %v", err)
		c.setMemOnly()
	}
}

func (c *Controller) setMemOnly() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memOnly = true
}

func (c *Controller) record(ctx context.Context, event models.FlowEvent) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, event); err != nil {
		c.log.Warn("flow event not recorded: kind=%s: %v", event.Kind, err)
	}
}
