package services

import (
	"context"
	"sync"
	"time"

	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/flow"
	"github.com/ivmel/reflecta/internal/identity"
	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/repository"
	"github.com/ivmel/reflecta/internal/sphere"
)

// SessionService hands out one flow controller per user and calendar
// day. Controllers serialize their own transitions; the service's job is
// to build them with the right ports and to retire them at the day
// boundary so no stale counters leak into a new day.
type SessionService struct {
	client    backend.ClientInterface
	dayStates repository.DayStateRepository
	events    repository.FlowEventRepository
	clock     func() time.Time
	log       *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	ctrl *flow.Controller
	date string
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithSessionClock overrides the time source, mainly for tests.
func WithSessionClock(clock func() time.Time) SessionOption {
	return func(s *SessionService) { s.clock = clock }
}

// NewSessionService creates a new SessionService
func NewSessionService(client backend.ClientInterface, dayStates repository.DayStateRepository, events repository.FlowEventRepository, opts ...SessionOption) *SessionService {
	s := &SessionService{
		client:    client,
		dayStates: dayStates,
		events:    events,
		clock:     time.Now,
		log:       logger.Default().WithPrefix("sessions"),
		sessions:  make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Controller returns the caller's controller for today, creating and
// starting a fresh one when none exists or the stored one belongs to a
// past day. The returned state is the controller's current snapshot.
func (s *SessionService) Controller(ctx context.Context, id identity.Identity) (*flow.Controller, flow.State, error) {
	key := id.Key()
	today := s.clock().Format(flow.DateFormat)

	if ctrl := s.lookup(key, today); ctrl != nil {
		return ctrl, ctrl.State(), nil
	}

	focus, err := s.loadFocusSet(ctx, id)
	if err != nil {
		return nil, flow.State{}, err
	}

	ctrl := flow.NewController(
		questionProvider{client: s.client, auth: id.Auth()},
		dayStore{repo: s.dayStates, userKey: key},
		focus,
		flow.WithClock(s.clock),
		flow.WithRecorder(eventRecorder{repo: s.events, userKey: key}),
	)

	ctrl = s.install(key, today, ctrl)

	if ctrl.State().Phase == flow.PhaseIdle {
		// A concurrent request may have started the controller already;
		// that conflict is not the caller's problem.
		if _, err := ctrl.Start(ctx); err != nil && !errors.IsConflict(err) {
			return nil, flow.State{}, err
		}
	}
	return ctrl, ctrl.State(), nil
}

func (s *SessionService) lookup(key, today string) *flow.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return nil
	}
	if sess.date != today {
		s.log.Debug("retiring stale session: user_key=%s, date=%s", key, sess.date)
		sess.ctrl.Close()
		delete(s.sessions, key)
		return nil
	}
	return sess.ctrl
}

// install stores the freshly built controller unless another request won
// the race, in which case the existing one is reused.
func (s *SessionService) install(key, today string, ctrl *flow.Controller) *flow.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok && sess.date == today {
		ctrl.Close()
		return sess.ctrl
	}
	s.sessions[key] = &session{ctrl: ctrl, date: today}
	return ctrl
}

func (s *SessionService) loadFocusSet(ctx context.Context, id identity.Identity) (sphere.FocusSet, error) {
	keys, err := s.client.GetFocusSpheres(ctx, id.Auth())
	if err != nil {
		if errors.IsNotFound(err) {
			// No focus spheres selected yet: run the flow unfiltered.
			s.log.Debug("no focus spheres for %s, running unfiltered", id.Key())
			return sphere.FocusSet{}, nil
		}
		return sphere.FocusSet{}, err
	}
	focus, err := sphere.NewFocusSet(keys)
	if err != nil {
		s.log.Warn("backend returned invalid focus spheres for %s: %v", id.Key(), err)
		return sphere.FocusSet{}, err
	}
	return focus, nil
}

// Invalidate drops the caller's session so the next flow request builds
// a fresh controller. Called when the focus spheres change.
func (s *SessionService) Invalidate(id identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id.Key()]; ok {
		sess.ctrl.Close()
		delete(s.sessions, id.Key())
	}
}

// Events lists the caller's flow events, defaulting to today.
func (s *SessionService) Events(ctx context.Context, id identity.Identity, filter models.FlowEventFilter) ([]models.FlowEvent, error) {
	filter.UserKey = id.Key()
	if filter.Date == "" {
		filter.Date = s.clock().Format(flow.DateFormat)
	}
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, errors.NewPersistenceError(err)
	}
	return events, nil
}

// questionProvider binds the backend client to one caller's credentials.
type questionProvider struct {
	client backend.ClientInterface
	auth   backend.Auth
}

func (p questionProvider) NextQuestion(ctx context.Context, sphereKey string) (*models.Question, error) {
	return p.client.GetDailyQuestion(ctx, p.auth, sphereKey)
}

func (p questionProvider) SubmitAnswer(ctx context.Context, questionID int64, text string) error {
	return p.client.SubmitAnswer(ctx, p.auth, questionID, text)
}

// dayStore scopes the day-state repository to one user.
type dayStore struct {
	repo    repository.DayStateRepository
	userKey string
}

func (d dayStore) Read(ctx context.Context, date string) (*models.DayState, error) {
	return d.repo.Get(ctx, d.userKey, date)
}

func (d dayStore) Write(ctx context.Context, state models.DayState) error {
	state.UserKey = d.userKey
	return d.repo.Put(ctx, state)
}

// eventRecorder scopes the event log to one user.
type eventRecorder struct {
	repo    repository.FlowEventRepository
	userKey string
}

func (r eventRecorder) Record(ctx context.Context, event models.FlowEvent) error {
	event.UserKey = r.userKey
	_, err := r.repo.Insert(ctx, event)
	return err
}
