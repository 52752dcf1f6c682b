package api

import (
	"context"
	"net/http"

	"github.com/ivmel/reflecta/internal/flow"
	"github.com/ivmel/reflecta/internal/models"
)

// flowStateResponse is the wire shape of a controller snapshot. The
// in-flow error is part of the payload, not an HTTP error: the client
// renders it next to the retry affordance.
type flowStateResponse struct {
	Phase    flow.Phase       `json:"phase"`
	Question *models.Question `json:"question,omitempty"`
	Day      models.DayState  `json:"day"`
	Actions  flow.Actions     `json:"actions"`
	Error    *flowError       `json:"error,omitempty"`
}

type flowError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func flowStateFrom(state flow.State) flowStateResponse {
	resp := flowStateResponse{
		Phase:    state.Phase,
		Question: state.Question,
		Day:      state.Day,
		Actions:  state.Actions,
	}
	if state.Err != nil {
		resp.Error = &flowError{Code: "FLOW_ERROR", Message: state.Err.Error()}
		if appErr := asAppError(state.Err); appErr != nil {
			resp.Error = &flowError{Code: appErr.Code, Message: appErr.Message}
		}
	}
	return resp
}

// handleFlowState returns today's flow state, creating the session on
// first contact.
func (s *Server) handleFlowState(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	_, state, err := s.Sessions.Controller(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, flowStateFrom(state))
}

type answerRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleFlowAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.flowAction(w, r, func(ctx context.Context, ctrl *flow.Controller) (flow.State, error) {
		return ctrl.Submit(ctx, req.Text)
	})
}

func (s *Server) handleFlowSkip(w http.ResponseWriter, r *http.Request) {
	s.flowAction(w, r, func(ctx context.Context, ctrl *flow.Controller) (flow.State, error) {
		return ctrl.Skip(ctx)
	})
}

func (s *Server) handleFlowSkipAll(w http.ResponseWriter, r *http.Request) {
	s.flowAction(w, r, func(ctx context.Context, ctrl *flow.Controller) (flow.State, error) {
		return ctrl.SkipAll(ctx)
	})
}

func (s *Server) handleFlowNotUnderstood(w http.ResponseWriter, r *http.Request) {
	s.flowAction(w, r, func(ctx context.Context, ctrl *flow.Controller) (flow.State, error) {
		return ctrl.NotUnderstood(ctx)
	})
}

func (s *Server) handleFlowRetry(w http.ResponseWriter, r *http.Request) {
	s.flowAction(w, r, func(ctx context.Context, ctrl *flow.Controller) (flow.State, error) {
		return ctrl.Retry(ctx)
	})
}

// flowAction runs one controller transition for the caller's session.
// Invalid transitions and concurrent actions surface as client errors;
// provider failures land the controller in its error state, which is a
// successful response.
func (s *Server) flowAction(w http.ResponseWriter, r *http.Request, action func(context.Context, *flow.Controller) (flow.State, error)) {
	id := identityFromContext(r.Context())
	ctrl, _, err := s.Sessions.Controller(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	state, err := action(r.Context(), ctrl)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, flowStateFrom(state))
}

func (s *Server) handleFlowEvents(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	filter := models.FlowEventFilter{
		Date:   r.URL.Query().Get("date"),
		Kind:   r.URL.Query().Get("kind"),
		Sphere: r.URL.Query().Get("sphere"),
	}
	events, err := s.Sessions.Events(r.Context(), id, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"events": events})
}
