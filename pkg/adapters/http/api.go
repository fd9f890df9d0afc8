package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	SessionID *string `json:"session_id,omitempty"`
}

// AnswerRequest is the body of POST /sessions/{sessionId}/answer.
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// SessionResponse pairs the raw state with its presentation model.
type SessionResponse struct {
	State   any   `json:"state"`
	View    any   `json:"view"`
	AtStart *bool `json:"at_start,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetResultsParams defines parameters for GetResults.
type GetResultsParams struct {
	Format *string `form:"format,omitempty" json:"format,omitempty"`
}

// SubscribeEventsParams defines parameters for SubscribeEvents.
type SubscribeEventsParams struct {
	SessionId *string `form:"session_id,omitempty" json:"session_id,omitempty"`
	Watch     *string `form:"watch,omitempty" json:"watch,omitempty"`
}

// ServerInterface represents all server handlers of openapi.yaml.
type ServerInterface interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	GetInfo(w http.ResponseWriter, r *http.Request)
	GetQuestionnaire(w http.ResponseWriter, r *http.Request)
	GetQuestionnaireGraph(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
	CreateSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request, sessionId string)
	DeleteSession(w http.ResponseWriter, r *http.Request, sessionId string)
	RecordAnswer(w http.ResponseWriter, r *http.Request, sessionId string)
	Advance(w http.ResponseWriter, r *http.Request, sessionId string)
	GoBack(w http.ResponseWriter, r *http.Request, sessionId string)
	Restart(w http.ResponseWriter, r *http.Request, sessionId string)
	GetResults(w http.ResponseWriter, r *http.Request, sessionId string, params GetResultsParams)
	GetSessionGraph(w http.ResponseWriter, r *http.Request, sessionId string)
	SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams)
}

// ParamErrorHandler reports a parameter that could not be bound.
type ParamErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type wrapper struct {
	handler ServerInterface
	onError ParamErrorHandler
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sessionId string)

func (sw *wrapper) withSession(fn sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sessionId string
		err := runtime.BindStyledParameterWithOptions("simple", "sessionId", chi.URLParam(r, "sessionId"), &sessionId,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
		if err != nil {
			sw.onError(w, r, fmt.Errorf("invalid format for parameter sessionId: %w", err))
			return
		}
		fn(w, r, sessionId)
	}
}

func (sw *wrapper) GetResults(w http.ResponseWriter, r *http.Request, sessionId string) {
	var params GetResultsParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		sw.onError(w, r, fmt.Errorf("invalid format for parameter format: %w", err))
		return
	}
	sw.handler.GetResults(w, r, sessionId, params)
}

func (sw *wrapper) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var params SubscribeEventsParams
	if err := runtime.BindQueryParameter("form", true, false, "session_id", r.URL.Query(), &params.SessionId); err != nil {
		sw.onError(w, r, fmt.Errorf("invalid format for parameter session_id: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &params.Watch); err != nil {
		sw.onError(w, r, fmt.Errorf("invalid format for parameter watch: %w", err))
		return
	}
	sw.handler.SubscribeEvents(w, r, params)
}

// HandlerFromMux registers every operation of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router, onError ParamErrorHandler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	sw := &wrapper{handler: si, onError: onError}

	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	r.Get("/questionnaire", si.GetQuestionnaire)
	r.Get("/questionnaire/graph", si.GetQuestionnaireGraph)
	r.Get("/events", sw.SubscribeEvents)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", si.ListSessions)
		r.Post("/", si.CreateSession)
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", sw.withSession(si.GetSession))
			r.Delete("/", sw.withSession(si.DeleteSession))
			r.Post("/answer", sw.withSession(si.RecordAnswer))
			r.Post("/advance", sw.withSession(si.Advance))
			r.Post("/back", sw.withSession(si.GoBack))
			r.Post("/restart", sw.withSession(si.Restart))
			r.Get("/results", sw.withSession(sw.GetResults))
			r.Get("/graph", sw.withSession(si.GetSessionGraph))
		})
	})
	return r
}
