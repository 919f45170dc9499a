package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/RithishKumarK/supreme/application/services"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	"github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/RithishKumarK/supreme/pkg/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionStore opens, finds and ends editor sessions
type SessionStore interface {
	Create() (*services.EditorSession, error)
	Get(id string) (*services.EditorSession, error)
	Delete(id string) error
}

// SessionNotifier is told about session lifecycle so it can push changes
type SessionNotifier interface {
	Attach(session *services.EditorSession)
	Detach(sessionID string)
}

type nopNotifier struct{}

func (nopNotifier) Attach(*services.EditorSession) {}
func (nopNotifier) Detach(string) {}

// SessionHandler handles editor session HTTP requests
type SessionHandler struct {
	sessions     SessionStore
	notifier     SessionNotifier
	logger       *zap.Logger
	errorHandler *errors.ErrorHandler
}

// NewSessionHandler creates a new session handler. notifier may be nil.
func NewSessionHandler(sessions SessionStore, notifier SessionNotifier, logger *zap.Logger, errorHandler *errors.ErrorHandler) *SessionHandler {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &SessionHandler{
		sessions:     sessions,
		notifier:     notifier,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Create()
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.notifier.Attach(session)

	w.Header().Set("Location", r.URL.Path+"/"+session.ID())
	h.respondJSON(w, http.StatusCreated, toSessionResponse(session))
}

// GetSession handles GET /sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// DeleteSession handles DELETE /sessions/{sessionID}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.Delete(sessionID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.notifier.Detach(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// AddNode handles POST /sessions/{sessionID}/nodes
func (h *SessionHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CreateNodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	kind, err := valueobjects.ParseNodeKind(req.Kind)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	position, err := valueobjects.NewPosition(req.Position.X, req.Position.Y)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	id, err := session.AddNode(r.Context(), kind, req.Label, position)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, NodeResponse{ID: id.String(), Version: session.Version()})
}

// AddEdge handles POST /sessions/{sessionID}/edges
func (h *SessionHandler) AddEdge(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CreateEdgeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := session.AddEdge(r.Context(), valueobjects.NodeID(req.Source), valueobjects.NodeID(req.Target), req.Label)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, EdgeResponse{
		ID:       result.ID.String(),
		SelfLoop: result.SelfLoop,
		Version:  session.Version(),
	})
}

// SubmitPrompt handles POST /sessions/{sessionID}/prompt.
// Closing the request abandons the prompt.
func (h *SessionHandler) SubmitPrompt(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PromptRequest
	if !h.decode(w, r, &req) {
		return
	}

	reply, err := session.SubmitPrompt(r.Context(), req.Text)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, PromptResponse{
		Reply:   reply,
		Graph:   session.Graph(),
		Version: session.Version(),
	})
}

// GenerateCode handles POST /sessions/{sessionID}/generate
func (h *SessionHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	artifact, err := session.Generate(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, GenerateResponse{
		Text:         artifact.Text,
		Warnings:     len(artifact.Warnings),
		GraphVersion: artifact.GraphVersion,
	})
}

// GetArtifact handles GET /sessions/{sessionID}/artifact
func (h *SessionHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	artifact := session.Artifact()
	if artifact == nil {
		h.errorHandler.Handle(w, r, errors.NewNotFoundError("artifact"))
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(artifact.Text))
		return
	}
	h.respondJSON(w, http.StatusOK, artifact)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.EditorSession, bool) {
	session, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return nil, false
	}
	return session, true
}

// decode reads and validates a JSON body
func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.errorHandler.Handle(w, r, errors.NewValidationError("Invalid request body: "+err.Error()))
		return false
	}
	if err := validation.Struct(dst); err != nil {
		h.errorHandler.Handle(w, r, err)
		return false
	}
	return true
}

// respondJSON sends a JSON response
func (h *SessionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
