package handlers

import (
	"time"

	"github.com/RithishKumarK/supreme/application/services"
	"github.com/RithishKumarK/supreme/domain/core/aggregates"
	"github.com/RithishKumarK/supreme/pkg/errors"
)

// PositionDTO is a canvas coordinate
type PositionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateNodeRequest represents the request body for adding a node
type CreateNodeRequest struct {
	Kind     string      `json:"kind" validate:"required,nodekind"`
	Label    string      `json:"label" validate:"max=200"`
	Position PositionDTO `json:"position"`
}

// CreateEdgeRequest represents the request body for connecting two nodes
type CreateEdgeRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Label  string `json:"label" validate:"max=200"`
}

// PromptRequest carries the chat text
type PromptRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// SessionResponse is the full state of one editor session
type SessionResponse struct {
	ID            string                      `json:"id"`
	Version       int                         `json:"version"`
	Graph         aggregates.Snapshot         `json:"graph"`
	Artifact      *services.GeneratedArtifact `json:"artifact,omitempty"`
	PromptPending bool                        `json:"promptPending"`
	CreatedAt     time.Time                   `json:"createdAt"`
}

// NodeResponse is returned after a node is added
type NodeResponse struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// EdgeResponse is returned after an edge is added
type EdgeResponse struct {
	ID       string `json:"id"`
	SelfLoop bool   `json:"selfLoop"`
	Version  int    `json:"version"`
}

// PromptResponse carries the assistant reply and the resulting graph
type PromptResponse struct {
	Reply   string              `json:"reply"`
	Graph   aggregates.Snapshot `json:"graph"`
	Version int                 `json:"version"`
}

// GenerateResponse carries the generated code
type GenerateResponse struct {
	Text         string `json:"text"`
	Warnings     int    `json:"warnings"`
	GraphVersion int    `json:"graphVersion"`
}

// ErrorResponse documents the error body written by the error handler
type ErrorResponse = errors.ErrorResponse

func toSessionResponse(s *services.EditorSession) SessionResponse {
	return SessionResponse{
		ID:            s.ID(),
		Version:       s.Version(),
		Graph:         s.Graph(),
		Artifact:      s.Artifact(),
		PromptPending: s.PromptPending(),
		CreatedAt:     s.CreatedAt(),
	}
}
