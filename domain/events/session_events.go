package events

import (
	"time"

	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
)

// ArtifactGenerated is raised each time a session produces a new code artifact
type ArtifactGenerated struct {
	BaseEvent
	Length   int `json:"length"`
	Warnings int `json:"warnings"`
}

// NewArtifactGenerated creates an ArtifactGenerated event
func NewArtifactGenerated(sessionID string, graphVersion, length, warnings int, at time.Time) ArtifactGenerated {
	return ArtifactGenerated{
		BaseEvent: newBase(sessionID, TypeArtifactGenerated, graphVersion, at),
		Length:    length,
		Warnings:  warnings,
	}
}

// PromptApplied is raised after a prompt's graph edit has been committed
type PromptApplied struct {
	BaseEvent
	Command string `json:"command"`
	Reply   string `json:"reply"`
}

// NewPromptApplied creates a PromptApplied event
func NewPromptApplied(sessionID string, graphVersion int, command, reply string, at time.Time) PromptApplied {
	return PromptApplied{
		BaseEvent: newBase(sessionID, TypePromptApplied, graphVersion, at),
		Command:   command,
		Reply:     reply,
	}
}

// PromptFailed is raised when a prompt could not be applied; the graph is unchanged
type PromptFailed struct {
	BaseEvent
	Notice pkgerrors.Notice `json:"notice"`
}

// NewPromptFailed creates a PromptFailed event
func NewPromptFailed(sessionID string, graphVersion int, notice pkgerrors.Notice, at time.Time) PromptFailed {
	return PromptFailed{
		BaseEvent: newBase(sessionID, TypePromptFailed, graphVersion, at),
		Notice:    notice,
	}
}
