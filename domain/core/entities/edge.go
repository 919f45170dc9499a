package entities

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
)

// Edge is a directed, optionally labeled connection from Source to Target.
type Edge struct {
	ID     valueobjects.EdgeID `json:"id" yaml:"id"`
	Source valueobjects.NodeID `json:"source" yaml:"source"`
	Target valueobjects.NodeID `json:"target" yaml:"target"`
	Label  string              `json:"label,omitempty" yaml:"label,omitempty"`
}

// NewEdge builds an edge. Endpoint resolution is checked by the graph.
func NewEdge(id valueobjects.EdgeID, source, target valueobjects.NodeID, label string) (Edge, error) {
	e := Edge{ID: id, Source: source, Target: target, Label: strings.TrimSpace(label)}
	if err := e.Validate(); err != nil {
		return Edge{}, err
	}
	return e, nil
}

// IsSelfLoop reports whether the edge starts and ends on the same node
func (e Edge) IsSelfLoop() bool {
	return e.Source.Equals(e.Target)
}

// Validate checks the edge's own fields
func (e Edge) Validate() error {
	if e.ID.IsZero() {
		return pkgerrors.NewValidationError("edge id cannot be empty")
	}
	if e.Source.IsZero() || e.Target.IsZero() {
		return pkgerrors.NewValidationError(fmt.Sprintf("edge %q needs both a source and a target", e.ID))
	}
	if utf8.RuneCountInString(e.Label) > MaxLabelLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("edge %q label exceeds %d characters", e.ID, MaxLabelLength))
	}
	return nil
}
