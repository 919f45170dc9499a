package entities

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
)

// MaxLabelLength bounds node and edge labels.
const MaxLabelLength = 200

// Node is a labeled, positioned vertex of a diagram.
// Nodes are plain values; the Graph aggregate owns their identity and ordering.
type Node struct {
	ID       valueobjects.NodeID   `json:"id" yaml:"id"`
	Kind     valueobjects.NodeKind `json:"kind" yaml:"kind"`
	Label    string                `json:"label" yaml:"label"`
	Position valueobjects.Position `json:"position" yaml:"position"`
}

// NewNode builds a node, substituting the kind's toolbar label when label is blank.
func NewNode(id valueobjects.NodeID, kind valueobjects.NodeKind, label string, position valueobjects.Position) (Node, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = kind.DefaultLabel()
	}
	n := Node{ID: id, Kind: kind, Label: label, Position: position}
	if err := n.Validate(); err != nil {
		return Node{}, err
	}
	return n, nil
}

// Validate checks the node's own fields. Uniqueness is the graph's concern.
func (n Node) Validate() error {
	if n.ID.IsZero() {
		return pkgerrors.NewValidationError("node id cannot be empty")
	}
	if !n.Kind.IsValid() {
		return pkgerrors.NewValidationError(fmt.Sprintf("node %q has unknown kind", n.ID))
	}
	if utf8.RuneCountInString(n.Label) > MaxLabelLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("node %q label exceeds %d characters", n.ID, MaxLabelLength))
	}
	return n.Position.Validate()
}
