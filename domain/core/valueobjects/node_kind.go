package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
)

// NodeKind enumerates the element types a diagram node can represent.
type NodeKind int

const (
	NodeKindStart NodeKind = iota
	NodeKindDatabase
	NodeKindAPIEndpoint
	NodeKindUIComponent
	NodeKindEntity
)

var nodeKindNames = map[NodeKind]string{
	NodeKindStart:       "start",
	NodeKindDatabase:    "database",
	NodeKindAPIEndpoint: "api_endpoint",
	NodeKindUIComponent: "ui_component",
	NodeKindEntity:      "entity",
}

// toolbar labels used when a node is added without one
var nodeKindLabels = map[NodeKind]string{
	NodeKindStart:       "Start",
	NodeKindDatabase:    "Database",
	NodeKindAPIEndpoint: "API Endpoint",
	NodeKindUIComponent: "UI Component",
	NodeKindEntity:      "Entity",
}

// AllNodeKinds returns every kind in declaration order.
func AllNodeKinds() []NodeKind {
	return []NodeKind{NodeKindStart, NodeKindDatabase, NodeKindAPIEndpoint, NodeKindUIComponent, NodeKindEntity}
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsValid checks if the kind is one of the declared kinds
func (k NodeKind) IsValid() bool {
	_, ok := nodeKindNames[k]
	return ok
}

// IsDataEntity reports whether nodes of this kind become types and tables.
func (k NodeKind) IsDataEntity() bool {
	return k == NodeKindDatabase || k == NodeKindEntity
}

// DefaultLabel returns the label the editor toolbar gives new nodes of this kind.
func (k NodeKind) DefaultLabel() string {
	return nodeKindLabels[k]
}

// ParseNodeKind parses a kind name. Matching ignores case, spaces and dashes,
// so "API Endpoint", "api-endpoint" and "api_endpoint" are equivalent.
func ParseNodeKind(s string) (NodeKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for kind, name := range nodeKindNames {
		if name == normalized || strings.ReplaceAll(name, "_", "") == normalized {
			return kind, nil
		}
	}
	return 0, pkgerrors.NewValidationError(fmt.Sprintf("unknown node kind %q", s))
}

// MarshalText implements encoding.TextMarshaler
func (k NodeKind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown node kind %d", int(k)))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *NodeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
