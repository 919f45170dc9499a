package events

import (
	"time"

	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
)

// NodeAdded is raised when a single node is appended to a graph
type NodeAdded struct {
	BaseEvent
	NodeID valueobjects.NodeID   `json:"nodeId"`
	Kind   valueobjects.NodeKind `json:"kind"`
	Label  string                `json:"label"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(graphID string, version int, nodeID valueobjects.NodeID, kind valueobjects.NodeKind, label string, at time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: newBase(graphID, TypeNodeAdded, version, at),
		NodeID:    nodeID,
		Kind:      kind,
		Label:     label,
	}
}

// EdgeAdded is raised when two nodes are connected
type EdgeAdded struct {
	BaseEvent
	EdgeID   valueobjects.EdgeID `json:"edgeId"`
	Source   valueobjects.NodeID `json:"source"`
	Target   valueobjects.NodeID `json:"target"`
	Label    string              `json:"label,omitempty"`
	SelfLoop bool                `json:"selfLoop"`
}

// NewEdgeAdded creates an EdgeAdded event
func NewEdgeAdded(graphID string, version int, edgeID valueobjects.EdgeID, source, target valueobjects.NodeID, label string, at time.Time) EdgeAdded {
	return EdgeAdded{
		BaseEvent: newBase(graphID, TypeEdgeAdded, version, at),
		EdgeID:    edgeID,
		Source:    source,
		Target:    target,
		Label:     label,
		SelfLoop:  source == target,
	}
}

// GraphReplaced is raised when the whole graph content is swapped in one step
type GraphReplaced struct {
	BaseEvent
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`
}

// NewGraphReplaced creates a GraphReplaced event
func NewGraphReplaced(graphID string, version, nodeCount, edgeCount int, at time.Time) GraphReplaced {
	return GraphReplaced{
		BaseEvent: newBase(graphID, TypeGraphReplaced, version, at),
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
}
