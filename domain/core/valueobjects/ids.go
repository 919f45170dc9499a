package valueobjects

import (
	"strconv"
	"strings"
)

// NodeID identifies a node within one graph. It never changes after creation.
type NodeID string

// EdgeID identifies an edge within one graph.
type EdgeID string

const (
	nodeIDPrefix = "n"
	edgeIDPrefix = "e"
)

// String returns the string representation
func (id NodeID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty
func (id NodeID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Equals compares two node ids
func (id NodeID) Equals(other NodeID) bool {
	return id == other
}

// String returns the string representation
func (id EdgeID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty
func (id EdgeID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// IDSequence hands out monotonically increasing node and edge ids
// ("n1", "n2", ... and "e1", "e2", ...). It is not safe for concurrent use;
// the owning graph serializes access.
type IDSequence struct {
	nextNode uint64
	nextEdge uint64
}

// NextNodeID returns the next node id for which taken reports false.
func (s *IDSequence) NextNodeID(taken func(NodeID) bool) NodeID {
	for {
		s.nextNode++
		id := NodeID(nodeIDPrefix + strconv.FormatUint(s.nextNode, 10))
		if taken == nil || !taken(id) {
			return id
		}
	}
}

// NextEdgeID returns the next edge id for which taken reports false.
func (s *IDSequence) NextEdgeID(taken func(EdgeID) bool) EdgeID {
	for {
		s.nextEdge++
		id := EdgeID(edgeIDPrefix + strconv.FormatUint(s.nextEdge, 10))
		if taken == nil || !taken(id) {
			return id
		}
	}
}
