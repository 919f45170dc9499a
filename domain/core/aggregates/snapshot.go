package aggregates

import "github.com/RithishKumarK/supreme/domain/core/entities"

// Snapshot is a frozen copy of a graph's content. Nodes and edges are plain
// values, so copying the slices is a deep copy.
type Snapshot struct {
	Nodes []entities.Node `json:"nodes" yaml:"nodes"`
	Edges []entities.Edge `json:"edges" yaml:"edges"`
}

// Clone returns an independent copy
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Nodes: append(make([]entities.Node, 0, len(s.Nodes)), s.Nodes...),
		Edges: append(make([]entities.Edge, 0, len(s.Edges)), s.Edges...),
	}
}
