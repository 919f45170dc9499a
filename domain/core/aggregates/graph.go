package aggregates

import (
	"time"

	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	"github.com/RithishKumarK/supreme/domain/events"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/google/uuid"
)

// GraphID represents a unique graph identifier
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// EdgeResult is returned by AddEdge. SelfLoop is set when source and target
// are the same node so callers can warn.
type EdgeResult struct {
	ID       valueobjects.EdgeID `json:"id"`
	SelfLoop bool                `json:"selfLoop"`
}

// Graph is the aggregate root for one diagram.
// Nodes and edges keep insertion order; that order drives display and code generation.
// A Graph is not safe for concurrent use. The owning editor session serializes access.
type Graph struct {
	id        GraphID
	nodes     []entities.Node
	edges     []entities.Edge
	nodeIndex map[valueobjects.NodeID]int
	edgeIndex map[valueobjects.EdgeID]int
	sequence  valueobjects.IDSequence
	version   int
	events    []events.DomainEvent
	now       func() time.Time
}

// NewGraph creates an empty graph. A blank id gets a random one.
func NewGraph(id GraphID) *Graph {
	if id == "" {
		id = NewGraphID()
	}
	return &Graph{
		id:        id,
		nodes:     []entities.Node{},
		edges:     []entities.Edge{},
		nodeIndex: make(map[valueobjects.NodeID]int),
		edgeIndex: make(map[valueobjects.EdgeID]int),
		version:   1,
		events:    []events.DomainEvent{},
		now:       time.Now,
	}
}

// ID returns the graph ID
func (g *Graph) ID() GraphID {
	return g.id
}

// Version increments on every committed mutation
func (g *Graph) Version() int {
	return g.version
}

// AddNode appends a node with a freshly generated id.
func (g *Graph) AddNode(kind valueobjects.NodeKind, label string, position valueobjects.Position) (valueobjects.NodeID, error) {
	id := g.sequence.NextNodeID(g.HasNode)
	node, err := entities.NewNode(id, kind, label, position)
	if err != nil {
		return "", err
	}
	// Unreachable with the sequence above, but ids must never collide.
	if g.HasNode(node.ID) {
		return "", pkgerrors.NewDuplicateIDError("node", node.ID.String())
	}

	g.nodeIndex[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	g.version++

	g.addEvent(events.NewNodeAdded(g.id.String(), g.version, node.ID, node.Kind, node.Label, g.now()))
	return node.ID, nil
}

// AddEdge connects two existing nodes. Either endpoint missing fails with an
// invalid reference error and leaves the graph unchanged.
func (g *Graph) AddEdge(source, target valueobjects.NodeID, label string) (EdgeResult, error) {
	if !g.HasNode(source) {
		return EdgeResult{}, pkgerrors.NewInvalidReferenceError("source", source.String())
	}
	if !g.HasNode(target) {
		return EdgeResult{}, pkgerrors.NewInvalidReferenceError("target", target.String())
	}

	id := g.sequence.NextEdgeID(g.HasEdge)
	edge, err := entities.NewEdge(id, source, target, label)
	if err != nil {
		return EdgeResult{}, err
	}
	if g.HasEdge(edge.ID) {
		return EdgeResult{}, pkgerrors.NewDuplicateIDError("edge", edge.ID.String())
	}

	g.edgeIndex[edge.ID] = len(g.edges)
	g.edges = append(g.edges, edge)
	g.version++

	g.addEvent(events.NewEdgeAdded(g.id.String(), g.version, edge.ID, edge.Source, edge.Target, edge.Label, g.now()))
	return EdgeResult{ID: edge.ID, SelfLoop: edge.IsSelfLoop()}, nil
}

// ReplaceAll swaps the entire graph content in one step. The new content is
// validated in full before anything is committed; on failure the previous
// graph is left untouched.
func (g *Graph) ReplaceAll(nodes []entities.Node, edges []entities.Edge) error {
	nodeIndex, edgeIndex, err := buildIndexes(nodes, edges)
	if err != nil {
		return err
	}

	g.nodes = append(make([]entities.Node, 0, len(nodes)), nodes...)
	g.edges = append(make([]entities.Edge, 0, len(edges)), edges...)
	g.nodeIndex = nodeIndex
	g.edgeIndex = edgeIndex
	g.version++

	g.addEvent(events.NewGraphReplaced(g.id.String(), g.version, len(g.nodes), len(g.edges), g.now()))
	return nil
}

// buildIndexes checks a candidate node and edge set and returns position
// indexes for it.
func buildIndexes(nodes []entities.Node, edges []entities.Edge) (map[valueobjects.NodeID]int, map[valueobjects.EdgeID]int, error) {
	nodeIndex := make(map[valueobjects.NodeID]int, len(nodes))
	for i, n := range nodes {
		if err := n.Validate(); err != nil {
			return nil, nil, err
		}
		if _, exists := nodeIndex[n.ID]; exists {
			return nil, nil, pkgerrors.NewDuplicateIDError("node", n.ID.String())
		}
		nodeIndex[n.ID] = i
	}

	edgeIndex := make(map[valueobjects.EdgeID]int, len(edges))
	for i, e := range edges {
		if err := e.Validate(); err != nil {
			return nil, nil, err
		}
		if _, exists := edgeIndex[e.ID]; exists {
			return nil, nil, pkgerrors.NewDuplicateIDError("edge", e.ID.String())
		}
		if _, ok := nodeIndex[e.Source]; !ok {
			return nil, nil, pkgerrors.NewInvalidReferenceError("source", e.Source.String()).
				WithDetail("edge", e.ID.String())
		}
		if _, ok := nodeIndex[e.Target]; !ok {
			return nil, nil, pkgerrors.NewInvalidReferenceError("target", e.Target.String()).
				WithDetail("edge", e.ID.String())
		}
		edgeIndex[e.ID] = i
	}
	return nodeIndex, edgeIndex, nil
}

// Snapshot returns an independent copy of the current content
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}
}

// Nodes returns a copy of the nodes in insertion order
func (g *Graph) Nodes() []entities.Node {
	return append(make([]entities.Node, 0, len(g.nodes)), g.nodes...)
}

// Edges returns a copy of the edges in insertion order
func (g *Graph) Edges() []entities.Edge {
	return append(make([]entities.Edge, 0, len(g.edges)), g.edges...)
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// HasNode checks if a node exists in the graph
func (g *Graph) HasNode(id valueobjects.NodeID) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// HasEdge checks if an edge exists in the graph
func (g *Graph) HasEdge(id valueobjects.EdgeID) bool {
	_, ok := g.edgeIndex[id]
	return ok
}

// Validate re-checks every structural invariant of the current content
func (g *Graph) Validate() error {
	_, _, err := buildIndexes(g.nodes, g.edges)
	return err
}

// GetUncommittedEvents returns events that haven't been persisted
func (g *Graph) GetUncommittedEvents() []events.DomainEvent {
	return g.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (g *Graph) MarkEventsAsCommitted() {
	g.events = []events.DomainEvent{}
}

func (g *Graph) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}
