package aggregates

import (
	"fmt"
	"testing"

	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	"github.com/RithishKumarK/supreme/domain/events"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestGraph(t *testing.T) *Graph {
	t.Helper()
	return NewGraph("graph-test")
}

func mustNode(t *testing.T, id string, kind valueobjects.NodeKind, label string) entities.Node {
	t.Helper()
	n, err := entities.NewNode(valueobjects.NodeID(id), kind, label, valueobjects.Position{})
	require.NoError(t, err)
	return n
}

func mustEdge(t *testing.T, id, source, target, label string) entities.Edge {
	t.Helper()
	e, err := entities.NewEdge(valueobjects.EdgeID(id), valueobjects.NodeID(source), valueobjects.NodeID(target), label)
	require.NoError(t, err)
	return e
}

func labelOf(t *testing.T, graph *Graph, id valueobjects.NodeID) string {
	t.Helper()
	for _, n := range graph.Nodes() {
		if n.ID == id {
			return n.Label
		}
	}
	t.Fatalf("node %s not found", id)
	return ""
}

func TestNewGraph(t *testing.T) {
	t.Run("keeps given id", func(t *testing.T) {
		g := NewGraph("abc")
		assert.Equal(t, GraphID("abc"), g.ID())
		assert.Equal(t, 0, g.NodeCount())
		assert.Equal(t, 0, g.EdgeCount())
		assert.Equal(t, 1, g.Version())
	})

	t.Run("blank id is generated", func(t *testing.T) {
		assert.NotEmpty(t, NewGraph("").ID())
	})
}

func TestGraph_AddNode(t *testing.T) {
	graph := createTestGraph(t)

	tests := []struct {
		name      string
		kind      valueobjects.NodeKind
		label     string
		wantID    valueobjects.NodeID
		wantLabel string
		wantErr   bool
	}{
		{name: "first node", kind: valueobjects.NodeKindDatabase, label: "Users", wantID: "n1", wantLabel: "Users"},
		{name: "second node", kind: valueobjects.NodeKindDatabase, label: "Posts", wantID: "n2", wantLabel: "Posts"},
		{name: "blank label uses toolbar default", kind: valueobjects.NodeKindAPIEndpoint, label: "  ", wantID: "n3", wantLabel: "API Endpoint"},
		{name: "unknown kind", kind: valueobjects.NodeKind(99), label: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := graph.NodeCount()
			id, err := graph.AddNode(tt.kind, tt.label, valueobjects.Position{X: 10, Y: 20})

			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err))
				assert.Equal(t, before, graph.NodeCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)

			assert.Equal(t, tt.wantLabel, labelOf(t, graph, id))
			assert.Equal(t, before+1, graph.NodeCount())
		})
	}
}

func TestGraph_AddNode_SkipsTakenIDs(t *testing.T) {
	graph := createTestGraph(t)
	require.NoError(t, graph.ReplaceAll([]entities.Node{
		mustNode(t, "n1", valueobjects.NodeKindDatabase, "Users"),
		mustNode(t, "n2", valueobjects.NodeKindDatabase, "Posts"),
	}, nil))

	id, err := graph.AddNode(valueobjects.NodeKindEntity, "Comments", valueobjects.Position{})
	require.NoError(t, err)
	assert.Equal(t, valueobjects.NodeID("n3"), id)
}

func TestGraph_AddEdge(t *testing.T) {
	graph := createTestGraph(t)
	n1, err := graph.AddNode(valueobjects.NodeKindDatabase, "Users", valueobjects.Position{})
	require.NoError(t, err)
	n2, err := graph.AddNode(valueobjects.NodeKindDatabase, "Posts", valueobjects.Position{})
	require.NoError(t, err)

	tests := []struct {
		name         string
		source       valueobjects.NodeID
		target       valueobjects.NodeID
		wantSelfLoop bool
		wantRefErr   bool
	}{
		{name: "valid edge", source: n1, target: n2},
		{name: "self loop is allowed but flagged", source: n1, target: n1, wantSelfLoop: true},
		{name: "missing source", source: "n404", target: n2, wantRefErr: true},
		{name: "missing target", source: n1, target: "n404", wantRefErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := graph.Snapshot()
			result, err := graph.AddEdge(tt.source, tt.target, "has many")

			if tt.wantRefErr {
				assert.True(t, pkgerrors.IsInvalidReference(err))
				assert.Equal(t, before, graph.Snapshot())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSelfLoop, result.SelfLoop)
			assert.True(t, graph.HasEdge(result.ID))
			assert.Equal(t, len(before.Edges)+1, graph.EdgeCount())
		})
	}
}

func TestGraph_ReplaceAll(t *testing.T) {
	valid := func(t *testing.T) ([]entities.Node, []entities.Edge) {
		return []entities.Node{
				mustNode(t, "users", valueobjects.NodeKindDatabase, "Users"),
				mustNode(t, "posts", valueobjects.NodeKindDatabase, "Posts"),
			}, []entities.Edge{
				mustEdge(t, "users-posts", "users", "posts", "has many"),
			}
	}

	t.Run("commits new content in order", func(t *testing.T) {
		graph := createTestGraph(t)
		_, err := graph.AddNode(valueobjects.NodeKindStart, "Start", valueobjects.Position{})
		require.NoError(t, err)

		nodes, edges := valid(t)
		require.NoError(t, graph.ReplaceAll(nodes, edges))

		got := graph.Snapshot()
		require.Len(t, got.Nodes, 2)
		assert.Equal(t, "Users", got.Nodes[0].Label)
		assert.Equal(t, "Posts", got.Nodes[1].Label)
		require.Len(t, got.Edges, 1)
		assert.Equal(t, "has many", got.Edges[0].Label)
		assert.NoError(t, graph.Validate())
	})

	t.Run("caller slices are not aliased", func(t *testing.T) {
		graph := createTestGraph(t)
		nodes, edges := valid(t)
		require.NoError(t, graph.ReplaceAll(nodes, edges))

		nodes[0].Label = "Mutated"
		assert.Equal(t, "Users", labelOf(t, graph, "users"))
	})

	failures := []struct {
		name  string
		nodes func(t *testing.T) []entities.Node
		edges func(t *testing.T) []entities.Edge
		check func(error) bool
	}{
		{
			name: "edge to absent node",
			nodes: func(t *testing.T) []entities.Node {
				return []entities.Node{mustNode(t, "a", valueobjects.NodeKindDatabase, "A")}
			},
			edges: func(t *testing.T) []entities.Edge {
				return []entities.Edge{mustEdge(t, "e", "a", "ghost", "")}
			},
			check: pkgerrors.IsInvalidReference,
		},
		{
			name: "duplicate node id",
			nodes: func(t *testing.T) []entities.Node {
				return []entities.Node{
					mustNode(t, "a", valueobjects.NodeKindDatabase, "A"),
					mustNode(t, "a", valueobjects.NodeKindDatabase, "B"),
				}
			},
			edges: func(t *testing.T) []entities.Edge { return nil },
			check: pkgerrors.IsDuplicateID,
		},
		{
			name: "duplicate edge id",
			nodes: func(t *testing.T) []entities.Node {
				return []entities.Node{
					mustNode(t, "a", valueobjects.NodeKindDatabase, "A"),
					mustNode(t, "b", valueobjects.NodeKindDatabase, "B"),
				}
			},
			edges: func(t *testing.T) []entities.Edge {
				return []entities.Edge{mustEdge(t, "e", "a", "b", ""), mustEdge(t, "e", "b", "a", "")}
			},
			check: pkgerrors.IsDuplicateID,
		},
		{
			name: "invalid node",
			nodes: func(t *testing.T) []entities.Node {
				return []entities.Node{{ID: "", Kind: valueobjects.NodeKindDatabase}}
			},
			edges: func(t *testing.T) []entities.Edge { return nil },
			check: pkgerrors.IsValidation,
		},
	}

	for _, tt := range failures {
		t.Run(tt.name+" leaves graph untouched", func(t *testing.T) {
			graph := createTestGraph(t)
			nodes, edges := valid(t)
			require.NoError(t, graph.ReplaceAll(nodes, edges))
			before := graph.Snapshot()
			version := graph.Version()

			err := graph.ReplaceAll(tt.nodes(t), tt.edges(t))

			assert.True(t, tt.check(err), "unexpected error: %v", err)
			assert.Equal(t, before, graph.Snapshot())
			assert.Equal(t, version, graph.Version())
		})
	}
}

func TestGraph_Snapshot_IsIndependent(t *testing.T) {
	graph := createTestGraph(t)
	_, err := graph.AddNode(valueobjects.NodeKindDatabase, "Users", valueobjects.Position{})
	require.NoError(t, err)

	snap := graph.Snapshot()
	snap.Nodes[0].Label = "Changed"
	snap.Nodes = append(snap.Nodes, entities.Node{ID: "extra"})

	assert.Equal(t, 1, graph.NodeCount())
	assert.Equal(t, "Users", labelOf(t, graph, "n1"))
}

// Any run of valid adds keeps ids unique and every edge resolvable.
func TestGraph_InvariantsHoldAcrossValidMutations(t *testing.T) {
	graph := createTestGraph(t)
	var ids []valueobjects.NodeID

	for i := 0; i < 30; i++ {
		id, err := graph.AddNode(valueobjects.AllNodeKinds()[i%5], fmt.Sprintf("Node %d", i), valueobjects.Position{X: float64(i)})
		require.NoError(t, err)
		ids = append(ids, id)

		if i > 0 {
			_, err := graph.AddEdge(ids[i-1], ids[(i*7)%len(ids)], "")
			require.NoError(t, err)
		}
	}

	snap := graph.Snapshot()
	seenNodes := map[valueobjects.NodeID]bool{}
	for _, n := range snap.Nodes {
		assert.False(t, seenNodes[n.ID], "duplicate node id %s", n.ID)
		seenNodes[n.ID] = true
	}
	seenEdges := map[valueobjects.EdgeID]bool{}
	for _, e := range snap.Edges {
		assert.False(t, seenEdges[e.ID], "duplicate edge id %s", e.ID)
		seenEdges[e.ID] = true
		assert.True(t, seenNodes[e.Source])
		assert.True(t, seenNodes[e.Target])
	}
	assert.NoError(t, graph.Validate())
}

func TestGraph_Events(t *testing.T) {
	graph := createTestGraph(t)
	n1, err := graph.AddNode(valueobjects.NodeKindDatabase, "Users", valueobjects.Position{})
	require.NoError(t, err)
	_, err = graph.AddEdge(n1, n1, "self")
	require.NoError(t, err)

	evts := graph.GetUncommittedEvents()
	require.Len(t, evts, 2)
	assert.Equal(t, events.TypeNodeAdded, evts[0].GetEventType())
	assert.Equal(t, events.TypeEdgeAdded, evts[1].GetEventType())
	assert.True(t, evts[1].(events.EdgeAdded).SelfLoop)
	assert.Equal(t, graph.Version(), evts[1].GetVersion())

	graph.MarkEventsAsCommitted()
	assert.Empty(t, graph.GetUncommittedEvents())
}
