package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/RithishKumarK/supreme/domain/core/aggregates"
	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"gopkg.in/yaml.v3"
)

// diagramFile is the on-disk diagram format. JSON files parse as YAML.
// Blank ids are filled in with generated ones.
type diagramFile struct {
	Nodes []diagramNode `yaml:"nodes"`
	Edges []diagramEdge `yaml:"edges"`
}

type diagramNode struct {
	ID       string                `yaml:"id"`
	Kind     valueobjects.NodeKind `yaml:"kind"`
	Label    string                `yaml:"label"`
	Position valueobjects.Position `yaml:"position"`
}

type diagramEdge struct {
	ID     string `yaml:"id"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Label  string `yaml:"label"`
}

func readDiagram(path string) (*aggregates.Graph, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read diagram: %w", err)
		}
		r = bytes.NewReader(data)
	}
	return parseDiagram(r)
}

// parseDiagram builds a graph in one ReplaceAll so the file is accepted or
// rejected as a whole.
func parseDiagram(r io.Reader) (*aggregates.Graph, error) {
	var file diagramFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, pkgerrors.NewValidationError("invalid diagram file: " + err.Error())
	}

	takenNodes := make(map[valueobjects.NodeID]bool)
	for _, n := range file.Nodes {
		takenNodes[valueobjects.NodeID(n.ID)] = true
	}
	takenEdges := make(map[valueobjects.EdgeID]bool)
	for _, e := range file.Edges {
		takenEdges[valueobjects.EdgeID(e.ID)] = true
	}

	var seq valueobjects.IDSequence
	nodes := make([]entities.Node, 0, len(file.Nodes))
	for _, n := range file.Nodes {
		id := valueobjects.NodeID(n.ID)
		if id.IsZero() {
			id = seq.NextNodeID(func(c valueobjects.NodeID) bool { return takenNodes[c] })
			takenNodes[id] = true
		}
		node, err := entities.NewNode(id, n.Kind, n.Label, n.Position)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	edges := make([]entities.Edge, 0, len(file.Edges))
	for _, e := range file.Edges {
		id := valueobjects.EdgeID(e.ID)
		if id.IsZero() {
			id = seq.NextEdgeID(func(c valueobjects.EdgeID) bool { return takenEdges[c] })
			takenEdges[id] = true
		}
		edge, err := entities.NewEdge(id, valueobjects.NodeID(e.Source), valueobjects.NodeID(e.Target), e.Label)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}

	graph := aggregates.NewGraph("")
	if err := graph.ReplaceAll(nodes, edges); err != nil {
		return nil, err
	}
	return graph, nil
}
