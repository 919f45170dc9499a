package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RithishKumarK/supreme/domain/core/aggregates"
	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	"github.com/RithishKumarK/supreme/domain/specifications"
	"github.com/iancoleman/strcase"
)

// DefaultHeader opens every generated artifact
const DefaultHeader = "Generated TypeScript code"

// Warning codes reported by the generator. Warnings never stop generation.
const (
	WarningDuplicateIdentifier = "duplicate_identifier"
	WarningDuplicateTable      = "duplicate_table"
	WarningDuplicateRoute      = "duplicate_route"
	WarningDuplicateColumn     = "duplicate_column"
	WarningDanglingEdge        = "dangling_edge"
)

// Warning is a non-fatal data-quality finding, appended to the artifact text
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Artifact is the output of one generation. Source is a frozen copy of the
// graph it was generated from.
type Artifact struct {
	Source   aggregates.Snapshot `json:"source"`
	Text     string              `json:"text"`
	Warnings []Warning           `json:"warnings"`
}

// Generator turns a graph snapshot into a code artifact
type Generator interface {
	Generate(snapshot aggregates.Snapshot) Artifact
}

// GeneratorOption configures a CodeGenerator
type GeneratorOption func(*CodeGenerator)

// WithHeader replaces the first comment line of the artifact
func WithHeader(header string) GeneratorOption {
	return func(g *CodeGenerator) {
		if strings.TrimSpace(header) != "" {
			g.header = header
		}
	}
}

// CodeGenerator emits a TypeScript/SQL skeleton from a diagram.
// Output depends only on node and edge order, kinds and labels; positions are ignored.
type CodeGenerator struct {
	header    string
	entity    specifications.NodeSpecification
	endpoint  specifications.NodeSpecification
	component specifications.NodeSpecification
	reference specifications.EdgeSpecification
	selfLoop  specifications.EdgeSpecification
}

// NewCodeGenerator creates a generator
func NewCodeGenerator(opts ...GeneratorOption) *CodeGenerator {
	g := &CodeGenerator{
		header:    DefaultHeader,
		entity:    specifications.NewDataEntitySpec(),
		endpoint:  specifications.NewNodeKindSpec(valueobjects.NodeKindAPIEndpoint),
		component: specifications.NewNodeKindSpec(valueobjects.NodeKindUIComponent),
		reference: specifications.NewForeignKeyEdgeSpec(),
		selfLoop:  specifications.NewEdgeNotSelfLoopSpec().Not(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type foreignKey struct {
	column string
	field  string
	table  string
}

// generation holds the per-call working state
type generation struct {
	snapshot aggregates.Snapshot
	nodes    map[valueobjects.NodeID]entities.Node
	idents   map[valueobjects.NodeID]string
	refs     map[valueobjects.NodeID][]foreignKey
	views    []specifications.EdgeView
	warnings []Warning
	// node sets already named in a collision warning
	reported map[string]bool
	out      strings.Builder
}

// Generate renders the artifact. It is pure: equal snapshots give equal text.
func (g *CodeGenerator) Generate(snapshot aggregates.Snapshot) Artifact {
	gen := &generation{
		snapshot: snapshot.Clone(),
		nodes:    make(map[valueobjects.NodeID]entities.Node, len(snapshot.Nodes)),
		idents:   make(map[valueobjects.NodeID]string, len(snapshot.Nodes)),
		refs:     make(map[valueobjects.NodeID][]foreignKey),
		reported: make(map[string]bool),
	}
	for _, n := range gen.snapshot.Nodes {
		gen.nodes[n.ID] = n
		gen.idents[n.ID] = Identifier(n)
	}

	dataNodes := specifications.Filter(g.entity, gen.snapshot.Nodes)
	endpointNodes := specifications.Filter(g.endpoint, gen.snapshot.Nodes)
	componentNodes := specifications.Filter(g.component, gen.snapshot.Nodes)

	routed := make([]entities.Node, 0, len(dataNodes)+len(endpointNodes))
	routed = append(append(routed, dataNodes...), endpointNodes...)

	gen.checkCollisions(WarningDuplicateIdentifier, "type identifier", dataNodes, gen.identOf)
	gen.checkCollisions(WarningDuplicateIdentifier, "type name", dataNodes, collisionKey)
	gen.checkCollisions(WarningDuplicateTable, "table", dataNodes, func(n entities.Node) string {
		return TableName(gen.idents[n.ID])
	})
	gen.checkCollisions(WarningDuplicateRoute, "route", routed, gen.routeOf)
	gen.checkCollisions(WarningDuplicateIdentifier, "component identifier", componentNodes, gen.identOf)
	gen.checkCollisions(WarningDuplicateIdentifier, "component name", componentNodes, collisionKey)
	gen.resolveEdges()
	g.collectForeignKeys(gen)

	g.writeHeader(gen)
	if len(dataNodes) > 0 {
		gen.writeTypes(dataNodes)
		gen.writeTables(dataNodes)
		gen.writeEndpoints(dataNodes)
	}
	if len(endpointNodes) > 0 {
		gen.writeCustomEndpoints(endpointNodes)
	}
	if len(componentNodes) > 0 {
		gen.writeComponents(componentNodes)
	}
	gen.writeWarnings()

	return Artifact{
		Source:   gen.snapshot,
		Text:     gen.out.String(),
		Warnings: append([]Warning{}, gen.warnings...),
	}
}

func (gen *generation) warn(code, format string, args ...interface{}) {
	gen.warnings = append(gen.warnings, Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (gen *generation) identOf(n entities.Node) string {
	return gen.idents[n.ID]
}

func (gen *generation) routeOf(n entities.Node) string {
	if n.Kind == valueobjects.NodeKindAPIEndpoint {
		return customEndpointPath(gen.idents[n.ID])
	}
	return ResourcePath(gen.idents[n.ID])
}

// checkCollisions reports names shared by more than one node, in first-use
// order. A node set is reported once, under the first check that finds it.
func (gen *generation) checkCollisions(code, what string, nodes []entities.Node, name func(entities.Node) string) {
	owners := make(map[string][]string)
	var order []string
	for _, n := range nodes {
		key := name(n)
		if _, seen := owners[key]; !seen {
			order = append(order, key)
		}
		owners[key] = append(owners[key], n.ID.String())
	}
	for _, key := range order {
		ids := owners[key]
		if len(ids) < 2 {
			continue
		}
		set := strings.Join(ids, ", ")
		if gen.reported[set] {
			continue
		}
		gen.reported[set] = true
		gen.warn(code, "%s %q is shared by nodes %s", what, key, set)
	}
}

func (gen *generation) resolveEdges() {
	for _, e := range gen.snapshot.Edges {
		src, okSrc := gen.nodes[e.Source]
		tgt, okTgt := gen.nodes[e.Target]
		if !okSrc || !okTgt {
			gen.warn(WarningDanglingEdge, "edge %s references a missing node and was skipped", e.ID)
			continue
		}
		gen.views = append(gen.views, specifications.EdgeView{Edge: e, Source: src, Target: tgt})
	}
}

// collectForeignKeys places a reference on the target of every entity-to-entity edge
func (g *CodeGenerator) collectForeignKeys(gen *generation) {
	for _, v := range gen.views {
		if !g.reference.IsSatisfiedBy(v) {
			continue
		}
		srcIdent := gen.idents[v.Source.ID]
		fk := foreignKey{
			column: ForeignKeyColumn(srcIdent),
			field:  ForeignKeyField(srcIdent),
			table:  TableName(srcIdent),
		}
		duplicate := false
		for _, existing := range gen.refs[v.Target.ID] {
			if existing.column == fk.column {
				duplicate = true
				break
			}
		}
		if duplicate {
			gen.warn(WarningDuplicateColumn, "edge %s would add a second %s column to %s and was skipped",
				v.Edge.ID, fk.column, TableName(gen.idents[v.Target.ID]))
			continue
		}
		gen.refs[v.Target.ID] = append(gen.refs[v.Target.ID], fk)
	}
}

func (g *CodeGenerator) writeHeader(gen *generation) {
	w := &gen.out
	fmt.Fprintf(w, "// %s\n", commentSafe(g.header))
	fmt.Fprintf(w, "// Diagram nodes: %d, edges: %d\n", len(gen.snapshot.Nodes), len(gen.snapshot.Edges))
	for _, n := range gen.snapshot.Nodes {
		fmt.Fprintf(w, "//   node %s [%s] %q\n", n.ID, n.Kind, commentSafe(n.Label))
	}
	for _, v := range gen.views {
		line := fmt.Sprintf("//   edge %s: %s -> %s", v.Edge.ID, v.Edge.Source, v.Edge.Target)
		if v.Edge.Label != "" {
			line += fmt.Sprintf(" %q", commentSafe(v.Edge.Label))
		}
		if g.selfLoop.IsSatisfiedBy(v) {
			line += " (self-loop)"
		}
		w.WriteString(line + "\n")
	}
}

func (gen *generation) writeTypes(nodes []entities.Node) {
	w := &gen.out
	w.WriteString("\n// Types\n")
	for i, n := range nodes {
		if i > 0 {
			w.WriteString("\n")
		}
		fmt.Fprintf(w, "export interface %s {\n", gen.idents[n.ID])
		w.WriteString("  id: string;\n")
		for _, fk := range gen.refs[n.ID] {
			fmt.Fprintf(w, "  %s: string;\n", fk.field)
		}
		w.WriteString("  createdAt: Date;\n")
		w.WriteString("}\n")
	}
}

func (gen *generation) writeTables(nodes []entities.Node) {
	w := &gen.out
	w.WriteString("\n// Database schema\n")
	for i, n := range nodes {
		if i > 0 {
			w.WriteString("\n")
		}
		ident := gen.idents[n.ID]
		fmt.Fprintf(w, "const create%sTable = `\n", ident)
		fmt.Fprintf(w, "  CREATE TABLE %s (\n", TableName(ident))
		w.WriteString("    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),\n")
		for _, fk := range gen.refs[n.ID] {
			fmt.Fprintf(w, "    %s UUID REFERENCES %s(id),\n", fk.column, fk.table)
		}
		w.WriteString("    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP\n")
		w.WriteString("  );\n`;\n")
	}
}

func (gen *generation) writeEndpoints(nodes []entities.Node) {
	w := &gen.out
	w.WriteString("\n// API endpoints\n")
	for i, n := range nodes {
		if i > 0 {
			w.WriteString("\n")
		}
		ident := gen.idents[n.ID]
		path := ResourcePath(ident)
		fmt.Fprintf(w, "app.post('%s', async (req, res) => {\n  // Create %s\n});\n\n", path, ident)
		fmt.Fprintf(w, "app.get('%s/:id', async (req, res) => {\n  // Read %s\n});\n", path, ident)
	}
}

func (gen *generation) writeCustomEndpoints(nodes []entities.Node) {
	w := &gen.out
	w.WriteString("\n// Custom endpoints\n")
	for i, n := range nodes {
		if i > 0 {
			w.WriteString("\n")
		}
		path := customEndpointPath(gen.idents[n.ID])
		fmt.Fprintf(w, "app.all('%s', async (req, res) => {\n  // %s\n});\n", path, commentSafe(n.Label))
	}
}

func (gen *generation) writeComponents(nodes []entities.Node) {
	w := &gen.out
	w.WriteString("\n// React components\n")
	for i, n := range nodes {
		if i > 0 {
			w.WriteString("\n")
		}
		fmt.Fprintf(w, "export function %s() {\n", gen.idents[n.ID])
		fmt.Fprintf(w, "  return <div>{%s}</div>;\n}\n", strconv.Quote(n.Label))
	}
}

func (gen *generation) writeWarnings() {
	if len(gen.warnings) == 0 {
		return
	}
	w := &gen.out
	w.WriteString("\n// Warnings:\n")
	for _, warning := range gen.warnings {
		fmt.Fprintf(w, "//   - [%s] %s\n", warning.Code, commentSafe(warning.Message))
	}
}

func customEndpointPath(ident string) string {
	return "/api/" + strcase.ToKebab(ident)
}

func commentSafe(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
