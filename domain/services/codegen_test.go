package services

import (
	"strings"
	"testing"

	"github.com/RithishKumarK/supreme/domain/core/aggregates"
	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNode() entities.Node {
	return entities.Node{ID: "start", Kind: valueobjects.NodeKindStart, Label: "Start", Position: valueobjects.Position{X: 250, Y: 25}}
}

func dbNode(id, label string) entities.Node {
	return entities.Node{ID: valueobjects.NodeID(id), Kind: valueobjects.NodeKindDatabase, Label: label}
}

func blogGraph(t *testing.T) *aggregates.Graph {
	t.Helper()
	g := aggregates.NewGraph("codegen")
	require.NoError(t, g.ReplaceAll([]entities.Node{startNode()}, nil))
	n1, err := g.AddNode(valueobjects.NodeKindDatabase, "Users", valueobjects.Position{})
	require.NoError(t, err)
	n2, err := g.AddNode(valueobjects.NodeKindDatabase, "Posts", valueobjects.Position{})
	require.NoError(t, err)
	_, err = g.AddEdge(n1, n2, "has many")
	require.NoError(t, err)
	return g
}

const blogGolden = `// Generated TypeScript code
// Diagram nodes: 3, edges: 1
//   node start [start] "Start"
//   node n1 [database] "Users"
//   node n2 [database] "Posts"
//   edge e1: n1 -> n2 "has many"

// Types
export interface Users {
  id: string;
  createdAt: Date;
}

export interface Posts {
  id: string;
  userId: string;
  createdAt: Date;
}

// Database schema
const createUsersTable = %BT%
  CREATE TABLE users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
  );
%BT%;

const createPostsTable = %BT%
  CREATE TABLE posts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID REFERENCES users(id),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
  );
%BT%;

// API endpoints
app.post('/api/users', async (req, res) => {
  // Create Users
});

app.get('/api/users/:id', async (req, res) => {
  // Read Users
});

app.post('/api/posts', async (req, res) => {
  // Create Posts
});

app.get('/api/posts/:id', async (req, res) => {
  // Read Posts
});
`

func TestCodeGenerator_BlogScenario(t *testing.T) {
	g := blogGraph(t)
	artifact := NewCodeGenerator().Generate(g.Snapshot())

	want := strings.ReplaceAll(blogGolden, "%BT%", "`")
	assert.Equal(t, want, artifact.Text)
	assert.Empty(t, artifact.Warnings)
	assert.Equal(t, g.Snapshot(), artifact.Source)
}

func TestCodeGenerator_ReferenceLandsOnTarget(t *testing.T) {
	artifact := NewCodeGenerator().Generate(blogGraph(t).Snapshot())

	posts := artifact.Text[strings.Index(artifact.Text, "CREATE TABLE posts"):]
	posts = posts[:strings.Index(posts, ");")]
	assert.Contains(t, posts, "user_id UUID REFERENCES users(id)")

	users := artifact.Text[strings.Index(artifact.Text, "CREATE TABLE users"):]
	users = users[:strings.Index(users, ");")]
	assert.NotContains(t, users, "REFERENCES")
}

func TestCodeGenerator_IsPure(t *testing.T) {
	gen := NewCodeGenerator()
	snap := blogGraph(t).Snapshot()

	first := gen.Generate(snap)
	second := gen.Generate(snap)
	assert.Equal(t, first.Text, second.Text)
}

func TestCodeGenerator_IgnoresPositions(t *testing.T) {
	gen := NewCodeGenerator()
	snap := blogGraph(t).Snapshot()
	moved := snap.Clone()
	for i := range moved.Nodes {
		moved.Nodes[i].Position = valueobjects.Position{X: float64(i * 100), Y: -3}
	}

	assert.Equal(t, gen.Generate(snap).Text, gen.Generate(moved).Text)
}

func TestCodeGenerator_StartOnlyGraph(t *testing.T) {
	artifact := NewCodeGenerator().Generate(aggregates.Snapshot{Nodes: []entities.Node{startNode()}})

	assert.Contains(t, artifact.Text, "// Generated TypeScript code")
	assert.Contains(t, artifact.Text, `node start [start] "Start"`)
	for _, decl := range []string{"interface", "CREATE TABLE", "app.", "export function"} {
		assert.NotContains(t, artifact.Text, decl)
	}
	assert.Empty(t, artifact.Warnings)
}

func TestCodeGenerator_EmptyGraph(t *testing.T) {
	artifact := NewCodeGenerator().Generate(aggregates.Snapshot{})
	assert.Equal(t, "// Generated TypeScript code\n// Diagram nodes: 0, edges: 0\n", artifact.Text)
}

func TestCodeGenerator_Warnings(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   aggregates.Snapshot
		wantCode   string
		wantInText []string
		absent     []string
	}{
		{
			name: "identifier collision",
			snapshot: aggregates.Snapshot{Nodes: []entities.Node{
				dbNode("n1", "Users"), dbNode("n2", "users!"),
			}},
			wantCode:   WarningDuplicateIdentifier,
			wantInText: []string{"// Warnings:", `type identifier "Users" is shared by nodes n1, n2`},
		},
		{
			name: "second reference column is skipped",
			snapshot: aggregates.Snapshot{
				Nodes: []entities.Node{dbNode("n1", "Users"), dbNode("n2", "Posts")},
				Edges: []entities.Edge{
					{ID: "e1", Source: "n1", Target: "n2", Label: "has many"},
					{ID: "e2", Source: "n1", Target: "n2", Label: "edits"},
				},
			},
			wantCode:   WarningDuplicateColumn,
			wantInText: []string{"edge e2 would add a second user_id column to posts"},
		},
		{
			name: "dangling edge",
			snapshot: aggregates.Snapshot{
				Nodes: []entities.Node{dbNode("n1", "Users")},
				Edges: []entities.Edge{{ID: "e1", Source: "n1", Target: "gone"}},
			},
			wantCode:   WarningDanglingEdge,
			wantInText: []string{"edge e1 references a missing node"},
			absent:     []string{"REFERENCES"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := NewCodeGenerator().Generate(tt.snapshot)

			require.Len(t, artifact.Warnings, 1)
			assert.Equal(t, tt.wantCode, artifact.Warnings[0].Code)
			for _, s := range tt.wantInText {
				assert.Contains(t, artifact.Text, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, artifact.Text, s)
			}
			assert.True(t, strings.HasSuffix(artifact.Text, "\n"))
		})
	}
}

func TestCodeGenerator_DuplicateColumnEmittedOnce(t *testing.T) {
	snap := aggregates.Snapshot{
		Nodes: []entities.Node{dbNode("n1", "Users"), dbNode("n2", "Posts")},
		Edges: []entities.Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
			{ID: "e2", Source: "n1", Target: "n2"},
		},
	}
	text := NewCodeGenerator().Generate(snap).Text
	assert.Equal(t, 1, strings.Count(text, "user_id UUID"))
}

func TestCodeGenerator_NonEntityKinds(t *testing.T) {
	snap := aggregates.Snapshot{
		Nodes: []entities.Node{
			startNode(),
			{ID: "n1", Kind: valueobjects.NodeKindAPIEndpoint, Label: "Login Handler"},
			{ID: "n2", Kind: valueobjects.NodeKindUIComponent, Label: "User Card"},
			{ID: "n3", Kind: valueobjects.NodeKindEntity, Label: "Session"},
		},
		Edges: []entities.Edge{
			{ID: "e1", Source: "n1", Target: "n3"},
			{ID: "e2", Source: "n3", Target: "n3", Label: "parent"},
		},
	}

	text := NewCodeGenerator().Generate(snap).Text

	assert.Contains(t, text, "app.all('/api/login-handler', async (req, res) => {\n  // Login Handler\n});")
	assert.Contains(t, text, "export function UserCard() {\n  return <div>{\"User Card\"}</div>;\n}")
	assert.Contains(t, text, "CREATE TABLE sessions (")
	assert.Contains(t, text, `edge e2: n3 -> n3 "parent" (self-loop)`)
	// neither the endpoint edge nor the self-loop yields a reference
	assert.NotContains(t, text, "REFERENCES")
	assert.NotContains(t, text, "interface LoginHandler")
}

func TestCodeGenerator_NameCollisions(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []entities.Node
		wantCode string
		wantText string
	}{
		{
			name:     "labels equal once word breaks are dropped",
			nodes:    []entities.Node{dbNode("n1", "blog post"), dbNode("n2", "blogpost")},
			wantCode: WarningDuplicateIdentifier,
			wantText: `type name "Blogpost" is shared by nodes n1, n2`,
		},
		{
			name:     "singular and plural share a table",
			nodes:    []entities.Node{dbNode("n1", "User"), dbNode("n2", "Users")},
			wantCode: WarningDuplicateTable,
			wantText: `table "users" is shared by nodes n1, n2`,
		},
		{
			name: "custom endpoint on an entity route",
			nodes: []entities.Node{
				dbNode("n1", "Orders"),
				{ID: "n2", Kind: valueobjects.NodeKindAPIEndpoint, Label: "orders"},
			},
			wantCode: WarningDuplicateRoute,
			wantText: `route "/api/orders" is shared by nodes n1, n2`,
		},
		{
			name: "components",
			nodes: []entities.Node{
				{ID: "n1", Kind: valueobjects.NodeKindUIComponent, Label: "Side bar"},
				{ID: "n2", Kind: valueobjects.NodeKindUIComponent, Label: "sidebar"},
			},
			wantCode: WarningDuplicateIdentifier,
			wantText: `component name "Sidebar" is shared by nodes n1, n2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := NewCodeGenerator().Generate(aggregates.Snapshot{Nodes: tt.nodes})

			require.Len(t, artifact.Warnings, 1)
			assert.Equal(t, tt.wantCode, artifact.Warnings[0].Code)
			assert.Contains(t, artifact.Text, "// Warnings:")
			assert.Contains(t, artifact.Text, tt.wantText)
		})
	}
}

func TestCodeGenerator_DistinctNamesHaveNoWarnings(t *testing.T) {
	snap := aggregates.Snapshot{Nodes: []entities.Node{
		dbNode("n1", "Person"), dbNode("n2", "Post"), dbNode("n3", "Blog Post"),
	}}
	artifact := NewCodeGenerator().Generate(snap)

	assert.Empty(t, artifact.Warnings)
	assert.NotContains(t, artifact.Text, "// Warnings:")
	assert.Contains(t, artifact.Text, "CREATE TABLE people (")
	assert.Contains(t, artifact.Text, "CREATE TABLE blog_posts (")
}

func TestCodeGenerator_SectionOrderFollowsInsertion(t *testing.T) {
	snap := aggregates.Snapshot{Nodes: []entities.Node{dbNode("b", "Zebra"), dbNode("a", "Apple")}}
	text := NewCodeGenerator().Generate(snap).Text

	assert.Less(t, strings.Index(text, "interface Zebra"), strings.Index(text, "interface Apple"))
	assert.Less(t, strings.Index(text, "CREATE TABLE zebras"), strings.Index(text, "CREATE TABLE apples"))
}

func TestWithHeader(t *testing.T) {
	text := NewCodeGenerator(WithHeader("Schema draft"), WithHeader(" ")).Generate(aggregates.Snapshot{}).Text
	assert.True(t, strings.HasPrefix(text, "// Schema draft\n"))
}
