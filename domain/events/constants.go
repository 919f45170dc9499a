package events

// Event types
const (
	// Graph events
	TypeNodeAdded     = "node.added"
	TypeEdgeAdded     = "edge.added"
	TypeGraphReplaced = "graph.replaced"

	// Session events
	TypeArtifactGenerated = "artifact.generated"
	TypePromptApplied     = "prompt.applied"
	TypePromptFailed      = "prompt.failed"
)
