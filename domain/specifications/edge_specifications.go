package specifications

import (
	"github.com/RithishKumarK/supreme/domain/core/entities"
)

// EdgeView is an edge together with its resolved endpoints
type EdgeView struct {
	Edge   entities.Edge
	Source entities.Node
	Target entities.Node
}

// EdgeSpecification is a specification for resolved edges
type EdgeSpecification = Specification[EdgeView]

// NewEdgeNotSelfLoopSpec matches edges whose endpoints differ
func NewEdgeNotSelfLoopSpec() EdgeSpecification {
	return NewBaseSpecification(func(v EdgeView) bool {
		return !v.Edge.IsSelfLoop()
	})
}

// NewEdgeEndpointsSpec matches edges whose source and target satisfy the given node specs
func NewEdgeEndpointsSpec(source, target NodeSpecification) EdgeSpecification {
	return NewBaseSpecification(func(v EdgeView) bool {
		return source.IsSatisfiedBy(v.Source) && target.IsSatisfiedBy(v.Target)
	})
}

// NewForeignKeyEdgeSpec matches edges that produce a foreign key: both
// endpoints are data entities and the edge is not a self-loop.
func NewForeignKeyEdgeSpec() EdgeSpecification {
	return NewEdgeEndpointsSpec(NewDataEntitySpec(), NewDataEntitySpec()).And(NewEdgeNotSelfLoopSpec())
}
