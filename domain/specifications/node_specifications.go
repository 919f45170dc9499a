package specifications

import (
	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
)

// NodeSpecification is a specification for diagram nodes
type NodeSpecification = Specification[entities.Node]

// NewNodeKindSpec matches nodes of any of the given kinds
func NewNodeKindSpec(kinds ...valueobjects.NodeKind) NodeSpecification {
	allowed := make(map[valueobjects.NodeKind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return NewBaseSpecification(func(n entities.Node) bool {
		return allowed[n.Kind]
	})
}

// NewDataEntitySpec matches nodes that become types and tables in generated code
func NewDataEntitySpec() NodeSpecification {
	return NewBaseSpecification(func(n entities.Node) bool {
		return n.Kind.IsDataEntity()
	})
}
