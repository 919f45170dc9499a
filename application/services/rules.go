package services

import (
	"fmt"

	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	domainservices "github.com/RithishKumarK/supreme/domain/services"
	"github.com/RithishKumarK/supreme/internal/config"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
)

// BuildRules converts configured keyword rules into interpreter rules.
// Every rule's nodes and edges go through the same validation as a graph edit.
func BuildRules(configs []config.RuleConfig) ([]domainservices.Rule, error) {
	rules := make([]domainservices.Rule, 0, len(configs))
	for i, rc := range configs {
		cmd, err := buildCommand(rc)
		if err != nil {
			return nil, pkgerrors.Wrap(err, fmt.Sprintf("rule %d (%s)", i, rc.Name))
		}
		rules = append(rules, domainservices.Rule{
			Name:     rc.Name,
			Keywords: append([]string(nil), rc.Keywords...),
			Command:  cmd,
		})
	}
	return rules, nil
}

func buildCommand(rc config.RuleConfig) (domainservices.GraphEditCommand, error) {
	cmd := domainservices.GraphEditCommand{
		Name:  rc.Name,
		Reply: rc.Reply,
		Nodes: make([]entities.Node, 0, len(rc.Nodes)),
		Edges: make([]entities.Edge, 0, len(rc.Edges)),
	}

	for _, nc := range rc.Nodes {
		kind, err := valueobjects.ParseNodeKind(nc.Kind)
		if err != nil {
			return cmd, err
		}
		node, err := entities.NewNode(valueobjects.NodeID(nc.ID), kind, nc.Label, valueobjects.Position{X: nc.X, Y: nc.Y})
		if err != nil {
			return cmd, err
		}
		cmd.Nodes = append(cmd.Nodes, node)
	}

	for _, ec := range rc.Edges {
		edge, err := entities.NewEdge(valueobjects.EdgeID(ec.ID), valueobjects.NodeID(ec.Source), valueobjects.NodeID(ec.Target), ec.Label)
		if err != nil {
			return cmd, err
		}
		cmd.Edges = append(cmd.Edges, edge)
	}

	return cmd, nil
}

// NewInterpreter builds the prompt interpreter for a set of configured rules.
// With no rules it is the fixed Users/Posts interpreter.
func NewInterpreter(configs []config.RuleConfig) (domainservices.PromptInterpreter, error) {
	fallback := domainservices.NewFixedInterpreter()
	if len(configs) == 0 {
		return fallback, nil
	}
	rules, err := BuildRules(configs)
	if err != nil {
		return nil, err
	}
	interpreter, err := domainservices.NewRuleInterpreter(rules, domainservices.NewDefaultTextAnalyzer(), fallback)
	if err != nil {
		return nil, err
	}
	return interpreter, nil
}
