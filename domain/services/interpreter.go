package services

import (
	"fmt"
	"strings"

	"github.com/RithishKumarK/supreme/domain/core/aggregates"
	"github.com/RithishKumarK/supreme/domain/core/entities"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
)

// DefaultReply is the assistant message shown after a prompt has been applied.
const DefaultReply = "I've created a diagram based on your request. You can now edit it or convert it to code!"

// DefaultCommandName names the fallback edit
const DefaultCommandName = "users-posts"

// GraphEditCommand is a complete replacement for a graph's content, applied
// in one step by the editor session.
type GraphEditCommand struct {
	Name  string          `json:"name" yaml:"name"`
	Nodes []entities.Node `json:"nodes" yaml:"nodes"`
	Edges []entities.Edge `json:"edges" yaml:"edges"`
	Reply string          `json:"reply" yaml:"reply"`
}

// Clone returns a copy that shares no slices with c
func (c GraphEditCommand) Clone() GraphEditCommand {
	c.Nodes = append([]entities.Node(nil), c.Nodes...)
	c.Edges = append([]entities.Edge(nil), c.Edges...)
	return c
}

// Validate checks that the command would be accepted by Graph.ReplaceAll
func (c GraphEditCommand) Validate() error {
	return aggregates.NewGraph("validate").ReplaceAll(c.Nodes, c.Edges)
}

// PromptInterpreter maps prompt text to a graph edit. Implementations must be
// deterministic and must not modify the snapshot they are given.
type PromptInterpreter interface {
	Interpret(prompt string, current aggregates.Snapshot) (GraphEditCommand, error)
}

// DefaultCommand is the fallback edit: Users has many Posts.
func DefaultCommand() GraphEditCommand {
	return GraphEditCommand{
		Name: DefaultCommandName,
		Nodes: []entities.Node{
			{ID: "users", Kind: valueobjects.NodeKindDatabase, Label: "Users", Position: valueobjects.Position{X: 250, Y: 100}},
			{ID: "posts", Kind: valueobjects.NodeKindDatabase, Label: "Posts", Position: valueobjects.Position{X: 250, Y: 250}},
		},
		Edges: []entities.Edge{
			{ID: "users-posts", Source: "users", Target: "posts", Label: "has many"},
		},
		Reply: DefaultReply,
	}
}

func validatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return pkgerrors.NewValidationError("prompt cannot be empty")
	}
	return nil
}

// FixedInterpreter answers every prompt with the same command.
type FixedInterpreter struct {
	command GraphEditCommand
}

// NewFixedInterpreter returns an interpreter that always yields DefaultCommand
func NewFixedInterpreter() *FixedInterpreter {
	return &FixedInterpreter{command: DefaultCommand()}
}

// Interpret ignores the prompt's content beyond rejecting blank input
func (f *FixedInterpreter) Interpret(prompt string, _ aggregates.Snapshot) (GraphEditCommand, error) {
	if err := validatePrompt(prompt); err != nil {
		return GraphEditCommand{}, err
	}
	return f.command.Clone(), nil
}

// Rule maps a keyword set to a command. A rule matches when every keyword
// appears in the prompt.
type Rule struct {
	Name     string
	Keywords []string
	Command  GraphEditCommand
}

// RuleInterpreter checks rules in order and falls back to another
// interpreter when none match.
type RuleInterpreter struct {
	rules    []Rule
	analyzer TextAnalyzer
	fallback PromptInterpreter
}

// NewRuleInterpreter validates the rule table up front so a bad rule fails
// at startup rather than on a user's prompt. A nil fallback means FixedInterpreter.
func NewRuleInterpreter(rules []Rule, analyzer TextAnalyzer, fallback PromptInterpreter) (*RuleInterpreter, error) {
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	if fallback == nil {
		fallback = NewFixedInterpreter()
	}

	normalized := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if err := r.Command.Validate(); err != nil {
			return nil, pkgerrors.Wrap(err, fmt.Sprintf("rule %d (%s)", i, r.Name))
		}

		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = analyzer.Normalize(k)
			if k == "" {
				continue
			}
			if analyzer.IsStopWord(k) {
				return nil, pkgerrors.NewValidationError(fmt.Sprintf("rule %d (%s) keyword %q is too common to match on", i, r.Name, k))
			}
			keywords = append(keywords, k)
		}
		if len(keywords) == 0 {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("rule %d (%s) has no keywords", i, r.Name))
		}
		cmd := r.Command.Clone()
		if cmd.Name == "" {
			cmd.Name = r.Name
		}
		if cmd.Reply == "" {
			cmd.Reply = DefaultReply
		}
		normalized = append(normalized, Rule{Name: r.Name, Keywords: keywords, Command: cmd})
	}

	return &RuleInterpreter{rules: normalized, analyzer: analyzer, fallback: fallback}, nil
}

// Interpret returns the command of the first matching rule
func (ri *RuleInterpreter) Interpret(prompt string, current aggregates.Snapshot) (GraphEditCommand, error) {
	if err := validatePrompt(prompt); err != nil {
		return GraphEditCommand{}, err
	}

	tokens := ri.analyzer.TokenizeWords(prompt)
	for _, r := range ri.rules {
		if matchesAll(tokens, r.Keywords) {
			return r.Command.Clone(), nil
		}
	}
	return ri.fallback.Interpret(prompt, current)
}

// Rules returns the normalized rule table
func (ri *RuleInterpreter) Rules() []Rule {
	out := make([]Rule, len(ri.rules))
	copy(out, ri.rules)
	return out
}

func matchesAll(tokens map[string]bool, keywords []string) bool {
	for _, k := range keywords {
		if !tokens[k] {
			return false
		}
	}
	return len(keywords) > 0
}
