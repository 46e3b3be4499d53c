// Package rules selects entity description adjustments for a device based
// on its model, profile and reported attributes. The static profile tables
// cannot express model-specific hardware variants, rules add or remove
// descriptions on top of them.
package rules

import (
	"fmt"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
)

// Input is the environment a rule filter is evaluated against.
type Input struct {
	Model         string
	Profile       int
	AttributeKeys []string
}

// Rule adds or removes description ids (entity.Description.ID values) when
// its filter matches. Children are only evaluated when the parent matched.
type Rule struct {
	Description string
	Filter      string
	Add         []string
	Remove      []string
	Children    []Rule
}

type compiledRule struct {
	description string
	filter      *vm.Program
	add         []string
	remove      []string
	children    []compiledRule
}

// Output accumulates the adjustments of every matching rule.
type Output struct {
	Add    map[string]bool
	Remove map[string]bool
}

// Engine holds a compiled rule list. Construction fails on the first
// invalid filter, rules never fail at dispatch time.
type Engine struct {
	rules []compiledRule
}

func New(rules []Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}

	return &Engine{rules: compiled}, nil
}

// MustNew is New, panicking on compilation errors. For use with rule lists
// known to be valid, such as Default.
func MustNew(rules []Rule) *Engine {
	e, err := New(rules)
	if err != nil {
		panic(err)
	}

	return e
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	var compiled []compiledRule

	for _, rule := range rules {
		cf, err := expr.Compile(rule.Filter, expr.Env(Input{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("filter compilation: %s: %w", rule.Description, err)
		}

		children, err := compileRules(rule.Children)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rule.Description, err)
		}

		compiled = append(compiled, compiledRule{
			description: rule.Description,
			filter:      cf,
			add:         rule.Add,
			remove:      rule.Remove,
			children:    children,
		})
	}

	return compiled, nil
}

// Execute evaluates every rule against the input and merges the matching
// adjustments. A remove wins over an add for the same id.
func (e *Engine) Execute(input Input) (Output, error) {
	out := Output{Add: map[string]bool{}, Remove: map[string]bool{}}

	if err := executeRules(e.rules, input, &out); err != nil {
		return Output{}, err
	}

	for id := range out.Remove {
		delete(out.Add, id)
	}

	return out, nil
}

func executeRules(rules []compiledRule, input Input, out *Output) error {
	for _, rule := range rules {
		result, err := expr.Run(rule.filter, input)
		if err != nil {
			return fmt.Errorf("filter execution: %s: %w", rule.description, err)
		}

		if !result.(bool) {
			continue
		}

		for _, id := range rule.add {
			out.Add[id] = true
		}
		for _, id := range rule.remove {
			out.Remove[id] = true
		}

		if err := executeRules(rule.children, input, out); err != nil {
			return err
		}
	}

	return nil
}
