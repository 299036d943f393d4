package constraint

import (
	"github.com/harvestline/kitchenops/internal/kitchen/command"
	"github.com/harvestline/kitchenops/internal/kitchen/domain"
)

// Severity classifies how an outcome affects command execution.
type Severity string

const (
	// SeverityInfo is advisory only.
	SeverityInfo Severity = "info"
	// SeverityWarn lets the command proceed but is surfaced to the caller.
	SeverityWarn Severity = "warn"
	// SeverityBlock stops the command unless explicitly overridden.
	SeverityBlock Severity = "block"
)

// Outcome is the record of one rule evaluation. Passed rules carry an
// empty message.
type Outcome struct {
	ConstraintID string
	Severity     Severity
	Passed       bool
	Message      string
}

// Outcomes is the ordered union of every rule evaluation, one entry per
// catalog rule in declaration order.
type Outcomes []Outcome

// Triggered returns the outcomes whose rule did not pass.
func (o Outcomes) Triggered() Outcomes {
	var triggered Outcomes
	for _, outcome := range o {
		if !outcome.Passed {
			triggered = append(triggered, outcome)
		}
	}
	return triggered
}

// Blocking returns the outcomes that stop execution.
func (o Outcomes) Blocking() Outcomes {
	var blocking Outcomes
	for _, outcome := range o {
		if outcome.Severity == SeverityBlock && !outcome.Passed {
			blocking = append(blocking, outcome)
		}
	}
	return blocking
}

// IDs returns the constraint IDs in outcome order.
func (o Outcomes) IDs() []string {
	ids := make([]string, len(o))
	for i, outcome := range o {
		ids[i] = outcome.ConstraintID
	}
	return ids
}

// State is the current aggregate state a rule evaluates against. Only the
// fields for the command's aggregate are populated; create commands carry
// no current state.
type State struct {
	Menu          *domain.Menu
	MenuDishCount int
	Dish          *domain.Dish
	PrepList      *domain.PrepList
}

// Rule is a deterministic check over a command and the current state.
// Check returns whether the rule triggered and the message to surface.
type Rule struct {
	ID       string
	Severity Severity
	Check    func(cmd command.Command, state State) (bool, string)
}

// Engine evaluates a fixed rule catalog.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the given rules. Rule order is preserved.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Evaluate runs every rule against the command and state, returning one
// outcome per rule in declaration order. Passing rules are recorded too so
// callers can distinguish "passed" from "not evaluated".
func (e *Engine) Evaluate(cmd command.Command, state State) Outcomes {
	outcomes := make(Outcomes, 0, len(e.rules))
	for _, rule := range e.rules {
		triggered, message := rule.Check(cmd, state)
		outcomes = append(outcomes, Outcome{
			ConstraintID: rule.ID,
			Severity:     rule.Severity,
			Passed:       !triggered,
			Message:      message,
		})
	}
	return outcomes
}
