// Package constraint evaluates declarative business rules against a command
// and the current aggregate state. Evaluation is deterministic: rules run in
// declaration order and outcomes are returned in that order.
package constraint
