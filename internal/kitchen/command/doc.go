// Package command defines the mutation commands accepted by the kitchen
// pipeline and the override requests that accompany resubmissions of
// blocked commands.
package command
