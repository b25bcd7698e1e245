// Package processing defines the processing pipeline primitives: typed
// results, the processor contract, and a sequential pipeline runner.
package processing

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the outcome of a single processing step.
type Status string

const (
	// StatusAccepted means the step completed and its output is usable.
	// An accepted result may still carry an empty payload (e.g. a post
	// tagged with zero topics).
	StatusAccepted Status = "accepted"
	// StatusError means the step failed in a way it could not contain.
	StatusError Status = "error"
)

// Result is the outcome of a processing operation with a typed output.
// On StatusError, Output holds the input as the processor last saw it and
// Reason explains the failure.
type Result[T any] struct {
	Status        Status
	Output        T
	ProcessorName string
	Reason        string
	Details       map[string]any
}

// Accepted builds an accepted result.
func Accepted[T any](processorName string, output T, details map[string]any) Result[T] {
	return Result[T]{
		Status:        StatusAccepted,
		Output:        output,
		ProcessorName: processorName,
		Details:       details,
	}
}

// Errored builds an error result.
func Errored[T any](processorName string, output T, reason string) Result[T] {
	return Result[T]{
		Status:        StatusError,
		Output:        output,
		ProcessorName: processorName,
		Reason:        reason,
	}
}

// Note returns a human-readable one-line summary of the result.
func (r Result[T]) Note() string {
	if r.Status == StatusError {
		return fmt.Sprintf("%s: %s", r.ProcessorName, r.Reason)
	}
	if len(r.Details) > 0 {
		keys := make([]string, 0, len(r.Details))
		for k := range r.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, r.Details[k]))
		}
		return fmt.Sprintf("%s: passed (%s)", r.ProcessorName, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: passed", r.ProcessorName)
}
