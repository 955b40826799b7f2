package domain

import (
	"errors"
	"slices"
)

// Condition is a guard predicate over an instance and an acting principal.
// A nil return means the condition passed; any error means it did not.
// Return Fail(reason) to attach a human-readable reason to the rejection.
type Condition func(inst, principal any) error

// Predicate lifts a boolean predicate into a Condition, tagging rejections
// with reason.
func Predicate(reason string, fn func(inst, principal any) bool) Condition {
	return func(inst, principal any) error {
		if fn(inst, principal) {
			return nil
		}
		return Fail(reason)
	}
}

// Conditions is an ordered guard sequence. Evaluation of the whole sequence
// is the logical AND of its members. The zero value passes everything.
type Conditions []Condition

// Combine concatenates two sequences into a new one, order preserved,
// duplicates allowed. Neither input is modified.
func Combine(a, b Conditions) Conditions {
	out := make(Conditions, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// AsBool reports whether every condition passes. It stops at the first
// rejection and never propagates a condition's error.
func (c Conditions) AsBool(inst, principal any) bool {
	for _, cond := range c {
		if cond(inst, principal) != nil {
			return false
		}
	}
	return true
}

// Failure describes one rejected condition in a diagnostic report.
type Failure struct {
	Index  int
	Reason string
}

// Report evaluates every condition in order, without short-circuiting, and
// returns one Failure per rejection. An empty report means all passed.
func (c Conditions) Report(inst, principal any) []Failure {
	var failures []Failure
	for i, cond := range c {
		err := cond(inst, principal)
		if err == nil {
			continue
		}
		reason := err.Error()
		var ce *ConditionError
		if errors.As(err, &ce) {
			reason = ce.Reason
		}
		failures = append(failures, Failure{Index: i, Reason: reason})
	}
	return failures
}

// Bind pairs the sequence with one instance so the principal is the only
// remaining variable. The binding is a view for a single evaluation call,
// not something to hold on to.
func (c Conditions) Bind(inst any) BoundConditions {
	return BoundConditions{conditions: c, instance: inst}
}

// clone returns an independent copy so a built descriptor cannot be mutated
// through the slice it was constructed from.
func (c Conditions) clone() Conditions {
	return slices.Clone(c)
}

// BoundConditions is a Conditions sequence fixed to one instance.
type BoundConditions struct {
	conditions Conditions
	instance   any
}

// AsBool reports whether every condition passes for the bound instance.
func (b BoundConditions) AsBool(principal any) bool {
	return b.conditions.AsBool(b.instance, principal)
}

// Report returns the full diagnostic report for the bound instance.
func (b BoundConditions) Report(principal any) []Failure {
	return b.conditions.Report(b.instance, principal)
}
