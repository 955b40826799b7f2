// Package fsmkit is a guarded state-transition engine. A Machine holds a
// catalog of declared transitions per field, answers availability queries
// for an instance and an acting principal, and executes transitions with a
// check, invoke, commit protocol.
//
// Declare transitions with the builder in pkg/domain and register them
// during application setup:
//
//	m := fsmkit.New()
//	err := m.Register(statusField, domain.Transition("publish", publish).
//		From("new").
//		To("published").
//		When(notArchived).
//		MustBuild())
//
// After setup the machine is immutable and safe for concurrent use. The
// engine commits state in memory only, through the registered field
// accessor; persisting the new value, and detecting stale writes while
// doing so, belongs to a ports.StateStore implementation driven by the
// caller.
package fsmkit
