// Package ports declares the boundary interfaces the engine consumes:
// field accessors, authorizers, and state stores. Implementations live in
// internal/adapters and in caller code; the engine depends only on these
// contracts.
package ports
