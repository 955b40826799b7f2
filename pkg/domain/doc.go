// Package domain contains the shared vocabulary of the transition engine:
// states, source specs, target resolution strategies, guard conditions,
// permissions, and the immutable transition descriptor built from them.
//
// Everything in this package is pure data plus pure evaluation. Nothing here
// touches storage, logging, or the network; those live behind the interfaces
// in pkg/ports and the adapters under internal/.
package domain
