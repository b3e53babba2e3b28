// Package ecs implements an archetype-based Entity-Component-System runtime.
//
// Entities are opaque ids. Components are fixed-size byte blobs registered
// once to obtain a component id (a component is itself an entity). All
// entities holding the same set of components live together in an archetype,
// a table storing one tightly-packed column per component. Archetypes form a
// graph whose edges add or remove a single component; attaching a component
// moves an entity along a right edge, detaching moves it along a left edge.
// Systems declare a signature of component ids and are invoked by Step once
// per row of every archetype whose type is a superset of that signature.
//
// A Registry is single-threaded. No operation may be called concurrently,
// and structural mutations (Entity, Attach, Detach, Set) must not be issued
// from inside a system callback.
package ecs

import "fmt"

// Entity is the id of a logical thing in the world. Entities, components and
// systems all draw from the same id space; ids are issued monotonically
// starting at 1. The zero Entity is never issued.
type Entity uint64

// ComponentID names a registered component kind. It is an Entity at heart;
// the distinct type exists so call sites cannot confuse the two.
type ComponentID uint64

// SystemID names a registered system.
type SystemID uint64

const (
	// Initial capacities for the registry's four indices.
	entityIndexCapacity    = 16
	componentIndexCapacity = 8
	systemIndexCapacity    = 4
	typeIndexCapacity      = 8

	// archetypeInitialCapacity is the starting row capacity of every archetype.
	archetypeInitialCapacity = 16

	// mapLoadFactor triggers growth when count reaches capacity*factor.
	mapLoadFactor = 0.5

	// mapCollisionThreshold bounds a single insertion's probe length.
	mapCollisionThreshold = 30

	// growthFactor doubles storage on every growth event.
	growthFactor = 2
)

// ErrorKind classifies a fatal runtime error.
type ErrorKind uint8

const (
	ErrFailedLookup ErrorKind = iota
	ErrOutOfBounds
	ErrCollisions
	ErrContract
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFailedLookup:
		return "failed lookup"
	case ErrOutOfBounds:
		return "index out of bounds"
	case ErrCollisions:
		return "too many hash collisions"
	case ErrContract:
		return "contract violation"
	}
	return "unknown"
}

// FatalError is the panic payload for every unrecoverable condition. This is
// a debugging library, not a production runtime: misuse aborts loudly instead
// of returning an error the caller would have to thread through game logic.
type FatalError struct {
	Kind ErrorKind
	Msg  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("ecs: %s: %s", e.Kind, e.Msg)
}

func fatal(kind ErrorKind, format string, args ...any) {
	panic(&FatalError{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// ensure enforces a condition in all builds.
func ensure(cond bool, kind ErrorKind, format string, args ...any) {
	if !cond {
		fatal(kind, format, args...)
	}
}
