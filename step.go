package ecs

import "unsafe"

// SystemFunc is the user function a system runs once per row of every
// archetype it matches. The view is only valid for the duration of the call:
// later structural changes may reallocate the columns it points into.
type SystemFunc func(view View, row int)

// View resolves a signature's declared column order against one archetype.
// Column k of the view is the signature's k-th component, wherever that
// component lives in the archetype's own column order.
type View struct {
	columns  [][]byte
	entities []Entity
	indices  []int
	sizes    []int
}

// At returns the component bytes for (row, column), column in signature
// order. The slice aliases the archetype's storage; writes land directly in
// the world.
func (v View) At(row, column int) []byte {
	size := v.sizes[column]
	offset := row * size
	return v.columns[v.indices[column]][offset : offset+size]
}

// EntityAt returns the entity occupying row.
func (v View) EntityAt(row int) Entity {
	return v.entities[row]
}

// ViewGet interprets the component bytes at (row, column) as a *T. The
// pointer is valid for the duration of the system callback.
func ViewGet[T any](v View, row, column int) *T {
	b := v.At(row, column)
	if len(b) == 0 {
		return new(T)
	}
	return (*T)(unsafe.Pointer(&b[0]))
}

// Step runs every registered system, in registration order, over every
// archetype reachable from the system's root by right edges. Structural
// changes are rejected until the pass completes.
func (r *Registry) Step() {
	ensure(!r.destroyed, ErrContract, "Step on destroyed registry")
	ensure(!r.stepping, ErrContract, "Step during Step")
	r.stepping = true
	defer func() { r.stepping = false }()

	for _, sys := range r.systemIndex.Values() {
		r.stepHelp(sys.archetype, sys.signature, sys.run, make(map[*Archetype]bool))
	}
}

// stepHelp visits one archetype: resolve the signature's columns against the
// archetype's type, run every row in ascending order, then descend each
// right edge in insertion order. The visited set keeps diamond paths in the
// graph from replaying an archetype within one pass.
func (r *Registry) stepHelp(a *Archetype, sig *Signature, run SystemFunc, visited map[*Archetype]bool) {
	if a == nil || visited[a] {
		return
	}
	visited[a] = true

	indices := make([]int, sig.Len())
	sizes := make([]int, sig.Len())
	for k, c := range sig.Components() {
		j := a.typ.IndexOf(Entity(c))
		ensure(j != -1, ErrFailedLookup,
			"archetype %v lacks signature component %d", a.typ.Elements(), c)
		indices[k] = j
		sizes[k] = a.sizes[j]
	}

	view := View{columns: a.columns, entities: a.entityIDs, indices: indices, sizes: sizes}
	for row := 0; row < int(a.count); row++ {
		run(view, row)
	}

	for _, e := range a.rightEdges.edges {
		r.stepHelp(e.archetype, sig, run, visited)
	}
}
