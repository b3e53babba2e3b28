package ecs

import "unsafe"

// Typed veneer over the byte-oriented core. Registration captures the
// component's size with unsafe.Sizeof; Set and Get convert between the typed
// value and its raw column slot at the boundary, so the storage itself stays
// untyped. T must be a plain value type: no pointers, slices or other
// GC-visible references survive the round-trip through column bytes.

// Component registers T as a component kind and returns its id. Registering
// the same Go type twice yields two distinct component ids; a component id
// names a registration, not a type.
func Component[T any](r *Registry) ComponentID {
	var zero T
	return r.Component(int(unsafe.Sizeof(zero)))
}

// Set copies value into entity e's slot for component c. The entity must
// already hold the component.
func Set[T any](r *Registry, e Entity, c ComponentID, value T) {
	size := int(unsafe.Sizeof(value))
	if size == 0 {
		r.Set(e, c, nil)
		return
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&value)), size)
	r.Set(e, c, data)
}

// Get returns a pointer to entity e's live component value, or false when
// the entity does not hold c. The pointer is invalidated by the next
// structural change.
func Get[T any](r *Registry, e Entity, c ComponentID) (*T, bool) {
	b := r.componentBytes(e, c)
	if b == nil {
		return nil, false
	}
	if len(b) == 0 {
		return new(T), true
	}
	return (*T)(unsafe.Pointer(&b[0])), true
}
