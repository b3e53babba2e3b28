package ecs

import "reflect"

// Resources is a registry-scoped singleton store keyed by Go type. System
// callbacks are closures, so this is the channel for world-global state a
// host wants to share with them: clocks, input snapshots, asset handles.
// At most one value per type may be present at a time.
type Resources struct {
	items map[reflect.Type]any
}

// AddResource stores res. Adding a second resource of the same type is a
// contract violation; remove the first one before replacing it.
func AddResource[T any](r *Resources, res *T) {
	if r.items == nil {
		r.items = make(map[reflect.Type]any, 4)
	}
	t := typeFor[T]()
	if _, ok := r.items[t]; ok {
		fatal(ErrContract, "resource of type %s already exists", t)
	}
	r.items[t] = res
}

// GetResource returns the stored *T, or false when absent.
func GetResource[T any](r *Resources) (*T, bool) {
	res, ok := r.items[typeFor[T]()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}

// RemoveResource drops the resource of type T. Removing an absent type is a
// no-op.
func RemoveResource[T any](r *Resources) {
	delete(r.items, typeFor[T]())
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return len(r.items)
}
