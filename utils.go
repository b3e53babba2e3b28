package ecs

import "reflect"

// typeFor mirrors reflect.TypeFor (stdlib since go1.22) for toolchains
// that predate it.
func typeFor[T any]() reflect.Type {
	var v T
	if t := reflect.TypeOf(v); t != nil {
		return t
	}
	return reflect.TypeOf((*T)(nil)).Elem()
}

// entityWords converts entity ids for logging fields.
func entityWords(es []Entity) []uint64 {
	words := make([]uint64, len(es))
	for i, e := range es {
		words[i] = uint64(e)
	}
	return words
}
