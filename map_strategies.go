package ecs

// Key constructors for the three strategies the registry uses. Entity ids are
// punned into the Word field; strings and types ride in Ref and stay owned by
// the caller.

// IntKey wraps an integer-shaped key.
func IntKey[T ~uint64](v T) Key {
	return Key{Word: uint64(v)}
}

// StringKey wraps a string key.
func StringKey(s string) Key {
	return Key{Ref: s}
}

// TypeKey wraps a component-set key.
func TypeKey(t *Type) Key {
	return Key{Ref: t}
}

// HashIntptr scrambles the key's integer value. The multiply-xorshift
// constant spreads sequential entity ids across the sparse array.
func HashIntptr(k Key) uint32 {
	x := k.Word
	x = ((x >> 16) ^ x) * 0x45d9f3b
	x = ((x >> 16) ^ x) * 0x45d9f3b
	x = (x >> 16) ^ x
	return uint32(x)
}

// EqualIntptr is identity over the integer value.
func EqualIntptr(a, b Key) bool {
	return a.Word == b.Word
}

// HashString is DJB2 over the string's bytes.
func HashString(k Key) uint32 {
	s := k.Ref.(string)
	hash := uint32(5381)
	for i := 0; i < len(s); i++ {
		hash = ((hash << 5) + hash) + uint32(s[i])
	}
	return hash
}

// EqualString is byte equality.
func EqualString(a, b Key) bool {
	return a.Ref.(string) == b.Ref.(string)
}

// HashType is DJB2 folded over the sorted elements of a Type, so equal sets
// hash equally regardless of which Type value holds them.
func HashType(k Key) uint32 {
	t := k.Ref.(*Type)
	hash := uint32(5381)
	for _, e := range t.elements {
		hash = ((hash << 5) + hash) + uint32(e)
	}
	return hash
}

// EqualType is structural equality over the element sequences.
func EqualType(a, b Key) bool {
	return a.Ref.(*Type).Equal(b.Ref.(*Type))
}
