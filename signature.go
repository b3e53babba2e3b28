package ecs

// Signature is the ordered component list a system declares. The order is
// the user's: column k of a View resolves to the k-th id here. The sorted
// set projection (AsType) decides which archetype the system binds to.
type Signature struct {
	components []ComponentID
}

// NewSignature builds a signature from component ids in the caller's order.
func NewSignature(components ...ComponentID) *Signature {
	s := &Signature{components: make([]ComponentID, len(components))}
	copy(s.components, components)
	return s
}

// Len returns the number of declared components.
func (s *Signature) Len() int {
	return len(s.components)
}

// Components returns the declared ids in declaration order. Borrowed; do not
// mutate.
func (s *Signature) Components() []ComponentID {
	return s.components
}

// AsType projects the signature onto a fresh sorted, deduplicated Type.
func (s *Signature) AsType() *Type {
	t := NewType(uint32(len(s.components)))
	for _, c := range s.components {
		t.Add(Entity(c))
	}
	return t
}
