package ecs

// Archetype is both a table and a graph vertex. The table stores every
// entity whose component set equals the archetype's type: a row vector of
// entity ids plus one column of raw bytes per component, kept in lock-step
// so the payload for the entity at row r lives at byte offset size*r of each
// column. The vertex side carries left edges (remove one component) and
// right edges (add one component) into neighboring archetypes.
type Archetype struct {
	typ        *Type
	entityIDs  []Entity // len == capacity, rows 0..count-1 live
	columns    [][]byte // columns[i] holds bytes for typ.Elements()[i]
	sizes      []int    // per-column component size in bytes
	leftEdges  *edgeList
	rightEdges *edgeList
	capacity   uint32
	count      uint32
}

// record names where an entity currently lives.
type record struct {
	archetype *Archetype
	row       uint32
}

// newArchetype builds the archetype for typ, taking ownership of it, and
// installs itself in typeIndex. At most one archetype may exist per distinct
// type; a duplicate is a contract violation.
func newArchetype(typ *Type, componentIndex *Map[int], typeIndex *Map[*Archetype]) *Archetype {
	if _, exists := typeIndex.Get(TypeKey(typ)); exists {
		fatal(ErrContract, "archetype already exists for type %v", typ.Elements())
	}

	n := typ.Len()
	a := &Archetype{
		typ:        typ,
		entityIDs:  make([]Entity, archetypeInitialCapacity),
		columns:    make([][]byte, n),
		sizes:      make([]int, n),
		leftEdges:  newEdgeList(),
		rightEdges: newEdgeList(),
		capacity:   archetypeInitialCapacity,
	}
	for i, e := range typ.Elements() {
		size, ok := componentIndex.Get(IntKey(e))
		ensure(ok, ErrFailedLookup, "no size registered for component %d", e)
		a.sizes[i] = size
		a.columns[i] = make([]byte, size*archetypeInitialCapacity)
	}
	typeIndex.Set(TypeKey(typ), a)
	return a
}

// Type returns the archetype's component set. Borrowed; do not mutate.
func (a *Archetype) Type() *Type {
	return a.typ
}

// Count returns the number of live rows.
func (a *Archetype) Count() int {
	return int(a.count)
}

// EntityAt returns the entity stored at row.
func (a *Archetype) EntityAt(row int) Entity {
	ensure(row >= 0 && uint32(row) < a.count, ErrOutOfBounds, "row %d of %d", row, a.count)
	return a.entityIDs[row]
}

func (a *Archetype) grow() {
	capacity := a.capacity * growthFactor
	ids := make([]Entity, capacity)
	copy(ids, a.entityIDs)
	a.entityIDs = ids
	for i := range a.columns {
		column := make([]byte, a.sizes[i]*int(capacity))
		copy(column, a.columns[i])
		a.columns[i] = column
	}
	a.capacity = capacity
}

// add places e in the next free row, records it in entityIndex, and returns
// the row. Column payloads are the caller's to fill, via Set or one of the
// move primitives.
func (a *Archetype) add(entityIndex *Map[record], e Entity) uint32 {
	if a.count == a.capacity {
		a.grow()
	}
	row := a.count
	a.entityIDs[row] = e
	entityIndex.Set(IntKey(e), record{archetype: a, row: row})
	a.count++
	return row
}

// moveEntityRight relocates the entity at leftRow into right, whose type is
// this type plus exactly one extra component. Every column the two types
// share is copied across and the source slot back-filled from the tail in a
// single pass; the extra component's column is left for the caller to write.
// When the tail swap displaced another entity, its record is re-pointed at
// leftRow. Returns the destination row.
func (a *Archetype) moveEntityRight(right *Archetype, entityIndex *Map[record], leftRow uint32) uint32 {
	assert(leftRow < a.count, ErrOutOfBounds, "move from row %d of %d", leftRow, a.count)

	moved := a.entityIDs[leftRow]
	victim := a.entityIDs[a.count-1]
	a.entityIDs[leftRow] = victim

	rightRow := right.add(entityIndex, moved)

	j := 0
	rightElems := right.typ.Elements()
	for i, e := range a.typ.Elements() {
		assert(j < len(rightElems), ErrOutOfBounds, "type element %d missing on the right", e)
		for rightElems[j] != e {
			j++
			assert(j < len(rightElems), ErrOutOfBounds, "type element %d missing on the right", e)
		}
		size := a.sizes[i]
		src := a.columns[i][int(leftRow)*size:]
		dst := right.columns[j][int(rightRow)*size:]
		tail := a.columns[i][int(a.count-1)*size:]
		copy(dst[:size], src[:size])
		copy(src[:size], tail[:size])
	}

	a.count--
	if leftRow != a.count {
		entityIndex.Set(IntKey(victim), record{archetype: a, row: leftRow})
	}
	return rightRow
}

// moveEntityLeft relocates the entity at srcRow into dest, whose type is this
// type minus exactly one component. Shared columns copy across; the dropped
// component's bytes are discarded. The source stays packed by the same
// tail-swap discipline as moveEntityRight.
func (a *Archetype) moveEntityLeft(dest *Archetype, entityIndex *Map[record], srcRow uint32) uint32 {
	assert(srcRow < a.count, ErrOutOfBounds, "move from row %d of %d", srcRow, a.count)

	moved := a.entityIDs[srcRow]
	victim := a.entityIDs[a.count-1]
	a.entityIDs[srcRow] = victim

	destRow := dest.add(entityIndex, moved)

	j := 0
	destElems := dest.typ.Elements()
	for i, e := range a.typ.Elements() {
		size := a.sizes[i]
		src := a.columns[i][int(srcRow)*size:]
		if j < len(destElems) && destElems[j] == e {
			dst := dest.columns[j][int(destRow)*size:]
			copy(dst[:size], src[:size])
			j++
		}
		tail := a.columns[i][int(a.count-1)*size:]
		copy(src[:size], tail[:size])
	}
	assert(j == len(destElems), ErrOutOfBounds, "destination type is not a subset")

	a.count--
	if srcRow != a.count {
		entityIndex.Set(IntKey(victim), record{archetype: a, row: srcRow})
	}
	return destRow
}
