package ecs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Debug inspectors. Each dumps one structure in a stable human-readable form
// so two dumps can be diffed; the xxhash fingerprints compress bulk data
// (column bytes, probe tables) into one comparable line.

// Inspect dumps the map's sparse table and bookkeeping.
func (m *Map[V]) Inspect(w io.Writer) {
	fmt.Fprintf(w, "map: {\n")
	fmt.Fprintf(w, "  count: %d\n", m.count)
	fmt.Fprintf(w, "  load_capacity: %d\n", m.loadCapacity)

	digest := xxhash.New()
	var scratch [8]byte
	occupied, tombstones := 0, 0
	for _, b := range m.sparse {
		binary.LittleEndian.PutUint64(scratch[:], b.key.Word)
		digest.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], uint64(b.index))
		digest.Write(scratch[:])
		switch b.index {
		case 0:
		case tombstone:
			tombstones++
		default:
			occupied++
		}
	}
	fmt.Fprintf(w, "  occupied: %d\n", occupied)
	fmt.Fprintf(w, "  tombstones: %d\n", tombstones)
	fmt.Fprintf(w, "  sparse_fingerprint: %016x\n", digest.Sum64())

	fmt.Fprintf(w, "  dense: [\n")
	for i := uint32(1); i <= m.count; i++ {
		fmt.Fprintf(w, "    %d: %v\n", i, m.dense[i])
	}
	fmt.Fprintf(w, "  ]\n")

	fmt.Fprintf(w, "  reverse_lookup: [\n")
	for i := uint32(1); i <= m.count; i++ {
		fmt.Fprintf(w, "    %d: %d\n", i, m.reverseLookup[i])
	}
	fmt.Fprintf(w, "  ]\n}\n")
}

// Inspect dumps the type's elements.
func (t *Type) Inspect(w io.Writer) {
	fmt.Fprintf(w, "type: {\n")
	fmt.Fprintf(w, "  count: %d\n", len(t.elements))
	fmt.Fprintf(w, "  elements: [")
	for i, e := range t.elements {
		if i > 0 {
			fmt.Fprintf(w, " ")
		}
		fmt.Fprintf(w, "%d", e)
	}
	fmt.Fprintf(w, "]\n}\n")
}

// Inspect dumps the archetype's rows, edges and a fingerprint per column.
func (a *Archetype) Inspect(w io.Writer) {
	fmt.Fprintf(w, "archetype: {\n")
	fmt.Fprintf(w, "  type: %v\n", entityWords(a.typ.Elements()))
	fmt.Fprintf(w, "  count: %d\n", a.count)
	fmt.Fprintf(w, "  capacity: %d\n", a.capacity)

	fmt.Fprintf(w, "  entity_ids: [")
	for i := uint32(0); i < a.count; i++ {
		if i > 0 {
			fmt.Fprintf(w, " ")
		}
		fmt.Fprintf(w, "%d", a.entityIDs[i])
	}
	fmt.Fprintf(w, "]\n")

	fmt.Fprintf(w, "  columns: [\n")
	for i, column := range a.columns {
		size := a.sizes[i]
		live := column[:int(a.count)*size]
		fmt.Fprintf(w, "    %d: { component: %d, size: %d, fingerprint: %016x }\n",
			i, a.typ.Elements()[i], size, xxhash.Sum64(live))
	}
	fmt.Fprintf(w, "  ]\n")

	fmt.Fprintf(w, "  left_edges: [")
	for i, e := range a.leftEdges.edges {
		if i > 0 {
			fmt.Fprintf(w, " ")
		}
		fmt.Fprintf(w, "{%d %v}", e.component, entityWords(e.archetype.typ.Elements()))
	}
	fmt.Fprintf(w, "]\n")

	fmt.Fprintf(w, "  right_edges: [")
	for i, e := range a.rightEdges.edges {
		if i > 0 {
			fmt.Fprintf(w, " ")
		}
		fmt.Fprintf(w, "{%d %v}", e.component, entityWords(e.archetype.typ.Elements()))
	}
	fmt.Fprintf(w, "]\n}\n")
}

// Inspect dumps the whole world: counters, index sizes and every archetype.
func (r *Registry) Inspect(w io.Writer) {
	ensure(!r.destroyed, ErrContract, "Inspect on destroyed registry")
	fmt.Fprintf(w, "registry: {\n")
	fmt.Fprintf(w, "  next_entity_id: %d\n", r.nextEntityID)
	fmt.Fprintf(w, "  entities: %d\n", r.entityIndex.Len())
	fmt.Fprintf(w, "  components: %d\n", r.componentIndex.Len())
	fmt.Fprintf(w, "  systems: %d\n", r.systemIndex.Len())
	fmt.Fprintf(w, "  archetypes: %d\n", r.typeIndex.Len())
	fmt.Fprintf(w, "}\n")
	for _, a := range r.typeIndex.Values() {
		a.Inspect(w)
	}
}
