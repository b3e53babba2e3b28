package ecs

import "go.uber.org/zap"

// makeEdges wires left --component--> right on the right-edge side and the
// matching back edge on the left-edge side.
func makeEdges(left, right *Archetype, component Entity) {
	left.rightEdges.add(edge{component: component, archetype: right})
	right.leftEdges.add(edge{component: component, archetype: left})
}

// insertVertex creates the archetype for newType, wires it to the left
// neighbor it grew out of, then walks the graph to connect every other
// archetype differing from it by exactly one component. Ownership of
// newType transfers to the vertex.
func (r *Registry) insertVertex(leftNeighbor *Archetype, newType *Type, componentForEdge Entity) *Archetype {
	vertex := newArchetype(newType, r.componentIndex, r.typeIndex)
	makeEdges(leftNeighbor, vertex, componentForEdge)
	r.connectSubsets(r.root, vertex, leftNeighbor, make(map[*Archetype]bool))
	r.connectSupersets(r.root, vertex, make(map[*Archetype]bool))

	Publish(r.bus, ArchetypeCreated{Archetype: vertex})
	r.log.Debug("archetype created",
		zap.Uint64s("type", entityWords(newType.Elements())),
		zap.Int("archetypes", r.typeIndex.Len()))
	return vertex
}

// connectSubsets descends right-edges from root looking for archetypes whose
// type is exactly one component short of newNode's and contained in it, and
// wires each as a left neighbor. The skip argument is the neighbor already
// wired by insertVertex.
func (r *Registry) connectSubsets(node, newNode, skip *Archetype, visited map[*Archetype]bool) {
	if visited[node] {
		return
	}
	visited[node] = true

	nodeLen := node.typ.Len()
	newLen := newNode.typ.Len()

	if nodeLen > newLen-1 {
		return
	}
	if nodeLen < newLen-1 {
		for _, e := range node.rightEdges.edges {
			r.connectSubsets(e.archetype, newNode, skip, visited)
		}
		return
	}
	if node == skip || !newNode.typ.IsSuperset(node.typ) {
		return
	}

	component := diffComponent(newNode.typ, node.typ)
	if node.rightEdges.find(component) == nil {
		makeEdges(node, newNode, component)
	}
}

// connectSupersets descends right-edges from root looking for archetypes
// whose type is exactly one component larger than newNode's and contains it,
// and wires newNode as their left neighbor. Without this pass, an archetype
// created after its supersets (a system signature registered late) would
// never reach their rows during dispatch.
func (r *Registry) connectSupersets(node, newNode *Archetype, visited map[*Archetype]bool) {
	if visited[node] {
		return
	}
	visited[node] = true

	nodeLen := node.typ.Len()
	newLen := newNode.typ.Len()

	if nodeLen > newLen+1 {
		return
	}
	if nodeLen < newLen+1 {
		for _, e := range node.rightEdges.edges {
			r.connectSupersets(e.archetype, newNode, visited)
		}
		return
	}
	if node == newNode || !node.typ.IsSuperset(newNode.typ) {
		return
	}

	component := diffComponent(node.typ, newNode.typ)
	if newNode.rightEdges.find(component) == nil {
		makeEdges(newNode, node, component)
	}
}

// diffComponent returns the single id present in super but not in sub, where
// super holds exactly one more element. Both are sorted, so the first
// divergence names it.
func diffComponent(super, sub *Type) Entity {
	superElems := super.Elements()
	subElems := sub.Elements()
	for i, e := range superElems {
		if i == len(subElems) || subElems[i] != e {
			return e
		}
	}
	fatal(ErrContract, "types %v and %v do not differ", superElems, subElems)
	return 0
}

// traverseAndCreate reaches or creates the archetype for target, walking one
// right-edge per component of target and inserting the missing vertices
// along the way.
func (r *Registry) traverseAndCreate(target *Type) *Archetype {
	acc := make([]Entity, 0, target.Len())
	return r.traverseAndCreateHelp(r.root, target, target.Len(), acc)
}

func (r *Registry) traverseAndCreateHelp(vertex *Archetype, target *Type, remaining int, acc []Entity) *Archetype {
	if remaining == 0 {
		assert(vertex.typ.Equal(target), ErrContract,
			"traversal ended at %v, want %v", vertex.typ.Elements(), target.Elements())
		return vertex
	}

	for _, e := range vertex.rightEdges.edges {
		if target.IndexOf(e.component) != -1 {
			return r.traverseAndCreateHelp(e.archetype, target, remaining-1, append(acc, e.component))
		}
	}

	// No usable edge: build the partial type consumed so far and extend it
	// by the first id of target not yet accumulated.
	partial := NewType(uint32(len(acc) + 1))
	for _, e := range acc {
		partial.Add(e)
	}

	var next Entity
	i := 0
	for _, e := range target.Elements() {
		if i >= partial.Len() || partial.Elements()[i] != e {
			next = e
			break
		}
		i++
	}
	ensure(next != 0, ErrContract, "no component left to consume toward %v", target.Elements())

	partial.Add(next)
	vertex = r.insertVertex(vertex, partial, next)
	return r.traverseAndCreateHelp(vertex, target, remaining-1, append(acc, next))
}
