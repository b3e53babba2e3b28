package ecs

// Builder spawns entities directly into the archetype for a fixed component
// set, skipping the one-attach-per-component walk through the graph. The
// target archetype (and the path to it) is resolved once at construction;
// every spawned entity starts with zeroed column data, to be filled with Set.
type Builder struct {
	registry   *Registry
	archetype  *Archetype
	components []ComponentID
}

// NewBuilder resolves the archetype for the given component set, creating it
// when it has never been seen.
func NewBuilder(r *Registry, components ...ComponentID) *Builder {
	r.guardMutable("NewBuilder")
	for _, c := range components {
		_, ok := r.componentIndex.Get(IntKey(c))
		ensure(ok, ErrContract, "builder over unregistered component %d", c)
	}

	typ := NewSignature(components...).AsType()
	archetype, ok := r.typeIndex.Get(TypeKey(typ))
	if !ok {
		archetype = r.traverseAndCreate(typ)
	}
	return &Builder{registry: r, archetype: archetype, components: components}
}

// NewEntity spawns one entity in the builder's archetype and returns its id.
func (b *Builder) NewEntity() Entity {
	r := b.registry
	r.guardMutable("NewEntity")
	e := r.nextEntityID
	r.nextEntityID++
	row := b.archetype.add(r.entityIndex, e)
	for i, column := range b.archetype.columns {
		size := b.archetype.sizes[i]
		clear(column[int(row)*size : int(row+1)*size])
	}
	return e
}

// NewEntities spawns count entities and returns their ids.
func (b *Builder) NewEntities(count int) []Entity {
	entities := make([]Entity, count)
	for i := range entities {
		entities[i] = b.NewEntity()
	}
	return entities
}

// Archetype returns the builder's resolved target.
func (b *Builder) Archetype() *Archetype {
	return b.archetype
}
