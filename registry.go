package ecs

import (
	"go.uber.org/zap"
)

// Registry is the root object owning all state for one world: the four
// indices, the archetype graph and the id counter. All operations are
// single-threaded; see the package documentation for the mutation contract.
type Registry struct {
	entityIndex    *Map[record]
	componentIndex *Map[int]
	systemIndex    *Map[systemEntry]
	typeIndex      *Map[*Archetype]
	root           *Archetype
	nextEntityID   Entity
	resources      *Resources
	bus            *EventBus
	log            *zap.Logger
	stepping       bool
	destroyed      bool
}

type systemEntry struct {
	archetype *Archetype
	signature *Signature
	run       SystemFunc
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithLogger routes structural debug events (archetype creation, entity
// moves, system registration) through the given logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates an empty world: four indices at their fixed initial
// capacities and the root archetype for the empty type.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entityIndex:    NewMap[record](HashIntptr, EqualIntptr, entityIndexCapacity),
		componentIndex: NewMap[int](HashIntptr, EqualIntptr, componentIndexCapacity),
		systemIndex:    NewMap[systemEntry](HashIntptr, EqualIntptr, systemIndexCapacity),
		typeIndex:      NewMap[*Archetype](HashType, EqualType, typeIndexCapacity),
		nextEntityID:   1,
		resources:      &Resources{},
		bus:            NewEventBus(),
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.root = newArchetype(NewType(0), r.componentIndex, r.typeIndex)
	return r
}

// Destroy tears the world down. Every archetype, index and resource is
// released; any further use of the registry is a contract violation.
func (r *Registry) Destroy() {
	ensure(!r.destroyed, ErrContract, "registry destroyed twice")
	r.destroyed = true
	r.entityIndex = nil
	r.componentIndex = nil
	r.systemIndex = nil
	r.typeIndex = nil
	r.root = nil
	r.resources = nil
	r.bus = nil
}

// guardMutable rejects structural mutation on a destroyed registry or from
// inside a system callback.
func (r *Registry) guardMutable(op string) {
	ensure(!r.destroyed, ErrContract, "%s on destroyed registry", op)
	ensure(!r.stepping, ErrContract, "%s during Step", op)
}

// Entity allocates a fresh entity and places it in the root archetype.
func (r *Registry) Entity() Entity {
	r.guardMutable("Entity")
	e := r.nextEntityID
	r.nextEntityID++
	r.root.add(r.entityIndex, e)
	return e
}

// Component registers a component kind of the given byte size and returns
// its id. A component is an entity; the id comes from the same counter.
func (r *Registry) Component(size int) ComponentID {
	r.guardMutable("Component")
	ensure(size >= 0, ErrContract, "negative component size %d", size)
	c := ComponentID(r.nextEntityID)
	r.nextEntityID++
	r.componentIndex.Set(IntKey(c), size)
	return c
}

// System registers a run function over the given signature. The system binds
// to the archetype matching the signature's sorted set, creating the path to
// it when it has never been seen.
func (r *Registry) System(sig *Signature, run SystemFunc) SystemID {
	r.guardMutable("System")
	typ := sig.AsType()
	archetype, ok := r.typeIndex.Get(TypeKey(typ))
	if !ok {
		archetype = r.traverseAndCreate(typ)
	}
	s := SystemID(r.nextEntityID)
	r.nextEntityID++
	r.systemIndex.Set(IntKey(s), systemEntry{archetype: archetype, signature: sig, run: run})
	r.log.Debug("system registered",
		zap.Uint64("system", uint64(s)),
		zap.Uint64s("type", entityWords(archetype.typ.Elements())))
	return s
}

// Attach adds component c to entity e, relocating its data into the
// archetype one right-edge away (created on demand). Attaching a component
// the entity already holds, or touching an unknown entity or component, is
// a contract violation.
func (r *Registry) Attach(e Entity, c ComponentID) {
	r.guardMutable("Attach")
	rec, ok := r.entityIndex.Get(IntKey(e))
	ensure(ok, ErrContract, "attaching component %d to unknown entity %d", c, e)
	_, ok = r.componentIndex.Get(IntKey(c))
	ensure(ok, ErrContract, "attaching unregistered component %d", c)
	ensure(rec.archetype.typ.IndexOf(Entity(c)) == -1, ErrContract,
		"entity %d already has component %d", e, c)

	finiType := rec.archetype.typ.Copy()
	finiType.Add(Entity(c))

	finiArchetype, ok := r.typeIndex.Get(TypeKey(finiType))
	if !ok {
		finiArchetype = r.insertVertex(rec.archetype, finiType, Entity(c))
	}

	newRow := rec.archetype.moveEntityRight(finiArchetype, r.entityIndex, rec.row)
	r.entityIndex.Set(IntKey(e), record{archetype: finiArchetype, row: newRow})

	Publish(r.bus, EntityMoved{Entity: e, From: rec.archetype, To: finiArchetype})
	r.log.Debug("entity moved right",
		zap.Uint64("entity", uint64(e)),
		zap.Uint64("component", uint64(c)),
		zap.Uint64s("to", entityWords(finiArchetype.typ.Elements())))
}

// Detach removes component c from entity e, relocating its data into the
// archetype one left-edge away. The dropped component's bytes are discarded.
// Detaching a component the entity lacks is a contract violation.
func (r *Registry) Detach(e Entity, c ComponentID) {
	r.guardMutable("Detach")
	rec, ok := r.entityIndex.Get(IntKey(e))
	ensure(ok, ErrContract, "detaching component %d from unknown entity %d", c, e)
	ensure(rec.archetype.typ.IndexOf(Entity(c)) != -1, ErrContract,
		"entity %d does not have component %d", e, c)

	finiType := rec.archetype.typ.Copy()
	finiType.Remove(Entity(c))

	finiArchetype, ok := r.typeIndex.Get(TypeKey(finiType))
	if !ok {
		finiArchetype = r.traverseAndCreate(finiType)
	}
	if rec.archetype.leftEdges.find(Entity(c)) == nil {
		makeEdges(finiArchetype, rec.archetype, Entity(c))
	}

	newRow := rec.archetype.moveEntityLeft(finiArchetype, r.entityIndex, rec.row)
	r.entityIndex.Set(IntKey(e), record{archetype: finiArchetype, row: newRow})

	Publish(r.bus, EntityMoved{Entity: e, From: rec.archetype, To: finiArchetype})
	r.log.Debug("entity moved left",
		zap.Uint64("entity", uint64(e)),
		zap.Uint64("component", uint64(c)),
		zap.Uint64s("to", entityWords(finiArchetype.typ.Elements())))
}

// Set copies data into entity e's slot of component c's column. The entity
// must already hold the component and data must be exactly the registered
// size.
func (r *Registry) Set(e Entity, c ComponentID, data []byte) {
	ensure(!r.destroyed, ErrContract, "Set on destroyed registry")
	ensure(!r.stepping, ErrContract, "Set during Step")
	size, ok := r.componentIndex.Get(IntKey(c))
	ensure(ok, ErrFailedLookup, "no size registered for component %d", c)
	ensure(len(data) == size, ErrContract,
		"component %d is %d bytes, got %d", c, size, len(data))

	rec, ok := r.entityIndex.Get(IntKey(e))
	ensure(ok, ErrFailedLookup, "unknown entity %d", e)

	column := rec.archetype.typ.IndexOf(Entity(c))
	ensure(column != -1, ErrOutOfBounds, "entity %d does not have component %d", e, c)

	copy(rec.archetype.columns[column][int(rec.row)*size:], data)
}

// componentBytes returns the live byte slot for (entity, component), or nil
// when the entity does not hold the component.
func (r *Registry) componentBytes(e Entity, c ComponentID) []byte {
	ensure(!r.destroyed, ErrContract, "component access on destroyed registry")
	rec, ok := r.entityIndex.Get(IntKey(e))
	if !ok {
		return nil
	}
	column := rec.archetype.typ.IndexOf(Entity(c))
	if column == -1 {
		return nil
	}
	size := rec.archetype.sizes[column]
	return rec.archetype.columns[column][int(rec.row)*size : int(rec.row+1)*size]
}

// Resources returns the registry-scoped singleton store.
func (r *Registry) Resources() *Resources {
	return r.resources
}

// Events returns the structural event bus. Subscribers run synchronously on
// the mutating call's stack.
func (r *Registry) Events() *EventBus {
	return r.bus
}

// Archetypes returns every live archetype in creation order. The slice
// aliases the type index and is valid until the next structural change.
func (r *Registry) Archetypes() []*Archetype {
	ensure(!r.destroyed, ErrContract, "Archetypes on destroyed registry")
	return r.typeIndex.Values()
}

// ArchetypeCount returns the number of distinct archetypes created so far.
func (r *Registry) ArchetypeCount() int {
	ensure(!r.destroyed, ErrContract, "ArchetypeCount on destroyed registry")
	return r.typeIndex.Len()
}
