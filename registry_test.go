package ecs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	ecs "github.com/jasonliang-dev/entity-component-system"
)

type vec2 struct {
	X, Y float32
}

type tag struct{}

func TestRegistryRoundTrip(t *testing.T) {
	r := ecs.NewRegistry()
	r.Destroy()

	assert.Panics(t, func() { r.Entity() })
	assert.Panics(t, func() { r.Destroy() })
}

func TestIdsAreMonotonicFromOne(t *testing.T) {
	r := ecs.NewRegistry()

	c := r.Component(4)
	e1 := r.Entity()
	e2 := r.Entity()

	assert.Equal(t, ecs.ComponentID(1), c, "components draw from the entity id space")
	assert.Equal(t, ecs.Entity(2), e1)
	assert.Equal(t, ecs.Entity(3), e2)
}

// Single component: attach, set, and a one-signature system observing the
// payload.
func TestSingleComponentStep(t *testing.T) {
	r := ecs.NewRegistry()
	c := r.Component(4)
	e := r.Entity()
	r.Attach(e, c)
	r.Set(e, c, []byte{0x2A, 0, 0, 0})

	runs := 0
	r.System(ecs.NewSignature(c), func(view ecs.View, row int) {
		runs++
		assert.Equal(t, []byte{0x2A, 0, 0, 0}, view.At(row, 0))
		assert.Equal(t, e, view.EntityAt(row))
	})

	r.Step()
	assert.Equal(t, 1, runs)
}

// Two components: the narrow system sees every entity, the wide one only the
// entity holding both.
func TestOrderedSystems(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := ecs.Component[int64](r)
	c2 := ecs.Component[int64](r)

	entities := make([]ecs.Entity, 3)
	for i := range entities {
		entities[i] = r.Entity()
		r.Attach(entities[i], c1)
		ecs.Set(r, entities[i], c1, int64(100+i))
	}
	r.Attach(entities[1], c2)
	ecs.Set(r, entities[1], c2, int64(-7))

	narrow := 0
	narrowSum := int64(0)
	r.System(ecs.NewSignature(c1), func(view ecs.View, row int) {
		narrow++
		narrowSum += *ecs.ViewGet[int64](view, row, 0)
	})

	wide := 0
	r.System(ecs.NewSignature(c1, c2), func(view ecs.View, row int) {
		wide++
		assert.Equal(t, entities[1], view.EntityAt(row))
		assert.Equal(t, int64(101), *ecs.ViewGet[int64](view, row, 0))
		assert.Equal(t, int64(-7), *ecs.ViewGet[int64](view, row, 1))
	})

	r.Step()
	assert.Equal(t, 3, narrow)
	assert.Equal(t, int64(100+101+102), narrowSum)
	assert.Equal(t, 1, wide)
}

// Signature order is the user's column order, independent of the sorted
// archetype layout.
func TestSignatureColumnOrder(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := ecs.Component[int32](r)
	c2 := ecs.Component[int64](r)

	e := r.Entity()
	r.Attach(e, c1)
	r.Attach(e, c2)
	ecs.Set(r, e, c1, int32(11))
	ecs.Set(r, e, c2, int64(22))

	// Declared backwards: column 0 is c2, column 1 is c1.
	r.System(ecs.NewSignature(c2, c1), func(view ecs.View, row int) {
		assert.Equal(t, int64(22), *ecs.ViewGet[int64](view, row, 0))
		assert.Equal(t, int32(11), *ecs.ViewGet[int32](view, row, 1))
	})
	r.Step()
}

func TestAttachOrderIndependence(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := ecs.Component[vec2](r)
	c2 := ecs.Component[vec2](r)

	a := r.Entity()
	r.Attach(a, c1)
	r.Attach(a, c2)

	b := r.Entity()
	r.Attach(b, c2)
	r.Attach(b, c1)

	visited := make(map[ecs.Entity]int)
	r.System(ecs.NewSignature(c1, c2), func(view ecs.View, row int) {
		visited[view.EntityAt(row)]++
	})
	r.Step()

	assert.Equal(t, map[ecs.Entity]int{a: 1, b: 1}, visited)
}

func TestArchetypeReuse(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := r.Component(8)
	c2 := r.Component(8)
	c3 := r.Component(8)

	orders := [][]ecs.ComponentID{
		{c1, c2, c3}, {c3, c2, c1}, {c2, c1, c3},
	}
	for i := 0; i < 1000; i++ {
		e := r.Entity()
		for _, c := range orders[i%len(orders)] {
			r.Attach(e, c)
		}
	}

	assert.LessOrEqual(t, r.ArchetypeCount(), 8)

	// The full three-component archetype holds everyone.
	var full *ecs.Archetype
	for _, a := range r.Archetypes() {
		if a.Type().Len() == 3 {
			full = a
		}
	}
	require.NotNil(t, full)
	assert.Equal(t, 1000, full.Count())
}

// Attaching a new component must preserve the payload bytes of every
// component the entity already held.
func TestAttachPreservesPayload(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := ecs.Component[vec2](r)
	c2 := ecs.Component[int64](r)
	c3 := ecs.Component[int32](r)

	e := r.Entity()
	other := r.Entity() // shares archetypes so tail swaps happen
	r.Attach(e, c1)
	r.Attach(other, c1)
	ecs.Set(r, e, c1, vec2{X: 1.5, Y: -2.5})
	ecs.Set(r, other, c1, vec2{X: 9, Y: 9})

	r.Attach(e, c2)
	ecs.Set(r, e, c2, int64(1234567890123))
	r.Attach(e, c3)

	v, ok := ecs.Get[vec2](r, e, c1)
	require.True(t, ok)
	assert.Equal(t, vec2{X: 1.5, Y: -2.5}, *v)

	n, ok := ecs.Get[int64](r, e, c2)
	require.True(t, ok)
	assert.Equal(t, int64(1234567890123), *n)

	w, ok := ecs.Get[vec2](r, other, c1)
	require.True(t, ok)
	assert.Equal(t, vec2{X: 9, Y: 9}, *w, "tail-swap victim keeps its payload")
}

func TestDetachRoundTrip(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := ecs.Component[vec2](r)
	c2 := ecs.Component[int64](r)

	e := r.Entity()
	r.Attach(e, c1)
	r.Attach(e, c2)
	ecs.Set(r, e, c1, vec2{X: 3, Y: 4})
	ecs.Set(r, e, c2, int64(99))

	r.Detach(e, c2)

	_, ok := ecs.Get[int64](r, e, c2)
	assert.False(t, ok)
	v, ok := ecs.Get[vec2](r, e, c1)
	require.True(t, ok)
	assert.Equal(t, vec2{X: 3, Y: 4}, *v, "remaining payload survives the left move")

	// Reattach lands back in the two-component archetype.
	before := r.ArchetypeCount()
	r.Attach(e, c2)
	assert.Equal(t, before, r.ArchetypeCount(), "round trip creates no new archetype")

	count := 0
	r.System(ecs.NewSignature(c1, c2), func(view ecs.View, row int) { count++ })
	r.Step()
	assert.Equal(t, 1, count)
}

// A system registered after the archetypes it matches must still reach them.
func TestLateSystemSeesExistingArchetypes(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := ecs.Component[int64](r)
	c2 := ecs.Component[int64](r)

	e := r.Entity()
	r.Attach(e, c1)
	r.Attach(e, c2)
	ecs.Set(r, e, c2, int64(5))

	// [c2] alone was never an archetype until now.
	runs := 0
	r.System(ecs.NewSignature(c2), func(view ecs.View, row int) {
		runs++
		assert.Equal(t, int64(5), *ecs.ViewGet[int64](view, row, 0))
	})
	r.Step()
	assert.Equal(t, 1, runs)
}

// Archetypes created between steps show up in the next pass without
// re-registering the system.
func TestNewArchetypesJoinNextStep(t *testing.T) {
	r := ecs.NewRegistry()
	c1 := ecs.Component[int64](r)
	c2 := ecs.Component[int64](r)

	e1 := r.Entity()
	r.Attach(e1, c1)

	runs := 0
	r.System(ecs.NewSignature(c1), func(view ecs.View, row int) { runs++ })
	r.Step()
	assert.Equal(t, 1, runs)

	e2 := r.Entity()
	r.Attach(e2, c1)
	r.Attach(e2, c2)

	runs = 0
	r.Step()
	assert.Equal(t, 2, runs)
}

func TestZeroSizeComponent(t *testing.T) {
	r := ecs.NewRegistry()
	marker := ecs.Component[tag](r)
	c := ecs.Component[int64](r)

	e := r.Entity()
	r.Attach(e, c)
	r.Attach(e, marker)
	ecs.Set(r, e, c, int64(7))
	ecs.Set(r, e, marker, tag{})

	runs := 0
	r.System(ecs.NewSignature(c, marker), func(view ecs.View, row int) {
		runs++
		assert.Equal(t, int64(7), *ecs.ViewGet[int64](view, row, 0))
	})
	r.Step()
	assert.Equal(t, 1, runs)
}

func TestContractViolations(t *testing.T) {
	r := ecs.NewRegistry()
	c := r.Component(4)
	e := r.Entity()
	r.Attach(e, c)

	assert.Panics(t, func() { r.Attach(e, c) }, "double attach")
	assert.Panics(t, func() { r.Attach(ecs.Entity(999), c) }, "unknown entity")
	assert.Panics(t, func() { r.Attach(e, ecs.ComponentID(999)) }, "unknown component")
	assert.Panics(t, func() { r.Detach(e, ecs.ComponentID(999)) }, "detach of unheld component")
	assert.Panics(t, func() { r.Set(e, c, []byte{1, 2}) }, "wrong payload size")
	assert.Panics(t, func() { r.Set(r.Entity(), c, []byte{1, 2, 3, 4}) }, "entity lacks component")

	var fatal *ecs.FatalError
	func() {
		defer func() {
			var ok bool
			fatal, ok = recover().(*ecs.FatalError)
			require.True(t, ok)
		}()
		r.Attach(e, c)
	}()
	assert.Equal(t, ecs.ErrContract, fatal.Kind)
	assert.Contains(t, fatal.Error(), "contract violation")
}

func TestStructuralMutationDuringStepPanics(t *testing.T) {
	r := ecs.NewRegistry()
	c := r.Component(4)
	e := r.Entity()
	r.Attach(e, c)

	r.System(ecs.NewSignature(c), func(view ecs.View, row int) {
		r.Entity()
	})
	assert.Panics(t, func() { r.Step() })

	// The guard resets once the pass unwinds, so mutation outside Step works
	// again.
	assert.NotPanics(t, func() { r.Entity() })
}

func TestStructuralEvents(t *testing.T) {
	r := ecs.NewRegistry()

	var created int
	var moves []ecs.EntityMoved
	ecs.Subscribe(r.Events(), func(ecs.ArchetypeCreated) { created++ })
	ecs.Subscribe(r.Events(), func(ev ecs.EntityMoved) { moves = append(moves, ev) })

	c1 := r.Component(4)
	c2 := r.Component(4)
	e := r.Entity()
	r.Attach(e, c1)
	r.Attach(e, c2)
	r.Detach(e, c1)

	assert.Equal(t, 3, created, "{c1}, {c1,c2} and {c2}")
	require.Len(t, moves, 3)
	assert.Equal(t, e, moves[0].Entity)
	assert.Equal(t, 1, moves[1].From.Type().Len())
	assert.Equal(t, 2, moves[1].To.Type().Len())
	assert.Equal(t, 1, moves[2].To.Type().Len())
}

func TestResources(t *testing.T) {
	r := ecs.NewRegistry()

	type clock struct{ Tick uint64 }

	_, ok := ecs.GetResource[clock](r.Resources())
	assert.False(t, ok)

	ecs.AddResource(r.Resources(), &clock{Tick: 1})
	got, ok := ecs.GetResource[clock](r.Resources())
	require.True(t, ok)
	assert.Equal(t, uint64(1), got.Tick)

	got.Tick++
	again, _ := ecs.GetResource[clock](r.Resources())
	assert.Equal(t, uint64(2), again.Tick, "the store hands out the same instance")

	assert.Panics(t, func() { ecs.AddResource(r.Resources(), &clock{}) }, "duplicate type")

	ecs.RemoveResource[clock](r.Resources())
	_, ok = ecs.GetResource[clock](r.Resources())
	assert.False(t, ok)
	assert.Equal(t, 0, r.Resources().Len())
}

func TestAttachLogsThroughInjectedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := ecs.NewRegistry(ecs.WithLogger(zap.New(core)))

	c := r.Component(4)
	e := r.Entity()
	r.Attach(e, c)

	assert.GreaterOrEqual(t, logs.FilterMessage("archetype created").Len(), 1)
	assert.Equal(t, 1, logs.FilterMessage("entity moved right").Len())
}

func TestRegistryInspect(t *testing.T) {
	r := ecs.NewRegistry()
	c := r.Component(4)
	e := r.Entity()
	r.Attach(e, c)
	r.Set(e, c, []byte{1, 2, 3, 4})

	var sb strings.Builder
	r.Inspect(&sb)
	dump := sb.String()
	assert.Contains(t, dump, "registry: {")
	assert.Contains(t, dump, "archetypes: 2")
	assert.Contains(t, dump, "fingerprint:")

	sb.Reset()
	r.Archetypes()[1].Inspect(&sb)
	assert.Contains(t, sb.String(), "entity_ids: [2]")
}
