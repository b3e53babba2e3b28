// Profiling:
// go build ./profile/attach
// go tool pprof -http=":8000" -nodefraction=0.001 ./attach mem.pprof

package main

import (
	ecs "github.com/jasonliang-dev/entity-component-system"
	"github.com/pkg/profile"
)

type comp1 struct {
	V, W int64
}

type comp2 struct {
	V, W int64
}

type comp3 struct {
	V, W int64
}

func main() {
	rounds := 50
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, entities)
	p.Stop()
}

// run churns entities through attach/detach cycles to exercise the archetype
// graph and the move primitives.
func run(rounds, numEntities int) {
	for i := 0; i < rounds; i++ {
		r := ecs.NewRegistry()
		c1 := ecs.Component[comp1](r)
		c2 := ecs.Component[comp2](r)
		c3 := ecs.Component[comp3](r)

		entities := make([]ecs.Entity, numEntities)
		for i := range entities {
			e := r.Entity()
			r.Attach(e, c1)
			r.Attach(e, c2)
			r.Attach(e, c3)
			entities[i] = e
		}
		for _, e := range entities {
			r.Detach(e, c2)
		}
		for _, e := range entities {
			r.Attach(e, c2)
		}
		r.Destroy()
	}
}
