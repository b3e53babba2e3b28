// Profiling:
// go build ./profile/step
// go tool pprof -http=":8000" -nodefraction=0.001 ./step cpu.pprof

package main

import (
	ecs "github.com/jasonliang-dev/entity-component-system"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float32
}

type velocity struct {
	DX, DY float32
}

func main() {
	iters := 1000
	entities := 10000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(iters, entities)
	p.Stop()
}

func run(iters, numEntities int) {
	r := ecs.NewRegistry()
	pos := ecs.Component[position](r)
	vel := ecs.Component[velocity](r)

	for i := 0; i < numEntities; i++ {
		e := r.Entity()
		r.Attach(e, pos)
		r.Attach(e, vel)
		ecs.Set(r, e, pos, position{X: float32(i), Y: float32(i)})
		ecs.Set(r, e, vel, velocity{DX: 1, DY: 2})
	}

	r.System(ecs.NewSignature(pos, vel), func(view ecs.View, row int) {
		p := ecs.ViewGet[position](view, row, 0)
		v := ecs.ViewGet[velocity](view, row, 1)
		p.X += v.DX
		p.Y += v.DY
	})

	for i := 0; i < iters; i++ {
		r.Step()
	}
}
