package main

import (
	"github.com/plus3/miniecs/ecs"
)

// registerSystems pushes a mix of one, two and three view systems with spread priorities.
// The churn system queues kills and spawns so the free lists stay busy.
func registerSystems(scheduler *ecs.Scheduler, churnEvery int) (int, error) {
	pushes := []func() error{
		push(scheduler, 0, func(item struct {
			A *C0
			B C1
		}) {
			item.A.V += item.B.V
		}),
		push(scheduler, 0, func(item struct {
			A *C2
			B C3
		}) {
			item.A.V *= 0.5 + item.B.V
		}),
		push(scheduler, 1, func(item struct {
			A *C4
			B C5
			C C6
		}) {
			item.A.V = item.B.V - item.C.V
		}),
		push(scheduler, 2, func(item struct{ A *C7 }) {
			item.A.V++
		}),
		push(scheduler, 2, func(item struct {
			A *C1
			B *C3 `ecs:"optional"`
		}) {
			if item.B != nil {
				item.A.V, item.B.V = item.B.V, item.A.V
			}
		}),
	}

	for _, p := range pushes {
		if err := p(); err != nil {
			return 0, err
		}
	}

	if churnEvery > 0 {
		seen := 0
		if _, err := ecs.PushEntity(scheduler, func(frame *ecs.UpdateFrame, e ecs.Entity, item struct{ A C0 }) {
			seen++
			if seen%churnEvery != 0 {
				return
			}
			frame.Commands.Kill(e)
			frame.Commands.Spawn(C0{V: item.A.V}, C1{V: 1})
		}, ecs.WithName("churn"), ecs.WithPriority(3)); err != nil {
			return 0, err
		}
		return len(pushes) + 1, nil
	}
	return len(pushes), nil
}

func push[T any](scheduler *ecs.Scheduler, priority int, fn func(T)) func() error {
	return func() error {
		_, err := ecs.Push(scheduler, fn, ecs.WithPriority(priority))
		return err
	}
}
