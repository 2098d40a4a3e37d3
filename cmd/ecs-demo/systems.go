package main

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/plus3/miniecs/ecs"
	"github.com/plus3/miniecs/internal/script"
)

//go:embed builtin.lua
var builtinSteering string

// simulation advances the demo world by a fixed step per pass
type simulation struct {
	step   float64
	engine *script.Engine
	logger *zap.Logger

	expired        int
	scriptFailures int
}

func newSimulation(step float64, engine *script.Engine, logger *zap.Logger) *simulation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &simulation{step: step, engine: engine, logger: logger}
}

type steeringView struct {
	Motion   *Motion
	Steering Steering
}

type movementView struct {
	Transform *Transform
	Motion    Motion
}

type lifetimeView struct {
	Lifetime *Lifetime
	Label    *Label `ecs:"optional"`
}

func (s *simulation) register(scheduler *ecs.Scheduler) error {
	steering, ok := ecs.ComponentTypeOf[Steering](scheduler.Registry())
	if !ok {
		return ecs.ErrComponentNotRegistered
	}

	if s.engine != nil {
		if _, err := ecs.PushEntity(scheduler, func(frame *ecs.UpdateFrame, e ecs.Entity, item steeringView) {
			v, err := s.engine.Steer(item.Steering.Func, script.Vec(item.Motion.Velocity), s.step)
			if err != nil {
				s.scriptFailures++
				s.logger.Warn("steering failed, removing it",
					zap.Stringer("entity", e),
					zap.String("func", item.Steering.Func),
					zap.Error(err),
				)
				frame.Commands.TakeComponent(e, steering.ID())
				return
			}
			item.Motion.Velocity = mgl64.Vec3(v)
		}, ecs.WithName("steering"), ecs.WithPriority(0)); err != nil {
			return err
		}
	}

	if _, err := ecs.Push(scheduler, func(item movementView) {
		item.Transform.Position = item.Transform.Position.Add(item.Motion.Velocity.Mul(s.step))
	}, ecs.WithName("movement"), ecs.WithPriority(1)); err != nil {
		return err
	}

	if _, err := ecs.PushEntity(scheduler, func(frame *ecs.UpdateFrame, e ecs.Entity, item lifetimeView) {
		item.Lifetime.Remaining -= s.step
		if item.Lifetime.Remaining > 0 {
			return
		}
		frame.Commands.Kill(e)
		s.expired++

		name := ""
		if item.Label != nil {
			name = string(*item.Label)
		}
		s.logger.Debug("entity expired", zap.Stringer("entity", e), zap.String("label", name))
	}, ecs.WithName("lifetime"), ecs.WithPriority(2)); err != nil {
		return err
	}

	return nil
}
