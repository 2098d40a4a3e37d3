// Package script runs Lua steering functions for scripted systems.
package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var ErrFunctionNotFound = errors.New("script: function not found")

// Vec is the vector exchanged with Lua as a {x=, y=, z=} table
type Vec [3]float64

// Engine wraps a single gopher-lua VM.
// Not safe for concurrent use; scheduled systems call it while holding the world lock.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates an engine with the standard Lua libraries opened
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// LoadDir runs every .lua file in dir in name order. A missing dir is not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source
func (e *Engine) LoadString(name, src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e.log.Debug("loaded lua chunk", zap.String("name", name))
	return nil
}

// Has reports whether a global function with the given name exists
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Steer calls name(velocity, dt) and returns the velocity table it yields.
// Missing keys in the returned table read as 0.
func (e *Engine) Steer(name string, velocity Vec, dt float64) (Vec, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return velocity, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}

	arg := e.vm.NewTable()
	arg.RawSetString("x", lua.LNumber(velocity[0]))
	arg.RawSetString("y", lua.LNumber(velocity[1]))
	arg.RawSetString("z", lua.LNumber(velocity[2]))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg, lua.LNumber(dt)); err != nil {
		return velocity, fmt.Errorf("call %s: %w", name, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return velocity, fmt.Errorf("call %s: returned %s, want table", name, result.Type())
	}

	return Vec{
		float64(lua.LVAsNumber(rt.RawGetString("x"))),
		float64(lua.LVAsNumber(rt.RawGetString("y"))),
		float64(lua.LVAsNumber(rt.RawGetString("z"))),
	}, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}
