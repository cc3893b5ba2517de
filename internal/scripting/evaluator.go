package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ValueEnv is the flat snapshot of combat state exposed to a value script as
// Lua globals. Scripts are expressions over these names, e.g.
// "target_poison * 2" or "discard_count".
type ValueEnv struct {
	BaseValue    int
	EnergySpent  int
	HandCount    int
	DrawCount    int
	DiscardCount int
	ExhaustCount int
	PlayerHP     int
	PlayerMaxHP  int
	PlayerBlock  int
	TargetHP     int
	TargetMaxHP  int
	TargetBlock  int
	TargetPoison int
}

// Evaluator evaluates effect value scripts in a single sandboxed VM.
//
// The zero Evaluator is not usable; construct with NewEvaluator. Evaluate is
// safe for concurrent use; a mutex serialises access to the VM.
type Evaluator struct {
	mu        sync.Mutex
	instLimit int
	logger    *zap.Logger
}

// NewEvaluator creates an Evaluator with the given per-script instruction
// limit (0 uses DefaultInstructionLimit).
//
// Precondition: logger must not be nil.
func NewEvaluator(instLimit int, logger *zap.Logger) *Evaluator {
	return &Evaluator{instLimit: instLimit, logger: logger}
}

// Value evaluates script as a Lua expression over env and returns the result
// truncated to int. Each evaluation runs in a fresh sandboxed VM so scripts
// cannot leak state into each other.
//
// Postcondition: Returns the script's integer value, or an error if the
// script fails to compile, exceeds the instruction limit, or yields a
// non-number.
func (e *Evaluator) Value(script string, env ValueEnv) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	L := NewSandboxedState(e.instLimit)
	defer L.Close()

	set := func(name string, v int) { L.SetGlobal(name, lua.LNumber(v)) }
	set("base_value", env.BaseValue)
	set("energy_spent", env.EnergySpent)
	set("hand_count", env.HandCount)
	set("draw_count", env.DrawCount)
	set("discard_count", env.DiscardCount)
	set("exhaust_count", env.ExhaustCount)
	set("player_hp", env.PlayerHP)
	set("player_max_hp", env.PlayerMaxHP)
	set("player_block", env.PlayerBlock)
	set("target_hp", env.TargetHP)
	set("target_max_hp", env.TargetMaxHP)
	set("target_block", env.TargetBlock)
	set("target_poison", env.TargetPoison)

	if err := L.DoString("return " + script); err != nil {
		return 0, fmt.Errorf("evaluating value script %q: %w", script, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("value script %q returned %s, want number", script, ret.Type())
	}
	return int(n), nil
}
