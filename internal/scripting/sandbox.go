// Package scripting provides a sandboxed GopherLua environment for AI
// precondition scripts. It has no dependency on the battle packages; the
// combat state is exposed to Lua through the View interface.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget per VM when none is configured.
const DefaultInstructionLimit = 100_000

// budgetContext cancels itself after Done has been called limit times.
// GopherLua calls Done once per opcode, so this is an exact instruction cap.
type budgetContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *budgetContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newBudgetContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &budgetContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// NewSandboxedState creates an LState with only the base, table, string and
// math libraries, the file and code loading globals removed, and execution
// capped at instLimit opcodes until the next rebudget.
//
// Precondition: instLimit <= 0 selects DefaultInstructionLimit.
// Postcondition: the caller owns L and must call cancel and L.Close when done.
func NewSandboxedState(instLimit int) (*lua.LState, context.CancelFunc) {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L, rebudget(L, limit)
}

// rebudget installs a fresh opcode budget of limit on L.
func rebudget(L *lua.LState, limit int) context.CancelFunc {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	ctx, cancel := newBudgetContext(limit)
	L.SetContext(ctx)
	return cancel
}
