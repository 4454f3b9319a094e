package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// GlobalScope is the VM CallHook falls back to when a scope has no VM of its own.
const GlobalScope = "__global__"

// CombatantInfo is a snapshot of one combatant handed to Lua.
type CombatantInfo struct {
	Slot    int
	Name    string
	Team    string // "player" or "monster"
	HP      int
	MaxHP   int
	MP      int
	MaxMP   int
	Attack  int
	Defense int
	Speed   int
	Luck    int
	Alive   bool
	Buffs   []string
}

// View is the read-only combat state the engine.* modules expose.
type View interface {
	Combatant(slot int) (*CombatantInfo, bool)
	// Living returns the living slots of team in ascending order.
	Living(team string) []int
	Round() int
}

type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel context.CancelFunc
	limit  int
}

// Manager owns one sandboxed VM per scope (an AI domain ID, or GlobalScope)
// and dispatches hook calls to it.
//
// Each VM runs one call at a time; different scopes may run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	view   View
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with an empty scope map.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// SetView points engine.* lookups at v. A nil view makes them return nil.
func (m *Manager) SetView(v View) {
	m.mu.Lock()
	m.view = v
	m.mu.Unlock()
}

func (m *Manager) currentView() View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// LoadScope creates a sandboxed VM for scope, registers the engine module,
// then runs every *.lua file in scriptDir in lexicographic order. A previous
// VM for the same scope is closed and replaced.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: each later CallHook on scope gets a fresh budget of instLimit opcodes.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, scope, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[scope]; ok {
		old.mu.Lock()
		old.cancel()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[scope] = &vm{L: L, cancel: cancel, limit: instLimit}
	m.mu.Unlock()
	m.logger.Debug("scripting: scope loaded",
		zap.String("scope", scope),
		zap.Int("files", len(files)),
	)
	return nil
}

// LoadGlobal loads scriptDir into GlobalScope.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.LoadScope(GlobalScope, scriptDir, instLimit)
}

// CallHook calls the Lua global hook in scope's VM, falling back to
// GlobalScope. Returns (LNil, nil) when no VM exists or the hook is not
// defined. Lua runtime errors, including an exhausted budget, are logged at
// warn level and reported as LNil.
//
// Postcondition: returns the hook's first return value, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[GlobalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	v.cancel()
	v.cancel = rebudget(v.L, v.limit)

	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM. Later CallHook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for scope, v := range m.vms {
		v.mu.Lock()
		v.cancel()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, scope)
	}
}
