package scripting

import lua "github.com/yuin/gopher-lua"

// RegisterModules installs the engine global into L:
//
//	engine.combatant(slot) -> table or nil
//	engine.living(team)    -> array of slots
//	engine.round()         -> number or nil
//	engine.roll(expr)      -> total, or nil and an error message
//
// Precondition: L must come from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"combatant": m.luaCombatant,
		"living":    m.luaLiving,
		"round":     m.luaRound,
		"roll":      m.luaRoll,
	})
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaCombatant(L *lua.LState) int {
	slot := L.CheckInt(1)
	v := m.currentView()
	if v == nil {
		L.Push(lua.LNil)
		return 1
	}
	info, ok := v.Combatant(slot)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("slot", lua.LNumber(info.Slot))
	t.RawSetString("name", lua.LString(info.Name))
	t.RawSetString("team", lua.LString(info.Team))
	t.RawSetString("hp", lua.LNumber(info.HP))
	t.RawSetString("max_hp", lua.LNumber(info.MaxHP))
	t.RawSetString("mp", lua.LNumber(info.MP))
	t.RawSetString("max_mp", lua.LNumber(info.MaxMP))
	t.RawSetString("attack", lua.LNumber(info.Attack))
	t.RawSetString("defense", lua.LNumber(info.Defense))
	t.RawSetString("speed", lua.LNumber(info.Speed))
	t.RawSetString("luck", lua.LNumber(info.Luck))
	t.RawSetString("alive", lua.LBool(info.Alive))
	buffs := L.NewTable()
	for _, b := range info.Buffs {
		buffs.RawSetString(b, lua.LTrue)
	}
	t.RawSetString("buffs", buffs)
	L.Push(t)
	return 1
}

func (m *Manager) luaLiving(L *lua.LState) int {
	team := L.CheckString(1)
	out := L.NewTable()
	if v := m.currentView(); v != nil {
		for _, s := range v.Living(team) {
			out.Append(lua.LNumber(s))
		}
	}
	L.Push(out)
	return 1
}

func (m *Manager) luaRound(L *lua.LState) int {
	v := m.currentView()
	if v == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v.Round()))
	return 1
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(res.Total()))
	return 1
}
