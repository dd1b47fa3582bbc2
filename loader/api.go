package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals. Each constructor
// except World is curried: Item("id") returns a function that takes the
// definition table, so content reads as `Item "id" { ... }`.
func registerAPI(L *lua.LState, coll *collector) {
	// World { name = "...", start = "...", ... }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.world = tbl
		return 0
	}))

	curried := func(sink *[]rawDef) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				*sink = append(*sink, rawDef{id: id, table: tbl})
				return 0
			}))
			return 1
		})
	}

	L.SetGlobal("Item", curried(&coll.items))
	L.SetGlobal("Region", curried(&coll.regions))
	L.SetGlobal("Quest", curried(&coll.quests))
	L.SetGlobal("Recipe", curried(&coll.recipes))
	L.SetGlobal("Guild", curried(&coll.guilds))

	// Pos(x, y, z) builds a position table.
	L.SetGlobal("Pos", L.NewFunction(func(L *lua.LState) int {
		x := L.CheckNumber(1)
		y := L.CheckNumber(2)
		z := L.CheckNumber(3)
		tbl := L.NewTable()
		tbl.RawSetString("x", x)
		tbl.RawSetString("y", y)
		tbl.RawSetString("z", z)
		L.Push(tbl)
		return 1
	}))
}
