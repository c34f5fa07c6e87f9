package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/pimeo/iopole-search-params-builder/fault"
	"github.com/pimeo/iopole-search-params-builder/query"
)

// Runner executes user Lua scripts that assemble search queries.
// The script MUST define a function named `build_query` taking two
// parameters:
// 1. the query builder, whose methods mirror the Go API
//    (where, matches, is, between, strict_between, group, and_, or_,
//    and_not, or_not)
// 2. a table of host-supplied parameters
// Scripts run sandboxed: only the base, package, table and string
// libraries are opened, plus a JSON helper available through
// `local json = require("json")`.
type Runner struct {
	scriptPath string
	pool       *sync.Pool
}

const builderTypeName = "query_builder"

func NewRunner(scriptPath string) (*Runner, error) {
	// Load once eagerly so a broken script fails here instead of
	// panicking inside the pool.
	first, err := newState(scriptPath)
	if err != nil {
		return nil, fault.New(fault.BadInputCode, "cannot load script").WithOriginal(err)
	}

	if first.GetGlobal("build_query").Type() != lua.LTFunction {
		first.Close()
		return nil, fault.New(fault.BadInputCode, "script does not define a build_query function")
	}

	pool := &sync.Pool{
		New: func() any {
			L, err := newState(scriptPath)
			if err != nil {
				panic(err)
			}
			return L
		},
	}
	pool.Put(first)

	return &Runner{
		scriptPath: scriptPath,
		pool:       pool,
	}, nil
}

func newState(scriptPath string) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // Don't load anything by default
	})

	// Manually open only the safe libraries
	// We skip 'os' and 'io' to prevent system commands/file access
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},  // Allows 'require'
		{lua.BaseLibName, lua.OpenBase},     // Allows 'print', 'pairs', etc.
		{lua.TabLibName, lua.OpenTable},     // Allows 'table.insert', etc.
		{lua.StringLibName, lua.OpenString}, // Allows string manipulation
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Pre-register the JSON module in this VM
	// This allows the user to do: local json = require("json")
	luajson.Preload(L)

	registerBuilderType(L)

	if err := L.DoFile(scriptPath); err != nil {
		L.Close()
		return nil, err
	}

	return L, nil
}

// Run calls the script's build_query with a fresh builder and the
// given parameters, then renders the accumulated query.
func (r *Runner) Run(scriptParams map[string]any) (string, error) {
	L := r.pool.Get().(*lua.LState)
	defer r.pool.Put(L)

	b := query.New()

	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("build_query"),
		NRet:    0,
		Protect: true,
	}, wrapBuilder(L, b), goToLua(L, scriptParams))

	if err != nil {
		return "", fault.New(fault.BadInputCode, "lua script error").WithOriginal(err)
	}

	return b.Build()
}

func registerBuilderType(L *lua.LState) {
	mt := L.NewTypeMetatable(builderTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), builderMethods))
}

var builderMethods = map[string]lua.LGFunction{
	"where":          builderWhere,
	"matches":        builderMatches,
	"is":             builderIs,
	"between":        builderBetween,
	"strict_between": builderStrictBetween,
	"group":          builderGroup,
	"and_":           builderAnd,
	"and_not":        builderAndNot,
	"or_":            builderOr,
	"or_not":         builderOrNot,
}

func wrapBuilder(L *lua.LState, b *query.Builder) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = b
	L.SetMetatable(ud, L.GetTypeMetatable(builderTypeName))
	return ud
}

func checkBuilder(L *lua.LState) *query.Builder {
	ud := L.CheckUserData(1)
	if b, ok := ud.Value.(*query.Builder); ok {
		return b
	}

	L.ArgError(1, "query builder expected")
	return nil
}

// returnSelf pushes the receiver back so Lua callers can chain just
// like Go callers do.
func returnSelf(L *lua.LState) int {
	L.Push(L.Get(1))
	return 1
}

func builderWhere(L *lua.LState) int {
	b := checkBuilder(L)
	field := L.CheckString(2)
	opName := L.CheckString(3)
	value := luaToGo(L.CheckAny(4))

	op, err := query.OperatorFromName(opName)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	b.Where(field, op, value)
	return returnSelf(L)
}

func builderMatches(L *lua.LState) int {
	b := checkBuilder(L)
	b.Matches(L.CheckString(2), luaToGo(L.CheckAny(3)))
	return returnSelf(L)
}

func builderIs(L *lua.LState) int {
	b := checkBuilder(L)
	b.Is(L.CheckString(2), luaToGo(L.CheckAny(3)))
	return returnSelf(L)
}

func builderBetween(L *lua.LState) int {
	b := checkBuilder(L)
	b.Between(L.CheckString(2), luaToGo(L.CheckAny(3)), luaToGo(L.CheckAny(4)))
	return returnSelf(L)
}

func builderStrictBetween(L *lua.LState) int {
	b := checkBuilder(L)
	b.StrictBetween(L.CheckString(2), luaToGo(L.CheckAny(3)), luaToGo(L.CheckAny(4)))
	return returnSelf(L)
}

func builderGroup(L *lua.LState) int {
	b := checkBuilder(L)
	logicName := L.CheckString(2)
	fn := L.CheckFunction(3)

	logic, err := query.LogicFromName(logicName)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	callGroup(L, b, logic, fn)
	return returnSelf(L)
}

func builderAnd(L *lua.LState) int {
	b := checkBuilder(L)
	callGroup(L, b, query.LogicAnd, L.CheckFunction(2))
	return returnSelf(L)
}

func builderAndNot(L *lua.LState) int {
	b := checkBuilder(L)
	callGroup(L, b, query.LogicAndNot, L.CheckFunction(2))
	return returnSelf(L)
}

func builderOr(L *lua.LState) int {
	b := checkBuilder(L)
	callGroup(L, b, query.LogicOr, L.CheckFunction(2))
	return returnSelf(L)
}

func builderOrNot(L *lua.LState) int {
	b := checkBuilder(L)
	callGroup(L, b, query.LogicOrNot, L.CheckFunction(2))
	return returnSelf(L)
}

// callGroup hands a sub-builder userdata to the Lua callback. The call
// is unprotected on purpose: errors bubble up to the protected
// build_query invocation in Run.
func callGroup(L *lua.LState, b *query.Builder, logic query.Logic, fn *lua.LFunction) {
	b.Group(logic, func(sub *query.Builder) {
		L.Push(fn)
		L.Push(wrapBuilder(L, sub))
		L.Call(1, 0)
	})
}

// luaToGo converts a scalar Lua value for the builder. Tables and
// other non-scalar values pass through as-is so the builder reports
// them as unsupported.
func luaToGo(v lua.LValue) any {
	switch t := v.(type) {
	case lua.LString:
		return string(t)
	case lua.LNumber:
		return float64(t)
	case lua.LBool:
		return bool(t)
	default:
		return v
	}
}

func goToLua(L *lua.LState, v any) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(t)
	case bool:
		return lua.LBool(t)
	case int:
		return lua.LNumber(t)
	case int64:
		return lua.LNumber(t)
	case float64:
		return lua.LNumber(t)
	case map[string]any:
		tbl := L.NewTable()
		for key, value := range t {
			tbl.RawSetString(key, goToLua(L, value))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, value := range t {
			tbl.Append(goToLua(L, value))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", t))
	}
}
