package format

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// luaFormatFn is the global function a formatter script must define.
const luaFormatFn = "format"

// LuaFormatter runs a user script's format(name, type, value) function for
// every displayed value. Script failures fall back to the raw value; the
// panel must stay renderable no matter what the script does.
type LuaFormatter struct {
	mu sync.Mutex
	L  *lua.LState
}

// NewLuaFormatter compiles a formatter script from source. The script must
// define a global function format(name, type, value) returning a string.
func NewLuaFormatter(source string) (*LuaFormatter, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load formatter script: %w", err)
	}

	fn := L.GetGlobal(luaFormatFn)
	if _, ok := fn.(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("formatter script does not define %s()", luaFormatFn)
	}

	return &LuaFormatter{L: L}, nil
}

// NewLuaFormatterFile compiles a formatter script from a file path.
func NewLuaFormatterFile(path string) (*LuaFormatter, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("load formatter script %s: %w", path, err)
	}

	fn := L.GetGlobal(luaFormatFn)
	if _, ok := fn.(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("formatter script %s does not define %s()", path, luaFormatFn)
	}

	return &LuaFormatter{L: L}, nil
}

// Close releases the Lua state.
func (f *LuaFormatter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.L.Close()
}

// FormatValue calls the script's format function. Any script error returns
// the raw value unchanged.
func (f *LuaFormatter) FormatValue(name, typ, value string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.L.CallByParam(lua.P{
		Fn:      f.L.GetGlobal(luaFormatFn),
		NRet:    1,
		Protect: true,
	}, lua.LString(name), lua.LString(typ), lua.LString(value))
	if err != nil {
		return value
	}

	ret := f.L.Get(-1)
	f.L.Pop(1)

	s, ok := ret.(lua.LString)
	if !ok {
		return value
	}
	return string(s)
}
