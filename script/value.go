package script

import (
	"bytes"
	"encoding/json"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/MethodicalGamesInc/tauri/window"
)

// anyToLua converts a decoded JSON value into its Lua form.
func anyToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, anyToLua(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, anyToLua(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

// luaToAny converts a Lua value into a JSON-encodable Go value. Tables with
// contiguous integer keys from 1 become arrays, other tables become maps.
// Functions and userdata have no JSON form and convert to nil, as does a
// table reached through itself.
func luaToAny(v lua.LValue) any {
	return luaToAnyVisited(v, make(map[*lua.LTable]bool))
}

func luaToAnyVisited(v lua.LValue, visited map[*lua.LTable]bool) any {
	if v == nil || v == lua.LNil {
		return nil
	}

	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if visited[val] {
			return nil
		}
		visited[val] = true
		return tableToAnyVisited(val, visited)
	default:
		return nil
	}
}

func tableToAny(tbl *lua.LTable) any {
	visited := map[*lua.LTable]bool{tbl: true}
	return tableToAnyVisited(tbl, visited)
}

func tableToAnyVisited(tbl *lua.LTable, visited map[*lua.LTable]bool) any {
	isArray := true
	count, maxIdx := 0, 0
	tbl.ForEach(func(k, _ lua.LValue) {
		count++
		num, ok := k.(lua.LNumber)
		if !ok || float64(num) != float64(int(num)) || int(num) < 1 {
			isArray = false
			return
		}
		if int(num) > maxIdx {
			maxIdx = int(num)
		}
	})

	if isArray && maxIdx > 0 && count == maxIdx {
		arr := make([]any, maxIdx)
		for i := 1; i <= maxIdx; i++ {
			arr[i-1] = luaToAnyVisited(tbl.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any)
	tbl.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = luaToAnyVisited(v, visited)
	})
	return m
}

// payloadToLua decodes a raw event payload for delivery to a handler. An
// absent payload is nil; undecodable bytes pass through as a string.
func payloadToLua(L *lua.LState, raw json.RawMessage) lua.LValue {
	if len(raw) == 0 {
		return lua.LNil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return lua.LString(string(raw))
	}
	return anyToLua(L, v)
}

// decodeOptions turns an option table, already converted to Go form, into
// creation options. Unknown keys are errors so typos fail loudly.
func decodeOptions(v any) (*window.Options, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var opts window.Options
	if err := dec.Decode(&opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
