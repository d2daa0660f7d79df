package script

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/MethodicalGamesInc/tauri/dpi"
	"github.com/MethodicalGamesInc/tauri/event"
	"github.com/MethodicalGamesInc/tauri/window"
)

// windowTypeName keys the handle metatable in the Lua registry.
const windowTypeName = "tauri.window"

func (e *Engine) buildModule() *lua.LTable {
	return e.L.SetFuncs(e.L.NewTable(), map[string]lua.LGFunction{
		"current":  e.luaCurrent,
		"get":      e.luaGet,
		"all":      e.luaAll,
		"labels":   e.luaLabels,
		"create":   e.luaCreate,
		"listen":   e.luaListen,
		"once":     e.luaOnce,
		"unlisten": e.luaUnlisten,
		"emit":     e.luaEmit,
		"log":      e.luaLog,
	})
}

func (e *Engine) luaCurrent(L *lua.LState) int {
	return e.pushWindow(L, e.mgr.Current())
}

func (e *Engine) luaGet(L *lua.LState) int {
	return e.pushWindow(L, e.mgr.GetByLabel(L.CheckString(1)))
}

func (e *Engine) luaAll(L *lua.LState) int {
	tbl := L.NewTable()
	for i, w := range e.mgr.All() {
		tbl.RawSetInt(i+1, e.wrapWindow(L, w))
	}
	L.Push(tbl)
	return 1
}

func (e *Engine) luaLabels(L *lua.LState) int {
	tbl := L.NewTable()
	for i, label := range e.mgr.Labels() {
		tbl.RawSetInt(i+1, lua.LString(label))
	}
	L.Push(tbl)
	return 1
}

func (e *Engine) luaCreate(L *lua.LState) int {
	label := L.CheckString(1)
	var opts *window.Options
	if tbl := L.OptTable(2, nil); tbl != nil {
		decoded, err := decodeOptions(tableToAny(tbl))
		if err != nil {
			L.RaiseError("create %s: %s", label, err)
		}
		opts = decoded
	}

	w, err := e.mgr.NewWindow(label, opts)
	if err != nil {
		L.RaiseError("create %s: %s", label, err)
	}
	ctx := e.ctx
	if err := e.unlocked(func() error { return w.Create(ctx) }); err != nil {
		L.RaiseError("create %s: %s", label, err)
	}
	return e.pushWindow(L, w)
}

func (e *Engine) luaListen(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	ctx := e.ctx
	id, err := e.subscribe(fn, func(h event.Handler) (event.UnlistenFunc, error) {
		return e.bus.Listen(ctx, name, h)
	})
	if err != nil {
		L.RaiseError("listen %s: %s", name, err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

func (e *Engine) luaOnce(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	ctx := e.ctx
	id, err := e.subscribe(fn, func(h event.Handler) (event.UnlistenFunc, error) {
		return e.bus.Once(ctx, name, h)
	})
	if err != nil {
		L.RaiseError("once %s: %s", name, err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

func (e *Engine) luaUnlisten(L *lua.LState) int {
	id := int64(L.CheckNumber(1))
	removed, err := e.unsubscribe(id)
	if err != nil {
		L.RaiseError("unlisten %d: %s", id, err)
	}
	L.Push(lua.LBool(removed))
	return 1
}

func (e *Engine) luaEmit(L *lua.LState) int {
	name := L.CheckString(1)
	var payload any
	if L.GetTop() >= 2 {
		payload = luaToAny(L.Get(2))
	}
	ctx := e.ctx
	if err := e.unlocked(func() error { return e.bus.Emit(ctx, name, payload) }); err != nil {
		L.RaiseError("emit %s: %s", name, err)
	}
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.logger.Info(L.CheckString(1), "source", "script")
	return 0
}

func (e *Engine) pushWindow(L *lua.LState, w *window.Window) int {
	if w == nil {
		L.Push(lua.LNil)
	} else {
		L.Push(e.wrapWindow(L, w))
	}
	return 1
}

func (e *Engine) wrapWindow(L *lua.LState, w *window.Window) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = w
	L.SetMetatable(ud, L.GetTypeMetatable(windowTypeName))
	return ud
}

func checkWindow(L *lua.LState) *window.Window {
	ud := L.CheckUserData(1)
	if w, ok := ud.Value.(*window.Window); ok {
		return w
	}
	L.ArgError(1, "window handle expected")
	return nil
}

func (e *Engine) registerWindowType() {
	mt := e.L.NewTypeMetatable(windowTypeName)
	e.L.SetField(mt, "__index", e.L.SetFuncs(e.L.NewTable(), e.windowMethods()))
	e.L.SetField(mt, "__tostring", e.L.NewFunction(windowToString))
}

func windowToString(L *lua.LState) int {
	L.Push(lua.LString("window<" + checkWindow(L).Label() + ">"))
	return 1
}

// windowMethods maps handle method names to the command surface. Method
// names follow the host command names.
func (e *Engine) windowMethods() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"label": windowLabel,

		"title":        e.stringGetter("title", (*window.Window).Title),
		"theme":        e.themeGetter(),
		"scale_factor": e.scaleGetter(),

		"set_title":       e.windowSetTitle,
		"show":            e.simple("show", (*window.Window).Show),
		"hide":            e.simple("hide", (*window.Window).Hide),
		"maximize":        e.simple("maximize", (*window.Window).Maximize),
		"unmaximize":      e.simple("unmaximize", (*window.Window).Unmaximize),
		"toggle_maximize": e.simple("toggle_maximize", (*window.Window).ToggleMaximize),
		"minimize":        e.simple("minimize", (*window.Window).Minimize),
		"unminimize":      e.simple("unminimize", (*window.Window).Unminimize),
		"center":          e.simple("center", (*window.Window).Center),
		"close":           e.simple("close", (*window.Window).Close),
		"destroy":         e.simple("destroy", (*window.Window).Destroy),
		"set_focus":       e.simple("set_focus", (*window.Window).SetFocus),
		"start_dragging":  e.simple("start_dragging", (*window.Window).StartDragging),

		"set_fullscreen":           e.boolSetter("set_fullscreen", (*window.Window).SetFullscreen),
		"set_resizable":            e.boolSetter("set_resizable", (*window.Window).SetResizable),
		"set_maximizable":          e.boolSetter("set_maximizable", (*window.Window).SetMaximizable),
		"set_minimizable":          e.boolSetter("set_minimizable", (*window.Window).SetMinimizable),
		"set_closable":             e.boolSetter("set_closable", (*window.Window).SetClosable),
		"set_always_on_top":        e.boolSetter("set_always_on_top", (*window.Window).SetAlwaysOnTop),
		"set_always_on_bottom":     e.boolSetter("set_always_on_bottom", (*window.Window).SetAlwaysOnBottom),
		"set_content_protected":    e.boolSetter("set_content_protected", (*window.Window).SetContentProtected),
		"set_decorations":          e.boolSetter("set_decorations", (*window.Window).SetDecorations),
		"set_shadow":               e.boolSetter("set_shadow", (*window.Window).SetShadow),
		"set_skip_taskbar":         e.boolSetter("set_skip_taskbar", (*window.Window).SetSkipTaskbar),
		"set_cursor_grab":          e.boolSetter("set_cursor_grab", (*window.Window).SetCursorGrab),
		"set_cursor_visible":       e.boolSetter("set_cursor_visible", (*window.Window).SetCursorVisible),
		"set_ignore_cursor_events": e.boolSetter("set_ignore_cursor_events", (*window.Window).SetIgnoreCursorEvents),

		"is_fullscreen":  e.boolGetter("is_fullscreen", (*window.Window).IsFullscreen),
		"is_minimized":   e.boolGetter("is_minimized", (*window.Window).IsMinimized),
		"is_maximized":   e.boolGetter("is_maximized", (*window.Window).IsMaximized),
		"is_focused":     e.boolGetter("is_focused", (*window.Window).IsFocused),
		"is_decorated":   e.boolGetter("is_decorated", (*window.Window).IsDecorated),
		"is_resizable":   e.boolGetter("is_resizable", (*window.Window).IsResizable),
		"is_maximizable": e.boolGetter("is_maximizable", (*window.Window).IsMaximizable),
		"is_minimizable": e.boolGetter("is_minimizable", (*window.Window).IsMinimizable),
		"is_closable":    e.boolGetter("is_closable", (*window.Window).IsClosable),
		"is_visible":     e.boolGetter("is_visible", (*window.Window).IsVisible),

		"inner_size":     e.sizeGetter("inner_size", (*window.Window).InnerSize),
		"outer_size":     e.sizeGetter("outer_size", (*window.Window).OuterSize),
		"inner_position": e.positionGetter("inner_position", (*window.Window).InnerPosition),
		"outer_position": e.positionGetter("outer_position", (*window.Window).OuterPosition),

		"set_size":     e.windowSetSize,
		"set_min_size": e.limitSetter("set_min_size", (*window.Window).SetMinSize),
		"set_max_size": e.limitSetter("set_max_size", (*window.Window).SetMaxSize),
		"set_position": e.windowSetPosition,

		"request_user_attention": e.windowRequestAttention,
		"set_cursor_icon":        e.windowSetCursorIcon,
		"start_resize_dragging":  e.windowStartResizeDragging,
		"set_progress":           e.windowSetProgress,

		"emit":   e.windowEmit,
		"listen": e.windowListen,
		"once":   e.windowOnce,
	}
}

func windowLabel(L *lua.LState) int {
	L.Push(lua.LString(checkWindow(L).Label()))
	return 1
}

// simple wraps a window command that takes no arguments.
func (e *Engine) simple(name string, call func(*window.Window, context.Context) error) lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		if err := call(w, e.ctx); err != nil {
			L.RaiseError("%s %s: %s", name, w.Label(), err)
		}
		return 0
	}
}

func (e *Engine) boolSetter(name string, call func(*window.Window, context.Context, bool) error) lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		v := L.CheckBool(2)
		if err := call(w, e.ctx, v); err != nil {
			L.RaiseError("%s %s: %s", name, w.Label(), err)
		}
		return 0
	}
}

func (e *Engine) boolGetter(name string, call func(*window.Window, context.Context) (bool, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		v, err := call(w, e.ctx)
		if err != nil {
			L.RaiseError("%s %s: %s", name, w.Label(), err)
		}
		L.Push(lua.LBool(v))
		return 1
	}
}

func (e *Engine) stringGetter(name string, call func(*window.Window, context.Context) (string, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		v, err := call(w, e.ctx)
		if err != nil {
			L.RaiseError("%s %s: %s", name, w.Label(), err)
		}
		L.Push(lua.LString(v))
		return 1
	}
}

func (e *Engine) themeGetter() lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		theme, err := w.Theme(e.ctx)
		if err != nil {
			L.RaiseError("theme %s: %s", w.Label(), err)
		}
		L.Push(lua.LString(theme))
		return 1
	}
}

func (e *Engine) scaleGetter() lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		factor, err := w.ScaleFactor(e.ctx)
		if err != nil {
			L.RaiseError("scale_factor %s: %s", w.Label(), err)
		}
		L.Push(lua.LNumber(factor))
		return 1
	}
}

// sizeGetter pushes width and height as two return values.
func (e *Engine) sizeGetter(name string, call func(*window.Window, context.Context) (dpi.PhysicalSize, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		size, err := call(w, e.ctx)
		if err != nil {
			L.RaiseError("%s %s: %s", name, w.Label(), err)
		}
		L.Push(lua.LNumber(size.Width))
		L.Push(lua.LNumber(size.Height))
		return 2
	}
}

func (e *Engine) positionGetter(name string, call func(*window.Window, context.Context) (dpi.PhysicalPosition, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		pos, err := call(w, e.ctx)
		if err != nil {
			L.RaiseError("%s %s: %s", name, w.Label(), err)
		}
		L.Push(lua.LNumber(pos.X))
		L.Push(lua.LNumber(pos.Y))
		return 2
	}
}

// limitSetter wraps the min/max size commands: two numbers set a logical
// size limit, no arguments clear it.
func (e *Engine) limitSetter(name string, call func(*window.Window, context.Context, dpi.Size) error) lua.LGFunction {
	return func(L *lua.LState) int {
		w := checkWindow(L)
		var size dpi.Size
		if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
			size = dpi.LogicalSize{
				Width:  float64(L.CheckNumber(2)),
				Height: float64(L.CheckNumber(3)),
			}
		}
		if err := call(w, e.ctx, size); err != nil {
			L.RaiseError("%s %s: %s", name, w.Label(), err)
		}
		return 0
	}
}

func (e *Engine) windowSetTitle(L *lua.LState) int {
	w := checkWindow(L)
	title := L.CheckString(2)
	if err := w.SetTitle(e.ctx, title); err != nil {
		L.RaiseError("set_title %s: %s", w.Label(), err)
	}
	return 0
}

func (e *Engine) windowSetSize(L *lua.LState) int {
	w := checkWindow(L)
	size := dpi.LogicalSize{
		Width:  float64(L.CheckNumber(2)),
		Height: float64(L.CheckNumber(3)),
	}
	if err := w.SetSize(e.ctx, size); err != nil {
		L.RaiseError("set_size %s: %s", w.Label(), err)
	}
	return 0
}

func (e *Engine) windowSetPosition(L *lua.LState) int {
	w := checkWindow(L)
	pos := dpi.LogicalPosition{
		X: float64(L.CheckNumber(2)),
		Y: float64(L.CheckNumber(3)),
	}
	if err := w.SetPosition(e.ctx, pos); err != nil {
		L.RaiseError("set_position %s: %s", w.Label(), err)
	}
	return 0
}

func (e *Engine) windowRequestAttention(L *lua.LState) int {
	w := checkWindow(L)
	var t window.UserAttentionType
	switch kind := L.OptString(2, ""); kind {
	case "":
	case "critical":
		t = window.UserAttentionCritical
	case "informational":
		t = window.UserAttentionInformational
	default:
		L.ArgError(2, "expected \"critical\", \"informational\" or nil")
	}
	if err := w.RequestUserAttention(e.ctx, t); err != nil {
		L.RaiseError("request_user_attention %s: %s", w.Label(), err)
	}
	return 0
}

func (e *Engine) windowSetCursorIcon(L *lua.LState) int {
	w := checkWindow(L)
	icon := window.CursorIcon(L.CheckString(2))
	if err := w.SetCursorIcon(e.ctx, icon); err != nil {
		L.RaiseError("set_cursor_icon %s: %s", w.Label(), err)
	}
	return 0
}

func (e *Engine) windowStartResizeDragging(L *lua.LState) int {
	w := checkWindow(L)
	dir := window.ResizeDirection(L.CheckString(2))
	if err := w.StartResizeDragging(e.ctx, dir); err != nil {
		L.RaiseError("start_resize_dragging %s: %s", w.Label(), err)
	}
	return 0
}

func (e *Engine) windowSetProgress(L *lua.LState) int {
	w := checkWindow(L)
	state := window.ProgressBarState{Progress: int(L.CheckNumber(2))}
	if L.GetTop() >= 3 {
		state.Status = window.ProgressBarStatus(L.CheckString(3))
	}
	if err := w.SetProgressBar(e.ctx, state); err != nil {
		L.RaiseError("set_progress %s: %s", w.Label(), err)
	}
	return 0
}

func (e *Engine) windowEmit(L *lua.LState) int {
	w := checkWindow(L)
	name := L.CheckString(2)
	var payload any
	if L.GetTop() >= 3 {
		payload = luaToAny(L.Get(3))
	}
	ctx := e.ctx
	if err := e.unlocked(func() error { return w.Emit(ctx, name, payload) }); err != nil {
		L.RaiseError("emit %s: %s", name, err)
	}
	return 0
}

func (e *Engine) windowListen(L *lua.LState) int {
	w := checkWindow(L)
	name := L.CheckString(2)
	fn := L.CheckFunction(3)
	ctx := e.ctx
	id, err := e.subscribe(fn, func(h event.Handler) (event.UnlistenFunc, error) {
		return w.Listen(ctx, name, h)
	})
	if err != nil {
		L.RaiseError("listen %s: %s", name, err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

func (e *Engine) windowOnce(L *lua.LState) int {
	w := checkWindow(L)
	name := L.CheckString(2)
	fn := L.CheckFunction(3)
	ctx := e.ctx
	id, err := e.subscribe(fn, func(h event.Handler) (event.UnlistenFunc, error) {
		return w.Once(ctx, name, h)
	})
	if err != nil {
		L.RaiseError("once %s: %s", name, err)
	}
	L.Push(lua.LNumber(id))
	return 1
}
