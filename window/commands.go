package window

import (
	"context"

	"github.com/MethodicalGamesInc/tauri/dpi"
)

// Host command names. The command-to-operation mapping is the compatibility
// surface shared with Tauri-style hosts and must not change.
const (
	CommandCreate = "create"

	CommandScaleFactor   = "scale_factor"
	CommandInnerPosition = "inner_position"
	CommandOuterPosition = "outer_position"
	CommandInnerSize     = "inner_size"
	CommandOuterSize     = "outer_size"

	CommandIsFullscreen  = "is_fullscreen"
	CommandIsMinimized   = "is_minimized"
	CommandIsMaximized   = "is_maximized"
	CommandIsFocused     = "is_focused"
	CommandIsDecorated   = "is_decorated"
	CommandIsResizable   = "is_resizable"
	CommandIsMaximizable = "is_maximizable"
	CommandIsMinimizable = "is_minimizable"
	CommandIsClosable    = "is_closable"
	CommandIsVisible     = "is_visible"

	CommandTitle = "title"
	CommandTheme = "theme"

	CommandCenter               = "center"
	CommandRequestUserAttention = "request_user_attention"

	CommandSetResizable        = "set_resizable"
	CommandSetMaximizable      = "set_maximizable"
	CommandSetMinimizable      = "set_minimizable"
	CommandSetClosable         = "set_closable"
	CommandSetTitle            = "set_title"
	CommandMaximize            = "maximize"
	CommandUnmaximize          = "unmaximize"
	CommandToggleMaximize      = "toggle_maximize"
	CommandMinimize            = "minimize"
	CommandUnminimize          = "unminimize"
	CommandShow                = "show"
	CommandHide                = "hide"
	CommandClose               = "close"
	CommandDestroy             = "destroy"
	CommandSetDecorations      = "set_decorations"
	CommandSetShadow           = "set_shadow"
	CommandSetEffects          = "set_effects"
	CommandSetAlwaysOnTop      = "set_always_on_top"
	CommandSetAlwaysOnBottom   = "set_always_on_bottom"
	CommandSetContentProtected = "set_content_protected"
	CommandSetSize             = "set_size"
	CommandSetMinSize          = "set_min_size"
	CommandSetMaxSize          = "set_max_size"
	CommandSetPosition         = "set_position"
	CommandSetFullscreen       = "set_fullscreen"
	CommandSetFocus            = "set_focus"
	CommandSetIcon             = "set_icon"
	CommandSetSkipTaskbar      = "set_skip_taskbar"
	CommandSetCursorGrab       = "set_cursor_grab"
	CommandSetCursorVisible    = "set_cursor_visible"
	CommandSetCursorIcon       = "set_cursor_icon"
	CommandSetCursorPosition   = "set_cursor_position"
	CommandSetIgnoreCursor     = "set_ignore_cursor_events"
	CommandStartDragging       = "start_dragging"
	CommandStartResizeDragging = "start_resize_dragging"
	CommandSetProgressBar      = "set_progress_bar"

	CommandCurrentMonitor    = "current_monitor"
	CommandPrimaryMonitor    = "primary_monitor"
	CommandAvailableMonitors = "available_monitors"
)

// commandArgs is the uniform argument bag: the window label plus an optional
// command-specific value. Getters send no value.
type commandArgs struct {
	Label string `json:"label"`
	Value any    `json:"value,omitempty"`
}

type createArgs struct {
	Label   string   `json:"label"`
	Options *Options `json:"options,omitempty"`
}

func (w *Window) query(ctx context.Context, command string, out any) error {
	return w.inv.Invoke(ctx, command, commandArgs{Label: w.label}, out)
}

func (w *Window) command(ctx context.Context, name string, value any) error {
	return w.inv.Invoke(ctx, name, commandArgs{Label: w.label, Value: value}, nil)
}

// ScaleFactor returns the window's device pixel ratio.
func (w *Window) ScaleFactor(ctx context.Context) (float64, error) {
	var out float64
	err := w.query(ctx, CommandScaleFactor, &out)
	return out, err
}

// InnerPosition returns the position of the window's content area in
// physical pixels.
func (w *Window) InnerPosition(ctx context.Context) (dpi.PhysicalPosition, error) {
	var out dpi.PhysicalPosition
	err := w.query(ctx, CommandInnerPosition, &out)
	return out, err
}

// OuterPosition returns the position of the window frame in physical pixels.
func (w *Window) OuterPosition(ctx context.Context) (dpi.PhysicalPosition, error) {
	var out dpi.PhysicalPosition
	err := w.query(ctx, CommandOuterPosition, &out)
	return out, err
}

// InnerSize returns the size of the window's content area in physical pixels.
func (w *Window) InnerSize(ctx context.Context) (dpi.PhysicalSize, error) {
	var out dpi.PhysicalSize
	err := w.query(ctx, CommandInnerSize, &out)
	return out, err
}

// OuterSize returns the size of the window frame in physical pixels.
func (w *Window) OuterSize(ctx context.Context) (dpi.PhysicalSize, error) {
	var out dpi.PhysicalSize
	err := w.query(ctx, CommandOuterSize, &out)
	return out, err
}

// IsFullscreen reports whether the window is in fullscreen mode.
func (w *Window) IsFullscreen(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsFullscreen, &out)
	return out, err
}

// IsMinimized reports whether the window is minimized.
func (w *Window) IsMinimized(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsMinimized, &out)
	return out, err
}

// IsMaximized reports whether the window is maximized.
func (w *Window) IsMaximized(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsMaximized, &out)
	return out, err
}

// IsFocused reports whether the window has input focus.
func (w *Window) IsFocused(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsFocused, &out)
	return out, err
}

// IsDecorated reports whether the window shows its native frame.
func (w *Window) IsDecorated(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsDecorated, &out)
	return out, err
}

// IsResizable reports whether the window can be resized by the user.
func (w *Window) IsResizable(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsResizable, &out)
	return out, err
}

// IsMaximizable reports whether the native maximize button is enabled.
func (w *Window) IsMaximizable(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsMaximizable, &out)
	return out, err
}

// IsMinimizable reports whether the native minimize button is enabled.
func (w *Window) IsMinimizable(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsMinimizable, &out)
	return out, err
}

// IsClosable reports whether the native close button is enabled.
func (w *Window) IsClosable(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsClosable, &out)
	return out, err
}

// IsVisible reports whether the window is currently shown.
func (w *Window) IsVisible(ctx context.Context) (bool, error) {
	var out bool
	err := w.query(ctx, CommandIsVisible, &out)
	return out, err
}

// Title returns the window's current title.
func (w *Window) Title(ctx context.Context) (string, error) {
	var out string
	err := w.query(ctx, CommandTitle, &out)
	return out, err
}

// Theme returns the window's current appearance, or empty when the host
// cannot tell.
func (w *Window) Theme(ctx context.Context) (Theme, error) {
	var out Theme
	err := w.query(ctx, CommandTheme, &out)
	return out, err
}

// Center moves the window to the center of its current monitor.
func (w *Window) Center(ctx context.Context) error {
	return w.command(ctx, CommandCenter, nil)
}

// RequestUserAttention signals the user via the platform's attention
// mechanism. A zero attention type cancels an earlier request.
func (w *Window) RequestUserAttention(ctx context.Context, t UserAttentionType) error {
	var value any
	if t != 0 {
		value = int(t)
	}
	return w.command(ctx, CommandRequestUserAttention, value)
}

// SetResizable allows or forbids user resizing.
func (w *Window) SetResizable(ctx context.Context, resizable bool) error {
	return w.command(ctx, CommandSetResizable, resizable)
}

// SetMaximizable enables or disables the native maximize button.
func (w *Window) SetMaximizable(ctx context.Context, maximizable bool) error {
	return w.command(ctx, CommandSetMaximizable, maximizable)
}

// SetMinimizable enables or disables the native minimize button.
func (w *Window) SetMinimizable(ctx context.Context, minimizable bool) error {
	return w.command(ctx, CommandSetMinimizable, minimizable)
}

// SetClosable enables or disables the native close button.
func (w *Window) SetClosable(ctx context.Context, closable bool) error {
	return w.command(ctx, CommandSetClosable, closable)
}

// SetTitle changes the window title.
func (w *Window) SetTitle(ctx context.Context, title string) error {
	return w.command(ctx, CommandSetTitle, title)
}

// Maximize maximizes the window.
func (w *Window) Maximize(ctx context.Context) error {
	return w.command(ctx, CommandMaximize, nil)
}

// Unmaximize restores the window from the maximized state.
func (w *Window) Unmaximize(ctx context.Context) error {
	return w.command(ctx, CommandUnmaximize, nil)
}

// ToggleMaximize flips the maximized state.
func (w *Window) ToggleMaximize(ctx context.Context) error {
	return w.command(ctx, CommandToggleMaximize, nil)
}

// Minimize minimizes the window.
func (w *Window) Minimize(ctx context.Context) error {
	return w.command(ctx, CommandMinimize, nil)
}

// Unminimize restores the window from the minimized state.
func (w *Window) Unminimize(ctx context.Context) error {
	return w.command(ctx, CommandUnminimize, nil)
}

// Show makes the window visible.
func (w *Window) Show(ctx context.Context) error {
	return w.command(ctx, CommandShow, nil)
}

// Hide hides the window without destroying it.
func (w *Window) Hide(ctx context.Context) error {
	return w.command(ctx, CommandHide, nil)
}

// Close asks the host to close the window. Close-request listeners on the
// host side may still veto; use Destroy to bypass them.
func (w *Window) Close(ctx context.Context) error {
	return w.command(ctx, CommandClose, nil)
}

// Destroy tears the window down immediately, skipping close-request
// listeners.
func (w *Window) Destroy(ctx context.Context) error {
	return w.command(ctx, CommandDestroy, nil)
}

// SetDecorations shows or hides the native frame.
func (w *Window) SetDecorations(ctx context.Context, decorations bool) error {
	return w.command(ctx, CommandSetDecorations, decorations)
}

// SetShadow toggles the window drop shadow.
func (w *Window) SetShadow(ctx context.Context, shadow bool) error {
	return w.command(ctx, CommandSetShadow, shadow)
}

// SetEffects applies platform window effects.
func (w *Window) SetEffects(ctx context.Context, effects EffectsConfig) error {
	return w.command(ctx, CommandSetEffects, effects)
}

// ClearEffects removes all window effects.
func (w *Window) ClearEffects(ctx context.Context) error {
	return w.command(ctx, CommandSetEffects, nil)
}

// SetAlwaysOnTop keeps the window above normal windows.
func (w *Window) SetAlwaysOnTop(ctx context.Context, onTop bool) error {
	return w.command(ctx, CommandSetAlwaysOnTop, onTop)
}

// SetAlwaysOnBottom keeps the window below normal windows.
func (w *Window) SetAlwaysOnBottom(ctx context.Context, onBottom bool) error {
	return w.command(ctx, CommandSetAlwaysOnBottom, onBottom)
}

// SetContentProtected excludes the window contents from screen capture.
func (w *Window) SetContentProtected(ctx context.Context, protected bool) error {
	return w.command(ctx, CommandSetContentProtected, protected)
}

// SetSize resizes the window's content area. The size must be a
// dpi.LogicalSize or dpi.PhysicalSize; anything else fails before reaching
// the host.
func (w *Window) SetSize(ctx context.Context, size dpi.Size) error {
	tagged, err := dpi.EncodeSize(size)
	if err != nil {
		return err
	}
	return w.command(ctx, CommandSetSize, tagged)
}

// SetMinSize constrains the minimum content size. A nil size clears the
// constraint.
func (w *Window) SetMinSize(ctx context.Context, size dpi.Size) error {
	if size == nil {
		return w.command(ctx, CommandSetMinSize, nil)
	}
	tagged, err := dpi.EncodeSize(size)
	if err != nil {
		return err
	}
	return w.command(ctx, CommandSetMinSize, tagged)
}

// SetMaxSize constrains the maximum content size. A nil size clears the
// constraint.
func (w *Window) SetMaxSize(ctx context.Context, size dpi.Size) error {
	if size == nil {
		return w.command(ctx, CommandSetMaxSize, nil)
	}
	tagged, err := dpi.EncodeSize(size)
	if err != nil {
		return err
	}
	return w.command(ctx, CommandSetMaxSize, tagged)
}

// SetPosition moves the window. The position must be a dpi.LogicalPosition
// or dpi.PhysicalPosition; anything else fails before reaching the host.
func (w *Window) SetPosition(ctx context.Context, pos dpi.Position) error {
	tagged, err := dpi.EncodePosition(pos)
	if err != nil {
		return err
	}
	return w.command(ctx, CommandSetPosition, tagged)
}

// SetFullscreen enters or leaves fullscreen.
func (w *Window) SetFullscreen(ctx context.Context, fullscreen bool) error {
	return w.command(ctx, CommandSetFullscreen, fullscreen)
}

// SetFocus brings the window to the front and gives it input focus.
func (w *Window) SetFocus(ctx context.Context) error {
	return w.command(ctx, CommandSetFocus, nil)
}

// SetIcon changes the window icon.
func (w *Window) SetIcon(ctx context.Context, icon Icon) error {
	if err := icon.validate(); err != nil {
		return err
	}
	return w.command(ctx, CommandSetIcon, icon)
}

// SetSkipTaskbar removes or restores the window's taskbar entry.
func (w *Window) SetSkipTaskbar(ctx context.Context, skip bool) error {
	return w.command(ctx, CommandSetSkipTaskbar, skip)
}

// SetCursorGrab confines the cursor to the window.
func (w *Window) SetCursorGrab(ctx context.Context, grab bool) error {
	return w.command(ctx, CommandSetCursorGrab, grab)
}

// SetCursorVisible shows or hides the cursor while over the window.
func (w *Window) SetCursorVisible(ctx context.Context, visible bool) error {
	return w.command(ctx, CommandSetCursorVisible, visible)
}

// SetCursorIcon changes the cursor shape while over the window.
func (w *Window) SetCursorIcon(ctx context.Context, icon CursorIcon) error {
	return w.command(ctx, CommandSetCursorIcon, string(icon))
}

// SetCursorPosition warps the cursor. The position must be a
// dpi.LogicalPosition or dpi.PhysicalPosition; anything else fails before
// reaching the host.
func (w *Window) SetCursorPosition(ctx context.Context, pos dpi.Position) error {
	tagged, err := dpi.EncodePosition(pos)
	if err != nil {
		return err
	}
	return w.command(ctx, CommandSetCursorPosition, tagged)
}

// SetIgnoreCursorEvents makes the window transparent to mouse input.
func (w *Window) SetIgnoreCursorEvents(ctx context.Context, ignore bool) error {
	return w.command(ctx, CommandSetIgnoreCursor, ignore)
}

// StartDragging begins a user-driven window move, typically from a custom
// title bar's mouse-down handler.
func (w *Window) StartDragging(ctx context.Context) error {
	return w.command(ctx, CommandStartDragging, nil)
}

// StartResizeDragging begins a user-driven resize from the given edge or
// corner.
func (w *Window) StartResizeDragging(ctx context.Context, dir ResizeDirection) error {
	return w.command(ctx, CommandStartResizeDragging, string(dir))
}

// SetProgressBar updates the taskbar progress indicator.
func (w *Window) SetProgressBar(ctx context.Context, state ProgressBarState) error {
	return w.command(ctx, CommandSetProgressBar, state)
}

// CurrentMonitor returns the monitor the window is on, or nil when the host
// cannot tell.
func (w *Window) CurrentMonitor(ctx context.Context) (*Monitor, error) {
	var out *Monitor
	err := w.query(ctx, CommandCurrentMonitor, &out)
	return out, err
}

// PrimaryMonitor returns the system's primary monitor, or nil when there is
// none.
func (w *Window) PrimaryMonitor(ctx context.Context) (*Monitor, error) {
	var out *Monitor
	err := w.query(ctx, CommandPrimaryMonitor, &out)
	return out, err
}

// AvailableMonitors returns every monitor the host knows about.
func (w *Window) AvailableMonitors(ctx context.Context) ([]Monitor, error) {
	var out []Monitor
	err := w.query(ctx, CommandAvailableMonitors, &out)
	return out, err
}
