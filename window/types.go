package window

// Theme is the host's light/dark appearance.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UserAttentionType selects how strongly RequestUserAttention signals.
// The numeric values are part of the wire format.
type UserAttentionType int

const (
	// UserAttentionCritical bounces the dock icon (macOS) or flashes the
	// taskbar button (Windows) until the window regains focus.
	UserAttentionCritical UserAttentionType = 1

	// UserAttentionInformational signals once and stops on its own.
	UserAttentionInformational UserAttentionType = 2
)

// ProgressBarStatus is the taskbar progress indicator mode.
type ProgressBarStatus string

const (
	ProgressBarNone          ProgressBarStatus = "none"
	ProgressBarNormal        ProgressBarStatus = "normal"
	ProgressBarIndeterminate ProgressBarStatus = "indeterminate"
	ProgressBarPaused        ProgressBarStatus = "paused"
	ProgressBarError         ProgressBarStatus = "error"
)

// ProgressBarState is the value passed to SetProgressBar.
type ProgressBarState struct {
	Status   ProgressBarStatus `json:"status,omitempty"`
	Progress int               `json:"progress"`
}

// ResizeDirection names the edge or corner a programmatic resize drag grabs.
type ResizeDirection string

const (
	ResizeEast      ResizeDirection = "East"
	ResizeNorth     ResizeDirection = "North"
	ResizeNorthEast ResizeDirection = "NorthEast"
	ResizeNorthWest ResizeDirection = "NorthWest"
	ResizeSouth     ResizeDirection = "South"
	ResizeSouthEast ResizeDirection = "SouthEast"
	ResizeSouthWest ResizeDirection = "SouthWest"
	ResizeWest      ResizeDirection = "West"
)

// TitleBarStyle is the macOS title bar treatment requested at creation.
type TitleBarStyle string

const (
	TitleBarVisible     TitleBarStyle = "visible"
	TitleBarTransparent TitleBarStyle = "transparent"
	TitleBarOverlay     TitleBarStyle = "overlay"
)

// CursorIcon names a native cursor shape.
type CursorIcon string

const (
	CursorDefault      CursorIcon = "default"
	CursorCrosshair    CursorIcon = "crosshair"
	CursorHand         CursorIcon = "hand"
	CursorArrow        CursorIcon = "arrow"
	CursorMove         CursorIcon = "move"
	CursorText         CursorIcon = "text"
	CursorWait         CursorIcon = "wait"
	CursorHelp         CursorIcon = "help"
	CursorProgress     CursorIcon = "progress"
	CursorNotAllowed   CursorIcon = "notAllowed"
	CursorContextMenu  CursorIcon = "contextMenu"
	CursorCell         CursorIcon = "cell"
	CursorVerticalText CursorIcon = "verticalText"
	CursorAlias        CursorIcon = "alias"
	CursorCopy         CursorIcon = "copy"
	CursorNoDrop       CursorIcon = "noDrop"
	CursorGrab         CursorIcon = "grab"
	CursorGrabbing     CursorIcon = "grabbing"
	CursorAllScroll    CursorIcon = "allScroll"
	CursorZoomIn       CursorIcon = "zoomIn"
	CursorZoomOut      CursorIcon = "zoomOut"
	CursorEResize      CursorIcon = "eResize"
	CursorNResize      CursorIcon = "nResize"
	CursorNEResize     CursorIcon = "neResize"
	CursorNWResize     CursorIcon = "nwResize"
	CursorSResize      CursorIcon = "sResize"
	CursorSEResize     CursorIcon = "seResize"
	CursorSWResize     CursorIcon = "swResize"
	CursorWResize      CursorIcon = "wResize"
	CursorEWResize     CursorIcon = "ewResize"
	CursorNSResize     CursorIcon = "nsResize"
	CursorNESWResize   CursorIcon = "neswResize"
	CursorNWSEResize   CursorIcon = "nwseResize"
	CursorColResize    CursorIcon = "colResize"
	CursorRowResize    CursorIcon = "rowResize"
)

// Icon is a window or taskbar icon, given either as a path the host resolves
// or as raw RGBA bytes.
type Icon struct {
	Path string `json:"path,omitempty"`
	Data []byte `json:"data,omitempty"`
}

func (i Icon) validate() error {
	if (i.Path == "") == (len(i.Data) == 0) {
		return ErrInvalidIcon
	}
	return nil
}
