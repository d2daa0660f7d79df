package window

import "github.com/MethodicalGamesInc/tauri/dpi"

// Monitor describes one display as reported by the host. Size and position
// are in physical pixels.
type Monitor struct {
	// Name is the host's identifier for the display, empty when unknown.
	Name        string               `json:"name,omitempty"`
	Size        dpi.PhysicalSize     `json:"size"`
	Position    dpi.PhysicalPosition `json:"position"`
	ScaleFactor float64              `json:"scaleFactor"`
}
