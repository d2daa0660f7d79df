package window

// Host event names. These strings are the compatibility surface shared with
// Tauri-style hosts and must not change.
const (
	EventResized           = "tauri://resize"
	EventMoved             = "tauri://move"
	EventCloseRequested    = "tauri://close-requested"
	EventDestroyed         = "tauri://destroyed"
	EventFocus             = "tauri://focus"
	EventBlur              = "tauri://blur"
	EventScaleChanged      = "tauri://scale-change"
	EventThemeChanged      = "tauri://theme-changed"
	EventFileDrop          = "tauri://file-drop"
	EventFileDropHover     = "tauri://file-drop-hover"
	EventFileDropCancelled = "tauri://file-drop-cancelled"
	EventMenu              = "tauri://menu"
	EventWindowCreated     = "tauri://window-created"
)

// Local event names: creation-lifecycle signals served from the handle's own
// listener table, never from the host bus.
const (
	EventCreated = "tauri://created"
	EventError   = "tauri://error"
)

// isLocalEvent reports whether name is one of the two reserved local events.
// Every other name, including other "tauri://" names, belongs to the bus.
func isLocalEvent(name string) bool {
	return name == EventCreated || name == EventError
}

// ValidLabel reports whether label is usable as a window identifier:
// non-empty and limited to alphanumerics, '-', '/', ':' and '_'.
func ValidLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-', r == '/', r == ':', r == '_':
		default:
			return false
		}
	}
	return true
}
