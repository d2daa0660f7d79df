package window

// Options is the configuration sent with a window creation request. The zero
// value asks the host for all its defaults.
type Options struct {
	// URL is the content the window loads, on hosts that pair windows with
	// webviews.
	URL string `json:"url,omitempty"`

	// Center takes precedence over X and Y.
	Center bool     `json:"center,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`

	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	MinWidth  float64 `json:"minWidth,omitempty"`
	MinHeight float64 `json:"minHeight,omitempty"`
	MaxWidth  float64 `json:"maxWidth,omitempty"`
	MaxHeight float64 `json:"maxHeight,omitempty"`

	Title       string `json:"title,omitempty"`
	Fullscreen  bool   `json:"fullscreen,omitempty"`
	Maximized   bool   `json:"maximized,omitempty"`
	Transparent bool   `json:"transparent,omitempty"`

	// Switches the host defaults to true use pointers so an explicit false
	// survives encoding; leave nil to accept the default.
	Resizable       *bool `json:"resizable,omitempty"`
	Maximizable     *bool `json:"maximizable,omitempty"`
	Minimizable     *bool `json:"minimizable,omitempty"`
	Closable        *bool `json:"closable,omitempty"`
	Decorations     *bool `json:"decorations,omitempty"`
	Focus           *bool `json:"focus,omitempty"`
	Visible         *bool `json:"visible,omitempty"`
	Shadow          *bool `json:"shadow,omitempty"`
	FileDropEnabled *bool `json:"fileDropEnabled,omitempty"`

	AlwaysOnTop      bool `json:"alwaysOnTop,omitempty"`
	AlwaysOnBottom   bool `json:"alwaysOnBottom,omitempty"`
	ContentProtected bool `json:"contentProtected,omitempty"`
	SkipTaskbar      bool `json:"skipTaskbar,omitempty"`

	Theme             Theme         `json:"theme,omitempty"`
	TitleBarStyle     TitleBarStyle `json:"titleBarStyle,omitempty"`
	HiddenTitle       bool          `json:"hiddenTitle,omitempty"`
	AcceptFirstMouse  bool          `json:"acceptFirstMouse,omitempty"`
	TabbingIdentifier string        `json:"tabbingIdentifier,omitempty"`
	UserAgent         string        `json:"userAgent,omitempty"`

	Effects *EffectsConfig `json:"effects,omitempty"`
}

// Bool returns a pointer to v, for the Options switches that distinguish
// unset from false.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v, for optional coordinates.
func Float(v float64) *float64 { return &v }
