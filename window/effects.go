package window

// Effect is a platform window effect. macOS materials and Windows backdrops
// share one namespace; the host ignores effects the platform cannot do.
type Effect string

const (
	EffectAppearanceBased       Effect = "appearanceBased"
	EffectLight                 Effect = "light"
	EffectDark                  Effect = "dark"
	EffectMediumLight           Effect = "mediumLight"
	EffectUltraDark             Effect = "ultraDark"
	EffectTitlebar              Effect = "titlebar"
	EffectSelection             Effect = "selection"
	EffectMenu                  Effect = "menu"
	EffectPopover               Effect = "popover"
	EffectSidebar               Effect = "sidebar"
	EffectHeaderView            Effect = "headerView"
	EffectSheet                 Effect = "sheet"
	EffectWindowBackground      Effect = "windowBackground"
	EffectHudWindow             Effect = "hudWindow"
	EffectFullScreenUI          Effect = "fullScreenUI"
	EffectTooltip               Effect = "tooltip"
	EffectContentBackground     Effect = "contentBackground"
	EffectUnderWindowBackground Effect = "underWindowBackground"
	EffectUnderPageBackground   Effect = "underPageBackground"
	EffectMica                  Effect = "mica"
	EffectBlur                  Effect = "blur"
	EffectAcrylic               Effect = "acrylic"
	EffectTabbed                Effect = "tabbed"
	EffectTabbedDark            Effect = "tabbedDark"
	EffectTabbedLight           Effect = "tabbedLight"
)

// EffectState controls when a macOS material renders.
type EffectState string

const (
	EffectStateFollowsWindow EffectState = "followsWindowActiveState"
	EffectStateActive        EffectState = "active"
	EffectStateInactive      EffectState = "inactive"
)

// EffectsConfig is the value passed to SetEffects.
type EffectsConfig struct {
	// Effects are tried in order; the first one the platform supports wins.
	Effects []Effect    `json:"effects"`
	State   EffectState `json:"state,omitempty"`
	Radius  float64     `json:"radius,omitempty"`

	// Color tints blur and acrylic backdrops, as #RRGGBB or #RRGGBBAA.
	Color string `json:"color,omitempty"`
}
