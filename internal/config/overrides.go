package config

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// ASCIIOnly uses ASCII borders
	ASCIIOnly bool

	// NoGuide hides the flick guide
	NoGuide bool

	// ThemeName is the theme to load
	ThemeName string

	// CellWidthPx overrides the pixel width of a cell (0 means use config)
	CellWidthPx float64

	// CellHeightPx overrides the pixel height of a cell (0 means use config)
	CellHeightPx float64
}

// ApplyOverrides applies CLI flag overrides to global config, falling back to user config defaults.
// If userConfig is nil, only CLI flag values (when set) are applied.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	// ASCII Only - OR of CLI flag and user config
	UseASCIIOnly = overrides.ASCIIOnly || (userConfig != nil && userConfig.Appearance.ASCIIOnly)

	// Guide - disabled by flag, otherwise from user config
	if overrides.NoGuide {
		ShowFlickGuide = false
	} else if userConfig != nil && userConfig.Appearance.ShowGuide != nil {
		ShowFlickGuide = *userConfig.Appearance.ShowGuide
	}

	// Cell size - CLI flag takes precedence, otherwise use user config
	if overrides.CellWidthPx > 0 {
		CellWidthPx = overrides.CellWidthPx
	} else if userConfig != nil && userConfig.Input.CellWidthPx > 0 {
		CellWidthPx = userConfig.Input.CellWidthPx
	}
	if overrides.CellHeightPx > 0 {
		CellHeightPx = overrides.CellHeightPx
	} else if userConfig != nil && userConfig.Input.CellHeightPx > 0 {
		CellHeightPx = userConfig.Input.CellHeightPx
	}

	if userConfig != nil && userConfig.Input.FlickThresholdPx > 0 {
		FlickThresholdPx = userConfig.Input.FlickThresholdPx
	}

	if userConfig != nil {
		Keybindings = mergeKeybindings(userConfig.Keybindings)
	} else {
		Keybindings = DefaultKeybindings()
	}

	// Theme - CLI flag takes precedence, otherwise use user config
	ThemeName = overrides.ThemeName
	if ThemeName == "" && userConfig != nil {
		ThemeName = userConfig.Appearance.Theme
	}
}
