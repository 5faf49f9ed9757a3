package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const configRelPath = "flickboard/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Input      InputConfig      `toml:"input"`
	Puzzles    PuzzlesConfig    `toml:"puzzles"`
	Logging    LoggingConfig    `toml:"logging"`

	// Keybindings maps an action to its keys; missing actions keep their defaults.
	Keybindings map[string][]string `toml:"keybindings"`
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	Theme     string `toml:"theme"`      // Color theme name (e.g., dracula, nord, my-custom-theme)
	ASCIIOnly bool   `toml:"ascii_only"` // Use ASCII borders instead of box drawing characters
	ShowGuide *bool  `toml:"show_guide"` // Show the flick guide while a key is held (default: true)
}

// InputConfig holds pointer scaling settings.
// Terminals report cells; gestures are measured in virtual pixels.
type InputConfig struct {
	CellWidthPx      float64 `toml:"cell_width_px"`      // Pixel width of one cell (default: 10)
	CellHeightPx     float64 `toml:"cell_height_px"`     // Pixel height of one cell (default: 20)
	FlickThresholdPx float64 `toml:"flick_threshold_px"` // Distance before a flick leaves center (default: 30)
}

// PuzzlesConfig points at an optional puzzle pack.
type PuzzlesConfig struct {
	PackPath string `toml:"pack_path"` // TOML puzzle pack; empty uses the built-in pack
}

// LoggingConfig controls the debug log file.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error (default: info)
	File  string `toml:"file"`  // Log file path (default: $XDG_STATE_HOME/flickboard/flickboard.log)
}

// ValidationIssue is a single problem found in the user config.
type ValidationIssue struct {
	Field   string
	Key     string
	Message string
}

// ValidationResult collects errors and warnings from ValidateConfig.
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether validation found fatal problems.
func (v ValidationResult) HasErrors() bool { return len(v.Errors) > 0 }

// HasWarnings reports whether validation found non-fatal problems.
func (v ValidationResult) HasWarnings() bool { return len(v.Warnings) > 0 }

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	showGuide := true
	return &UserConfig{
		Appearance: AppearanceConfig{
			Theme:     "",
			ASCIIOnly: false,
			ShowGuide: &showGuide,
		},
		Input: InputConfig{
			CellWidthPx:      DefaultCellWidthPx,
			CellHeightPx:     DefaultCellHeightPx,
			FlickThresholdPx: FlickThreshold,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Keybindings: DefaultKeybindings(),
	}
}

// GetConfigPath returns the path of the config file, whether or not it exists.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(configRelPath)
}

// GetLogPath returns the default debug log path.
func GetLogPath() (string, error) {
	return xdg.StateFile("flickboard/flickboard.log")
}

// LoadUserConfig loads the user configuration from XDG config directory
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		// Config doesn't exist, create default
		return createDefaultConfig()
	}
	return LoadUserConfigFile(configPath)
}

// LoadUserConfigFile parses and validates a config file at an explicit path.
func LoadUserConfigFile(configPath string) (*UserConfig, error) {
	// #nosec G304 - configPath is from XDG search or an explicit flag
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillMissing(&cfg, DefaultConfig())

	validation := ValidateConfig(&cfg)
	if validation.HasErrors() {
		for _, e := range validation.Errors {
			fmt.Fprintf(os.Stderr, "Config error in [%s]: %s - %s\n", e.Field, e.Key, e.Message)
		}
		return nil, fmt.Errorf("configuration has %d error(s), please fix and restart", len(validation.Errors))
	}

	return &cfg, nil
}

// SaveUserConfig writes cfg to the XDG config path.
func SaveUserConfig(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return writeConfig(configPath, cfg)
}

// createDefaultConfig creates a default config file in the user's config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()
	if err := SaveUserConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeConfig(configPath string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# flickboard configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n")
	sb.WriteString("#\n")
	sb.WriteString("# [appearance] theme: bubbletint theme id, empty for terminal colors\n")
	sb.WriteString("# [input] cell_width_px / cell_height_px: pixel size of one terminal cell.\n")
	sb.WriteString("#   Flick and long-press thresholds are measured in these pixels.\n")
	sb.WriteString("# [puzzles] pack_path: TOML puzzle pack, empty for the built-in pack\n\n")
	sb.Write(data)

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fillMissing fills zero-valued settings with defaults
func fillMissing(cfg, defaultCfg *UserConfig) {
	if cfg.Appearance.ShowGuide == nil {
		cfg.Appearance.ShowGuide = defaultCfg.Appearance.ShowGuide
	}
	if cfg.Input.CellWidthPx == 0 {
		cfg.Input.CellWidthPx = defaultCfg.Input.CellWidthPx
	}
	if cfg.Input.CellHeightPx == 0 {
		cfg.Input.CellHeightPx = defaultCfg.Input.CellHeightPx
	}
	if cfg.Input.FlickThresholdPx == 0 {
		cfg.Input.FlickThresholdPx = defaultCfg.Input.FlickThresholdPx
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultCfg.Logging.Level
	}
	if cfg.Keybindings == nil {
		cfg.Keybindings = defaultCfg.Keybindings
	}
}

// ValidateConfig checks ranges and enumerations in cfg.
func ValidateConfig(cfg *UserConfig) ValidationResult {
	var result ValidationResult

	if cfg.Input.CellWidthPx < 0 {
		result.Errors = append(result.Errors, ValidationIssue{"input", "cell_width_px", "must be positive"})
	}
	if cfg.Input.CellHeightPx < 0 {
		result.Errors = append(result.Errors, ValidationIssue{"input", "cell_height_px", "must be positive"})
	}
	if cfg.Input.FlickThresholdPx < 0 {
		result.Errors = append(result.Errors, ValidationIssue{"input", "flick_threshold_px", "must be positive"})
	}
	if cfg.Input.FlickThresholdPx >= LongPressSlop {
		result.Warnings = append(result.Warnings, ValidationIssue{"input", "flick_threshold_px",
			fmt.Sprintf("flicks shorter than the %.0fpx long-press slop never leave center", LongPressSlop)})
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		result.Errors = append(result.Errors, ValidationIssue{"logging", "level",
			fmt.Sprintf("unknown level %q (debug, info, warn, error)", cfg.Logging.Level)})
	}

	if cfg.Puzzles.PackPath != "" {
		if _, err := os.Stat(cfg.Puzzles.PackPath); err != nil {
			result.Warnings = append(result.Warnings, ValidationIssue{"puzzles", "pack_path",
				fmt.Sprintf("cannot stat %s, the built-in pack will be used", cfg.Puzzles.PackPath)})
		}
	}

	result.Warnings = append(result.Warnings, validateKeybindings(cfg.Keybindings)...)

	return result
}
