package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	tint "github.com/lrstanley/bubbletint/v2"
)

// GetThemesDir returns the custom themes directory
// ($XDG_CONFIG_HOME/flickboard/themes), creating it when missing.
func GetThemesDir() (string, error) {
	keep, err := xdg.ConfigFile("flickboard/themes/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get themes directory: %w", err)
	}
	return filepath.Dir(keep), nil
}

// LoadCustomThemes registers every *.json tint in dir with bubbletint and
// returns the IDs it loaded. Bad files are skipped; their errors are joined
// into the returned error so startup can carry on.
func LoadCustomThemes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	var (
		loaded []string
		errs   []error
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		t, err := LoadCustomThemeFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		tint.Register(t)
		loaded = append(loaded, t.ID)
	}
	return loaded, errors.Join(errs...)
}

// LoadCustomThemeFile reads one bubbletint JSON theme. The ID defaults to the
// lower-cased file name and missing colors are filled in, so a theme may
// define as little as fg and bg.
func LoadCustomThemeFile(path string) (*tint.Tint, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- themes live in the user's config directory
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var t tint.Tint
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse theme JSON: %w", err)
	}

	if t.ID == "" {
		t.ID = strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	if t.ID == "" {
		return nil, errors.New("theme has no ID")
	}
	if t.DisplayName == "" {
		t.DisplayName = t.ID
	}

	fillDefaults(&t)
	return &t, nil
}

// fillDefaults sets nil colors. Base colors fall back to xterm values; the
// cursor falls back to fg and every bright color to its normal variant.
func fillDefaults(t *tint.Tint) {
	base := []struct {
		c   **tint.Color
		hex string
	}{
		{&t.Fg, "#e5e5e5"},
		{&t.Bg, "#000000"},
		{&t.Black, "#000000"},
		{&t.Red, "#cd0000"},
		{&t.Green, "#00cd00"},
		{&t.Yellow, "#cdcd00"},
		{&t.Blue, "#0000ee"},
		{&t.Purple, "#cd00cd"},
		{&t.Cyan, "#00cdcd"},
		{&t.White, "#e5e5e5"},
	}
	for _, b := range base {
		if *b.c == nil {
			*b.c = tint.FromHex(b.hex)
		}
	}

	derived := []struct {
		c, from **tint.Color
	}{
		{&t.Cursor, &t.Fg},
		{&t.BrightBlack, &t.Black},
		{&t.BrightRed, &t.Red},
		{&t.BrightGreen, &t.Green},
		{&t.BrightYellow, &t.Yellow},
		{&t.BrightBlue, &t.Blue},
		{&t.BrightPurple, &t.Purple},
		{&t.BrightCyan, &t.Cyan},
		{&t.BrightWhite, &t.White},
	}
	for _, d := range derived {
		if *d.c == nil {
			dup := **d.from
			*d.c = &dup
		}
	}
}
