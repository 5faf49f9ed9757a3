// Package main implements flickboard, a terminal puzzle game played on a
// Japanese flick keyboard whose keys can be long-pressed and dragged around
// the screen.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode    bool
	asciiOnly    bool
	noGuide      bool
	themeName    string
	listThemes   bool
	previewTheme string
	puzzlesPath  string
	cellWidth    float64
	cellHeight   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flickboard",
		Short: "Flick keyboard puzzle game",
		Long: `flickboard - a puzzle game on a flick keyboard

Tap a key to type its center kana, or press and flick towards one of the four
directions for the others. Hold a key for two seconds and it comes loose: drag
it into the puzzle image or the input field and it stays there.`,
		Example: `  # Play
  flickboard

  # Play with a theme and ASCII borders
  flickboard --theme dracula --ascii-only

  # Play your own puzzles
  flickboard --puzzles ~/puzzles.toml

  # Replay a recorded tape without a terminal UI
  flickboard replay demo.tape --headless

  # Edit configuration
  flickboard config edit`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if previewTheme != "" {
				return previewThemeColors(previewTheme)
			}
			if listThemes {
				return printThemes()
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&asciiOnly, "ascii-only", false, "Use ASCII borders and icons")
	rootCmd.PersistentFlags().BoolVar(&noGuide, "no-guide", false, "Hide the flick guide while a key is held")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord). Leave empty for standard terminal colors")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&previewTheme, "preview-theme", "", "Preview a theme's 16 ANSI colors")
	rootCmd.PersistentFlags().StringVar(&puzzlesPath, "puzzles", "", "TOML puzzle pack (default: from config or built-in)")
	rootCmd.PersistentFlags().Float64Var(&cellWidth, "cell-width", 0, "Pixel width of one terminal cell (default: from config or 10)")
	rootCmd.PersistentFlags().Float64Var(&cellHeight, "cell-height", 0, "Pixel height of one terminal cell (default: from config or 20)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage flickboard configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print configuration file path",
			RunE: func(_ *cobra.Command, _ []string) error {
				return printConfigPath()
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			Long: `Open the configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi and nano in that order.`,
			RunE: func(_ *cobra.Command, _ []string) error {
				return editConfigFile()
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Reset configuration to defaults",
			RunE: func(_ *cobra.Command, _ []string) error {
				return resetConfigToDefaults()
			},
		},
		&cobra.Command{
			Use:   "keybinds",
			Short: "List the active keybindings",
			RunE: func(_ *cobra.Command, _ []string) error {
				return listKeybindings()
			},
		},
	)

	var headless bool
	replayCmd := &cobra.Command{
		Use:   "replay <file.tape>",
		Short: "Play a tape file",
		Long: `Play a .tape script against the board

By default the TUI is shown and the script runs in real time; ctrl+x stops
it and p pauses it. With --headless the script runs on a virtual clock
without a terminal UI and the final board state is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, err := resolveTape(args[0])
			if err != nil {
				return err
			}
			return runReplay(path, headless)
		},
	}
	replayCmd.Flags().BoolVar(&headless, "headless", false, "Run without the TUI on a virtual clock")

	tapeCmd := &cobra.Command{
		Use:   "tape",
		Short: "Manage recorded tapes",
	}
	tapeCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved tapes",
			RunE: func(_ *cobra.Command, _ []string) error {
				return listTapeFiles()
			},
		},
		&cobra.Command{
			Use:   "dir",
			Short: "Show the tape directory path",
			RunE: func(_ *cobra.Command, _ []string) error {
				return showTapeDirectory()
			},
		},
		&cobra.Command{
			Use:   "validate <file.tape>",
			Short: "Check a tape file without running it",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return validateTapeFile(args[0])
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print a saved tape",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return showTapeFile(args[0])
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a saved tape",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return deleteTapeFile(args[0])
			},
		},
	)

	rootCmd.AddCommand(configCmd, replayCmd, tapeCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func printThemes() error {
	if err := theme.Initialize("default", nil); err != nil {
		return fmt.Errorf("failed to initialize themes: %w", err)
	}
	for _, id := range tint.TintIDs() {
		fmt.Println(id)
	}
	return nil
}

func previewThemeColors(name string) error {
	if err := theme.Initialize(name, nil); err != nil {
		return fmt.Errorf("failed to initialize theme: %w", err)
	}
	if t := theme.Current(); t == nil || !strings.EqualFold(t.ID, name) {
		return fmt.Errorf("unknown theme: %s", name)
	}

	palette := theme.Palette()
	var rows [2]strings.Builder
	for i, c := range palette {
		swatch := lipgloss.NewStyle().
			Background(c).
			Foreground(theme.Bg()).
			Width(6).
			Align(lipgloss.Center).
			Render(fmt.Sprint(i))
		rows[i/8].WriteString(swatch)
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Title()).Render(name)
	sample := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.KeyBorder()).
		Foreground(theme.KeyLabel()).
		Padding(0, 2).
		Render("あ")
	lipgloss.Println(lipgloss.JoinVertical(lipgloss.Left, title, rows[0].String(), rows[1].String(), sample))
	return nil
}

func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func findEditor() (string, error) {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := os.Getenv(env); e != "" {
			return e, nil
		}
	}
	for _, e := range []string{"vim", "vi", "nano"} {
		if path, err := exec.LookPath(e); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no editor found, set $EDITOR")
}

func editConfigFile() error {
	// Creates the file with defaults when missing.
	if _, err := config.LoadUserConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	editor, err := findEditor()
	if err != nil {
		return err
	}
	parts := strings.Fields(editor)
	// #nosec G204 - the editor is chosen by the user
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	if _, err := config.LoadUserConfigFile(path); err != nil {
		return fmt.Errorf("config saved but invalid: %w", err)
	}
	return nil
}

func resetConfigToDefaults() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("refusing to reset %s without a terminal to confirm on", path)
	}
	fmt.Printf("This will overwrite %s with the defaults. Continue? [y/N] ", path)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
		fmt.Println("Cancelled")
		return nil
	}
	if err := config.SaveUserConfig(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Println("Configuration reset")
	return nil
}

func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		return err
	}
	config.ApplyOverrides(config.Overrides{}, userConfig)

	actions := make([]string, 0, len(config.Keybindings))
	for action := range config.Keybindings {
		actions = append(actions, action)
	}
	slices.Sort(actions)

	keyStyle := lipgloss.NewStyle().Bold(true)
	for _, action := range actions {
		lipgloss.Printf("  %-22s %s\n", action, keyStyle.Render(strings.Join(config.Keybindings[action], ", ")))
	}
	return nil
}
