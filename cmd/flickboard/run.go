package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/flickboard/internal/app"
	"github.com/Gaurav-Gosain/flickboard/internal/board"
	"github.com/Gaurav-Gosain/flickboard/internal/config"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/input"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
	"github.com/Gaurav-Gosain/flickboard/internal/tape"
	"github.com/Gaurav-Gosain/flickboard/internal/theme"
)

// headlessWidth and headlessHeight size the virtual terminal used by
// replay --headless.
const (
	headlessWidth  = 80
	headlessHeight = 40
)

// session is everything a run needs after config and flags are resolved.
type session struct {
	logger  *log.Logger
	pack    *puzzle.Pack
	closeFn func()
}

func (s *session) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// prepare loads the user config, applies the CLI overrides and opens the log.
func prepare() (*session, error) {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		userConfig = config.DefaultConfig()
	}

	config.ApplyOverrides(config.Overrides{
		ASCIIOnly:    asciiOnly,
		NoGuide:      noGuide,
		ThemeName:    themeName,
		CellWidthPx:  cellWidth,
		CellHeightPx: cellHeight,
	}, userConfig)

	logger, closeLog, err := openLogger(userConfig.Logging)
	if err != nil {
		return nil, err
	}

	// Without color there is nothing for a theme to do.
	themeID := config.ThemeName
	switch colorprofile.Detect(os.Stdout, os.Environ()) {
	case colorprofile.Ascii, colorprofile.NoTTY:
		if themeID != "" {
			logger.Debug("no color support, theme disabled", "theme", themeID)
		}
		themeID = ""
	}
	if err := theme.Initialize(themeID, logger); err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to initialize theme: %w", err)
	}

	packPath := puzzlesPath
	if packPath == "" {
		packPath = userConfig.Puzzles.PackPath
	}
	pack, err := loadPack(packPath, logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	if debugMode {
		configPath, _ := config.GetConfigPath()
		logger.Debug("configuration", "path", configPath, "theme", themeID, "pack", pack.Name)
	}

	return &session{logger: logger, pack: pack, closeFn: closeLog}, nil
}

// openLogger opens the debug log file. --debug forces the debug level.
func openLogger(cfg config.LoggingConfig) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if debugMode {
		level = log.DebugLevel
	}

	path := cfg.File
	if path == "" {
		if path, err = config.GetLogPath(); err != nil {
			return nil, nil, fmt.Errorf("failed to resolve log path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - the path comes from the user's own config
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.StampMilli,
		Level:           level,
		Prefix:          "flickboard",
	})
	if debugMode {
		fmt.Printf("Debug mode enabled, logging to %s\n", path)
	}
	return logger, func() { _ = f.Close() }, nil
}

func loadPack(path string, logger *log.Logger) (*puzzle.Pack, error) {
	if path == "" {
		return puzzle.Default()
	}
	pack, err := puzzle.LoadPack(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load puzzle pack: %w", err)
	}
	logger.Info("puzzle pack loaded", "path", path, "name", pack.Name, "puzzles", pack.Len())
	return pack, nil
}

// filterMouseMotion drops hover motion. Motion only matters while a button is
// held, which is when a flick or a drag is being tracked.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	motion, ok := msg.(tea.MouseMotionMsg)
	if !ok {
		return msg
	}
	if motion.Mouse().Button != tea.MouseNone {
		return msg
	}
	if m, ok := model.(*app.Model); ok && m.Board.Busy() {
		return msg
	}
	return nil
}

func runLocal() error {
	return runProgram(nil)
}

// runProgram starts the TUI, optionally playing script once the first frame
// is laid out.
func runProgram(script []tape.Command) error {
	s, err := prepare()
	if err != nil {
		return err
	}
	defer s.Close()

	app.SetInputHandler(input.HandleInput)

	model, err := app.NewModel(app.Options{
		Pack:   s.pack,
		Logger: s.logger,
		Script: script,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(filterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	finalModel, err := p.Run()
	if final, ok := finalModel.(*app.Model); ok {
		final.Cleanup()
		if final.ScriptErr != nil {
			s.logger.Error("tape failed", "err", final.ScriptErr)
		}
	}
	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// runReplay plays a tape file, either in the TUI or headless on a virtual clock.
func runReplay(path string, headless bool) error {
	script, err := tape.ParseFile(path)
	if err != nil {
		return err
	}
	if !headless {
		return runProgram(script)
	}

	s, err := prepare()
	if err != nil {
		return err
	}
	defer s.Close()

	layout, ok := app.ComputeLayout(headlessWidth, headlessHeight)
	if !ok {
		return fmt.Errorf("headless layout %dx%d is too small", headlessWidth, headlessHeight)
	}

	store, err := relocation.NewStore(s.pack.Len())
	if err != nil {
		return fmt.Errorf("creating relocation store: %w", err)
	}
	opts := gesture.DefaultOptions()
	opts.ShowGuide = config.ShowFlickGuide
	b := board.New(store, puzzle.NewProgress(s.pack, s.logger), board.Options{
		Gesture: opts,
		Logger:  s.logger,
		Listener: board.ListenerFunc(func(e board.Event) {
			switch e := e.(type) {
			case board.SubmitAnswer:
				fmt.Printf("submit %q correct=%t\n", e.Text, e.Correct)
			case board.Notice:
				fmt.Printf("notice: %s\n", e.Message)
			case board.Completed:
				fmt.Println("all puzzles cleared")
			}
		}),
	})
	defer b.Close()
	b.SetLayout(app.BoardLayout(layout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	end, err := tape.Headless(ctx, b, script, start, s.logger)

	progress := b.Progress()
	fmt.Printf("%s: %d commands, %s virtual time\n", filepath.Base(path), len(script), end.Sub(start))
	fmt.Printf("screen=%s puzzle=%d/%d cleared=%d relocations=%d text=%q\n",
		progress.Screen(), progress.CurrentPuzzle()+1, progress.Count(),
		progress.ClearedCount(), b.Store().Count(), b.Text())
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	return nil
}

func validateTapeFile(path string) error {
	script, err := tape.ParseFile(path)
	if err != nil {
		return err
	}
	for _, cmd := range script {
		if _, err := tape.Expand(cmd); err != nil {
			return fmt.Errorf("line %d: %w", cmd.Line, err)
		}
	}
	fmt.Printf("%s: %d commands OK\n", path, len(script))
	return nil
}

func listTapeFiles() error {
	dir, err := tape.Directory()
	if err != nil {
		return err
	}
	files, err := tape.ListFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No tapes in %s\n", dir)
		return nil
	}
	fmt.Printf("Tapes in %s:\n", dir)
	for _, f := range files {
		fmt.Printf("  %-32s %8d B  %s\n", f.Name, f.Size, f.Modified.Format("2006-01-02 15:04"))
	}
	return nil
}

func showTapeDirectory() error {
	dir, err := tape.Directory()
	if err != nil {
		return err
	}
	fmt.Println(dir)
	return nil
}

// resolveTape accepts a path or the name of a saved tape.
func resolveTape(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	dir, err := tape.Directory()
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(name, tape.Ext) {
		name += tape.Ext
	}
	path := filepath.Join(dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("tape not found: %s", name)
	}
	return path, nil
}

func showTapeFile(name string) error {
	path, err := resolveTape(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path) // #nosec G304 -- resolved inside the tape directory or given explicitly
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(os.Stdout, f)
	return err
}

func deleteTapeFile(name string) error {
	path, err := resolveTape(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete tape: %w", err)
	}
	fmt.Printf("Deleted %s\n", path)
	return nil
}
