package tape

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Player steps through a script, expanding composite commands as it goes.
// It never sleeps itself: Step returns the wait and the caller decides how
// time passes, on the wall clock in the app or on a virtual clock in Run.
type Player struct {
	script  []Command
	index   int
	queue   []Command
	current Command
	exec    *CommandExecutor
	logger  *log.Logger
}

// NewPlayer creates a player for script.
func NewPlayer(script []Command, executor Executor, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		script: script,
		exec:   NewCommandExecutor(executor),
		logger: logger.WithPrefix("tape"),
	}
}

// Executor returns the command executor, for pointer state.
func (p *Player) Executor() *CommandExecutor { return p.exec }

// Done reports whether every command has run.
func (p *Player) Done() bool {
	return len(p.queue) == 0 && p.index >= len(p.script)
}

// Progress returns the number of script lines started and the total.
func (p *Player) Progress() (int, int) { return p.index, len(p.script) }

// Current returns the script command being played.
func (p *Player) Current() Command { return p.current }

// Step runs commands until one asks for a wait or the script ends. It
// returns the wait before the next Step; done is true once the script ended.
func (p *Player) Step() (wait time.Duration, done bool, err error) {
	for {
		if len(p.queue) == 0 {
			if p.index >= len(p.script) {
				return 0, true, nil
			}
			p.current = p.script[p.index]
			p.index++
			p.queue, err = Expand(p.current)
			if err != nil {
				return 0, false, err
			}
			p.logger.Debug("command", "line", p.current.Line, "cmd", p.current.String())
		}

		cmd := p.queue[0]
		p.queue = p.queue[1:]
		wait, err = p.exec.Execute(&cmd)
		if err != nil {
			return 0, false, err
		}
		if wait > 0 {
			return wait, p.Done(), nil
		}
	}
}

// Run plays the whole script, calling advance for every wait. advance is
// expected to move the executor's clock forward by d.
func Run(ctx context.Context, p *Player, advance func(d time.Duration)) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tape interrupted: %w", err)
		}
		wait, done, err := p.Step()
		if err != nil {
			return err
		}
		if wait > 0 {
			advance(wait)
		}
		if done {
			return nil
		}
	}
}
