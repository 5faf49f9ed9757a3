package tape

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnknownCommand is returned for a line starting with an unknown word.
var ErrUnknownCommand = errors.New("unknown command")

// Parse parses a script. Every malformed line is reported.
func Parse(src string) ([]Command, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	var (
		cmds []Command
		errs []error
		line []Token
	)
	flush := func() {
		if len(line) == 0 {
			return
		}
		cmd, err := parseLine(line)
		if err != nil {
			errs = append(errs, err)
		} else {
			cmds = append(cmds, cmd)
		}
		line = line[:0]
	}
	for _, tok := range toks {
		switch tok.Type {
		case TokenNewline, TokenEOF:
			flush()
		default:
			line = append(line, tok)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cmds, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) ([]Command, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied script path
	if err != nil {
		return nil, fmt.Errorf("failed to read tape: %w", err)
	}
	cmds, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cmds, nil
}

func parseLine(toks []Token) (Command, error) {
	head := toks[0]
	if head.Type != TokenWord {
		return Command{}, fmt.Errorf("line %d: expected a command, got string %q", head.Line, head.Value)
	}
	t, ok := lookupCommand(head.Value)
	if !ok {
		return Command{}, fmt.Errorf("line %d: %w %q", head.Line, ErrUnknownCommand, head.Value)
	}

	args := make([]string, 0, len(toks)-1)
	for _, tok := range toks[1:] {
		args = append(args, tok.Value)
	}
	bounds := arity[t]
	if len(args) < bounds[0] || len(args) > bounds[1] {
		if bounds[0] == bounds[1] {
			return Command{}, fmt.Errorf("line %d: %s takes %d argument(s), got %d", head.Line, t, bounds[0], len(args))
		}
		return Command{}, fmt.Errorf("line %d: %s takes %d to %d arguments, got %d", head.Line, t, bounds[0], bounds[1], len(args))
	}
	return Command{Type: t, Args: args, Line: head.Line}, nil
}
