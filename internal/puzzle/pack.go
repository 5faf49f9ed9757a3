// Package puzzle provides the puzzle pack and the player's progress through it:
// the current puzzle, which puzzles are cleared, and the timed feedback and
// transitions between them.
package puzzle

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultPack []byte

// ErrEmptyPack is returned for a pack without puzzles.
var ErrEmptyPack = errors.New("puzzle pack has no puzzles")

// Puzzle is one entry of a pack.
type Puzzle struct {
	Title  string `toml:"title"`
	Answer string `toml:"answer"`
	Hint   string `toml:"hint"`
	// Image is the text picture shown in the viewer.
	Image string `toml:"image"`
}

// Pack is an ordered list of puzzles.
type Pack struct {
	Name    string   `toml:"name"`
	Puzzles []Puzzle `toml:"puzzle"`
}

// Len returns the number of puzzles.
func (p *Pack) Len() int { return len(p.Puzzles) }

// Default returns the built-in pack.
func Default() (*Pack, error) {
	return Parse(defaultPack)
}

// LoadPack reads a pack from a TOML file.
func LoadPack(path string) (*Pack, error) {
	// #nosec G304 - path comes from the user's config or a CLI flag
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle pack: %w", err)
	}
	pack, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pack, nil
}

// Parse decodes and validates a TOML pack.
func Parse(data []byte) (*Pack, error) {
	var pack Pack
	if err := toml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse puzzle pack: %w", err)
	}
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	for i := range pack.Puzzles {
		p := &pack.Puzzles[i]
		p.Image = strings.Trim(p.Image, "\n")
		if p.Title == "" {
			p.Title = fmt.Sprintf("謎%d", i+1)
		}
	}
	return &pack, nil
}

// Validate checks that the pack has puzzles and every puzzle has an answer.
func (p *Pack) Validate() error {
	if len(p.Puzzles) == 0 {
		return ErrEmptyPack
	}
	var errs []error
	for i, pz := range p.Puzzles {
		if strings.TrimSpace(pz.Answer) == "" {
			errs = append(errs, fmt.Errorf("puzzle %d has no answer", i+1))
		}
	}
	return errors.Join(errs...)
}
