package relocation

import (
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
)

var (
	// ErrPuzzleOutOfRange is returned for puzzle indexes outside [0, Len()).
	ErrPuzzleOutOfRange = errors.New("puzzle index out of range")
	// ErrNotFound is returned by Get when the key has no record in the puzzle.
	ErrNotFound = errors.New("no relocation for key")
	// ErrRatioOutOfRange flags a record whose ratio magnitude is not below 1.
	ErrRatioOutOfRange = errors.New("relocation ratio out of range")
	// ErrInvalidPuzzleCount is returned by NewStore for a non-positive count.
	ErrInvalidPuzzleCount = errors.New("puzzle count must be positive")
)

// Entry is one relocated key in a puzzle.
type Entry struct {
	Key       keyboard.Key
	Placement Placement
}

// Op identifies a store mutation.
type Op int

const (
	OpSave Op = iota
	OpRemove
	OpReset
)

func (o Op) String() string {
	switch o {
	case OpSave:
		return "save"
	case OpRemove:
		return "remove"
	case OpReset:
		return "reset"
	}
	return "unknown"
}

// Change describes a mutation delivered to subscribers. Puzzle is -1 for resets.
type Change struct {
	Op     Op
	Puzzle int
	Key    keyboard.Key
}

// Store maps each puzzle to an ordered list of relocated keys. Keys are unique
// within a puzzle. Store is not safe for concurrent use; it lives on the UI
// goroutine.
type Store struct {
	puzzles   [][]Entry
	listeners map[int]func(Change)
	nextID    int
}

// NewStore creates an empty store for n puzzles.
func NewStore(n int) (*Store, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPuzzleCount, n)
	}
	return &Store{
		puzzles:   make([][]Entry, n),
		listeners: make(map[int]func(Change)),
	}, nil
}

// Len returns the number of puzzles the store was sized for.
func (s *Store) Len() int { return len(s.puzzles) }

func (s *Store) check(puzzle int) error {
	if puzzle < 0 || puzzle >= len(s.puzzles) {
		return fmt.Errorf("%w: %d (have %d)", ErrPuzzleOutOfRange, puzzle, len(s.puzzles))
	}
	return nil
}

// Save records key at p in puzzle. An existing record for key in that puzzle
// is replaced and the key moves to the end of the list.
func (s *Store) Save(puzzle int, key keyboard.Key, p Placement) error {
	if err := s.check(puzzle); err != nil {
		return err
	}
	s.puzzles[puzzle] = without(s.puzzles[puzzle], key)
	s.puzzles[puzzle] = append(s.puzzles[puzzle], Entry{Key: key, Placement: p})
	s.notify(Change{Op: OpSave, Puzzle: puzzle, Key: key})
	return nil
}

// Remove deletes key from puzzle and reports whether a record existed.
func (s *Store) Remove(puzzle int, key keyboard.Key) (bool, error) {
	if err := s.check(puzzle); err != nil {
		return false, err
	}
	before := len(s.puzzles[puzzle])
	s.puzzles[puzzle] = without(s.puzzles[puzzle], key)
	if len(s.puzzles[puzzle]) == before {
		return false, nil
	}
	s.notify(Change{Op: OpRemove, Puzzle: puzzle, Key: key})
	return true, nil
}

// RemoveEverywhere deletes key from every puzzle and returns how many records
// were removed.
func (s *Store) RemoveEverywhere(key keyboard.Key) int {
	removed := 0
	for i := range s.puzzles {
		if ok, _ := s.Remove(i, key); ok {
			removed++
		}
	}
	return removed
}

// Get returns the placement of key in puzzle.
func (s *Store) Get(puzzle int, key keyboard.Key) (Placement, error) {
	if err := s.check(puzzle); err != nil {
		return Placement{}, err
	}
	for _, e := range s.puzzles[puzzle] {
		if e.Key == key {
			return e.Placement, nil
		}
	}
	return Placement{}, fmt.Errorf("%w %q in puzzle %d", ErrNotFound, key, puzzle)
}

// Contains reports whether key has a record in puzzle. Out-of-range puzzles
// contain nothing.
func (s *Store) Contains(puzzle int, key keyboard.Key) bool {
	_, err := s.Get(puzzle, key)
	return err == nil
}

// Entries returns a copy of puzzle's entries in insertion order.
func (s *Store) Entries(puzzle int) ([]Entry, error) {
	if err := s.check(puzzle); err != nil {
		return nil, err
	}
	out := make([]Entry, len(s.puzzles[puzzle]))
	copy(out, s.puzzles[puzzle])
	return out, nil
}

// Records returns puzzle's entries in their sign-encoded form.
func (s *Store) Records(puzzle int) ([]Record, error) {
	entries, err := s.Entries(puzzle)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = Encode(e.Key, e.Placement)
	}
	return out, nil
}

// Load saves decoded records into puzzle in order. Records with out-of-range
// ratios are still saved; their warnings are joined into the returned error.
func (s *Store) Load(puzzle int, records []Record) error {
	if err := s.check(puzzle); err != nil {
		return err
	}
	var warnings []error
	for _, r := range records {
		p, err := Decode(r)
		if err != nil {
			warnings = append(warnings, err)
		}
		if err := s.Save(puzzle, r.Key, p); err != nil {
			return err
		}
	}
	return errors.Join(warnings...)
}

// MovedKeys returns every key relocated in any puzzle.
func (s *Store) MovedKeys() map[keyboard.Key]struct{} {
	set := make(map[keyboard.Key]struct{})
	for _, entries := range s.puzzles {
		for _, e := range entries {
			set[e.Key] = struct{}{}
		}
	}
	return set
}

// Count returns the total number of records across all puzzles.
func (s *Store) Count() int {
	n := 0
	for _, entries := range s.puzzles {
		n += len(entries)
	}
	return n
}

// Reset drops every record.
func (s *Store) Reset() {
	s.puzzles = make([][]Entry, len(s.puzzles))
	s.notify(Change{Op: OpReset, Puzzle: -1})
}

// Subscribe registers fn to be called after every mutation. The returned
// function unregisters it.
func (s *Store) Subscribe(fn func(Change)) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store) notify(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}

func without(entries []Entry, key keyboard.Key) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}
