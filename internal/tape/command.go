// Package tape implements flickboard's gesture scripts: a small line-based
// format of pointer and game commands used for demos and deterministic replay.
//
// A script looks like:
//
//	# solve the first puzzle by hand
//	Start
//	Sleep 500ms
//	Flick あ right
//	Hold さ
//	Move さ
//	Move 200 100
//	Up 200 100
//	Type "あ"
//	Tap 確定
//	Expect puzzle 0
//	Place か 0.25 0.5
//	Expect record か 0.25 0.5
//
// Positions are virtual pixels, or a key label optionally followed by an
// offset from that key's center. Place and Expect record take relocation
// ratios; negative ratios address the input field.
package tape

import (
	"strings"
)

// CommandType names a tape command.
type CommandType string

const (
	CommandTypeStart  CommandType = "Start"
	CommandTypeDown   CommandType = "Down"
	CommandTypeMove   CommandType = "Move"
	CommandTypeUp     CommandType = "Up"
	CommandTypeSleep  CommandType = "Sleep"
	CommandTypeTap    CommandType = "Tap"
	CommandTypeFlick  CommandType = "Flick"
	CommandTypeHold   CommandType = "Hold"
	CommandTypeDrag   CommandType = "Drag"
	CommandTypeType   CommandType = "Type"
	CommandTypePuzzle CommandType = "Puzzle"
	CommandTypeReset  CommandType = "Reset"
	CommandTypeExpect CommandType = "Expect"
	CommandTypeNotify CommandType = "Notify"
	CommandTypePlace  CommandType = "Place"
)

// arity is the accepted argument count range of each command.
var arity = map[CommandType][2]int{
	CommandTypeStart:  {0, 0},
	CommandTypeDown:   {1, 3},
	CommandTypeMove:   {0, 3},
	CommandTypeUp:     {0, 3},
	CommandTypeSleep:  {1, 1},
	CommandTypeTap:    {1, 1},
	CommandTypeFlick:  {2, 2},
	CommandTypeHold:   {1, 1},
	CommandTypeDrag:   {3, 3},
	CommandTypeType:   {1, 1},
	CommandTypePuzzle: {1, 1},
	CommandTypeReset:  {0, 0},
	CommandTypeExpect: {1, 4},
	CommandTypeNotify: {1, 2},
	CommandTypePlace:  {3, 3},
}

// lookupCommand resolves a command name case-insensitively.
func lookupCommand(name string) (CommandType, bool) {
	for t := range arity {
		if strings.EqualFold(string(t), name) {
			return t, true
		}
	}
	return "", false
}

// Command is one parsed script line.
type Command struct {
	Type CommandType
	Args []string
	Line int
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Type)
	}
	return string(c.Type) + " " + strings.Join(c.Args, " ")
}
