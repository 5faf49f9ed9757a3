package config

import (
	"fmt"
	"maps"
	"slices"
)

// Action names accepted in the [keybindings] table.
const (
	ActionQuit              = "quit"
	ActionStart             = "start"
	ActionPrevPuzzle        = "prev_puzzle"
	ActionNextPuzzle        = "next_puzzle"
	ActionResetKeys         = "reset_keys"
	ActionToggleHelp        = "toggle_help"
	ActionToggleLogs        = "toggle_logs"
	ActionToggleGuide       = "toggle_guide"
	ActionToggleTapeManager = "toggle_tape_manager"
	ActionToggleRecording   = "toggle_recording"
	ActionPauseTape         = "pause_tape"
	ActionStopTape          = "stop_tape"
	ActionCancel            = "cancel"
)

// DefaultKeybindings returns the built-in action to keys table.
func DefaultKeybindings() map[string][]string {
	return map[string][]string{
		ActionQuit:              {"q", "ctrl+c"},
		ActionStart:             {"enter", "space"},
		ActionPrevPuzzle:        {"left", "h"},
		ActionNextPuzzle:        {"right", "l"},
		ActionResetKeys:         {"ctrl+r"},
		ActionToggleHelp:        {"?"},
		ActionToggleLogs:        {"ctrl+l"},
		ActionToggleGuide:       {"g"},
		ActionToggleTapeManager: {"t"},
		ActionToggleRecording:   {"ctrl+t"},
		ActionPauseTape:         {"p"},
		ActionStopTape:          {"ctrl+x"},
		ActionCancel:            {"esc"},
	}
}

// Keybindings is the active action to keys table.
var Keybindings = DefaultKeybindings()

// KnownAction reports whether action names a bindable action.
func KnownAction(action string) bool {
	_, ok := DefaultKeybindings()[action]
	return ok
}

// mergeKeybindings overlays user bindings on the defaults. An action bound to
// an empty list is unbound.
func mergeKeybindings(user map[string][]string) map[string][]string {
	merged := DefaultKeybindings()
	for action, keys := range user {
		if KnownAction(action) {
			merged[action] = slices.Clone(keys)
		}
	}
	return merged
}

// validateKeybindings reports unknown actions and keys bound twice.
func validateKeybindings(bindings map[string][]string) []ValidationIssue {
	var issues []ValidationIssue
	owner := make(map[string]string)
	for _, action := range slices.Sorted(maps.Keys(bindings)) {
		if !KnownAction(action) {
			issues = append(issues, ValidationIssue{"keybindings", action, "unknown action"})
			continue
		}
		for _, key := range bindings[action] {
			if prev, ok := owner[key]; ok && prev != action {
				issues = append(issues, ValidationIssue{"keybindings", action,
					fmt.Sprintf("key %q is also bound to %s", key, prev)})
			}
			owner[key] = action
		}
	}
	return issues
}
