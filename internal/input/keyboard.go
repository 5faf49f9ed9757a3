package input

import (
	"maps"
	"slices"

	"github.com/Gaurav-Gosain/flickboard/internal/config"
)

// KeyMap resolves key strings to action names.
type KeyMap map[string]string

// NewKeyMap inverts an action to keys table. When a key is bound twice the
// action that sorts first wins, so the result does not depend on map order.
func NewKeyMap(bindings map[string][]string) KeyMap {
	km := make(KeyMap)
	for action, keys := range bindings {
		for _, key := range keys {
			if prev, ok := km[key]; ok && prev < action {
				continue
			}
			km[key] = action
		}
	}
	return km
}

// Action returns the action bound to key.
func (km KeyMap) Action(key string) (string, bool) {
	action, ok := km[key]
	return action, ok
}

// activeKeyMap is rebuilt when the configured bindings change.
var (
	activeKeyMap KeyMap
	activeSource map[string][]string
)

// CurrentKeyMap returns the key map for config.Keybindings.
func CurrentKeyMap() KeyMap {
	if activeKeyMap == nil || !maps.EqualFunc(activeSource, config.Keybindings, slices.Equal[[]string]) {
		activeKeyMap = NewKeyMap(config.Keybindings)
		activeSource = config.Keybindings
	}
	return activeKeyMap
}
