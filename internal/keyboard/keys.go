// Package keyboard defines the flick keyboard: key identities, the fixed grid
// layout, the per-direction character table and text composition.
package keyboard

import (
	"github.com/Gaurav-Gosain/flickboard/internal/geom"
)

// Key identifies a key. Character keys use their center character; function
// keys use their label. InputField identifies the text-input field itself.
type Key string

// Function key identities.
const (
	Help       Key = "説明"
	Delete     Key = "削除"
	Hint       Key = "ヒント"
	Submit     Key = "確定"
	Voicing    Key = "゛"
	InputField Key = "入力欄"
)

// None marks an empty slot in the layout grid.
const None Key = ""

// Layout is the fixed keyboard grid, row by row.
var Layout = [4][5]Key{
	{Help, "あ", "か", "さ", Delete},
	{Hint, "た", "な", "は", None},
	{None, "ま", "や", "ら", None},
	{None, Voicing, "わ", Submit, None},
}

// flickTable holds the characters of every character key, indexed by
// direction: center, left, up, right, down. Empty strings are no-ops.
var flickTable = map[Key][5]string{
	"あ": {"あ", "い", "う", "え", "お"},
	"か": {"か", "き", "く", "け", "こ"},
	"さ": {"さ", "し", "す", "せ", "そ"},
	"た": {"た", "ち", "つ", "て", "と"},
	"な": {"な", "に", "ぬ", "ね", "の"},
	"は": {"は", "ひ", "ふ", "へ", "ほ"},
	"ま": {"ま", "み", "む", "め", "も"},
	"や": {"や", "（", "ゆ", "）", "よ"},
	"ら": {"ら", "り", "る", "れ", "ろ"},
	"わ": {"わ", "を", "ん", "ー", ""},
}

// IsFunction reports whether k triggers a side effect instead of inserting text.
func (k Key) IsFunction() bool {
	switch k {
	case Help, Delete, Hint, Submit, Voicing:
		return true
	}
	return false
}

// HasFlick reports whether k has a flick character set.
func (k Key) HasFlick() bool {
	_, ok := flickTable[k]
	return ok
}

// Char returns the character k produces when flicked in dir, or "" when that
// direction has no character.
func (k Key) Char(dir geom.Direction) string {
	chars, ok := flickTable[k]
	if !ok {
		return ""
	}
	if dir < geom.Center || dir > geom.Down {
		return ""
	}
	return chars[dir]
}

// Label is the text shown on the key face.
func (k Key) Label() string {
	return string(k)
}

// Keys returns every key in the layout in row-major order, skipping empty slots.
func Keys() []Key {
	keys := make([]Key, 0, 16)
	for _, row := range Layout {
		for _, k := range row {
			if k != None {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Position returns the grid cell of k, or ok=false if k is not in the layout.
func Position(k Key) (row, col int, ok bool) {
	for r, cols := range Layout {
		for c, key := range cols {
			if key != None && key == k {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Valid reports whether k is a layout key or the input field.
func Valid(k Key) bool {
	if k == InputField {
		return true
	}
	_, _, ok := Position(k)
	return ok
}
