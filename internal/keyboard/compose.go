package keyboard

import (
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
)

// Effect is the outcome of a keystroke beyond the text edit.
type Effect int

const (
	// EffectNone means nothing happened (empty direction slot, empty buffer).
	EffectNone Effect = iota
	// EffectText means the text buffer changed.
	EffectText
	// EffectSubmit asks for the current answer to be checked.
	EffectSubmit
	// EffectHelp asks for the how-to dialog.
	EffectHelp
	// EffectHint asks for the current puzzle's hint.
	EffectHint
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectText:
		return "text"
	case EffectSubmit:
		return "submit"
	case EffectHelp:
		return "help"
	case EffectHint:
		return "hint"
	}
	return "unknown"
}

// Compose applies a keystroke on key in direction dir to text and returns the
// new text and the resulting effect. Text is edited by rune.
func Compose(text string, key Key, dir geom.Direction) (string, Effect) {
	switch key {
	case Delete:
		if text == "" {
			return text, EffectNone
		}
		r := []rune(text)
		return string(r[:len(r)-1]), EffectText

	case Submit:
		return text, EffectSubmit

	case Help:
		return text, EffectHelp

	case Hint:
		return text, EffectHint

	case Voicing:
		if text == "" {
			return text, EffectNone
		}
		r := []rune(text)
		last := r[len(r)-1]
		r[len(r)-1] = ToggleVoicing(last)
		return string(r), EffectText
	}

	ch := key.Char(dir)
	if ch == "" {
		return text, EffectNone
	}
	return text + ch, EffectText
}

// voicingCycle maps each kana to the next form in its voicing cycle.
// Plain forms go to voiced; voiced forms return to plain except the は row,
// which moves on to semi-voiced; semi-voiced forms return to plain.
var voicingCycle = map[rune]rune{
	'か': 'が', 'き': 'ぎ', 'く': 'ぐ', 'け': 'げ', 'こ': 'ご',
	'さ': 'ざ', 'し': 'じ', 'す': 'ず', 'せ': 'ぜ', 'そ': 'ぞ',
	'た': 'だ', 'ち': 'ぢ', 'つ': 'づ', 'て': 'で', 'と': 'ど',
	'は': 'ば', 'ひ': 'び', 'ふ': 'ぶ', 'へ': 'べ', 'ほ': 'ぼ',

	'が': 'か', 'ぎ': 'き', 'ぐ': 'く', 'げ': 'け', 'ご': 'こ',
	'ざ': 'さ', 'じ': 'し', 'ず': 'す', 'ぜ': 'せ', 'ぞ': 'そ',
	'だ': 'た', 'ぢ': 'ち', 'づ': 'つ', 'で': 'て', 'ど': 'と',
	'ば': 'ぱ', 'び': 'ぴ', 'ぶ': 'ぷ', 'べ': 'ぺ', 'ぼ': 'ぽ',

	'ぱ': 'は', 'ぴ': 'ひ', 'ぷ': 'ふ', 'ぺ': 'へ', 'ぽ': 'ほ',
}

// ToggleVoicing returns the next voicing form of r. Characters outside the
// kana table are returned unchanged.
func ToggleVoicing(r rune) rune {
	if next, ok := voicingCycle[r]; ok {
		return next
	}
	return r
}

// Stroke is one keystroke: a key flicked in a direction.
type Stroke struct {
	Key       Key
	Direction geom.Direction
}

// ErrNoStroke is returned by Strokes for characters the keyboard cannot type.
var ErrNoStroke = errors.New("character cannot be typed")

// Strokes returns the keystrokes that type text on an empty buffer, using the
// voicing key for voiced and semi-voiced kana.
func Strokes(text string) ([]Stroke, error) {
	var out []Stroke
	for _, r := range text {
		s, ok := strokeFor(string(r))
		if ok {
			out = append(out, s)
			continue
		}
		base, toggles, ok := voicingBase(r)
		if !ok {
			return nil, fmt.Errorf("%q: %w", r, ErrNoStroke)
		}
		s, _ = strokeFor(string(base))
		out = append(out, s)
		for range toggles {
			out = append(out, Stroke{Key: Voicing, Direction: geom.Center})
		}
	}
	return out, nil
}

func strokeFor(ch string) (Stroke, bool) {
	for _, k := range Keys() {
		chars, ok := flickTable[k]
		if !ok {
			continue
		}
		for d, c := range chars {
			if c != "" && c == ch {
				return Stroke{Key: k, Direction: geom.Direction(d)}, true
			}
		}
	}
	return Stroke{}, false
}

// voicingBase walks the voicing cycle back to the plain form of r and returns
// how many toggles lead from it to r.
func voicingBase(r rune) (rune, int, bool) {
	for base := range voicingCycle {
		if _, ok := strokeFor(string(base)); !ok {
			continue
		}
		cur := base
		for n := 1; n <= 2; n++ {
			cur = ToggleVoicing(cur)
			if cur == base {
				break
			}
			if cur == r {
				return base, n, true
			}
		}
	}
	return 0, 0, false
}
