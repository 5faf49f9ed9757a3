package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		key        Key
		dir        geom.Direction
		wantText   string
		wantEffect Effect
	}{
		{"center appends", "", "あ", geom.Center, "あ", EffectText},
		{"right flick", "あ", "か", geom.Right, "あけ", EffectText},
		{"up flick", "", "た", geom.Up, "つ", EffectText},
		{"ya left bracket", "", "や", geom.Left, "（", EffectText},
		{"wa down is empty", "あ", "わ", geom.Down, "あ", EffectNone},
		{"delete last rune", "あいう", Delete, geom.Center, "あい", EffectText},
		{"delete ignores direction", "あい", Delete, geom.Left, "あ", EffectText},
		{"delete on empty", "", Delete, geom.Center, "", EffectNone},
		{"submit", "あ", Submit, geom.Center, "あ", EffectSubmit},
		{"help", "", Help, geom.Up, "", EffectHelp},
		{"hint", "", Hint, geom.Center, "", EffectHint},
		{"voicing", "たか", Voicing, geom.Center, "たが", EffectText},
		{"voicing non kana", "あ", Voicing, geom.Center, "あ", EffectText},
		{"voicing empty", "", Voicing, geom.Center, "", EffectNone},
		{"input field types nothing", "あ", InputField, geom.Center, "あ", EffectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, effect := Compose(tt.text, tt.key, tt.dir)
			assert.Equal(t, tt.wantText, got)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestVoicingCycle(t *testing.T) {
	r := 'は'
	var seen []rune
	for i := 0; i < 3; i++ {
		r = ToggleVoicing(r)
		seen = append(seen, r)
	}
	assert.Equal(t, []rune{'ば', 'ぱ', 'は'}, seen)

	assert.Equal(t, 'か', ToggleVoicing(ToggleVoicing('か')))
	assert.Equal(t, 'ん', ToggleVoicing('ん'))
	assert.Equal(t, 'x', ToggleVoicing('x'))
}

func TestGuideChars(t *testing.T) {
	g, ok := GuideChars("あ")
	require.True(t, ok)
	assert.Equal(t, [5]string{"う", "い", "あ", "え", "お"}, g.Cells)
	assert.Equal(t, GuideStandard, g.Style)

	g, ok = GuideChars("わ")
	require.True(t, ok)
	assert.Equal(t, "", g.Cells[4])
	assert.Equal(t, GuideSparse, g.Style)

	g, ok = GuideChars("や")
	require.True(t, ok)
	assert.Equal(t, GuideBrackets, g.Style)

	for _, k := range []Key{Delete, Submit, Help, Hint, Voicing, InputField} {
		_, ok := GuideChars(k)
		assert.False(t, ok, "%s should have no guide", k)
	}

	assert.Equal(t, 2, GuideIndex(geom.Center))
	assert.Equal(t, 0, GuideIndex(geom.Up))
}

func TestLayout(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, 15)
	assert.Equal(t, Help, keys[0])

	row, col, ok := Position(Submit)
	require.True(t, ok)
	assert.Equal(t, 3, row)
	assert.Equal(t, 3, col)

	_, _, ok = Position(InputField)
	assert.False(t, ok)
	assert.True(t, Valid(InputField))
	assert.False(t, Valid("z"))
	assert.True(t, Voicing.IsFunction())
	assert.False(t, Key("あ").IsFunction())
}

func TestStrokesRetypeText(t *testing.T) {
	for _, text := range []string{"あいうえお", "がぱぷ", "（ゆ）ー", "ぢをん"} {
		strokes, err := Strokes(text)
		require.NoError(t, err, text)

		got := ""
		for _, s := range strokes {
			got, _ = Compose(got, s.Key, s.Direction)
		}
		assert.Equal(t, text, got)
	}

	strokes, err := Strokes("ぱ")
	require.NoError(t, err)
	assert.Equal(t, []Stroke{
		{Key: "は", Direction: geom.Center},
		{Key: Voicing, Direction: geom.Center},
		{Key: Voicing, Direction: geom.Center},
	}, strokes)

	_, err = Strokes("x")
	assert.ErrorIs(t, err, ErrNoStroke)
}
