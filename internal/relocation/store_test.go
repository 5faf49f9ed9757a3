package relocation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(7)
	require.NoError(t, err)
	return s
}

func TestNewStoreValidatesCount(t *testing.T) {
	_, err := NewStore(0)
	assert.ErrorIs(t, err, ErrInvalidPuzzleCount)
	_, err = NewStore(-3)
	assert.ErrorIs(t, err, ErrInvalidPuzzleCount)
}

func TestSaveReplacesAndMovesToEnd(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(0, "あ", Viewer(0.1, 0.1)))
	require.NoError(t, s.Save(0, "か", Viewer(0.2, 0.2)))
	require.NoError(t, s.Save(0, "あ", Viewer(0.3, 0.3)))

	entries, err := s.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, keyboard.Key("か"), entries[0].Key)
	assert.Equal(t, keyboard.Key("あ"), entries[1].Key)
	assert.Equal(t, Viewer(0.3, 0.3), entries[1].Placement)
}

func TestOutOfRange(t *testing.T) {
	s := newStore(t)
	assert.ErrorIs(t, s.Save(7, "あ", Viewer(0, 0)), ErrPuzzleOutOfRange)
	assert.ErrorIs(t, s.Save(-1, "あ", Viewer(0, 0)), ErrPuzzleOutOfRange)
	_, err := s.Remove(9, "あ")
	assert.ErrorIs(t, err, ErrPuzzleOutOfRange)
	_, err = s.Entries(7)
	assert.ErrorIs(t, err, ErrPuzzleOutOfRange)
	assert.False(t, s.Contains(7, "あ"))
}

func TestRemoveEverywhere(t *testing.T) {
	s := newStore(t)
	for i := 0; i < s.Len(); i++ {
		require.NoError(t, s.Save(i, "た", Viewer(0.5, 0.5)))
	}
	require.NoError(t, s.Save(2, "な", Viewer(0.5, 0.5)))

	assert.Equal(t, 7, s.RemoveEverywhere("た"))
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Contains(2, "な"))
}

func TestGet(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(3, keyboard.InputField, Viewer(0.4, 0.2)))

	p, err := s.Get(3, keyboard.InputField)
	require.NoError(t, err)
	assert.Equal(t, Viewer(0.4, 0.2), p)

	_, err = s.Get(2, keyboard.InputField)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovedKeysIsGlobal(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(0, "あ", Viewer(0.1, 0.1)))
	require.NoError(t, s.Save(5, "か", InField(0.5, 0.5)))

	moved := s.MovedKeys()
	assert.Len(t, moved, 2)
	assert.Contains(t, moved, keyboard.Key("あ"))
	assert.Contains(t, moved, keyboard.Key("か"))
}

func TestSubscribeAndReset(t *testing.T) {
	s := newStore(t)
	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) { changes = append(changes, c) })

	require.NoError(t, s.Save(1, "あ", Viewer(0.1, 0.1)))
	_, err := s.Remove(1, "あ")
	require.NoError(t, err)
	_, err = s.Remove(1, "あ")
	require.NoError(t, err)
	s.Reset()

	require.Len(t, changes, 3)
	assert.Equal(t, Change{Op: OpSave, Puzzle: 1, Key: "あ"}, changes[0])
	assert.Equal(t, OpRemove, changes[1].Op)
	assert.Equal(t, Change{Op: OpReset, Puzzle: -1}, changes[2])

	unsubscribe()
	require.NoError(t, s.Save(0, "か", Viewer(0, 0)))
	assert.Len(t, changes, 3)
	assert.Equal(t, 1, s.Count())
}

func TestEncodeDecodePreservesSign(t *testing.T) {
	tests := []struct {
		name string
		p    Placement
		want Record
	}{
		{"viewer", Viewer(0.25, 0.75), Record{Key: "あ", XRatio: 0.25, YRatio: 0.75}},
		{"input field", InField(0.25, 0.75), Record{Key: "あ", XRatio: -0.25, YRatio: -0.75}},
		{"input field origin", InField(0, 0), Record{Key: "あ", XRatio: math.Copysign(0, -1), YRatio: math.Copysign(0, -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Encode("あ", tt.p)
			assert.Equal(t, tt.want.XRatio, r.XRatio)
			assert.Equal(t, math.Signbit(tt.want.XRatio), math.Signbit(r.XRatio))

			back, err := Decode(r)
			require.NoError(t, err)
			assert.Equal(t, tt.p.Space, back.Space)
			assert.InDelta(t, tt.p.X, back.X, 1e-12)
			assert.InDelta(t, tt.p.Y, back.Y, 1e-12)
		})
	}
}

func TestRecordsRoundTripThroughLoad(t *testing.T) {
	src := newStore(t)
	require.NoError(t, src.Save(4, "あ", Viewer(0.1, 0.9)))
	require.NoError(t, src.Save(4, "か", InField(0.3, 0.6)))

	records, err := src.Records(4)
	require.NoError(t, err)
	assert.Negative(t, records[1].XRatio)

	dst := newStore(t)
	require.NoError(t, dst.Load(4, records))
	got, err := dst.Entries(4)
	require.NoError(t, err)
	want, _ := src.Entries(4)
	assert.Equal(t, want, got)
}

func TestDecodeWarnsOutOfRange(t *testing.T) {
	p, err := Decode(Record{Key: "あ", XRatio: 1.2, YRatio: 0.1})
	assert.True(t, errors.Is(err, ErrRatioOutOfRange))
	assert.Equal(t, SpaceViewer, p.Space)

	s := newStore(t)
	err = s.Load(0, []Record{{Key: "あ", XRatio: -1.5, YRatio: -0.5}})
	assert.ErrorIs(t, err, ErrRatioOutOfRange)
	assert.True(t, s.Contains(0, "あ"))
}
