package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func newMachine() *Machine {
	opts := DefaultOptions()
	opts.ShowGuide = true
	return NewMachine(NewSession(), opts)
}

func keystrokes(events []Event) []Keystroke {
	var out []Keystroke
	for _, e := range events {
		if ks, ok := e.(Keystroke); ok {
			out = append(out, ks)
		}
	}
	return out
}

func handoffs(events []Event) []DragHandoff {
	var out []DragHandoff
	for _, e := range events {
		if h, ok := e.(DragHandoff); ok {
			out = append(out, h)
		}
	}
	return out
}

func TestHoldWithSmallMoveHandsOff(t *testing.T) {
	m := newMachine()
	anchor := geom.Pt(100, 100)

	var all []Event
	all = append(all, m.Down("あ", OriginKeyboard, anchor, at(0))...)
	all = append(all, m.Move(geom.Pt(110, 100), at(50))...)
	all = append(all, m.Advance(at(1999))...)
	assert.Empty(t, handoffs(all), "deadline not reached yet")

	all = append(all, m.Advance(at(2000))...)
	h := handoffs(all)
	require.Len(t, h, 1)
	assert.Equal(t, keyboard.Key("あ"), h[0].Key)
	assert.Equal(t, OriginKeyboard, h[0].Origin)
	assert.Equal(t, PhaseDragging, m.Session().Phase)

	// The hand-off was not accepted, so release ends the gesture quietly.
	all = append(all, m.Up(geom.Pt(110, 100), at(2100))...)
	assert.Empty(t, keystrokes(all))
	assert.False(t, m.Session().Live())
}

func TestQuickFlickRight(t *testing.T) {
	m := newMachine()

	var all []Event
	all = append(all, m.Down("か", OriginKeyboard, geom.Pt(100, 100), at(0))...)
	all = append(all, m.Move(geom.Pt(140, 100), at(60))...)
	all = append(all, m.Up(geom.Pt(140, 100), at(100))...)
	all = append(all, m.Advance(at(2500))...)

	ks := keystrokes(all)
	require.Len(t, ks, 1)
	assert.Equal(t, geom.Right, ks[0].Direction)
	assert.Equal(t, "け", ks[0].Char)
	assert.Empty(t, handoffs(all))
}

func TestReleaseAfterDeadlineHandsOffWithoutTick(t *testing.T) {
	m := newMachine()

	var all []Event
	all = append(all, m.Down("あ", OriginKeyboard, geom.Pt(100, 100), at(0))...)
	all = append(all, m.Move(geom.Pt(110, 100), at(50))...)
	all = append(all, m.Up(geom.Pt(110, 100), at(2010))...)

	assert.Empty(t, keystrokes(all))
	h := handoffs(all)
	require.Len(t, h, 1)
	assert.Equal(t, keyboard.Key("あ"), h[0].Key)
	assert.Equal(t, PhaseDragging, m.Session().Phase)
	assert.False(t, m.Pending())
}

func TestMoveBeyondSlopCancelsLongPress(t *testing.T) {
	m := newMachine()
	m.Down("さ", OriginKeyboard, geom.Pt(0, 0), at(0))

	events := m.Move(geom.Pt(0, -60), at(100))
	assert.Contains(t, events, Event(GuideHighlight{Key: "さ", Direction: geom.Up}))
	assert.Equal(t, PhaseFlicking, m.Session().Phase)
	assert.False(t, m.Pending())

	assert.Empty(t, m.Advance(at(5000)))

	ks := keystrokes(m.Up(geom.Pt(0, -60), at(5001)))
	require.Len(t, ks, 1)
	assert.Equal(t, "す", ks[0].Char)
}

func TestSmallMoveKeepsHoldButTracksDirection(t *testing.T) {
	m := newMachine()
	m.Down("は", OriginKeyboard, geom.Pt(0, 0), at(0))

	events := m.Move(geom.Pt(-35, 0), at(10))
	assert.Equal(t, []Event{GuideHighlight{Key: "は", Direction: geom.Left}}, events)
	assert.True(t, m.Pending(), "direction change alone keeps the hold")
	assert.Equal(t, PhaseArmed, m.Session().Phase)
}

func TestMoveAfterDeadlineHandsOffFirst(t *testing.T) {
	m := newMachine()
	m.Down("な", OriginRelocated, geom.Pt(0, 0), at(0))

	events := m.Move(geom.Pt(5, 5), at(2001))
	h := handoffs(events)
	require.Len(t, h, 1)
	assert.Equal(t, OriginRelocated, h[0].Origin)
	assert.Contains(t, events, Event(GuideHidden{Key: "な"}))
}

func TestDragActiveSuppressesMachine(t *testing.T) {
	m := newMachine()
	m.Down("あ", OriginKeyboard, geom.Pt(0, 0), at(0))
	require.Len(t, handoffs(m.Advance(at(2000))), 1)

	m.Session().DragActive = true
	assert.Nil(t, m.Down("か", OriginKeyboard, geom.Pt(5, 5), at(2100)))
	assert.Nil(t, m.Move(geom.Pt(300, 300), at(2200)))
	assert.Nil(t, m.Up(geom.Pt(300, 300), at(2300)))
	assert.Equal(t, keyboard.Key("あ"), m.Session().Target)

	m.Session().EndDrag()
	assert.False(t, m.Session().DragActive)
	assert.False(t, m.Session().Live())
}

func TestFunctionKeyHasNoGuide(t *testing.T) {
	m := newMachine()
	events := m.Down(keyboard.Delete, OriginKeyboard, geom.Pt(0, 0), at(0))
	assert.Empty(t, events)

	events = m.Up(geom.Pt(0, 0), at(50))
	ks := keystrokes(events)
	require.Len(t, ks, 1)
	assert.Equal(t, keyboard.Delete, ks[0].Key)
	assert.Equal(t, "", ks[0].Char)
	for _, e := range events {
		_, hidden := e.(GuideHidden)
		assert.False(t, hidden)
	}
}

func TestGuideLifecycle(t *testing.T) {
	m := newMachine()
	events := m.Down("わ", OriginKeyboard, geom.Pt(0, 0), at(0))
	require.Len(t, events, 1)
	shown, ok := events[0].(GuideShown)
	require.True(t, ok)
	assert.Equal(t, keyboard.GuideSparse, shown.Guide.Style)
	assert.Equal(t, geom.Center, shown.Highlight)

	events = m.Up(geom.Pt(0, 0), at(10))
	require.Len(t, events, 2)
	assert.Equal(t, GuideHidden{Key: "わ"}, events[0])
	assert.Equal(t, "わ", events[1].(Keystroke).Char)
}

func TestSecondDownCancelsLiveGesture(t *testing.T) {
	m := newMachine()
	m.Down("あ", OriginKeyboard, geom.Pt(0, 0), at(0))
	first := m.Session().ID

	events := m.Down("か", OriginKeyboard, geom.Pt(50, 0), at(100))
	assert.Equal(t, GuideHidden{Key: "あ"}, events[0])
	assert.NotEqual(t, first, m.Session().ID)
	assert.Equal(t, keyboard.Key("か"), m.Session().Target)

	// The new press gets its own full hold.
	assert.Empty(t, m.Advance(at(2000)))
	assert.Len(t, handoffs(m.Advance(at(2100))), 1)
}

func TestCancel(t *testing.T) {
	m := newMachine()
	m.Down("ら", OriginKeyboard, geom.Pt(0, 0), at(0))
	assert.Equal(t, []Event{GuideHidden{Key: "ら"}}, m.Cancel())
	assert.False(t, m.Session().Live())
	assert.Empty(t, m.Advance(at(3000)))
	assert.Empty(t, m.Up(geom.Pt(0, 0), at(3000)))
}

func TestLongPressRemaining(t *testing.T) {
	lp := LongPress{Duration: 2 * time.Second, Slop: 50}
	assert.Zero(t, lp.Remaining(at(0)))

	lp.Start(geom.Pt(0, 0), at(0))
	assert.Equal(t, 1500*time.Millisecond, lp.Remaining(at(500)))
	assert.False(t, lp.Moved(geom.Pt(30, 30)))
	assert.True(t, lp.Moved(geom.Pt(30, 40)))
	assert.False(t, lp.Active())
}
