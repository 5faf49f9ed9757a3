package board

import (
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/placement"
	"github.com/Gaurav-Gosain/flickboard/internal/puzzle"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
	"github.com/Gaurav-Gosain/flickboard/internal/render"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

var testFactory = render.FactoryFunc(func(k keyboard.Key, relocated bool) render.KeyVisual {
	v := render.KeyVisual{Key: k, Label: k.Label(), Relocated: relocated, Width: 40, Height: 40}
	if k == keyboard.InputField {
		v.Width, v.Height = 240, 60
	}
	return v
})

var testLayout = Layout{
	Viewer:     geom.R(0, 0, 400, 300),
	InputField: geom.R(0, 320, 240, 60),
	Keyboard:   geom.Pt(0, 400),
	Pitch:      geom.Pt(50, 50),
	Factory:    testFactory,
}

type recorder struct {
	events []Event
}

func (r *recorder) OnBoardEvent(e Event) { r.events = append(r.events, e) }

func (r *recorder) notices() []string {
	var out []string
	for _, e := range r.events {
		if n, ok := e.(Notice); ok {
			out = append(out, n.Message)
		}
	}
	return out
}

type fixture struct {
	board *Board
	rec   *recorder
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := relocation.NewStore(7)
	require.NoError(t, err)
	pack, err := puzzle.Default()
	require.NoError(t, err)

	rec := &recorder{}
	opts := gesture.DefaultOptions()
	opts.ShowGuide = true
	b := New(store, puzzle.NewProgress(pack, nil), Options{Gesture: opts, Listener: rec})
	b.SetLayout(testLayout)
	t.Cleanup(b.Close)

	f := &fixture{board: b, rec: rec, now: t0}
	require.NoError(t, b.Start(f.now))
	f.wait(time.Second)
	return f
}

func (f *fixture) wait(d time.Duration) {
	f.now = f.now.Add(d)
	f.board.Tick(f.now)
}

// center returns the middle of a keyboard key.
func (f *fixture) center(t *testing.T, k keyboard.Key) geom.Point {
	t.Helper()
	for _, p := range f.board.Keys() {
		if p.Visual.Key == k {
			return p.Rect.Center()
		}
	}
	t.Fatalf("key %s not on keyboard", k)
	return geom.Point{}
}

func (f *fixture) flick(t *testing.T, k keyboard.Key, d geom.Point) {
	t.Helper()
	c := f.center(t, k)
	require.True(t, f.board.PointerDown(c, f.now))
	f.now = f.now.Add(50 * time.Millisecond)
	f.board.PointerMove(c.Add(d), f.now)
	f.now = f.now.Add(50 * time.Millisecond)
	f.board.PointerUp(c.Add(d), f.now)
}

func (f *fixture) hold(t *testing.T, at geom.Point) {
	t.Helper()
	require.True(t, f.board.PointerDown(at, f.now))
	f.wait(2 * time.Second)
}

func TestTyping(t *testing.T) {
	f := newFixture(t)
	f.flick(t, "あ", geom.Pt(40, 0))
	f.flick(t, "か", geom.Pt(0, 0))
	f.flick(t, keyboard.Voicing, geom.Pt(0, 0))
	assert.Equal(t, "えが", f.board.Text())

	f.flick(t, keyboard.Delete, geom.Pt(0, 0))
	assert.Equal(t, "え", f.board.Text())
	assert.Contains(t, f.rec.events, Event(TextChanged{Text: "え"}))
}

func TestGuideFollowsFlick(t *testing.T) {
	f := newFixture(t)
	c := f.center(t, "な")
	require.True(t, f.board.PointerDown(c, f.now))
	g := f.board.Guide()
	require.True(t, g.Visible)
	assert.Equal(t, geom.Center, g.Highlight)

	f.board.PointerMove(c.Add(geom.Pt(0, 35)), f.now.Add(10*time.Millisecond))
	assert.Equal(t, geom.Down, f.board.Guide().Highlight)

	f.board.PointerUp(c.Add(geom.Pt(0, 35)), f.now.Add(20*time.Millisecond))
	assert.False(t, f.board.Guide().Visible)
	assert.Equal(t, "の", f.board.Text())
}

func TestLongPressDragIntoViewer(t *testing.T) {
	f := newFixture(t)
	c := f.center(t, "あ")
	f.hold(t, c)

	drag, ok := f.board.Dragging()
	require.True(t, ok)
	assert.Equal(t, keyboard.Key("あ"), drag.Key)
	assert.Empty(t, f.board.Text(), "hold must not type")

	f.board.PointerMove(c, f.now)
	f.board.PointerMove(c.Add(geom.Pt(0, -300)), f.now)
	f.board.PointerUp(c.Add(geom.Pt(0, -300)), f.now)

	last := f.rec.events[len(f.rec.events)-1]
	dropped, ok := last.(Dropped)
	require.True(t, ok)
	assert.Equal(t, placement.DropViewer, dropped.Result.Outcome)
	assert.Empty(t, f.board.Text())

	assert.False(t, f.board.Session().DragActive)
	assert.True(t, f.board.Store().Contains(0, "あ"))
	assert.True(t, f.board.Moved("あ"))

	scene := f.board.Scene()
	require.Len(t, scene.Relocated, 1)
	r := scene.Relocated[0].Rect
	assert.InDelta(t, 48, r.X, 1e-9)
	assert.InDelta(t, 98, r.Y, 1e-9)

	_, ok = f.board.HitTest(c)
	assert.False(t, ok, "moved keyboard key is not pressable")

	hit, ok := f.board.HitTest(geom.Pt(60, 110))
	require.True(t, ok)
	assert.Equal(t, gesture.OriginRelocated, hit.Origin)
}

func TestReleaseAfterDeadlineBeforeTickDoesNotType(t *testing.T) {
	f := newFixture(t)
	c := f.center(t, "あ")
	require.True(t, f.board.PointerDown(c, f.now))
	f.board.PointerUp(c, f.now.Add(2010*time.Millisecond))

	assert.Empty(t, f.board.Text())
	last := f.rec.events[len(f.rec.events)-1]
	dropped, ok := last.(Dropped)
	require.True(t, ok)
	assert.Equal(t, placement.DropNone, dropped.Result.Outcome)
	assert.False(t, f.board.Busy())
	assert.Zero(t, f.board.Store().Count())
}

func TestPuzzleSwitchBlocksOldSceneUntilLoaded(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.Store().Save(0, "か", relocation.Viewer(0.5, 0.5)))
	at := geom.Pt(220, 170)
	_, ok := f.board.HitTest(at)
	require.True(t, ok)

	require.NoError(t, f.board.Progress().Load(1, f.now))
	f.wait(100 * time.Millisecond)
	assert.False(t, f.board.PointerDown(at, f.now), "scene still shows the previous puzzle")
	assert.False(t, f.board.Busy())

	f.wait(300 * time.Millisecond)
	assert.Equal(t, 1, f.board.Progress().CurrentPuzzle())
	_, ok = f.board.HitTest(at)
	assert.False(t, ok)
	assert.True(t, f.board.Store().Contains(0, "か"))
}

func TestPuzzleSwitchCancelsHeldKey(t *testing.T) {
	f := newFixture(t)
	c := f.center(t, "あ")
	require.True(t, f.board.PointerDown(c, f.now))

	require.NoError(t, f.board.Progress().Load(1, f.now))
	f.wait(50 * time.Millisecond)
	assert.False(t, f.board.Busy())

	f.wait(3 * time.Second)
	_, ok := f.board.Dragging()
	assert.False(t, ok)
	f.board.PointerUp(c, f.now)
	assert.Empty(t, f.board.Text())
}

func TestRelocatedKeyCanBeRedraggedAndTyped(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.Store().Save(0, "か", relocation.Viewer(0.5, 0.5)))
	at := geom.Pt(220, 170)

	// A quick tap on the relocated key still types.
	require.True(t, f.board.PointerDown(at, f.now))
	f.board.PointerUp(at, f.now.Add(100*time.Millisecond))
	assert.Equal(t, "か", f.board.Text())

	// A hold re-arms a drag; dropping outside returns the key.
	f.hold(t, at)
	_, ok := f.board.Dragging()
	require.True(t, ok)
	assert.False(t, f.board.Store().Contains(0, "か"), "origin record removed at drag start")

	f.board.PointerMove(at, f.now)
	f.board.PointerMove(at.Add(geom.Pt(0, 400)), f.now)
	f.board.PointerUp(at.Add(geom.Pt(0, 400)), f.now)
	assert.Zero(t, f.board.Store().Count())
	assert.False(t, f.board.Moved("か"))
}

func TestInputFieldRelocation(t *testing.T) {
	f := newFixture(t)

	// Drop さ into the in-flow input field.
	c := f.center(t, "さ")
	f.hold(t, c)
	f.board.PointerMove(c, f.now)
	f.board.PointerMove(c.Add(geom.Pt(-50, -70)), f.now)
	f.board.PointerUp(c.Add(geom.Pt(-50, -70)), f.now)

	records, err := f.board.Store().Records(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, -0.5, records[0].XRatio, 1e-9)
	assert.InDelta(t, -0.5, records[0].YRatio, 1e-9)

	// Now move the input field itself into the viewer.
	grab := geom.Pt(20, 350)
	f.hold(t, grab)
	drag, ok := f.board.Dragging()
	require.True(t, ok)
	assert.Equal(t, keyboard.InputField, drag.Key)
	assert.Equal(t, gesture.OriginInputField, drag.Origin)

	f.board.PointerMove(grab, f.now)
	f.board.PointerMove(grab.Add(geom.Pt(50, -250)), f.now)
	f.board.PointerUp(grab.Add(geom.Pt(50, -250)), f.now)

	assert.False(t, f.board.InputFieldVisible())
	assert.True(t, f.board.Moved(keyboard.InputField))

	scene := f.board.Scene()
	clone, ok := scene.Clone()
	require.True(t, ok)
	require.Len(t, scene.Relocated, 2)

	// The key kept in the field follows the clone.
	key := scene.Relocated[1]
	assert.Equal(t, keyboard.Key("さ"), key.Visual.Key)
	assert.Equal(t, render.ContainerInputFieldClone, key.Container)
	assert.InDelta(t, clone.Rect.Center().X, key.Rect.Center().X, 1e-9)
	assert.InDelta(t, clone.Rect.Center().Y, key.Rect.Center().Y, 1e-9)
}

func TestSubmitAndClearedPuzzleLock(t *testing.T) {
	f := newFixture(t)
	f.flick(t, "あ", geom.Pt(0, 0))
	f.flick(t, keyboard.Submit, geom.Pt(0, 0))

	assert.Contains(t, f.rec.events, Event(SubmitAnswer{Text: "あ", Correct: true, Accepted: true}))
	assert.Equal(t, puzzle.FeedbackCorrect, f.board.Progress().Feedback())

	f.wait(2 * time.Second)
	assert.Equal(t, 1, f.board.Progress().CurrentPuzzle())
	assert.Empty(t, f.board.Text(), "text is cleared on load")
	assert.Contains(t, f.rec.events, Event(PuzzleLoaded{Index: 1}))

	require.True(t, f.board.MovePuzzle(-1, f.now))
	f.wait(time.Second)
	require.Equal(t, 0, f.board.Progress().CurrentPuzzle())

	c := f.center(t, "た")
	f.hold(t, c)
	_, dragging := f.board.Dragging()
	assert.False(t, dragging)
	assert.Equal(t, []string{placement.ClearedNotice}, f.rec.notices())

	f.board.PointerUp(c, f.now)
	assert.Empty(t, f.board.Text(), "refused hold does not type on release")
	assert.False(t, f.board.Busy())
}

func TestHintAndHelp(t *testing.T) {
	f := newFixture(t)
	f.flick(t, keyboard.Hint, geom.Pt(0, 0))
	f.flick(t, keyboard.Help, geom.Pt(0, 0))

	assert.Contains(t, f.rec.events, Event(RequestHint{Puzzle: 0, Hint: "ヒント1: 最初の謎です。"}))
	assert.Contains(t, f.rec.events, Event(RequestHelp{}))
}

func TestResetReplays(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.board.Store().Save(0, "ま", relocation.Viewer(0.1, 0.1)))
	require.Len(t, f.board.Scene().Relocated, 1)

	f.board.Reset()
	assert.Empty(t, f.board.Scene().Relocated)
	assert.False(t, f.board.Moved("ま"))
}

func TestPointerIgnoredOffMainScreen(t *testing.T) {
	store, err := relocation.NewStore(7)
	require.NoError(t, err)
	pack, err := puzzle.Default()
	require.NoError(t, err)
	b := New(store, puzzle.NewProgress(pack, nil), Options{})
	b.SetLayout(testLayout)

	assert.False(t, b.PointerDown(geom.Pt(70, 420), t0))
}

func TestHandleMouse(t *testing.T) {
	f := newFixture(t)
	c := f.center(t, "ら")
	x, y := int(c.X), int(c.Y)

	assert.False(t, f.board.HandleMouse(uv.MouseClickEvent{X: x, Y: y, Button: uv.MouseRight}, f.now))
	assert.False(t, f.board.HandleMouse(uv.MouseMotionEvent{X: x, Y: y}, f.now), "motion without a gesture is ignored")

	require.True(t, f.board.HandleMouse(uv.MouseClickEvent{X: x, Y: y, Button: uv.MouseLeft}, f.now))
	require.True(t, f.board.HandleMouse(uv.MouseMotionEvent{X: x, Y: y + 40, Button: uv.MouseLeft}, f.now))
	require.True(t, f.board.HandleMouse(uv.MouseReleaseEvent{X: x, Y: y + 40, Button: uv.MouseLeft}, f.now))
	assert.Equal(t, "ろ", f.board.Text())
}

func TestLocate(t *testing.T) {
	f := newFixture(t)
	p, err := f.board.Locate("は")
	require.NoError(t, err)
	assert.Equal(t, f.center(t, "は"), p)

	p, err = f.board.Locate(keyboard.InputField)
	require.NoError(t, err)
	assert.Equal(t, testLayout.InputField.Center(), p)

	require.NoError(t, f.board.Store().Save(0, "は", relocation.Viewer(0.5, 0.5)))
	p, err = f.board.Locate("は")
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(220, 170), p)

	_, err = f.board.Locate("z")
	assert.Error(t, err)
}
