package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/flickboard/internal/geom"
	"github.com/Gaurav-Gosain/flickboard/internal/gesture"
	"github.com/Gaurav-Gosain/flickboard/internal/keyboard"
	"github.com/Gaurav-Gosain/flickboard/internal/relocation"
)

type fakeProgress struct {
	current int
	cleared map[int]bool
}

func (p *fakeProgress) CurrentPuzzle() int         { return p.current }
func (p *fakeProgress) IsPuzzleCleared(i int) bool { return p.cleared[i] }
func (p *fakeProgress) clear(i int) *fakeProgress  { p.cleared[i] = true; return p }

func newProgress(current int) *fakeProgress {
	return &fakeProgress{current: current, cleared: map[int]bool{}}
}

type harness struct {
	session  *gesture.Session
	store    *relocation.Store
	progress *fakeProgress
	engine   *Engine
	notices  []string
	drops    []int
}

func newHarness(t *testing.T, current int) *harness {
	t.Helper()
	store, err := relocation.NewStore(7)
	require.NoError(t, err)
	h := &harness{
		session:  gesture.NewSession(),
		store:    store,
		progress: newProgress(current),
	}
	h.engine = NewEngine(h.session, store, h.progress, Options{
		Notifier: NotifierFunc(func(msg string) { h.notices = append(h.notices, msg) }),
		OnDrop:   func(p int) { h.drops = append(h.drops, p) },
	})
	return h
}

// Viewer is 400x300 at (0,0); the input field is 240x60 at (0,320).
var layout = Geometry{
	Viewer:            geom.R(0, 0, 400, 300),
	InputField:        geom.R(0, 320, 240, 60),
	InputFieldVisible: true,
}

// keyBase is a 40x40 key whose 1.1 scaled box is 44x44 around the same center.
var keyBase = geom.R(100, 500, 40, 40)

func (h *harness) drag(t *testing.T, key keyboard.Key, origin gesture.Origin, to geom.Point) DropResult {
	t.Helper()
	require.True(t, h.engine.StartDrag(gesture.DragHandoff{Key: key, Origin: origin}, keyBase))
	h.engine.Move(geom.Pt(0, 0))
	h.engine.Move(to)
	return h.engine.End(to, layout)
}

func TestDropInViewerStoresTopLeftRatio(t *testing.T) {
	h := newHarness(t, 2)
	// Offset (-40,-420) moves the scaled key to (58,78).
	res := h.drag(t, "あ", gesture.OriginKeyboard, geom.Pt(-40, -420))

	assert.Equal(t, DropViewer, res.Outcome)
	assert.InDelta(t, 58.0/400, res.Placement.X, 1e-9)
	assert.InDelta(t, 78.0/300, res.Placement.Y, 1e-9)
	assert.Equal(t, relocation.SpaceViewer, res.Placement.Space)
	assert.Equal(t, relocation.Encode("あ", res.Placement), res.Record)
	assert.Positive(t, res.Record.XRatio)
	assert.True(t, h.store.Contains(2, "あ"))
	assert.Equal(t, []int{2}, h.drops)
	assert.False(t, h.session.DragActive)
	assert.False(t, h.engine.Active())
}

func TestViewerRatioRoundTrip(t *testing.T) {
	h := newHarness(t, 0)
	res := h.drag(t, "か", gesture.OriginKeyboard, geom.Pt(137, -391))
	require.Equal(t, DropViewer, res.Outcome)

	x := layout.Viewer.X + res.Placement.X*layout.Viewer.Width
	y := layout.Viewer.Y + res.Placement.Y*layout.Viewer.Height
	assert.InDelta(t, res.Rect.X, x, 1e-9)
	assert.InDelta(t, res.Rect.Y, y, 1e-9)
}

func TestDropInInputFieldStoresNegativeCenterRatio(t *testing.T) {
	h := newHarness(t, 1)
	// Scaled key lands at (58,328) with center (80,350).
	res := h.drag(t, "さ", gesture.OriginKeyboard, geom.Pt(-40, -170))

	require.Equal(t, DropInputField, res.Outcome)
	assert.InDelta(t, 80.0/240, res.Placement.X, 1e-9)
	assert.InDelta(t, 30.0/60, res.Placement.Y, 1e-9)

	records, err := h.store.Records(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Negative(t, records[0].XRatio)
	assert.Negative(t, records[0].YRatio)
	assert.Equal(t, records[0], res.Record)
}

func TestDropInClonedInputField(t *testing.T) {
	h := newHarness(t, 1)
	g := layout
	g.InputFieldVisible = false
	g.HasInputFieldClone = true
	g.InputFieldClone = geom.R(500, 0, 240, 60)

	require.True(t, h.engine.StartDrag(gesture.DragHandoff{Key: "た"}, keyBase))
	h.engine.Move(geom.Pt(0, 0))
	h.engine.Move(geom.Pt(420, -492))
	res := h.engine.End(geom.Pt(420, -492), g)

	require.Equal(t, DropInputField, res.Outcome)
	c := res.Rect.Center()
	assert.InDelta(t, (c.X-500)/240, res.Placement.X, 1e-9)
}

func TestDropOutsideReturnsToKeyboard(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.store.Save(4, "な", relocation.Viewer(0.1, 0.1)))

	res := h.drag(t, "な", gesture.OriginKeyboard, geom.Pt(0, 0))
	assert.Equal(t, DropNone, res.Outcome)
	assert.Zero(t, res.Record)
	assert.Equal(t, 1, res.Purged)
	assert.Zero(t, h.store.Count())
	assert.Equal(t, []int{0}, h.drops, "replay runs after failed drops too")
}

func TestCrossPuzzleExclusivity(t *testing.T) {
	h := newHarness(t, 3)
	for i := 0; i < 7; i++ {
		require.NoError(t, h.store.Save(i, "ま", relocation.Viewer(0.2, 0.2)))
		require.NoError(t, h.store.Save(i, keyboard.InputField, relocation.Viewer(0.5, 0.5)))
	}

	h.drag(t, "ま", gesture.OriginKeyboard, geom.Pt(-40, -420))
	h.drag(t, keyboard.InputField, gesture.OriginKeyboard, geom.Pt(-40, -420))

	for i := 0; i < 7; i++ {
		assert.Equal(t, i == 3, h.store.Contains(i, "ま"), "puzzle %d", i)
		assert.True(t, h.store.Contains(i, keyboard.InputField), "input field stays in puzzle %d", i)
	}
}

func TestInputFieldVisibility(t *testing.T) {
	h := newHarness(t, 0)

	res := h.drag(t, keyboard.InputField, gesture.OriginInputField, geom.Pt(-40, -420))
	assert.Equal(t, DropViewer, res.Outcome)
	assert.True(t, res.InputFieldChanged)
	assert.True(t, res.InputFieldHidden)

	res = h.drag(t, keyboard.InputField, gesture.OriginRelocated, geom.Pt(0, 0))
	assert.Equal(t, DropNone, res.Outcome)
	assert.True(t, res.InputFieldChanged)
	assert.False(t, res.InputFieldHidden)
	assert.False(t, h.store.Contains(0, keyboard.InputField))

	res = h.drag(t, "あ", gesture.OriginKeyboard, geom.Pt(0, 0))
	assert.False(t, res.InputFieldChanged)
}

func TestInputFieldCannotDropIntoItself(t *testing.T) {
	h := newHarness(t, 0)
	res := h.drag(t, keyboard.InputField, gesture.OriginInputField, geom.Pt(-40, -170))
	assert.Equal(t, DropNone, res.Outcome)
}

func TestClearedPuzzleRefusesDrag(t *testing.T) {
	h := newHarness(t, 5)
	h.progress.clear(5)

	ok := h.engine.StartDrag(gesture.DragHandoff{Key: "あ"}, keyBase)
	assert.False(t, ok)
	assert.Equal(t, []string{ClearedNotice}, h.notices)
	assert.False(t, h.session.DragActive)
	assert.Equal(t, DropIgnored, h.engine.End(geom.Pt(0, 0), layout).Outcome)
	assert.Empty(t, h.drops)
}

func TestStartFromRelocatedRemovesOriginRecord(t *testing.T) {
	h := newHarness(t, 2)
	require.NoError(t, h.store.Save(2, "ら", relocation.Viewer(0.3, 0.3)))

	require.True(t, h.engine.StartDrag(gesture.DragHandoff{Key: "ら", Origin: gesture.OriginRelocated}, keyBase))
	assert.False(t, h.store.Contains(2, "ら"))
	assert.True(t, h.engine.Active())
}

func TestReentryGuard(t *testing.T) {
	h := newHarness(t, 0)
	require.True(t, h.engine.StartDrag(gesture.DragHandoff{Key: "あ"}, keyBase))
	assert.False(t, h.engine.StartDrag(gesture.DragHandoff{Key: "か"}, keyBase))

	d, ok := h.engine.Dragging()
	require.True(t, ok)
	assert.Equal(t, keyboard.Key("あ"), d.Key)
}

func TestFirstMoveSetsAnchor(t *testing.T) {
	h := newHarness(t, 0)
	require.True(t, h.engine.StartDrag(gesture.DragHandoff{Key: "あ"}, keyBase))

	h.engine.Move(geom.Pt(200, 200))
	d, _ := h.engine.Dragging()
	assert.Equal(t, geom.Point{}, d.Offset, "first sample must not jump")

	h.engine.Move(geom.Pt(230, 190))
	d, _ = h.engine.Dragging()
	assert.Equal(t, geom.Pt(30, -10), d.Offset)
	assert.Equal(t, 1.1, d.Scale)
}

func TestMissingFieldGeometryFallsBack(t *testing.T) {
	h := newHarness(t, 0)
	g := Geometry{
		Viewer:             geom.R(1000, 1000, 10, 10),
		HasInputFieldClone: true,
		InputFieldClone:    geom.Rect{X: 58, Y: 78},
	}
	require.True(t, h.engine.StartDrag(gesture.DragHandoff{Key: "あ"}, geom.Rect{X: 58, Y: 78}))
	res := h.engine.End(geom.Pt(0, 0), g)

	require.Equal(t, DropInputField, res.Outcome)
	assert.Equal(t, relocation.InField(0.5, 0.5), res.Placement)
}
