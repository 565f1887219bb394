package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

func newTestController(objs ...scene.Object) *Controller {
	s := &scene.Scene{Objects: objs, Duration: 10}
	return NewController(s, 800, 600)
}

// down/move/up build pointer events at device coordinates. The test view
// maps logical (0,0) to device (400,300) at 60 px per unit.
func down(x, y float64) PointerEvent { return PointerEvent{X: x, Y: y} }
func move(x, y float64) PointerEvent { return PointerEvent{X: x, Y: y} }

func rectObj(id string) scene.Object {
	return scene.Object{
		ID: id, Type: scene.TypeRectangle,
		Width: 2, Height: 1.5, Opacity: 1, RunTime: 10,
	}
}

func TestClickSelectsTopmostObject(t *testing.T) {
	c := newTestController(rectObj("r"))

	c.PointerDown(down(400, 300))
	assert.Equal(t, []string{"r"}, c.Selection())
	assert.Equal(t, StateDragMove, c.State())

	c.PointerUp(move(400, 300))
	assert.Equal(t, StateIdle, c.State())
}

func TestClickOnEmptyStartsMarqueeAndClearsSelection(t *testing.T) {
	c := newTestController(rectObj("r"))
	c.SetSelection([]string{"r"})

	c.PointerDown(down(700, 100))
	assert.Equal(t, StateMarqueeSelect, c.State())
	assert.Empty(t, c.Selection())
}

func TestShiftClickTogglesSelection(t *testing.T) {
	a := rectObj("a")
	b := rectObj("b")
	b.X = 4
	c := newTestController(a, b)

	c.PointerDown(down(400, 300))
	c.PointerUp(move(400, 300))
	require.Equal(t, []string{"a"}, c.Selection())

	// Shift-click b at logical (4, 0) → device (640, 300).
	c.PointerDown(PointerEvent{X: 640, Y: 300, Mods: Modifiers{Shift: true}})
	assert.ElementsMatch(t, []string{"a", "b"}, c.Selection())

	c.PointerDown(PointerEvent{X: 640, Y: 300, Mods: Modifiers{Shift: true}})
	assert.Equal(t, []string{"a"}, c.Selection())
}

func TestDragMoveWithinDeadZoneDoesNothing(t *testing.T) {
	c := newTestController(rectObj("r"))

	c.PointerDown(down(400, 300))
	c.PointerMove(move(402, 301))
	c.PointerUp(move(402, 301))

	assert.Empty(t, c.DrainPatches())
	obj := c.Scene().ObjectByID("r")
	assert.InDelta(t, 0, obj.X, 1e-9)
}

func TestDragMoveSnapsToGrid(t *testing.T) {
	c := newTestController(rectObj("r"))

	c.PointerDown(down(400, 300))
	// Logical delta (1.05, 0.95): the raw position grid-snaps to (1, 1).
	c.PointerMove(move(463, 243))
	c.PointerUp(move(463, 243))

	obj := c.Scene().ObjectByID("r")
	assert.InDelta(t, 1, obj.X, 1e-9)
	assert.InDelta(t, 1, obj.Y, 1e-9)

	patches := c.DrainPatches()
	require.NotEmpty(t, patches)
	assert.Equal(t, "r", patches[0].ObjectID)
}

func TestDragMoveRigidMultiSelection(t *testing.T) {
	a := rectObj("a")
	ln := scene.Object{ID: "ln", Type: scene.TypeLine, X: 3, Y: 0, X2: 4, Y2: 1, RunTime: 10, Opacity: 1}
	c := newTestController(a, ln)
	c.SetSelection([]string{"a", "ln"})

	// Grab a at its center and move by exactly (1, 1).
	c.PointerDown(down(400, 300))
	c.PointerMove(move(460, 240))
	c.PointerUp(move(460, 240))

	// The whole selection moved by the same snapped delta, endpoints included.
	lnObj := c.Scene().ObjectByID("ln")
	assert.InDelta(t, 4, lnObj.X, 1e-9)
	assert.InDelta(t, 1, lnObj.Y, 1e-9)
	assert.InDelta(t, 5, lnObj.X2, 1e-9)
	assert.InDelta(t, 2, lnObj.Y2, 1e-9)
}

func TestMarqueeSelectsIntersectingVisible(t *testing.T) {
	a := rectObj("a") // bounds (-1..1, -0.75..0.75)
	far := rectObj("far")
	far.X = 10
	hidden := rectObj("hidden")
	hidden.Delay = 5
	hidden.RunTime = 1
	c := newTestController(a, far, hidden)

	// Marquee from logical (-2, -2) to (2, 2).
	c.PointerDown(down(280, 420))
	c.PointerMove(move(520, 180))
	c.PointerUp(move(520, 180))

	assert.Equal(t, []string{"a"}, c.Selection())
}

func TestShiftMarqueeExtendsSelection(t *testing.T) {
	a := rectObj("a")
	b := rectObj("b")
	b.X = 4 // bounds (3..5, -0.75..0.75)
	c := newTestController(a, b)
	c.SetSelection([]string{"a"})

	// Shift-drag from empty logical (2.5, 2) to (5, -1): covers b only, and
	// the shift keeps a selected.
	c.PointerDown(PointerEvent{X: 550, Y: 180, Mods: Modifiers{Shift: true}})
	require.Equal(t, StateMarqueeSelect, c.State())
	assert.Equal(t, []string{"a"}, c.Selection())

	c.PointerMove(move(700, 360))
	c.PointerUp(move(700, 360))

	assert.ElementsMatch(t, []string{"a", "b"}, c.Selection())
}

func TestPanMovesViewNotObjects(t *testing.T) {
	c := newTestController(rectObj("r"))
	before := c.View()

	c.PointerDown(PointerEvent{X: 400, Y: 300, Mods: Modifiers{Space: true}})
	require.Equal(t, StatePan, c.State())
	c.PointerMove(move(430, 310))
	c.PointerUp(move(430, 310))

	assert.InDelta(t, before.OffsetX+30, c.View().OffsetX, 1e-9)
	assert.InDelta(t, before.OffsetY+10, c.View().OffsetY, 1e-9)
	assert.Empty(t, c.DrainPatches())
}

func TestCornerResizeClampsToMinimum(t *testing.T) {
	c := newTestController(rectObj("r"))
	c.SetSelection([]string{"r"})

	// Grab corner-1 (top right, logical (1, 0.75) → device (460, 255)) and
	// drag past the fixed corner-3 at (-1, -0.75).
	c.PointerDown(down(460, 255))
	require.Equal(t, StateDragHandle, c.State())

	// Logical (-0.95, -0.7) → device (343, 342). x snaps to -1, y stays.
	c.PointerMove(move(343, 342))
	c.PointerUp(move(343, 342))

	obj := c.Scene().ObjectByID("r")
	assert.InDelta(t, 0.2, obj.Width, 1e-9)
	assert.InDelta(t, 0.2, obj.Height, 1e-9)
	assert.InDelta(t, -0.9, obj.X, 1e-9)
	assert.InDelta(t, -0.65, obj.Y, 1e-9)
}

func TestEndpointDragSnapsIndependently(t *testing.T) {
	ln := scene.Object{ID: "ln", Type: scene.TypeLine, X: -1, Y: 0, X2: 1, Y2: 0, RunTime: 10, Opacity: 1}
	c := newTestController(ln)
	c.SetSelection([]string{"ln"})

	// Grab the end handle at logical (1, 0) → device (460, 300) and drag to
	// logical (2.05, 0.95), which grid-snaps to (2, 1).
	c.PointerDown(down(460, 300))
	require.Equal(t, StateDragHandle, c.State())
	c.PointerMove(move(523, 243))
	c.PointerUp(move(523, 243))

	obj := c.Scene().ObjectByID("ln")
	assert.InDelta(t, 2, obj.X2, 1e-9)
	assert.InDelta(t, 1, obj.Y2, 1e-9)
	// The start endpoint never moved.
	assert.InDelta(t, -1, obj.X, 1e-9)
	assert.InDelta(t, 0, obj.Y, 1e-9)
}

func TestVertexDragStoresRelative(t *testing.T) {
	tri := scene.Object{
		ID: "tri", Type: scene.TypeTriangle, X: 1, Y: 0, RunTime: 10, Opacity: 1,
		Vertices: []scene.Vertex{{X: 0, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}},
	}
	c := newTestController(tri)
	c.SetSelection([]string{"tri"})

	// vertex-0 sits at absolute (1, 1) → device (460, 240).
	c.PointerDown(down(460, 240))
	require.Equal(t, StateDragVertex, c.State())

	// Drag to absolute (2, 2) → device (520, 180): stored as (1, 2) relative.
	c.PointerMove(move(520, 180))
	c.PointerUp(move(520, 180))

	obj := c.Scene().ObjectByID("tri")
	require.Len(t, obj.Vertices, 3)
	assert.InDelta(t, 1, obj.Vertices[0].X, 1e-9)
	assert.InDelta(t, 2, obj.Vertices[0].Y, 1e-9)
}

func TestAddObjectSelectsAndEntersLinkModeForTools(t *testing.T) {
	c := newTestController()

	id := c.AddObject(scene.TypeRectangle)
	require.NotEmpty(t, id)
	assert.Equal(t, []string{id}, c.Selection())
	assert.Equal(t, StateIdle, c.State())

	gid := c.AddObject(scene.TypeGraph)
	assert.Equal(t, []string{gid}, c.Selection())
	assert.Equal(t, StateLinkMode, c.State())
}

func TestLinkModeClickCompletesLink(t *testing.T) {
	axes := scene.Object{
		ID: "ax", Type: scene.TypeAxes, RunTime: 10, Opacity: 1,
		XRange: &scene.Range{Min: -5, Max: 5, Step: 1}, YRange: &scene.Range{Min: -3, Max: 3, Step: 1},
		XLength: 10, YLength: 6,
	}
	graph := scene.Object{ID: "g", Type: scene.TypeGraph, RunTime: 10, Opacity: 1}
	c := newTestController(axes, graph)

	c.SetSelection([]string{"g"})
	require.Equal(t, StateLinkMode, c.State())
	assert.Equal(t, []string{"ax"}, c.LinkTargets())

	// Click the axes' x-axis at logical (3, 0) → device (580, 300).
	c.PointerDown(down(580, 300))

	assert.Equal(t, "ax", c.Scene().ObjectByID("g").AxesID)
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.LinkTargets())
}

func TestEscapeLeavesLinkMode(t *testing.T) {
	c := newTestController()
	c.AddObject(scene.TypeGraphCursor)
	require.Equal(t, StateLinkMode, c.State())

	c.KeyDown("Escape", Modifiers{})
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.LinkTargets())
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	c := newTestController(rectObj("r"))
	c.SetSelection([]string{"r"})

	c.KeyDown("Delete", Modifiers{})
	assert.Nil(t, c.Scene().ObjectByID("r"))
	assert.Empty(t, c.Selection())
}

func TestArrowKeysNudge(t *testing.T) {
	c := newTestController(rectObj("r"))
	c.SetSelection([]string{"r"})

	c.KeyDown("ArrowRight", Modifiers{})
	c.KeyDown("ArrowUp", Modifiers{Shift: true})

	obj := c.Scene().ObjectByID("r")
	assert.InDelta(t, 0.1, obj.X, 1e-9)
	assert.InDelta(t, 0.5, obj.Y, 1e-9)
}

func TestDuplicateSelectionSelectsCopies(t *testing.T) {
	c := newTestController(rectObj("r"))
	c.SetSelection([]string{"r"})

	c.DuplicateSelection()
	require.Len(t, c.Selection(), 1)
	assert.NotEqual(t, "r", c.Selection()[0])
	assert.Len(t, c.Scene().Objects, 2)
}

func TestSetTimeClamps(t *testing.T) {
	c := newTestController()
	c.SetTime(-1)
	assert.InDelta(t, 0, c.Time(), 1e-9)
	c.SetTime(99)
	assert.InDelta(t, 10, c.Time(), 1e-9)
}

func TestBringToFrontAndNoOp(t *testing.T) {
	a := rectObj("a")
	b := rectObj("b")
	b.ZIndex = 3
	c := newTestController(a, b)
	c.SetSelection([]string{"a"})

	c.BringToFront()
	assert.Equal(t, 4, c.Scene().ObjectByID("a").ZIndex)

	// Already topmost: nothing emitted.
	c.DrainPatches()
	c.BringToFront()
	assert.Empty(t, c.DrainPatches())
}

func TestSendToBack(t *testing.T) {
	a := rectObj("a")
	b := rectObj("b")
	b.ZIndex = -2
	c := newTestController(a, b)
	c.SetSelection([]string{"a"})

	c.SendToBack()
	assert.Equal(t, -3, c.Scene().ObjectByID("a").ZIndex)
}

func TestBringForwardSwapsWithNearestAbove(t *testing.T) {
	a := rectObj("a") // zIndex 0
	b := rectObj("b")
	b.ZIndex = 2
	d := rectObj("d")
	d.ZIndex = 5
	c := newTestController(a, b, d)
	c.SetSelection([]string{"a"})

	c.BringForward()
	assert.Equal(t, 2, c.Scene().ObjectByID("a").ZIndex)
	assert.Equal(t, 0, c.Scene().ObjectByID("b").ZIndex)
	assert.Equal(t, 5, c.Scene().ObjectByID("d").ZIndex)

	// At the top there is nothing to swap with.
	c.SetSelection([]string{"d"})
	c.DrainPatches()
	c.BringForward()
	assert.Empty(t, c.DrainPatches())
}

func TestSendBackwardAtBottomNoOp(t *testing.T) {
	a := rectObj("a")
	c := newTestController(a)
	c.SetSelection([]string{"a"})

	c.SendBackward()
	assert.Empty(t, c.DrainPatches())
}

func TestDropClipEmitsPatches(t *testing.T) {
	a := rectObj("a")
	b := rectObj("b")
	b.Delay = 5
	c := newTestController(a, b)

	// b dropped onto a's row right at a's end chains it on.
	a2 := c.Scene().ObjectByID("a")
	a2.RunTime = 1
	c.DropClip("b", 1.1, 0)

	assert.Equal(t, "a", c.Scene().ObjectByID("b").TransformFromID)
	assert.NotEmpty(t, c.DrainPatches())
}
