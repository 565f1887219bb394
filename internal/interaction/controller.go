// Package interaction turns pointer and keyboard events into object
// mutations. The controller is a state machine over Idle, MarqueeSelect,
// Pan, DragMove, DragHandle, DragVertex, and LinkMode; it composes the hit
// tester, snap engine, and link resolver, and emits incremental
// object-mutation patches that the caller forwards to its persistence and
// undo collaborators.
package interaction

import (
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/formula"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/hittest"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/link"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/resolve"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/timeline"
)

// nudge distances in logical units.
const (
	nudgeStep      = 0.1
	nudgeStepLarge = 0.5
)

// Controller owns the interaction state for one editing surface. All
// methods are synchronous and must be called from a single goroutine; the
// scene is single-writer for the lifetime of a gesture.
type Controller struct {
	scn  *scene.Scene
	view geometry.ViewTransform
	time float64
	eval *formula.Evaluator

	snapEnabled bool

	state     State
	session   *DragSession
	selection []string

	// LinkMode working set: the source object and its eligible targets.
	linkSource  string
	linkTargets []string

	marqueeEnd geometry.Point

	patches []scene.Patch
}

// NewController creates a controller over the given scene with a centered
// view at scale 1 for the given viewport size.
func NewController(s *scene.Scene, viewportW, viewportH float64) *Controller {
	return &Controller{
		scn:         s,
		view:        geometry.NewViewTransform(viewportW, viewportH),
		eval:        formula.NewEvaluator(),
		snapEnabled: true,
		state:       StateIdle,
	}
}

// --- Accessors ---

// Scene returns the controller's scene.
func (c *Controller) Scene() *scene.Scene { return c.scn }

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// View returns the current view transform.
func (c *Controller) View() geometry.ViewTransform { return c.view }

// SetView replaces the view transform, clamping scale.
func (c *Controller) SetView(v geometry.ViewTransform) {
	v.Scale = geometry.ClampScale(v.Scale)
	c.view = v
}

// Time returns the current timeline position.
func (c *Controller) Time() float64 { return c.time }

// SetTime moves the timeline position, clamped to [0, duration].
func (c *Controller) SetTime(t float64) {
	if t < 0 {
		t = 0
	}
	if t > c.scn.Duration {
		t = c.scn.Duration
	}
	c.time = t
}

// Selection returns the selected object ids.
func (c *Controller) Selection() []string { return c.selection }

// SetSnapEnabled toggles position snapping.
func (c *Controller) SetSnapEnabled(on bool) { c.snapEnabled = on }

// SetSelection replaces the selection outside of a gesture, for callers
// that pick objects from a list rather than the canvas.
func (c *Controller) SetSelection(ids []string) {
	if c.session != nil {
		return
	}
	c.selection = append([]string(nil), ids...)
	c.updateLinkMode()
}

// LinkTargets returns the eligible target ids while in LinkMode, for the
// renderer to highlight.
func (c *Controller) LinkTargets() []string {
	if c.state != StateLinkMode {
		return nil
	}
	return c.linkTargets
}

// Marquee returns the selection rectangle while marquee-selecting.
func (c *Controller) Marquee() (geometry.Bounds, bool) {
	if c.state != StateMarqueeSelect || c.session == nil {
		return geometry.Bounds{}, false
	}
	a := c.session.StartLogical
	b := c.marqueeEnd
	return geometry.Bounds{
		MinX: minf(a.X, b.X), MaxX: maxf(a.X, b.X),
		MinY: minf(a.Y, b.Y), MaxY: maxf(a.Y, b.Y),
	}, true
}

// DrainPatches returns the mutation patches emitted since the last drain.
func (c *Controller) DrainPatches() []scene.Patch {
	out := c.patches
	c.patches = nil
	return out
}

func (c *Controller) resolver() *resolve.Resolver {
	return resolve.New(c.scn.BuildIndex(), c.eval)
}

// emit applies a partial-field patch to the scene and records it.
func (c *Controller) emit(objectID string, fields map[string]any) {
	obj := c.scn.ObjectByID(objectID)
	if obj == nil {
		return
	}
	scene.ApplyPatch(obj, fields)
	c.patches = append(c.patches, scene.NewPatch(objectID, fields))
}

// --- Pointer events ---

// PointerDown begins a gesture. An unfinished session is implicitly
// cancelled: committed patches stand, nothing is rolled back.
func (c *Controller) PointerDown(ev PointerEvent) {
	device := ev.point()
	logical := c.view.ToLogical(device)

	if c.session != nil {
		c.session = nil
	}

	// Pan is modifier-triggered and never touches object state.
	if ev.Mods.Space || ev.Button == 1 {
		c.session = newSession(StatePan, device, logical)
		c.state = StatePan
		return
	}

	if c.state == StateLinkMode && c.tryLink(device) {
		return
	}

	// Handles of the current selection take priority over shape hits.
	if len(c.selection) == 1 {
		if obj := c.scn.ObjectByID(c.selection[0]); obj != nil {
			if handleID := hittest.Handle(device, c.view, obj); handleID != "" {
				c.startHandleDrag(obj, handleID, device, logical)
				return
			}
		}
	}

	hit := hittest.Object(device, c.view, c.scn, c.time, c.resolver())
	if hit != "" {
		if ev.Mods.Shift {
			c.toggleSelected(hit)
			c.updateLinkMode()
			return
		}
		if !c.isSelected(hit) {
			c.selection = []string{hit}
		}
		c.startMoveDrag(hit, device, logical)
		return
	}

	// Miss: marquee select, deselecting first unless extending.
	if !ev.Mods.Shift {
		c.selection = nil
	}
	c.session = newSession(StateMarqueeSelect, device, logical)
	c.marqueeEnd = logical
	c.state = StateMarqueeSelect
}

// PointerMove advances the active gesture. Mutations are applied in strict
// event order and emitted incrementally.
func (c *Controller) PointerMove(ev PointerEvent) {
	if c.session == nil {
		return
	}
	device := ev.point()
	logical := c.view.ToLogical(device)

	switch c.state {
	case StatePan:
		c.view = c.view.Pan(device.X-c.session.StartDevice.X, device.Y-c.session.StartDevice.Y)
		c.session.StartDevice = device

	case StateMarqueeSelect:
		c.marqueeEnd = logical

	case StateDragMove:
		if !c.session.passedDeadZone(device) {
			return
		}
		c.applyMoveDrag(logical)

	case StateDragHandle:
		if !c.session.passedDeadZone(device) {
			return
		}
		c.applyHandleDrag(logical, ev.Mods)

	case StateDragVertex:
		if !c.session.passedDeadZone(device) {
			return
		}
		c.applyVertexDrag(logical, ev.Mods)
	}
}

// PointerUp ends the gesture and releases the session.
func (c *Controller) PointerUp(ev PointerEvent) {
	if c.session == nil {
		return
	}

	if c.state == StateMarqueeSelect {
		c.finishMarquee(c.view.ToLogical(ev.point()))
	}

	c.session = nil
	c.state = StateIdle
	c.updateLinkMode()
}

// Cancel aborts the active gesture or link mode (Escape). Mutations already
// committed mid-drag stand; the engine emits incrementally, not atomically.
func (c *Controller) Cancel() {
	c.session = nil
	c.linkSource = ""
	c.linkTargets = nil
	c.state = StateIdle
}

// Zoom rescales the view by factor anchored at the device point, so the
// logical point under the cursor stays put.
func (c *Controller) Zoom(factor float64, anchorX, anchorY float64) {
	c.view = c.view.ZoomAt(geometry.Point{X: anchorX, Y: anchorY}, factor)
}

// KeyDown handles keyboard commands outside of text entry.
func (c *Controller) KeyDown(key string, mods Modifiers) {
	switch key {
	case "Escape":
		c.Cancel()
	case "Delete", "Backspace":
		c.DeleteSelection()
	case "ArrowLeft":
		c.nudge(-c.nudgeAmount(mods), 0)
	case "ArrowRight":
		c.nudge(c.nudgeAmount(mods), 0)
	case "ArrowUp":
		c.nudge(0, c.nudgeAmount(mods))
	case "ArrowDown":
		c.nudge(0, -c.nudgeAmount(mods))
	}
}

func (c *Controller) nudgeAmount(mods Modifiers) float64 {
	if mods.Shift {
		return nudgeStepLarge
	}
	return nudgeStep
}

// --- Editing commands ---

// AddObject appends a new object of the given type, selects it, and emits
// a create patch. New composable tools enter LinkMode immediately when
// their required references are missing.
func (c *Controller) AddObject(t scene.ObjectType) string {
	id := c.scn.Add(t)
	c.patches = append(c.patches, scene.NewPatch(id, map[string]any{"create": string(t)}))
	c.selection = []string{id}
	c.updateLinkMode()
	return id
}

// DuplicateSelection duplicates every selected object and selects the
// copies.
func (c *Controller) DuplicateSelection() {
	var copies []string
	for _, id := range c.selection {
		if dup := c.scn.Duplicate(id); dup != "" {
			copies = append(copies, dup)
			c.patches = append(c.patches, scene.NewPatch(dup, map[string]any{"duplicateOf": id}))
		}
	}
	if len(copies) > 0 {
		c.selection = copies
		c.updateLinkMode()
	}
}

// DeleteSelection removes the selected objects; the scene clears foreign
// references that pointed at them.
func (c *Controller) DeleteSelection() {
	for _, id := range c.selection {
		if c.scn.Delete(id) {
			c.patches = append(c.patches, scene.NewPatch(id, map[string]any{"delete": true}))
		}
	}
	c.selection = nil
	c.session = nil
	c.linkSource = ""
	c.linkTargets = nil
	c.state = StateIdle
}

// DropClip forwards a timeline clip drop to the timeline rules and records
// the resulting patches.
func (c *Controller) DropClip(draggedID string, newStart float64, hoverRow int) {
	c.patches = append(c.patches, timeline.Drop(c.scn, draggedID, newStart, hoverRow)...)
}

// --- Selection helpers ---

func (c *Controller) isSelected(id string) bool {
	for _, s := range c.selection {
		if s == id {
			return true
		}
	}
	return false
}

func (c *Controller) toggleSelected(id string) {
	for i, s := range c.selection {
		if s == id {
			c.selection = append(c.selection[:i], c.selection[i+1:]...)
			return
		}
	}
	c.selection = append(c.selection, id)
}

// SelectionBounds returns the union of the selected objects' stored bounds.
func (c *Controller) SelectionBounds() (geometry.Bounds, bool) {
	first := true
	var b geometry.Bounds
	for _, id := range c.selection {
		obj := c.scn.ObjectByID(id)
		if obj == nil {
			continue
		}
		ob := geometry.ObjectBounds(obj)
		if first {
			b = ob
			first = false
		} else {
			b = b.Union(ob)
		}
	}
	return b, !first
}

// finishMarquee selects everything the marquee touches. Whether the result
// extends or replaces the previous selection was already decided at pointer
// down, where a plain click on empty canvas clears the selection.
func (c *Controller) finishMarquee(end geometry.Point) {
	c.marqueeEnd = end
	rect, ok := c.Marquee()
	if !ok {
		return
	}

	replaced := timeline.ReplacedAt(c.scn, c.time)
	for i := range c.scn.Objects {
		o := &c.scn.Objects[i]
		if !timeline.IsVisible(o, c.time, replaced) {
			continue
		}
		b := geometry.ObjectBounds(o)
		if b.MinX <= rect.MaxX && b.MaxX >= rect.MinX && b.MinY <= rect.MaxY && b.MaxY >= rect.MinY {
			if !c.isSelected(o.ID) {
				c.selection = append(c.selection, o.ID)
			}
		}
	}
}

// --- Link mode ---

// updateLinkMode enters LinkMode when exactly one object with missing
// required links is selected, and leaves it otherwise. An empty eligible
// set keeps the mode inert rather than failing.
func (c *Controller) updateLinkMode() {
	if c.state != StateIdle && c.state != StateLinkMode {
		return
	}

	if len(c.selection) == 1 {
		obj := c.scn.ObjectByID(c.selection[0])
		if obj != nil {
			status := link.GetLinkingStatus(obj, c.scn.BuildIndex())
			if !status.Complete {
				c.linkSource = obj.ID
				c.linkTargets = link.EligibleTargets(c.scn, obj, c.time)
				c.state = StateLinkMode
				return
			}
		}
	}

	c.linkSource = ""
	c.linkTargets = nil
	if c.state == StateLinkMode {
		c.state = StateIdle
	}
}

// tryLink attempts to complete a link from the LinkMode source to whatever
// eligible target is under the pointer. Returns true when the click was
// consumed by the link gesture.
func (c *Controller) tryLink(device geometry.Point) bool {
	hit := hittest.Object(device, c.view, c.scn, c.time, c.resolver())
	if hit == "" {
		return false
	}
	eligible := false
	for _, id := range c.linkTargets {
		if id == hit {
			eligible = true
			break
		}
	}
	if !eligible {
		return false
	}

	idx := c.scn.BuildIndex()
	source := idx[c.linkSource]
	target := idx[hit]
	updates := link.GenerateLinkUpdates(source, target, idx)
	if updates == nil {
		return false
	}

	// Chaining fields never come from link mode, but guard the transform
	// reference anyway: a link must not close a chain cycle.
	if tid, ok := updates["transformFromId"].(string); ok && tid != "" {
		if timeline.WouldCycle(idx, source.ID, tid) {
			return false
		}
	}

	c.emit(source.ID, updates)
	c.linkSource = ""
	c.linkTargets = nil
	c.state = StateIdle
	c.updateLinkMode()
	return true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
