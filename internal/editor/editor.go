// Package editor is the embedding surface of the interaction engine: one
// Editor owns a scene, a view, the playhead, and the interaction
// controller, and exposes a command/query API with JSON results so the
// wasm binding and the server can drive it uniformly.
package editor

import (
	"encoding/json"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/interaction"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/link"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/timeline"
)

// Editor owns the editing state for one scene.
type Editor struct {
	scn  *scene.Scene
	ctrl *interaction.Controller

	playing bool

	viewportW float64
	viewportH float64
}

// NewEditor creates an editor with an empty scene and a viewport of the
// given device size.
func NewEditor(viewportW, viewportH float64) *Editor {
	s := scene.NewEmptyScene()
	return &Editor{
		scn:       s,
		ctrl:      interaction.NewController(s, viewportW, viewportH),
		viewportW: viewportW,
		viewportH: viewportH,
	}
}

// --- Commands ---

// LoadScene replaces the scene from JSON, resetting playhead and selection.
func (e *Editor) LoadScene(jsonData string) error {
	s, err := scene.Parse([]byte(jsonData))
	if err != nil {
		return err
	}
	e.scn = s
	e.ctrl = interaction.NewController(s, e.viewportW, e.viewportH)
	e.playing = false
	return nil
}

// UpdateScene reloads the scene from JSON while preserving the playhead and
// view, for remote edits arriving mid-session. Selection is dropped: the
// selected objects may no longer exist.
func (e *Editor) UpdateScene(jsonData string) error {
	s, err := scene.Parse([]byte(jsonData))
	if err != nil {
		return err
	}

	t := e.ctrl.Time()
	view := e.ctrl.View()
	e.scn = s
	e.ctrl = interaction.NewController(s, e.viewportW, e.viewportH)
	e.ctrl.SetTime(t)
	e.ctrl.SetView(view)
	return nil
}

// LoadSampleScene loads the built-in demonstration scene.
func (e *Editor) LoadSampleScene() {
	e.scn = scene.NewSampleScene()
	e.ctrl = interaction.NewController(e.scn, e.viewportW, e.viewportH)
	e.playing = false
}

// PointerDown forwards a pointer press.
func (e *Editor) PointerDown(x, y float64, button int, shift, alt, ctrl, space bool) {
	e.ctrl.PointerDown(interaction.PointerEvent{
		X: x, Y: y, Button: button,
		Mods: interaction.Modifiers{Shift: shift, Alt: alt, Ctrl: ctrl, Space: space},
	})
}

// PointerMove forwards a pointer move.
func (e *Editor) PointerMove(x, y float64, shift, alt, ctrl, space bool) {
	e.ctrl.PointerMove(interaction.PointerEvent{
		X: x, Y: y,
		Mods: interaction.Modifiers{Shift: shift, Alt: alt, Ctrl: ctrl, Space: space},
	})
}

// PointerUp forwards a pointer release.
func (e *Editor) PointerUp(x, y float64) {
	e.ctrl.PointerUp(interaction.PointerEvent{X: x, Y: y})
}

// KeyDown forwards a keyboard command.
func (e *Editor) KeyDown(key string, shift, alt, ctrl bool) {
	e.ctrl.KeyDown(key, interaction.Modifiers{Shift: shift, Alt: alt, Ctrl: ctrl})
}

// Zoom rescales the view around a device anchor.
func (e *Editor) Zoom(factor, anchorX, anchorY float64) {
	e.ctrl.Zoom(factor, anchorX, anchorY)
}

// AddObject creates an object of the named type and returns its id.
// Unknown type names return "".
func (e *Editor) AddObject(typeName string) string {
	t := scene.ObjectType(typeName)
	if !scene.KnownType(t) {
		return ""
	}
	return e.ctrl.AddObject(t)
}

// DuplicateSelection duplicates the selected objects.
func (e *Editor) DuplicateSelection() { e.ctrl.DuplicateSelection() }

// DeleteSelection deletes the selected objects.
func (e *Editor) DeleteSelection() { e.ctrl.DeleteSelection() }

// BringToFront raises the primary selection to the top of the stack.
func (e *Editor) BringToFront() { e.ctrl.BringToFront() }

// SendToBack lowers the primary selection to the bottom of the stack.
func (e *Editor) SendToBack() { e.ctrl.SendToBack() }

// BringForward raises the primary selection one step.
func (e *Editor) BringForward() { e.ctrl.BringForward() }

// SendBackward lowers the primary selection one step.
func (e *Editor) SendBackward() { e.ctrl.SendBackward() }

// SetSnapEnabled toggles position snapping.
func (e *Editor) SetSnapEnabled(on bool) { e.ctrl.SetSnapEnabled(on) }

// SetSelection replaces the selection, used when a panel (not the canvas)
// picks objects.
func (e *Editor) SetSelection(ids []string) { e.ctrl.SetSelection(ids) }

// ApplyPatch applies one partial-field update from the properties panel or
// a remote peer, without emitting it back.
func (e *Editor) ApplyPatch(jsonData string) error {
	var p scene.Patch
	if err := json.Unmarshal([]byte(jsonData), &p); err != nil {
		return err
	}
	if obj := e.scn.ObjectByID(p.ObjectID); obj != nil {
		scene.ApplyPatch(obj, p.Fields)
	}
	return nil
}

// DropClip handles a timeline clip drop.
func (e *Editor) DropClip(draggedID string, newStart float64, hoverRow int) {
	e.ctrl.DropClip(draggedID, newStart, hoverRow)
}

// SetTime moves the playhead.
func (e *Editor) SetTime(t float64) { e.ctrl.SetTime(t) }

// Play starts playback.
func (e *Editor) Play() { e.playing = true }

// Pause stops playback.
func (e *Editor) Pause() { e.playing = false }

// TogglePlay toggles play/pause state.
func (e *Editor) TogglePlay() { e.playing = !e.playing }

// Tick advances the playhead by dt seconds when playing, wrapping at the
// scene duration.
func (e *Editor) Tick(dt float64) {
	if !e.playing {
		return
	}
	t := e.ctrl.Time() + dt
	if t > e.scn.Duration {
		t = 0
	}
	e.ctrl.SetTime(t)
}

// --- Queries ---

// GetScene returns the scene as JSON.
func (e *Editor) GetScene() string {
	data, err := e.scn.Marshal()
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetState returns interaction, view, and playback state as JSON.
func (e *Editor) GetState() string {
	data, _ := json.Marshal(map[string]any{
		"state":    e.ctrl.State().String(),
		"time":     e.ctrl.Time(),
		"playing":  e.playing,
		"duration": e.scn.Duration,
		"view":     e.ctrl.View(),
	})
	return string(data)
}

// GetSelection returns the selected ids as JSON.
func (e *Editor) GetSelection() string {
	ids := e.ctrl.Selection()
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// GetSelectionBounds returns the selection's bounding box as JSON, or "null"
// when nothing is selected.
func (e *Editor) GetSelectionBounds() string {
	b, ok := e.ctrl.SelectionBounds()
	if !ok {
		return "null"
	}
	data, _ := json.Marshal(map[string]float64{
		"minX": b.MinX, "maxX": b.MaxX, "minY": b.MinY, "maxY": b.MaxY,
	})
	return string(data)
}

// GetLinkTargets returns the eligible link-target ids as JSON while in link
// mode, and "[]" otherwise.
func (e *Editor) GetLinkTargets() string {
	ids := e.ctrl.LinkTargets()
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// GetLinkingStatus returns the link state of one object as JSON.
func (e *Editor) GetLinkingStatus(objectID string) string {
	idx := e.scn.BuildIndex()
	obj := idx[objectID]
	if obj == nil {
		return "null"
	}
	status := link.GetLinkingStatus(obj, idx)
	data, _ := json.Marshal(map[string]any{
		"complete":      status.Complete,
		"missing":       status.Missing,
		"eligibleTypes": status.EligibleTypes,
	})
	return string(data)
}

// GetTimelineRows returns the transform-chain rows as JSON.
func (e *Editor) GetTimelineRows() string {
	rows := timeline.Rows(e.scn)
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]any{"root": r.Root, "clipIds": r.ClipIDs})
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// GetVisibleIDs returns the ids visible at the current playhead as JSON.
func (e *Editor) GetVisibleIDs() string {
	ids := timeline.VisibleIDs(e.scn, e.ctrl.Time())
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// GetHandles returns the handles of the primary selected object as JSON.
func (e *Editor) GetHandles() string {
	sel := e.ctrl.Selection()
	if len(sel) != 1 {
		return "[]"
	}
	obj := e.scn.ObjectByID(sel[0])
	if obj == nil {
		return "[]"
	}
	handles := geometry.Handles(obj)
	out := make([]map[string]any, 0, len(handles))
	for _, h := range handles {
		out = append(out, map[string]any{"id": h.ID, "x": h.X, "y": h.Y})
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// DrainPatches returns the mutations emitted since the last drain as JSON.
func (e *Editor) DrainPatches() string {
	patches := e.ctrl.DrainPatches()
	if patches == nil {
		patches = []scene.Patch{}
	}
	data, _ := json.Marshal(patches)
	return string(data)
}

// Time returns the current playhead position.
func (e *Editor) Time() float64 { return e.ctrl.Time() }

// IsPlaying returns whether playback is active.
func (e *Editor) IsPlaying() bool { return e.playing }

// Scene returns the underlying scene for in-process callers.
func (e *Editor) Scene() *scene.Scene { return e.scn }

// Controller returns the interaction controller for in-process callers.
func (e *Editor) Controller() *interaction.Controller { return e.ctrl }
