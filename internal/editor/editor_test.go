package editor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSceneResetsState(t *testing.T) {
	e := NewEditor(800, 600)
	e.Play()
	e.SetTime(3)

	err := e.LoadScene(`{"objects": [{"id": "a", "type": "circle", "radius": 1}], "duration": 8}`)
	require.NoError(t, err)

	assert.False(t, e.IsPlaying())
	assert.InDelta(t, 0, e.Time(), 1e-9)
	require.Len(t, e.Scene().Objects, 1)
	assert.Equal(t, "a", e.Scene().Objects[0].ID)
}

func TestLoadSceneRejectsBadJSON(t *testing.T) {
	e := NewEditor(800, 600)
	assert.Error(t, e.LoadScene(`{nope`))
}

func TestUpdateScenePreservesPlayheadDropsSelection(t *testing.T) {
	e := NewEditor(800, 600)
	require.NoError(t, e.LoadScene(`{"objects": [{"id": "a", "type": "circle", "radius": 1, "runTime": 10}], "duration": 8}`))
	e.SetSelection([]string{"a"})
	e.SetTime(3)

	require.NoError(t, e.UpdateScene(`{"objects": [], "duration": 8}`))

	assert.InDelta(t, 3, e.Time(), 1e-9)
	assert.Equal(t, "[]", e.GetSelection())
}

func TestAddObjectRejectsUnknownType(t *testing.T) {
	e := NewEditor(800, 600)

	assert.Empty(t, e.AddObject("sprite"))
	assert.NotEmpty(t, e.AddObject("rectangle"))
	assert.Len(t, e.Scene().Objects, 1)
}

func TestTickWrapsAtDuration(t *testing.T) {
	e := NewEditor(800, 600)
	require.NoError(t, e.LoadScene(`{"objects": [], "duration": 2}`))

	// Paused ticks do nothing.
	e.Tick(1)
	assert.InDelta(t, 0, e.Time(), 1e-9)

	e.Play()
	e.Tick(1.5)
	assert.InDelta(t, 1.5, e.Time(), 1e-9)
	e.Tick(1)
	assert.InDelta(t, 0, e.Time(), 1e-9)
}

func TestTogglePlay(t *testing.T) {
	e := NewEditor(800, 600)
	e.TogglePlay()
	assert.True(t, e.IsPlaying())
	e.TogglePlay()
	assert.False(t, e.IsPlaying())
}

func TestGetStateShape(t *testing.T) {
	e := NewEditor(800, 600)
	e.Play()

	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.GetState()), &state))

	assert.Equal(t, "idle", state["state"])
	assert.Equal(t, true, state["playing"])
	assert.Contains(t, state, "duration")
	assert.Contains(t, state, "view")
}

func TestGetSelectionBounds(t *testing.T) {
	e := NewEditor(800, 600)
	assert.Equal(t, "null", e.GetSelectionBounds())

	require.NoError(t, e.LoadScene(`{"objects": [{"id": "a", "type": "rectangle", "x": 1, "y": 0, "width": 2, "height": 1, "runTime": 10}], "duration": 8}`))
	e.SetSelection([]string{"a"})

	var b map[string]float64
	require.NoError(t, json.Unmarshal([]byte(e.GetSelectionBounds()), &b))
	assert.InDelta(t, 0, b["minX"], 1e-9)
	assert.InDelta(t, 2, b["maxX"], 1e-9)
}

func TestApplyPatchFromJSON(t *testing.T) {
	e := NewEditor(800, 600)
	require.NoError(t, e.LoadScene(`{"objects": [{"id": "a", "type": "circle", "radius": 1, "runTime": 10}], "duration": 8}`))

	require.NoError(t, e.ApplyPatch(`{"objectId": "a", "fields": {"x": 2, "radius": 0.5}}`))

	obj := e.Scene().ObjectByID("a")
	assert.InDelta(t, 2, obj.X, 1e-9)
	assert.InDelta(t, 0.5, obj.Radius, 1e-9)

	// Remote patches are not echoed back out.
	assert.Equal(t, "[]", e.DrainPatches())
}

func TestGetLinkingStatus(t *testing.T) {
	e := NewEditor(800, 600)
	require.NoError(t, e.LoadScene(`{"objects": [{"id": "g", "type": "graph", "runTime": 10}], "duration": 8}`))

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.GetLinkingStatus("g")), &status))
	assert.Equal(t, false, status["complete"])

	assert.Equal(t, "null", e.GetLinkingStatus("nope"))
}

func TestGetVisibleIDs(t *testing.T) {
	e := NewEditor(800, 600)
	require.NoError(t, e.LoadScene(`{"objects": [
		{"id": "now", "type": "circle", "radius": 1, "runTime": 10},
		{"id": "later", "type": "circle", "radius": 1, "delay": 5, "runTime": 1}
	], "duration": 8}`))

	assert.JSONEq(t, `["now"]`, e.GetVisibleIDs())
	e.SetTime(5)
	assert.JSONEq(t, `["now", "later"]`, e.GetVisibleIDs())
}

func TestGetHandlesPrimarySelectionOnly(t *testing.T) {
	e := NewEditor(800, 600)
	require.NoError(t, e.LoadScene(`{"objects": [
		{"id": "a", "type": "rectangle", "width": 2, "height": 1, "runTime": 10},
		{"id": "b", "type": "rectangle", "width": 2, "height": 1, "runTime": 10}
	], "duration": 8}`))

	assert.Equal(t, "[]", e.GetHandles())

	e.SetSelection([]string{"a"})
	var handles []map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.GetHandles()), &handles))
	assert.Len(t, handles, 4)

	e.SetSelection([]string{"a", "b"})
	assert.Equal(t, "[]", e.GetHandles())
}
