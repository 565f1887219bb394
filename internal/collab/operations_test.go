package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

func newState(objs ...scene.Object) *SceneState {
	return NewSceneState(&scene.Scene{Objects: objs, Duration: 10})
}

func TestApplyOperationPatch(t *testing.T) {
	ss := newState(scene.Object{ID: "a", Type: scene.TypeCircle, Radius: 1, RunTime: 1, Opacity: 1})

	seq, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpObjectPatch, ObjectID: "a",
		Fields: json.RawMessage(`{"x": 2.5, "radius": 0.5}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	obj := ss.Scene().ObjectByID("a")
	assert.InDelta(t, 2.5, obj.X, 1e-9)
	assert.InDelta(t, 0.5, obj.Radius, 1e-9)
	assert.Equal(t, int64(1), ss.ServerSeq())
}

func TestApplyOperationPatchUnknownObject(t *testing.T) {
	ss := newState()

	_, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpObjectPatch, ObjectID: "ghost",
		Fields: json.RawMessage(`{"x": 1}`),
	})
	assert.Error(t, err)
	assert.Equal(t, int64(0), ss.ServerSeq())
}

func TestApplyOperationPatchRejectsCycle(t *testing.T) {
	ss := newState(
		scene.Object{ID: "a", Type: scene.TypeCircle, RunTime: 1},
		scene.Object{ID: "b", Type: scene.TypeCircle, RunTime: 1, TransformFromID: "a"},
	)

	_, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpObjectPatch, ObjectID: "a",
		Fields: json.RawMessage(`{"transformFromId": "b"}`),
	})
	require.Error(t, err)
	assert.Empty(t, ss.Scene().ObjectByID("a").TransformFromID)

	// Clearing the reference is always legal.
	_, err = ss.ApplyOperation(Operation{
		ID: "op2", Type: OpObjectPatch, ObjectID: "b",
		Fields: json.RawMessage(`{"transformFromId": ""}`),
	})
	assert.NoError(t, err)
}

func TestApplyOperationCreate(t *testing.T) {
	ss := newState()

	_, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpObjectCreate,
		Object: json.RawMessage(`{"id": "n1", "type": "rectangle", "width": 2, "height": 1}`),
	})
	require.NoError(t, err)

	obj := ss.Scene().ObjectByID("n1")
	require.NotNil(t, obj)
	assert.Equal(t, scene.TypeRectangle, obj.Type)
	// Normalize fills in the run-time default.
	assert.InDelta(t, 1, obj.RunTime, 1e-9)
}

func TestApplyOperationCreateAtIndex(t *testing.T) {
	ss := newState(
		scene.Object{ID: "a", Type: scene.TypeCircle, RunTime: 1},
		scene.Object{ID: "b", Type: scene.TypeCircle, RunTime: 1},
	)

	idx := 1
	_, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpObjectCreate, Index: &idx,
		Object: json.RawMessage(`{"id": "mid", "type": "dot"}`),
	})
	require.NoError(t, err)

	s := ss.Scene()
	require.Len(t, s.Objects, 3)
	assert.Equal(t, "mid", s.Objects[1].ID)
	assert.Equal(t, "b", s.Objects[2].ID)
}

func TestApplyOperationCreateRejections(t *testing.T) {
	ss := newState(scene.Object{ID: "a", Type: scene.TypeCircle, RunTime: 1})

	_, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpObjectCreate,
		Object: json.RawMessage(`{"type": "circle"}`),
	})
	assert.Error(t, err, "missing id")

	_, err = ss.ApplyOperation(Operation{
		ID: "op2", Type: OpObjectCreate,
		Object: json.RawMessage(`{"id": "x", "type": "sprite"}`),
	})
	assert.Error(t, err, "unknown type")

	_, err = ss.ApplyOperation(Operation{
		ID: "op3", Type: OpObjectCreate,
		Object: json.RawMessage(`{"id": "a", "type": "circle"}`),
	})
	assert.Error(t, err, "duplicate id")
}

func TestApplyOperationDelete(t *testing.T) {
	ss := newState(scene.Object{ID: "a", Type: scene.TypeCircle, RunTime: 1})

	_, err := ss.ApplyOperation(Operation{ID: "op1", Type: OpObjectDelete, ObjectID: "a"})
	require.NoError(t, err)
	assert.Nil(t, ss.Scene().ObjectByID("a"))

	_, err = ss.ApplyOperation(Operation{ID: "op2", Type: OpObjectDelete, ObjectID: "a"})
	assert.Error(t, err)
}

func TestApplyOperationSceneUpdate(t *testing.T) {
	ss := newState()

	_, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpSceneUpdate,
		Changes: json.RawMessage(`{"duration": 30}`),
	})
	require.NoError(t, err)
	assert.InDelta(t, 30, ss.Scene().Duration, 1e-9)

	// Non-positive durations are ignored, not an error.
	_, err = ss.ApplyOperation(Operation{
		ID: "op2", Type: OpSceneUpdate,
		Changes: json.RawMessage(`{"duration": -5}`),
	})
	require.NoError(t, err)
	assert.InDelta(t, 30, ss.Scene().Duration, 1e-9)
}

func TestApplyOperationUnknownType(t *testing.T) {
	ss := newState()
	_, err := ss.ApplyOperation(Operation{ID: "op1", Type: "object.teleport"})
	assert.Error(t, err)
}

func TestSnapshotRoundTrips(t *testing.T) {
	ss := newState(scene.Object{ID: "a", Type: scene.TypeCircle, Radius: 1, RunTime: 1, Opacity: 1})

	_, err := ss.ApplyOperation(Operation{
		ID: "op1", Type: OpObjectPatch, ObjectID: "a",
		Fields: json.RawMessage(`{"x": 3}`),
	})
	require.NoError(t, err)

	data, seq := ss.Snapshot()
	assert.Equal(t, int64(1), seq)

	back, err := scene.Parse(data)
	require.NoError(t, err)
	assert.InDelta(t, 3, back.ObjectByID("a").X, 1e-9)
}

func TestServerSeqMonotonic(t *testing.T) {
	ss := newState(scene.Object{ID: "a", Type: scene.TypeCircle, RunTime: 1})

	for i := 0; i < 3; i++ {
		seq, err := ss.ApplyOperation(Operation{
			ID: "op", Type: OpObjectPatch, ObjectID: "a",
			Fields: json.RawMessage(`{"x": 1}`),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), seq)
	}
}
