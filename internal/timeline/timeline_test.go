package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

func sceneOf(objs ...scene.Object) *scene.Scene {
	return &scene.Scene{Objects: objs, Duration: 10}
}

func TestIsVisibleWindow(t *testing.T) {
	s := sceneOf(scene.Object{ID: "a", Type: scene.TypeCircle, Delay: 1, RunTime: 2})

	assert.Empty(t, VisibleIDs(s, 0.5))
	assert.Equal(t, []string{"a"}, VisibleIDs(s, 1))
	assert.Equal(t, []string{"a"}, VisibleIDs(s, 2.9))
	assert.Empty(t, VisibleIDs(s, 3)) // end is exclusive
}

func TestChainedObjectPersistsUntilReplaced(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", Type: scene.TypeCircle, Delay: 0, RunTime: 1},
		scene.Object{ID: "b", Type: scene.TypeRectangle, Delay: 3, RunTime: 1, TransformFromID: "a"},
	)

	// a has no transform source of its own, so it expires at its end time
	// even though b transforms from it later.
	assert.Equal(t, []string{"a"}, VisibleIDs(s, 0.5))
	assert.Empty(t, VisibleIDs(s, 2))

	// The moment b starts, a is replaced.
	assert.Equal(t, []string{"b"}, VisibleIDs(s, 3))

	// b persists past its own run time: transform targets never expire.
	assert.Equal(t, []string{"b"}, VisibleIDs(s, 9))
}

func TestReplacedAt(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1},
		scene.Object{ID: "b", Delay: 2, RunTime: 1, TransformFromID: "a"},
	)

	assert.Empty(t, ReplacedAt(s, 1))
	assert.Equal(t, map[string]bool{"a": true}, ReplacedAt(s, 2))
}

func TestRootIDFollowsChain(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1},
		scene.Object{ID: "b", RunTime: 1, TransformFromID: "a"},
		scene.Object{ID: "c", RunTime: 1, TransformFromID: "b"},
	)
	idx := s.BuildIndex()

	assert.Equal(t, "a", RootID(idx, idx["c"]))
	assert.Equal(t, "a", RootID(idx, idx["a"]))
}

func TestRootIDDanglingReference(t *testing.T) {
	s := sceneOf(scene.Object{ID: "b", RunTime: 1, TransformFromID: "gone"})
	idx := s.BuildIndex()

	assert.Equal(t, "b", RootID(idx, idx["b"]))
}

func TestRootIDCyclePicksSmallestMember(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "m", RunTime: 1, TransformFromID: "z"},
		scene.Object{ID: "z", RunTime: 1, TransformFromID: "b"},
		scene.Object{ID: "b", RunTime: 1, TransformFromID: "m"},
	)
	idx := s.BuildIndex()

	// Entering the cycle from any member yields the same canonical root.
	assert.Equal(t, "b", RootID(idx, idx["m"]))
	assert.Equal(t, "b", RootID(idx, idx["z"]))
	assert.Equal(t, "b", RootID(idx, idx["b"]))
}

func TestWouldCycle(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1},
		scene.Object{ID: "b", RunTime: 1, TransformFromID: "a"},
		scene.Object{ID: "c", RunTime: 1, TransformFromID: "b"},
	)
	idx := s.BuildIndex()

	assert.True(t, WouldCycle(idx, "a", "a"))
	assert.True(t, WouldCycle(idx, "a", "c")) // a -> c -> b -> a
	assert.False(t, WouldCycle(idx, "c", "a"))
	assert.False(t, WouldCycle(idx, "a", "missing"))
}

func TestRowsGroupAndOrder(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1, Delay: 0},
		scene.Object{ID: "x", RunTime: 1, Delay: 0},
		scene.Object{ID: "b", RunTime: 1, Delay: 2, TransformFromID: "a"},
	)

	rows := Rows(s)
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0].Root)
	assert.Equal(t, []string{"a", "b"}, rows[0].ClipIDs)
	assert.Equal(t, []string{"x"}, rows[1].ClipIDs)

	assert.Equal(t, 0, RowOf(rows, "b"))
	assert.Equal(t, 1, RowOf(rows, "x"))
	assert.Equal(t, -1, RowOf(rows, "nope"))
}

func TestRowsClipOrderBreaksDelayTiesBySceneOrder(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1, Delay: 1},
		scene.Object{ID: "b", RunTime: 1, Delay: 1, TransformFromID: "a"},
		scene.Object{ID: "c", RunTime: 1, Delay: 0, TransformFromID: "b"},
	)

	rows := Rows(s)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"c", "a", "b"}, rows[0].ClipIDs)
}

func TestDropSameRowMovesClip(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1, Delay: 0},
		scene.Object{ID: "b", RunTime: 1, Delay: 2, TransformFromID: "a"},
	)

	patches := Drop(s, "b", 3.5, 0)
	require.Len(t, patches, 1)
	assert.Equal(t, "b", patches[0].ObjectID)
	assert.InDelta(t, 3.5, s.ObjectByID("b").Delay, 1e-9)
	assert.Equal(t, "a", s.ObjectByID("b").TransformFromID)
}

func TestDropReattachesWithinWindow(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1, Delay: 0}, // ends at 1
		scene.Object{ID: "b", RunTime: 1, Delay: 5},
	)

	// b dropped onto a's row at 1.1: within 0.2 of a's end, so it chains on
	// and its start clamps to a's end exactly.
	patches := Drop(s, "b", 1.1, 0)
	require.Len(t, patches, 1)

	b := s.ObjectByID("b")
	assert.Equal(t, "a", b.TransformFromID)
	assert.InDelta(t, 1, b.Delay, 1e-9)
}

func TestDropOutsideWindowDetaches(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1, Delay: 0},
		scene.Object{ID: "b", RunTime: 1, Delay: 2, TransformFromID: "a"},
		scene.Object{ID: "x", RunTime: 1, Delay: 0},
	)

	// b dragged to x's row far from x's end: it just detaches.
	patches := Drop(s, "b", 5, 1)
	require.Len(t, patches, 1)

	b := s.ObjectByID("b")
	assert.Empty(t, b.TransformFromID)
	assert.InDelta(t, 5, b.Delay, 1e-9)
}

func TestDropDetachedRootReRootsChildren(t *testing.T) {
	s := sceneOf(
		scene.Object{ID: "a", RunTime: 1, Delay: 0},
		scene.Object{ID: "b", RunTime: 1, Delay: 2, TransformFromID: "a"},
		scene.Object{ID: "c", RunTime: 1, Delay: 4, TransformFromID: "a"},
	)

	// Dragging the root off its row frees its direct children.
	patches := Drop(s, "a", 7, -1)
	require.Len(t, patches, 3)

	assert.Empty(t, s.ObjectByID("b").TransformFromID)
	assert.Empty(t, s.ObjectByID("c").TransformFromID)
	assert.InDelta(t, 7, s.ObjectByID("a").Delay, 1e-9)
}

func TestDropClampsNegativeStart(t *testing.T) {
	s := sceneOf(scene.Object{ID: "a", RunTime: 1, Delay: 3})

	Drop(s, "a", -2, 0)
	assert.InDelta(t, 0, s.ObjectByID("a").Delay, 1e-9)
}

func TestDropUnknownID(t *testing.T) {
	s := sceneOf()
	assert.Nil(t, Drop(s, "ghost", 1, 0))
}
