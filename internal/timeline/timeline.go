// Package timeline groups scene objects into transform chains, computes
// time-windowed visibility, and handles clip drags across chain rows. All
// functions are pure over the scene and a time value so the renderer and
// hit tester can never disagree about what is on screen.
package timeline

import (
	"sort"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

// ReattachWindow is how close (seconds) a dragged clip's new start must be
// to another clip's end for a cross-row drop to chain onto it.
const ReattachWindow = 0.2

// ReplacedAt returns the set of object ids replaced at time t: an object is
// replaced the moment any object transforming from it has started.
func ReplacedAt(s *scene.Scene, t float64) map[string]bool {
	replaced := make(map[string]bool)
	for i := range s.Objects {
		o := &s.Objects[i]
		if o.TransformFromID != "" && t >= o.Delay {
			replaced[o.TransformFromID] = true
		}
	}
	return replaced
}

// IsVisible reports whether the object is visible at time t given the
// replaced set. Transform targets persist once started; only un-chained
// objects disappear when their run time elapses.
func IsVisible(o *scene.Object, t float64, replaced map[string]bool) bool {
	if t < o.Delay {
		return false
	}
	if o.TransformFromID == "" && t >= o.Delay+o.RunTime {
		return false
	}
	return !replaced[o.ID]
}

// VisibleIDs returns the ids of all objects visible at time t, in scene
// array order.
func VisibleIDs(s *scene.Scene, t float64) []string {
	replaced := ReplacedAt(s, t)
	ids := make([]string, 0, len(s.Objects))
	for i := range s.Objects {
		if IsVisible(&s.Objects[i], t, replaced) {
			ids = append(ids, s.Objects[i].ID)
		}
	}
	return ids
}

// VisibleObjects returns pointers to the objects visible at time t, in
// scene array order.
func VisibleObjects(s *scene.Scene, t float64) []*scene.Object {
	replaced := ReplacedAt(s, t)
	objs := make([]*scene.Object, 0, len(s.Objects))
	for i := range s.Objects {
		if IsVisible(&s.Objects[i], t, replaced) {
			objs = append(objs, &s.Objects[i])
		}
	}
	return objs
}

// RootID follows transformFromId to the root of the object's chain. The
// traversal is bounded by a visited set; when it closes a true cycle the
// canonical root is the cycle member with the smallest id, so grouping is
// stable regardless of which member the walk entered through.
func RootID(idx scene.Index, obj *scene.Object) string {
	if obj == nil {
		return ""
	}

	pos := map[string]int{obj.ID: 0}
	path := []string{obj.ID}
	cur := obj

	for cur.TransformFromID != "" {
		next, ok := idx[cur.TransformFromID]
		if !ok {
			// Dangling reference: the chain ends here.
			return cur.ID
		}
		if at, seen := pos[next.ID]; seen {
			// Cycle: pick the smallest id among its members.
			root := path[at]
			for _, id := range path[at:] {
				if id < root {
					root = id
				}
			}
			return root
		}
		pos[next.ID] = len(path)
		path = append(path, next.ID)
		cur = next
	}
	return cur.ID
}

// WouldCycle reports whether setting source.transformFromId = targetID
// would close a chain cycle. Used to reject cycle formation at mutation
// time rather than tolerate it downstream.
func WouldCycle(idx scene.Index, sourceID, targetID string) bool {
	if sourceID == targetID {
		return true
	}
	seen := map[string]bool{sourceID: true}
	cur, ok := idx[targetID]
	for ok {
		if seen[cur.ID] {
			return true
		}
		seen[cur.ID] = true
		if cur.TransformFromID == "" {
			return false
		}
		cur, ok = idx[cur.TransformFromID]
	}
	return false
}

// Row is one timeline row: all objects sharing a chain root, ordered by
// ascending delay.
type Row struct {
	Root    string
	ClipIDs []string
}

// Rows groups the scene's objects into chain rows. Rows appear in the
// scene-array order of their roots; clips within a row are ordered by
// delay, with scene order breaking delay ties.
func Rows(s *scene.Scene) []Row {
	idx := s.BuildIndex()

	order := make(map[string]int, len(s.Objects))
	for i := range s.Objects {
		order[s.Objects[i].ID] = i
	}

	byRoot := make(map[string][]string)
	var rootOrder []string
	for i := range s.Objects {
		o := &s.Objects[i]
		root := RootID(idx, o)
		if _, seen := byRoot[root]; !seen {
			rootOrder = append(rootOrder, root)
		}
		byRoot[root] = append(byRoot[root], o.ID)
	}

	sort.SliceStable(rootOrder, func(i, j int) bool {
		return order[rootOrder[i]] < order[rootOrder[j]]
	})

	rows := make([]Row, 0, len(rootOrder))
	for _, root := range rootOrder {
		clips := byRoot[root]
		sort.SliceStable(clips, func(i, j int) bool {
			a, b := idx[clips[i]], idx[clips[j]]
			if a.Delay != b.Delay {
				return a.Delay < b.Delay
			}
			return order[a.ID] < order[b.ID]
		})
		rows = append(rows, Row{Root: root, ClipIDs: clips})
	}
	return rows
}

// RowOf returns the index of the row containing the given object id, or -1.
func RowOf(rows []Row, id string) int {
	for i, row := range rows {
		for _, clip := range row.ClipIDs {
			if clip == id {
				return i
			}
		}
	}
	return -1
}

// Drop applies the end-of-drag rules for a clip dragged to newStart with
// the pointer over hoverRow (-1 when outside every row). It mutates the
// scene and returns the patches describing what changed.
//
// Same-row drops just move the clip. A drop on a different row chains onto
// a clip there when that clip's end is within ReattachWindow of newStart
// (and chaining would not close a cycle); otherwise the drop detaches the
// clip, and a detached former root re-roots its direct children so the
// remainder of the chain is not orphaned.
func Drop(s *scene.Scene, draggedID string, newStart float64, hoverRow int) []scene.Patch {
	dragged := s.ObjectByID(draggedID)
	if dragged == nil {
		return nil
	}
	if newStart < 0 {
		newStart = 0
	}

	rows := Rows(s)
	originRow := RowOf(rows, draggedID)

	if hoverRow == originRow && hoverRow >= 0 {
		dragged.Delay = newStart
		return []scene.Patch{scene.NewPatch(draggedID, map[string]any{"delay": newStart})}
	}

	idx := s.BuildIndex()

	if hoverRow >= 0 && hoverRow < len(rows) {
		for _, clipID := range rows[hoverRow].ClipIDs {
			if clipID == draggedID {
				continue
			}
			clip := idx[clipID]
			end := clip.Delay + clip.RunTime
			if absf(end-newStart) <= ReattachWindow && !WouldCycle(idx, draggedID, clipID) {
				dragged.TransformFromID = clipID
				dragged.Delay = end
				return []scene.Patch{scene.NewPatch(draggedID, map[string]any{
					"transformFromId": clipID,
					"delay":           end,
				})}
			}
		}
	}

	// Detach drop.
	wasRoot := dragged.TransformFromID == ""
	var patches []scene.Patch

	dragged.TransformFromID = ""
	dragged.Delay = newStart
	patches = append(patches, scene.NewPatch(draggedID, map[string]any{
		"transformFromId": "",
		"delay":           newStart,
	}))

	if wasRoot {
		for i := range s.Objects {
			o := &s.Objects[i]
			if o.ID != draggedID && o.TransformFromID == draggedID {
				o.TransformFromID = ""
				patches = append(patches, scene.NewPatch(o.ID, map[string]any{
					"transformFromId": "",
				}))
			}
		}
	}
	return patches
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
