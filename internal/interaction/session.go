package interaction

import (
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

// State is the controller's interaction mode.
type State int

const (
	StateIdle State = iota
	StateMarqueeSelect
	StatePan
	StateDragMove
	StateDragHandle
	StateDragVertex
	StateLinkMode
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMarqueeSelect:
		return "marqueeSelect"
	case StatePan:
		return "pan"
	case StateDragMove:
		return "dragMove"
	case StateDragHandle:
		return "dragHandle"
	case StateDragVertex:
		return "dragVertex"
	case StateLinkMode:
		return "linkMode"
	}
	return "unknown"
}

// Modifiers carries the keyboard modifiers of a pointer event.
type Modifiers struct {
	Shift bool
	Alt   bool
	Ctrl  bool
	Space bool
}

// PointerEvent is one pointer sample in device-pixel space.
type PointerEvent struct {
	X      float64
	Y      float64
	Button int // 0 = primary, 1 = middle, 2 = secondary
	Mods   Modifiers
}

func (e PointerEvent) point() geometry.Point {
	return geometry.Point{X: e.X, Y: e.Y}
}

// dragDeadZone is the device-pixel movement below which a press is still a
// click, not a drag.
const dragDeadZone = 4.0

// DragSession is the single mutable record of an in-flight gesture: the
// origin snapshot of every touched object plus the drag kind. It is created
// on pointer-down, drives incremental updates on pointer-move, and is
// released on pointer-up or cancellation. Only one session exists at a
// time; starting a new gesture discards an unfinished one.
type DragSession struct {
	Kind        State
	ObjectID    string
	HandleID    string
	VertexIndex int

	StartDevice  geometry.Point
	StartLogical geometry.Point

	// Origins snapshots the pre-drag state of every object the gesture
	// may mutate, keyed by id.
	Origins map[string]scene.Object

	moved bool // pointer has left the dead zone
}

func newSession(kind State, device, logical geometry.Point) *DragSession {
	return &DragSession{
		Kind:         kind,
		StartDevice:  device,
		StartLogical: logical,
		Origins:      make(map[string]scene.Object),
		VertexIndex:  -1,
	}
}

// snapshot records an object's pre-drag state once.
func (ds *DragSession) snapshot(obj *scene.Object) {
	if _, ok := ds.Origins[obj.ID]; !ok {
		cp := *obj
		if len(obj.Vertices) > 0 {
			cp.Vertices = append([]scene.Vertex(nil), obj.Vertices...)
		}
		ds.Origins[obj.ID] = cp
	}
}

// origin returns the snapshotted state of an object.
func (ds *DragSession) origin(id string) (scene.Object, bool) {
	o, ok := ds.Origins[id]
	return o, ok
}

// passedDeadZone reports (and latches) whether the pointer has moved far
// enough from the press point to count as a drag.
func (ds *DragSession) passedDeadZone(device geometry.Point) bool {
	if ds.moved {
		return true
	}
	if geometry.Dist(device, ds.StartDevice) >= dragDeadZone {
		ds.moved = true
	}
	return ds.moved
}
