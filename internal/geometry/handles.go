package geometry

import (
	"fmt"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

// Handle identifiers follow the per-type drag semantics: vertex-i and
// corner-i for native vertex/corner shapes, start/end/control for curve
// endpoints, radius-i for circles, rotate for text, and axis-side names
// for axes.
const (
	HandleStart   = "start"
	HandleEnd     = "end"
	HandleControl = "control"
	HandleRotate  = "rotate"
	HandleXMin    = "x-min"
	HandleXMax    = "x-max"
	HandleYMin    = "y-min"
	HandleYMax    = "y-max"
)

// Handle is a grabbable control point in logical space.
type Handle struct {
	ID string
	X  float64
	Y  float64
}

// rotateHandleOffset is how far above a text box its rotate handle sits,
// in logical units.
const rotateHandleOffset = 0.4

// Handles returns the grab points for an object. Shapes whose drag logic is
// driven by native vertex or corner handles (line, arrow, triangle,
// rectangle, polygon, arc) are listed here too so the hit tester has one
// source for pick targets; types with no handles return nil.
func Handles(obj *scene.Object) []Handle {
	switch obj.Type {
	case scene.TypeRectangle:
		hw, hh := obj.Width/2, obj.Height/2
		return []Handle{
			{ID: "corner-0", X: obj.X - hw, Y: obj.Y + hh},
			{ID: "corner-1", X: obj.X + hw, Y: obj.Y + hh},
			{ID: "corner-2", X: obj.X + hw, Y: obj.Y - hh},
			{ID: "corner-3", X: obj.X - hw, Y: obj.Y - hh},
		}

	case scene.TypeText:
		// Text corners respect rotation, unlike rectangle.
		hw, hh := obj.Width/2, obj.Height/2
		center := Point{X: obj.X, Y: obj.Y}
		corners := []Point{
			{X: obj.X - hw, Y: obj.Y + hh},
			{X: obj.X + hw, Y: obj.Y + hh},
			{X: obj.X + hw, Y: obj.Y - hh},
			{X: obj.X - hw, Y: obj.Y - hh},
		}
		handles := make([]Handle, 0, 5)
		for i, c := range corners {
			p := RotatePoint(c, center, obj.Rotation)
			handles = append(handles, Handle{ID: fmt.Sprintf("corner-%d", i), X: p.X, Y: p.Y})
		}
		top := RotatePoint(Point{X: obj.X, Y: obj.Y + hh + rotateHandleOffset}, center, obj.Rotation)
		return append(handles, Handle{ID: HandleRotate, X: top.X, Y: top.Y})

	case scene.TypeCircle, scene.TypeDot:
		r := obj.Radius
		return []Handle{
			{ID: "radius-0", X: obj.X + r, Y: obj.Y},
			{ID: "radius-1", X: obj.X, Y: obj.Y + r},
			{ID: "radius-2", X: obj.X - r, Y: obj.Y},
			{ID: "radius-3", X: obj.X, Y: obj.Y - r},
		}

	case scene.TypeTriangle, scene.TypePolygon:
		handles := make([]Handle, 0, len(obj.Vertices))
		for i, v := range obj.Vertices {
			handles = append(handles, Handle{
				ID: fmt.Sprintf("vertex-%d", i),
				X:  obj.X + v.X,
				Y:  obj.Y + v.Y,
			})
		}
		return handles

	case scene.TypeLine, scene.TypeArrow:
		return []Handle{
			{ID: HandleStart, X: obj.X, Y: obj.Y},
			{ID: HandleEnd, X: obj.X2, Y: obj.Y2},
		}

	case scene.TypeArc:
		return []Handle{
			{ID: HandleStart, X: obj.X, Y: obj.Y},
			{ID: HandleEnd, X: obj.X2, Y: obj.Y2},
			{ID: HandleControl, X: obj.CX, Y: obj.CY},
		}

	case scene.TypeAxes:
		return []Handle{
			{ID: HandleXMin, X: obj.X - obj.XLength/2, Y: obj.Y},
			{ID: HandleXMax, X: obj.X + obj.XLength/2, Y: obj.Y},
			{ID: HandleYMin, X: obj.X, Y: obj.Y - obj.YLength/2},
			{ID: HandleYMax, X: obj.X, Y: obj.Y + obj.YLength/2},
		}
	}

	return nil
}
