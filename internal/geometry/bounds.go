package geometry

import (
	"math"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

// ObjectBounds returns the axis-aligned bounding box of an object's stored
// geometry in logical space. Composable tools carry no geometry of their
// own and, together with any unknown type, fall back to a unit box around
// (x, y); their resolved extents live with the code that resolves them.
func ObjectBounds(obj *scene.Object) Bounds {
	switch obj.Type {
	case scene.TypeRectangle, scene.TypeText:
		hw, hh := obj.Width/2, obj.Height/2
		return Bounds{MinX: obj.X - hw, MaxX: obj.X + hw, MinY: obj.Y - hh, MaxY: obj.Y + hh}

	case scene.TypeCircle, scene.TypeDot:
		r := obj.Radius
		return Bounds{MinX: obj.X - r, MaxX: obj.X + r, MinY: obj.Y - r, MaxY: obj.Y + r}

	case scene.TypeTriangle, scene.TypePolygon:
		if len(obj.Vertices) == 0 {
			break
		}
		pts := make([]Point, 0, len(obj.Vertices))
		for _, v := range obj.Vertices {
			pts = append(pts, Point{X: obj.X + v.X, Y: obj.Y + v.Y})
		}
		return boundsOf(pts)

	case scene.TypeLine, scene.TypeArrow:
		return Bounds{
			MinX: math.Min(obj.X, obj.X2),
			MaxX: math.Max(obj.X, obj.X2),
			MinY: math.Min(obj.Y, obj.Y2),
			MaxY: math.Max(obj.Y, obj.Y2),
		}

	case scene.TypeArc:
		pts := SampleArc(
			Point{X: obj.X, Y: obj.Y},
			Point{X: obj.CX, Y: obj.CY},
			Point{X: obj.X2, Y: obj.Y2},
			ArcSegments,
		)
		return boundsOf(pts)

	case scene.TypeAxes:
		hw, hh := obj.XLength/2, obj.YLength/2
		return Bounds{MinX: obj.X - hw, MaxX: obj.X + hw, MinY: obj.Y - hh, MaxY: obj.Y + hh}
	}

	return Bounds{MinX: obj.X - 0.5, MaxX: obj.X + 0.5, MinY: obj.Y - 0.5, MaxY: obj.Y + 0.5}
}

// Center returns the center of the object's stored bounds.
func Center(obj *scene.Object) Point {
	b := ObjectBounds(obj)
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Centroid returns the vertex centroid of a triangle/polygon in absolute
// coordinates, or the object position when it has no vertices.
func Centroid(obj *scene.Object) Point {
	if len(obj.Vertices) == 0 {
		return Point{X: obj.X, Y: obj.Y}
	}
	var sx, sy float64
	for _, v := range obj.Vertices {
		sx += obj.X + v.X
		sy += obj.Y + v.Y
	}
	n := float64(len(obj.Vertices))
	return Point{X: sx / n, Y: sy / n}
}
