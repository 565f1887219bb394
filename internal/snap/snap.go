// Package snap computes snapped logical positions from grid, axis, and
// neighboring-shape candidates. Shape candidates are measured against the
// raw (pre-grid) position and override grid and axis snapping when close
// enough, so dragging near another shape's vertex always lands exactly on
// it even when a grid point competes.
package snap

import (
	"math"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

const (
	// GridStep is the snapping grid pitch in logical units.
	GridStep = 0.5
	// GridThreshold accepts a grid candidate per axis.
	GridThreshold = 0.15
	// AxisThreshold pulls an already grid-snapped value onto the canvas
	// axes; it is deliberately wider than the grid threshold.
	AxisThreshold = 0.225
	// ShapeThreshold accepts the nearest shape candidate, overriding grid
	// and axis snapping entirely.
	ShapeThreshold = 0.15
)

// Position snaps a raw logical position. others must already be filtered
// to the objects visible at the current time; the object being dragged is
// excluded by id so it never snaps to itself.
func Position(x, y float64, enabled bool, others []*scene.Object, excludeID string) (float64, float64) {
	if !enabled {
		return geometry.Round2(x), geometry.Round2(y)
	}

	raw := geometry.Point{X: x, Y: y}

	sx := x
	if c := geometry.SnapToGrid(x, GridStep); math.Abs(x-c) < GridThreshold {
		sx = c
	}
	sy := y
	if c := geometry.SnapToGrid(y, GridStep); math.Abs(y-c) < GridThreshold {
		sy = c
	}

	// Axis snap applies after grid and is stronger, per axis independently.
	if math.Abs(sx) < AxisThreshold {
		sx = 0
	}
	if math.Abs(sy) < AxisThreshold {
		sy = 0
	}

	// The globally nearest shape candidate to the raw position wins over
	// both grid and axis snapping.
	if best, dist, ok := nearestShapeCandidate(raw, others, excludeID); ok && dist < ShapeThreshold {
		sx, sy = best.X, best.Y
	}

	return geometry.Round2(sx), geometry.Round2(sy)
}

// nearestShapeCandidate returns the closest candidate point across every
// other object's key points, edge segments, and circle perimeters.
func nearestShapeCandidate(raw geometry.Point, others []*scene.Object, excludeID string) (geometry.Point, float64, bool) {
	best := geometry.Point{}
	bestDist := math.Inf(1)
	found := false

	consider := func(p geometry.Point) {
		if !geometry.IsFinite(p.X) || !geometry.IsFinite(p.Y) {
			return
		}
		d := geometry.Dist(raw, p)
		if d < bestDist {
			best = p
			bestDist = d
			found = true
		}
	}

	for _, obj := range others {
		if obj.ID == excludeID {
			continue
		}
		for _, p := range keyPoints(obj) {
			consider(p)
		}
		for _, seg := range edgeSegments(obj) {
			consider(geometry.ClosestPointOnSegment(raw, seg[0], seg[1]))
		}
		if p, ok := perimeterPoint(obj, raw); ok {
			consider(p)
		}
	}

	return best, bestDist, found
}

// keyPoints returns the snap-attracting points of an object's stored
// geometry: corners, edge midpoints, vertices, and endpoints. Composable
// tools and graphs carry no stored geometry and contribute nothing.
func keyPoints(obj *scene.Object) []geometry.Point {
	switch obj.Type {
	case scene.TypeRectangle, scene.TypeText:
		b := geometry.ObjectBounds(obj)
		cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
		return []geometry.Point{
			{X: b.MinX, Y: b.MaxY}, {X: b.MaxX, Y: b.MaxY},
			{X: b.MaxX, Y: b.MinY}, {X: b.MinX, Y: b.MinY},
			{X: cx, Y: b.MaxY}, {X: cx, Y: b.MinY},
			{X: b.MinX, Y: cy}, {X: b.MaxX, Y: cy},
		}

	case scene.TypeTriangle, scene.TypePolygon:
		pts := make([]geometry.Point, 0, len(obj.Vertices)*2)
		n := len(obj.Vertices)
		for i, v := range obj.Vertices {
			a := geometry.Point{X: obj.X + v.X, Y: obj.Y + v.Y}
			pts = append(pts, a)
			next := obj.Vertices[(i+1)%n]
			b := geometry.Point{X: obj.X + next.X, Y: obj.Y + next.Y}
			pts = append(pts, geometry.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
		}
		return pts

	case scene.TypeLine, scene.TypeArrow:
		a := geometry.Point{X: obj.X, Y: obj.Y}
		b := geometry.Point{X: obj.X2, Y: obj.Y2}
		return []geometry.Point{a, b, {X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}}

	case scene.TypeArc:
		return []geometry.Point{
			{X: obj.X, Y: obj.Y},
			{X: obj.X2, Y: obj.Y2},
			{X: obj.CX, Y: obj.CY},
		}

	case scene.TypeAxes:
		hw, hh := obj.XLength/2, obj.YLength/2
		return []geometry.Point{
			{X: obj.X - hw, Y: obj.Y}, {X: obj.X + hw, Y: obj.Y},
			{X: obj.X, Y: obj.Y - hh}, {X: obj.X, Y: obj.Y + hh},
		}
	}

	return nil
}

// edgeSegments returns the straight edges a position can slide onto.
func edgeSegments(obj *scene.Object) [][2]geometry.Point {
	switch obj.Type {
	case scene.TypeRectangle, scene.TypeText:
		b := geometry.ObjectBounds(obj)
		tl := geometry.Point{X: b.MinX, Y: b.MaxY}
		tr := geometry.Point{X: b.MaxX, Y: b.MaxY}
		br := geometry.Point{X: b.MaxX, Y: b.MinY}
		bl := geometry.Point{X: b.MinX, Y: b.MinY}
		return [][2]geometry.Point{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}

	case scene.TypeTriangle, scene.TypePolygon:
		n := len(obj.Vertices)
		if n < 2 {
			return nil
		}
		segs := make([][2]geometry.Point, 0, n)
		for i := 0; i < n; i++ {
			v, w := obj.Vertices[i], obj.Vertices[(i+1)%n]
			segs = append(segs, [2]geometry.Point{
				{X: obj.X + v.X, Y: obj.Y + v.Y},
				{X: obj.X + w.X, Y: obj.Y + w.Y},
			})
		}
		return segs

	case scene.TypeLine, scene.TypeArrow:
		return [][2]geometry.Point{{
			{X: obj.X, Y: obj.Y},
			{X: obj.X2, Y: obj.Y2},
		}}

	case scene.TypeArc:
		pts := geometry.SampleArc(
			geometry.Point{X: obj.X, Y: obj.Y},
			geometry.Point{X: obj.CX, Y: obj.CY},
			geometry.Point{X: obj.X2, Y: obj.Y2},
			geometry.ArcSegments,
		)
		segs := make([][2]geometry.Point, 0, len(pts)-1)
		for i := 0; i+1 < len(pts); i++ {
			segs = append(segs, [2]geometry.Point{pts[i], pts[i+1]})
		}
		return segs

	case scene.TypeAxes:
		hw, hh := obj.XLength/2, obj.YLength/2
		return [][2]geometry.Point{
			{{X: obj.X - hw, Y: obj.Y}, {X: obj.X + hw, Y: obj.Y}},
			{{X: obj.X, Y: obj.Y - hh}, {X: obj.X, Y: obj.Y + hh}},
		}
	}

	return nil
}

// perimeterPoint projects the raw position radially onto a circle's
// perimeter. Zero-radius circles are degenerate and contribute nothing.
func perimeterPoint(obj *scene.Object, raw geometry.Point) (geometry.Point, bool) {
	if obj.Type != scene.TypeCircle && obj.Type != scene.TypeDot {
		return geometry.Point{}, false
	}
	if obj.Radius <= 0 {
		return geometry.Point{}, false
	}

	center := geometry.Point{X: obj.X, Y: obj.Y}
	d := geometry.Dist(raw, center)
	if d == 0 {
		return geometry.Point{X: center.X + obj.Radius, Y: center.Y}, true
	}
	return geometry.Point{
		X: center.X + (raw.X-center.X)/d*obj.Radius,
		Y: center.Y + (raw.Y-center.Y)/d*obj.Radius,
	}, true
}
