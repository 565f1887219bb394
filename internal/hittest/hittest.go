// Package hittest resolves device pixels to object ids or handle ids.
// Candidates are the objects visible at the current time, tried by zIndex
// descending with ties going to the later array index, and the first
// per-type shape test that succeeds wins. Tests on composable tools follow
// their resolved dependency and fail soft when it is missing.
package hittest

import (
	"fmt"
	"math"
	"sort"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/resolve"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/timeline"
)

// HandleSize is the device-pixel half-extent of a resize handle; the pick
// radius adds 4 pixels of slack.
const HandleSize = 8

// pick thresholds in logical units.
const (
	strokeSlackLine  = 0.2
	strokeSlackArc   = 0.25
	strokeSlackAxes  = 0.25
	strokeSlackGraph = 0.3
	cursorSlack      = 0.15
	labelSlack       = 0.4
)

// Object returns the id of the topmost object at the device point, or ""
// when nothing is hit.
func Object(device geometry.Point, view geometry.ViewTransform, s *scene.Scene, t float64, res *resolve.Resolver) string {
	p := view.ToLogical(device)

	type candidate struct {
		obj   *scene.Object
		index int
	}
	replaced := timeline.ReplacedAt(s, t)
	cands := make([]candidate, 0, len(s.Objects))
	for i := range s.Objects {
		o := &s.Objects[i]
		if timeline.IsVisible(o, t, replaced) {
			cands = append(cands, candidate{obj: o, index: i})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].obj.ZIndex != cands[j].obj.ZIndex {
			return cands[i].obj.ZIndex > cands[j].obj.ZIndex
		}
		return cands[i].index > cands[j].index
	})

	for _, c := range cands {
		if Shape(p, c.obj, res) {
			return c.obj.ID
		}
	}
	return ""
}

// Shape runs the per-type containment test for a logical point.
func Shape(p geometry.Point, obj *scene.Object, res *resolve.Resolver) bool {
	switch obj.Type {
	case scene.TypeRectangle:
		// Rotation is intentionally not applied here; text is the rotated
		// counterpart. See DESIGN.md.
		return math.Abs(p.X-obj.X) <= obj.Width/2 && math.Abs(p.Y-obj.Y) <= obj.Height/2

	case scene.TypeCircle, scene.TypeDot:
		return obj.Radius > 0 && geometry.Dist(p, geometry.Point{X: obj.X, Y: obj.Y}) <= obj.Radius

	case scene.TypeTriangle, scene.TypePolygon:
		return pointInPolygon(p, obj)

	case scene.TypeLine, scene.TypeArrow:
		threshold := math.Max(obj.StrokeWidth*0.1, strokeSlackLine)
		a := geometry.Point{X: obj.X, Y: obj.Y}
		b := geometry.Point{X: obj.X2, Y: obj.Y2}
		return geometry.DistToSegment(p, a, b) <= threshold

	case scene.TypeArc:
		threshold := math.Max(obj.StrokeWidth*0.1, strokeSlackArc)
		pts := geometry.SampleArc(
			geometry.Point{X: obj.X, Y: obj.Y},
			geometry.Point{X: obj.CX, Y: obj.CY},
			geometry.Point{X: obj.X2, Y: obj.Y2},
			geometry.ArcSegments,
		)
		return minPolylineDist(p, pts) <= threshold

	case scene.TypeAxes:
		hw, hh := obj.XLength/2, obj.YLength/2
		xAxis := geometry.DistToSegment(p,
			geometry.Point{X: obj.X - hw, Y: obj.Y},
			geometry.Point{X: obj.X + hw, Y: obj.Y})
		yAxis := geometry.DistToSegment(p,
			geometry.Point{X: obj.X, Y: obj.Y - hh},
			geometry.Point{X: obj.X, Y: obj.Y + hh})
		return math.Min(xAxis, yAxis) <= strokeSlackAxes

	case scene.TypeText:
		// Text picking respects rotation, unlike rectangle.
		center := geometry.Point{X: obj.X, Y: obj.Y}
		local := geometry.RotatePoint(p, center, -obj.Rotation)
		return math.Abs(local.X-obj.X) <= obj.Width/2 && math.Abs(local.Y-obj.Y) <= obj.Height/2

	case scene.TypeGraph:
		if res == nil {
			return false
		}
		threshold := math.Max(obj.StrokeWidth*0.15, strokeSlackGraph)
		return minPolylineDist(p, res.GraphSamples(obj)) <= threshold

	case scene.TypeGraphCursor:
		if res == nil {
			return false
		}
		pos, ok := res.CursorPoint(obj)
		if !ok {
			return false
		}
		return geometry.Dist(p, pos) <= math.Max(obj.Radius, cursorSlack)

	case scene.TypeTangentLine:
		if res == nil {
			return false
		}
		a, b, ok := res.TangentSegment(obj)
		if !ok {
			return false
		}
		threshold := math.Max(obj.StrokeWidth*0.1, strokeSlackLine)
		return geometry.DistToSegment(p, a, b) <= threshold

	case scene.TypeLimitProbe:
		if res == nil {
			return false
		}
		for _, pt := range res.ProbePoints(obj) {
			if geometry.Dist(p, pt) <= strokeSlackLine {
				return true
			}
		}
		return false

	case scene.TypeValueLabel:
		if res == nil {
			return false
		}
		anchor, _, ok := res.LabelValue(obj)
		if !ok {
			return false
		}
		return geometry.Dist(p, anchor) <= labelSlack
	}

	return false
}

// Handle returns the id of the handle at the device point for the given
// object, or "" when no handle is within the pick radius. The nearest
// qualifying handle wins so adjacent handles do not shadow each other.
func Handle(device geometry.Point, view geometry.ViewTransform, obj *scene.Object) string {
	pickRadius := float64(HandleSize + 4)

	bestID := ""
	bestDist := math.Inf(1)
	for _, h := range geometry.Handles(obj) {
		hd := view.ToDevice(geometry.Point{X: h.X, Y: h.Y})
		d := geometry.Dist(device, hd)
		if d <= pickRadius && d < bestDist {
			bestID = h.ID
			bestDist = d
		}
	}
	return bestID
}

// VertexIndex parses a "vertex-i" handle id, returning -1 for other ids.
func VertexIndex(handleID string) int {
	var i int
	if _, err := fmt.Sscanf(handleID, "vertex-%d", &i); err != nil {
		return -1
	}
	return i
}

// CornerIndex parses a "corner-i" handle id, returning -1 for other ids.
func CornerIndex(handleID string) int {
	var i int
	if _, err := fmt.Sscanf(handleID, "corner-%d", &i); err != nil {
		return -1
	}
	return i
}

// pointInPolygon ray-casts against the object's absolute vertices.
func pointInPolygon(p geometry.Point, obj *scene.Object) bool {
	n := len(obj.Vertices)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := obj.X+obj.Vertices[i].X, obj.Y+obj.Vertices[i].Y
		xj, yj := obj.X+obj.Vertices[j].X, obj.Y+obj.Vertices[j].Y
		if (yi > p.Y) != (yj > p.Y) &&
			p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// minPolylineDist returns the minimum distance from p to the polyline's
// segments, or +Inf for polylines with fewer than two points.
func minPolylineDist(p geometry.Point, pts []geometry.Point) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		if d := geometry.DistToSegment(p, pts[i], pts[i+1]); d < best {
			best = d
		}
	}
	return best
}
