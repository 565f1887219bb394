// Package resolve turns composable-tool objects (graph, graphCursor,
// tangentLine, limitProbe, valueLabel) into concrete logical-space geometry
// by following their foreign references. Every resolution is soft: a
// missing or dangling reference, an unparsable formula, or a non-finite
// sample yields "nothing", never an error.
package resolve

import (
	"math"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/formula"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

// GraphSampleCount is the number of segments a graph curve is sampled into
// for bounds, hit tests, and export.
const GraphSampleCount = 64

// Resolver resolves tool geometry against one scene index.
type Resolver struct {
	idx  scene.Index
	eval *formula.Evaluator
}

// New creates a resolver over the given index. The index must be rebuilt
// (and a new resolver made) after structural scene mutations.
func New(idx scene.Index, eval *formula.Evaluator) *Resolver {
	return &Resolver{idx: idx, eval: eval}
}

// lookup returns the object for id when present and of the wanted type.
func (r *Resolver) lookup(id string, want scene.ObjectType) *scene.Object {
	if id == "" {
		return nil
	}
	obj, ok := r.idx[id]
	if !ok || obj.Type != want {
		return nil
	}
	return obj
}

// frame is the value→logical mapping a graph plots into.
type frame struct {
	originX, originY float64 // logical position of value (0, 0)
	unitX, unitY     float64 // logical units per value unit
	clipY            *scene.Range
}

func (f frame) toLogical(x, y float64) geometry.Point {
	return geometry.Point{X: f.originX + x*f.unitX, Y: f.originY + y*f.unitY}
}

// graphFrame builds the plotting frame for a graph: linked axes rescale
// and clip values, an unlinked graph plots values as logical units offset
// by its own position.
func (r *Resolver) graphFrame(g *scene.Object) frame {
	axes := r.lookup(g.AxesID, scene.TypeAxes)
	if axes == nil || axes.XRange == nil || axes.YRange == nil {
		return frame{originX: g.X, originY: g.Y, unitX: 1, unitY: 1}
	}

	xr, yr := axes.XRange, axes.YRange
	xSpan := xr.Max - xr.Min
	ySpan := yr.Max - yr.Min
	if xSpan <= 0 || ySpan <= 0 {
		return frame{originX: g.X, originY: g.Y, unitX: 1, unitY: 1}
	}

	unitX := axes.XLength / xSpan
	unitY := axes.YLength / ySpan
	// Logical position of value (0,0) on the axes.
	originX := axes.X - axes.XLength/2 - xr.Min*unitX
	originY := axes.Y - axes.YLength/2 - yr.Min*unitY
	return frame{originX: originX, originY: originY, unitX: unitX, unitY: unitY, clipY: yr}
}

// GraphSamples samples the graph's formula over its x range and maps the
// samples into logical space. Samples that fail to evaluate or fall outside
// the linked axes' y range are dropped, so the result may have gaps and may
// be empty.
func (r *Resolver) GraphSamples(g *scene.Object) []geometry.Point {
	if g == nil || g.Type != scene.TypeGraph || g.XRange == nil {
		return nil
	}
	xr := g.XRange
	if xr.Max <= xr.Min {
		return nil
	}

	f := r.graphFrame(g)
	step := (xr.Max - xr.Min) / GraphSampleCount

	pts := make([]geometry.Point, 0, GraphSampleCount+1)
	for i := 0; i <= GraphSampleCount; i++ {
		x := xr.Min + float64(i)*step
		y, ok := r.eval.Eval(g.Formula, x)
		if !ok {
			continue
		}
		if f.clipY != nil && (y < f.clipY.Min || y > f.clipY.Max) {
			continue
		}
		pts = append(pts, f.toLogical(x, y))
	}
	return pts
}

// graphOf resolves the graph behind a tool, accepting either a direct
// graphId or a cursorId whose cursor carries the graph.
func (r *Resolver) graphOf(tool *scene.Object) (*scene.Object, float64, bool) {
	if cursor := r.lookup(tool.CursorID, scene.TypeGraphCursor); cursor != nil {
		if g := r.lookup(cursor.GraphID, scene.TypeGraph); g != nil {
			return g, cursor.X0, true
		}
		return nil, 0, false
	}
	if g := r.lookup(tool.GraphID, scene.TypeGraph); g != nil {
		// No cursor: anchor at the middle of the graph's x range.
		x0 := 0.0
		if g.XRange != nil {
			x0 = (g.XRange.Min + g.XRange.Max) / 2
		}
		return g, x0, true
	}
	return nil, 0, false
}

// CursorPoint returns the logical position of a graph cursor on its graph.
func (r *Resolver) CursorPoint(cursor *scene.Object) (geometry.Point, bool) {
	if cursor == nil || cursor.Type != scene.TypeGraphCursor {
		return geometry.Point{}, false
	}
	g := r.lookup(cursor.GraphID, scene.TypeGraph)
	if g == nil {
		return geometry.Point{}, false
	}
	y, ok := r.eval.Eval(g.Formula, cursor.X0)
	if !ok {
		return geometry.Point{}, false
	}
	f := r.graphFrame(g)
	if f.clipY != nil && (y < f.clipY.Min || y > f.clipY.Max) {
		return geometry.Point{}, false
	}
	return f.toLogical(cursor.X0, y), true
}

// TangentSegment returns the endpoints of a tangent line at its anchor
// point, spanning visibleSpan logical units along the tangent direction.
func (r *Resolver) TangentSegment(tl *scene.Object) (geometry.Point, geometry.Point, bool) {
	if tl == nil || tl.Type != scene.TypeTangentLine {
		return geometry.Point{}, geometry.Point{}, false
	}
	g, x0, ok := r.graphOf(tl)
	if !ok {
		return geometry.Point{}, geometry.Point{}, false
	}

	y, okY := r.eval.Eval(g.Formula, x0)
	slope, okD := r.eval.Derivative(g.Formula, x0, tl.DerivativeStep)
	if !okY || !okD {
		return geometry.Point{}, geometry.Point{}, false
	}

	f := r.graphFrame(g)
	anchor := f.toLogical(x0, y)

	// Tangent direction in logical space accounts for unequal axis scales.
	dir := geometry.Point{X: f.unitX, Y: slope * f.unitY}
	length := math.Hypot(dir.X, dir.Y)
	if length == 0 || !geometry.IsFinite(length) {
		return geometry.Point{}, geometry.Point{}, false
	}

	span := tl.VisibleSpan
	if span <= 0 {
		span = 3
	}
	half := span / 2
	a := geometry.Point{X: anchor.X - dir.X/length*half, Y: anchor.Y - dir.Y/length*half}
	b := geometry.Point{X: anchor.X + dir.X/length*half, Y: anchor.Y + dir.Y/length*half}
	return a, b, true
}

// ProbePoints returns the limit-probe sample points walking toward the
// anchor x from the probe's direction(s) per its delta schedule.
func (r *Resolver) ProbePoints(lp *scene.Object) []geometry.Point {
	if lp == nil || lp.Type != scene.TypeLimitProbe {
		return nil
	}
	g, x0, ok := r.graphOf(lp)
	if !ok {
		return nil
	}

	f := r.graphFrame(g)
	var pts []geometry.Point
	appendAt := func(x float64) {
		y, ok := r.eval.Eval(g.Formula, x)
		if !ok {
			return
		}
		if f.clipY != nil && (y < f.clipY.Min || y > f.clipY.Max) {
			return
		}
		pts = append(pts, f.toLogical(x, y))
	}

	for _, delta := range lp.DeltaSchedule {
		if delta <= 0 {
			continue
		}
		switch lp.Direction {
		case "left":
			appendAt(x0 - delta)
		case "right":
			appendAt(x0 + delta)
		default: // both
			appendAt(x0 - delta)
			appendAt(x0 + delta)
		}
	}
	return pts
}

// LabelValue returns the anchor point and displayed value of a value label.
// valueType selects the cursor x, the evaluated y, or the local slope.
func (r *Resolver) LabelValue(vl *scene.Object) (geometry.Point, float64, bool) {
	if vl == nil || vl.Type != scene.TypeValueLabel {
		return geometry.Point{}, 0, false
	}
	g, x0, ok := r.graphOf(vl)
	if !ok {
		return geometry.Point{}, 0, false
	}

	y, okY := r.eval.Eval(g.Formula, x0)
	if !okY {
		return geometry.Point{}, 0, false
	}
	anchor := r.graphFrame(g).toLogical(x0, y)

	switch vl.ValueType {
	case "x":
		return anchor, x0, true
	case "slope":
		slope, okD := r.eval.Derivative(g.Formula, x0, vl.DerivativeStep)
		if !okD {
			return geometry.Point{}, 0, false
		}
		return anchor, slope, true
	default: // "y"
		return anchor, y, true
	}
}
