package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/formula"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

// identityAxes spans -5..5 by -3..3 over a 10x6 logical extent centered at
// the origin, so value space and logical space coincide.
func identityAxes(id string) scene.Object {
	return scene.Object{
		ID:      id,
		Type:    scene.TypeAxes,
		XRange:  &scene.Range{Min: -5, Max: 5, Step: 1},
		YRange:  &scene.Range{Min: -3, Max: 3, Step: 1},
		XLength: 10,
		YLength: 6,
	}
}

func resolverFor(objs ...scene.Object) *Resolver {
	s := &scene.Scene{Objects: objs, Duration: 10}
	return New(s.BuildIndex(), formula.NewEvaluator())
}

func TestGraphSamplesUnlinked(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph, X: 1, Y: 0.5,
		Formula: "x", XRange: &scene.Range{Min: -4, Max: 4, Step: 1},
	}
	r := resolverFor(g)

	pts := r.GraphSamples(&g)
	require.Len(t, pts, GraphSampleCount+1)

	// Values plot as logical units offset by the graph's own position.
	assert.InDelta(t, -3, pts[0].X, 1e-9)
	assert.InDelta(t, -3.5, pts[0].Y, 1e-9)
	assert.InDelta(t, 5, pts[GraphSampleCount].X, 1e-9)
	assert.InDelta(t, 4.5, pts[GraphSampleCount].Y, 1e-9)
}

func TestGraphSamplesLinkedAxesClip(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph, AxesID: "ax",
		Formula: "x^2 / 4", XRange: &scene.Range{Min: -4, Max: 4, Step: 1},
	}
	r := resolverFor(g, identityAxes("ax"))

	pts := r.GraphSamples(&g)
	require.NotEmpty(t, pts)
	assert.Less(t, len(pts), GraphSampleCount+1) // tails above y=3 are dropped
	for _, p := range pts {
		assert.LessOrEqual(t, p.Y, 3.0)
	}
}

func TestGraphSamplesDanglingAxesFallsBack(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph, AxesID: "gone",
		Formula: "x", XRange: &scene.Range{Min: -1, Max: 1, Step: 1},
	}
	r := resolverFor(g)

	pts := r.GraphSamples(&g)
	require.Len(t, pts, GraphSampleCount+1)
	assert.InDelta(t, -1, pts[0].X, 1e-9)
}

func TestGraphSamplesBadFormula(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph,
		Formula: "x +* 2", XRange: &scene.Range{Min: -1, Max: 1, Step: 1},
	}
	r := resolverFor(g)
	assert.Empty(t, r.GraphSamples(&g))
}

func TestCursorPoint(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph, AxesID: "ax",
		Formula: "x^2 / 4", XRange: &scene.Range{Min: -4, Max: 4, Step: 1},
	}
	c := scene.Object{ID: "c", Type: scene.TypeGraphCursor, GraphID: "g", X0: 2}
	r := resolverFor(g, identityAxes("ax"), c)

	p, ok := r.CursorPoint(&c)
	require.True(t, ok)
	assert.InDelta(t, 2, p.X, 1e-9)
	assert.InDelta(t, 1, p.Y, 1e-9)
}

func TestCursorPointClipped(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph, AxesID: "ax",
		Formula: "x^2 / 4", XRange: &scene.Range{Min: -5, Max: 5, Step: 1},
	}
	// y(4) = 4 exceeds the axes' y range of 3.
	c := scene.Object{ID: "c", Type: scene.TypeGraphCursor, GraphID: "g", X0: 4}
	r := resolverFor(g, identityAxes("ax"), c)

	_, ok := r.CursorPoint(&c)
	assert.False(t, ok)
}

func TestCursorPointUnlinked(t *testing.T) {
	c := scene.Object{ID: "c", Type: scene.TypeGraphCursor, X0: 1}
	r := resolverFor(c)

	_, ok := r.CursorPoint(&c)
	assert.False(t, ok)
}

func TestTangentSegmentThroughCursor(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph, AxesID: "ax",
		Formula: "x", XRange: &scene.Range{Min: -4, Max: 4, Step: 1},
	}
	c := scene.Object{ID: "c", Type: scene.TypeGraphCursor, GraphID: "g", X0: 1}
	tl := scene.Object{ID: "t", Type: scene.TypeTangentLine, CursorID: "c", DerivativeStep: 0.001}
	r := resolverFor(g, identityAxes("ax"), c, tl)

	a, b, ok := r.TangentSegment(&tl)
	require.True(t, ok)

	// Slope 1 on identity axes: a 45 degree segment of default span 3
	// centered on the anchor (1, 1).
	assert.InDelta(t, (a.X+b.X)/2, 1, 1e-6)
	assert.InDelta(t, (a.Y+b.Y)/2, 1, 1e-6)
	assert.InDelta(t, b.Y-a.Y, b.X-a.X, 1e-6)

	dx, dy := b.X-a.X, b.Y-a.Y
	assert.InDelta(t, 9, dx*dx+dy*dy, 1e-6)
}

func TestTangentSegmentAnchorsBareGraphAtRangeMidpoint(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph,
		Formula: "x^2 / 4", XRange: &scene.Range{Min: 0, Max: 4, Step: 1},
	}
	tl := scene.Object{ID: "t", Type: scene.TypeTangentLine, GraphID: "g", VisibleSpan: 2}
	r := resolverFor(g, tl)

	a, b, ok := r.TangentSegment(&tl)
	require.True(t, ok)

	// Anchor at x0 = 2, y = 1.
	assert.InDelta(t, 2, (a.X+b.X)/2, 1e-6)
	assert.InDelta(t, 1, (a.Y+b.Y)/2, 1e-6)
}

func TestTangentSegmentUnresolvable(t *testing.T) {
	tl := scene.Object{ID: "t", Type: scene.TypeTangentLine, CursorID: "gone"}
	r := resolverFor(tl)

	_, _, ok := r.TangentSegment(&tl)
	assert.False(t, ok)
}

func TestProbePoints(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph,
		Formula: "x", XRange: &scene.Range{Min: -4, Max: 4, Step: 1},
	}
	c := scene.Object{ID: "c", Type: scene.TypeGraphCursor, GraphID: "g", X0: 0}

	left := scene.Object{
		ID: "lp", Type: scene.TypeLimitProbe, CursorID: "c",
		Direction: "left", DeltaSchedule: []float64{1, 0.5},
	}
	r := resolverFor(g, c, left)

	pts := r.ProbePoints(&left)
	require.Len(t, pts, 2)
	assert.InDelta(t, -1, pts[0].X, 1e-9)
	assert.InDelta(t, -1, pts[0].Y, 1e-9)
	assert.InDelta(t, -0.5, pts[1].X, 1e-9)
}

func TestProbePointsBothDirections(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph,
		Formula: "x", XRange: &scene.Range{Min: -4, Max: 4, Step: 1},
	}
	c := scene.Object{ID: "c", Type: scene.TypeGraphCursor, GraphID: "g", X0: 0}
	lp := scene.Object{
		ID: "lp", Type: scene.TypeLimitProbe, CursorID: "c",
		Direction: "both", DeltaSchedule: []float64{1, -2, 0.5},
	}
	r := resolverFor(g, c, lp)

	// Each positive delta yields a left and a right point; -2 is skipped.
	pts := r.ProbePoints(&lp)
	require.Len(t, pts, 4)
	assert.InDelta(t, -1, pts[0].X, 1e-9)
	assert.InDelta(t, 1, pts[1].X, 1e-9)
	assert.InDelta(t, -0.5, pts[2].X, 1e-9)
	assert.InDelta(t, 0.5, pts[3].X, 1e-9)
}

func TestLabelValue(t *testing.T) {
	g := scene.Object{
		ID: "g", Type: scene.TypeGraph,
		Formula: "x^2 / 4", XRange: &scene.Range{Min: -4, Max: 4, Step: 1},
	}
	c := scene.Object{ID: "c", Type: scene.TypeGraphCursor, GraphID: "g", X0: 2}

	mk := func(valueType string) scene.Object {
		return scene.Object{ID: "vl-" + valueType, Type: scene.TypeValueLabel, CursorID: "c", ValueType: valueType}
	}

	r := resolverFor(g, c, mk("x"), mk("y"), mk("slope"))

	vx := mk("x")
	anchor, v, ok := r.LabelValue(&vx)
	require.True(t, ok)
	assert.InDelta(t, 2, v, 1e-9)
	assert.InDelta(t, 2, anchor.X, 1e-9)
	assert.InDelta(t, 1, anchor.Y, 1e-9)

	vy := mk("y")
	_, v, ok = r.LabelValue(&vy)
	require.True(t, ok)
	assert.InDelta(t, 1, v, 1e-9)

	vs := mk("slope")
	_, v, ok = r.LabelValue(&vs)
	require.True(t, ok)
	assert.InDelta(t, 1, v, 1e-6) // d/dx x^2/4 at 2
}

func TestLabelValueUnresolvable(t *testing.T) {
	vl := scene.Object{ID: "vl", Type: scene.TypeValueLabel}
	r := resolverFor(vl)

	_, _, ok := r.LabelValue(&vl)
	assert.False(t, ok)
}
