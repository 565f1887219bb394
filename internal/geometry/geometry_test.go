package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewTransformToDevice(t *testing.T) {
	v := NewViewTransform(800, 600)

	// Logical origin sits at the viewport center.
	d := v.ToDevice(Point{X: 0, Y: 0})
	assert.InDelta(t, 400, d.X, 1e-9)
	assert.InDelta(t, 300, d.Y, 1e-9)

	// Logical y grows upward, device y downward.
	d = v.ToDevice(Point{X: 1, Y: 1})
	assert.InDelta(t, 460, d.X, 1e-9)
	assert.InDelta(t, 240, d.Y, 1e-9)
}

func TestViewTransformRoundTrip(t *testing.T) {
	v := ViewTransform{OffsetX: 123, OffsetY: 456, Scale: 1.7}
	p := Point{X: 2.5, Y: -3.25}
	back := v.ToLogical(v.ToDevice(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestZoomAtKeepsAnchorInvariant(t *testing.T) {
	v := NewViewTransform(800, 600)
	anchor := Point{X: 250, Y: 120}
	before := v.ToLogical(anchor)

	zoomed := v.ZoomAt(anchor, 2)
	require.InDelta(t, 2, zoomed.Scale, 1e-9)

	after := zoomed.ToLogical(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomAtClampsScale(t *testing.T) {
	v := NewViewTransform(800, 600)

	zoomed := v.ZoomAt(Point{X: 400, Y: 300}, 100)
	assert.InDelta(t, MaxScale, zoomed.Scale, 1e-9)

	zoomed = zoomed.ZoomAt(Point{X: 400, Y: 300}, 1e-6)
	assert.InDelta(t, MinScale, zoomed.Scale, 1e-9)
}

func TestPan(t *testing.T) {
	v := NewViewTransform(800, 600).Pan(15, -20)
	assert.InDelta(t, 415, v.OffsetX, 1e-9)
	assert.InDelta(t, 280, v.OffsetY, 1e-9)
}

func TestSnapToGrid(t *testing.T) {
	assert.InDelta(t, 0.5, SnapToGrid(0.74, 0.5), 1e-9)
	assert.InDelta(t, 1.0, SnapToGrid(0.76, 0.5), 1e-9)
	assert.InDelta(t, -0.5, SnapToGrid(-0.6, 0.5), 1e-9)
	assert.InDelta(t, 0, SnapToGrid(0.2, 0.5), 1e-9)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 0.12, Round2(0.1234), 1e-9)
	assert.InDelta(t, -1.57, Round2(-1.5699), 1e-9)
	assert.InDelta(t, 3, Round2(2.999), 1e-9)
}

func TestClosestPointOnSegment(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 4, Y: 0}

	// Perpendicular projection.
	p := ClosestPointOnSegment(Point{X: 2, Y: 3}, a, b)
	assert.InDelta(t, 2, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)

	// Beyond either endpoint clamps to it.
	p = ClosestPointOnSegment(Point{X: -5, Y: 1}, a, b)
	assert.Equal(t, a, p)
	p = ClosestPointOnSegment(Point{X: 9, Y: -2}, a, b)
	assert.Equal(t, b, p)

	// Degenerate zero-length segment.
	p = ClosestPointOnSegment(Point{X: 1, Y: 1}, a, a)
	assert.Equal(t, a, p)
}

func TestArcControlRecoversMidpoint(t *testing.T) {
	start := Point{X: -1, Y: 0}
	mid := Point{X: 0, Y: 0.75}
	end := Point{X: 1, Y: 0}

	// Sampling the curve at t=0.5 must land back on the stored midpoint.
	pts := SampleArc(start, mid, end, 2)
	require.Len(t, pts, 3)
	assert.InDelta(t, mid.X, pts[1].X, 1e-9)
	assert.InDelta(t, mid.Y, pts[1].Y, 1e-9)

	assert.Equal(t, start, pts[0])
	assert.Equal(t, end, pts[2])
}

func TestSampleArcCount(t *testing.T) {
	pts := SampleArc(Point{X: 0, Y: 0}, Point{X: 1, Y: 1}, Point{X: 2, Y: 0}, ArcSegments)
	assert.Len(t, pts, ArcSegments+1)
}

func TestRotatePoint(t *testing.T) {
	p := RotatePoint(Point{X: 1, Y: 0}, Point{}, 90)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 1, p.Y, 1e-9)

	// Rotation about a non-origin center.
	p = RotatePoint(Point{X: 3, Y: 2}, Point{X: 2, Y: 2}, 180)
	assert.InDelta(t, 1, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)
}

func TestSnapAngle45(t *testing.T) {
	p := SnapAngle45(Point{}, Point{X: 1, Y: 0.1})
	assert.InDelta(t, 0, p.Y, 1e-9)
	assert.InDelta(t, Dist(Point{}, Point{X: 1, Y: 0.1}), p.X, 1e-9)

	p = SnapAngle45(Point{}, Point{X: 1, Y: 0.9})
	assert.InDelta(t, p.X, p.Y, 1e-9) // 45° ray
}

func TestAngleDegrees(t *testing.T) {
	assert.InDelta(t, 90, AngleDegrees(Point{}, Point{X: 0, Y: 1}), 1e-9)
	assert.InDelta(t, 0, AngleDegrees(Point{}, Point{X: 1, Y: 0}), 1e-9)
	assert.InDelta(t, 180, AngleDegrees(Point{}, Point{X: -1, Y: 0}), 1e-9)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.False(t, IsFinite(1.0/zero()))
	assert.False(t, IsFinite(-1.0/zero()))
	assert.False(t, IsFinite(zero()/zero()))
}

func zero() float64 { return 0 }

func TestBoundsUnionContains(t *testing.T) {
	a := Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	b := Bounds{MinX: 2, MaxX: 3, MinY: -1, MaxY: 0.5}

	u := a.Union(b)
	assert.Equal(t, Bounds{MinX: 0, MaxX: 3, MinY: -1, MaxY: 1}, u)

	assert.True(t, u.Contains(1.5, 0))
	assert.False(t, u.Contains(1.5, 2))
	assert.InDelta(t, 3, u.Width(), 1e-9)
	assert.InDelta(t, 2, u.Height(), 1e-9)
}
