// Package geometry holds the per-type local geometry of scene objects:
// axis-aligned bounds, the logical↔device coordinate transform, resize
// handle layout, and the segment/curve math shared by snapping and hit
// testing. Everything here is a pure function of its inputs.
package geometry

import "math"

// Logical canvas extent: 14×8 units, origin at center, y increasing upward.
const (
	CanvasWidth  = 14.0
	CanvasHeight = 8.0
)

// basePixelsPerUnit is the device size of one logical unit at scale 1.
const basePixelsPerUnit = 60.0

// Scale clamp for pan/zoom.
const (
	MinScale = 0.25
	MaxScale = 5.0
)

// ArcSegments is the fixed sample count used for arc bounds and hit tests.
const ArcSegments = 24

// Point is a 2D point. The same type serves logical and device space; the
// ViewTransform is the only place the two meet.
type Point struct {
	X float64
	Y float64
}

// Bounds is an axis-aligned bounding box in logical space.
type Bounds struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether the point lies inside the box.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Union returns the smallest box containing both boxes.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, other.MinX),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// boundsOf returns the bounding box of a non-empty point set.
func boundsOf(pts []Point) Bounds {
	b := Bounds{MinX: pts[0].X, MaxX: pts[0].X, MinY: pts[0].Y, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// ViewTransform maps logical units to device pixels for pan/zoom.
// OffsetX/OffsetY are the device coordinates of the logical origin, so
// panning translates the offset and zooming rescales around an anchor.
// Device y grows downward; logical y grows upward.
type ViewTransform struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Scale   float64 `json:"scale"`
}

// NewViewTransform centers the logical origin in a viewport of the given
// device size at scale 1.
func NewViewTransform(viewportW, viewportH float64) ViewTransform {
	return ViewTransform{OffsetX: viewportW / 2, OffsetY: viewportH / 2, Scale: 1}
}

// PixelsPerUnit returns the device size of one logical unit.
func (v ViewTransform) PixelsPerUnit() float64 {
	return basePixelsPerUnit * v.Scale
}

// ToDevice converts a logical point to device pixels.
func (v ViewTransform) ToDevice(p Point) Point {
	u := v.PixelsPerUnit()
	return Point{X: v.OffsetX + p.X*u, Y: v.OffsetY - p.Y*u}
}

// ToLogical converts a device point to logical units.
func (v ViewTransform) ToLogical(p Point) Point {
	u := v.PixelsPerUnit()
	return Point{X: (p.X - v.OffsetX) / u, Y: (v.OffsetY - p.Y) / u}
}

// Pan translates the view by a device-pixel delta.
func (v ViewTransform) Pan(dx, dy float64) ViewTransform {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// ZoomAt rescales the view by factor, clamped to [MinScale, MaxScale],
// keeping the logical point under the device anchor invariant.
func (v ViewTransform) ZoomAt(anchor Point, factor float64) ViewTransform {
	scale := ClampScale(v.Scale * factor)
	if scale == v.Scale {
		return v
	}
	l := v.ToLogical(anchor)
	v.Scale = scale
	u := v.PixelsPerUnit()
	v.OffsetX = anchor.X - l.X*u
	v.OffsetY = anchor.Y + l.Y*u
	return v
}

// ClampScale clamps a zoom scale to the supported range.
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// SnapToGrid rounds v to the nearest multiple of grid.
func SnapToGrid(v, grid float64) float64 {
	return math.Round(v/grid) * grid
}

// Round2 rounds to 2 decimals, the engine's stored-coordinate precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ClosestPointOnSegment returns the point on segment ab nearest to p.
// Queries beyond either endpoint clamp to that endpoint.
func ClosestPointOnSegment(p, a, b Point) Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{X: a.X + t*dx, Y: a.Y + t*dy}
}

// DistToSegment returns the distance from p to segment ab.
func DistToSegment(p, a, b Point) float64 {
	return Dist(p, ClosestPointOnSegment(p, a, b))
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// IsFinite reports whether v is a usable coordinate (not NaN or ±Inf).
// Degenerate evaluated points are excluded from bounds, snapping, and hit
// tests rather than propagated into stored state.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ArcControl derives the quadratic Bezier control point from an arc's
// endpoints and its stored on-curve midpoint. The scene stores cx/cy as the
// point at parameter 0.5, so B(0.5) = 0.25·P0 + 0.5·C + 0.25·P2 gives
// C = 2·M − (P0 + P2)/2.
func ArcControl(start, mid, end Point) Point {
	return Point{
		X: 2*mid.X - (start.X+end.X)/2,
		Y: 2*mid.Y - (start.Y+end.Y)/2,
	}
}

// SampleArc evaluates the arc's quadratic curve at segments+1 parameter
// values from 0 to 1.
func SampleArc(start, mid, end Point, segments int) []Point {
	c := ArcControl(start, mid, end)
	pts := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		mt := 1 - t
		pts = append(pts, Point{
			X: mt*mt*start.X + 2*mt*t*c.X + t*t*end.X,
			Y: mt*mt*start.Y + 2*mt*t*c.Y + t*t*end.Y,
		})
	}
	return pts
}

// RotatePoint rotates p around center by the given angle in degrees
// (counterclockwise in logical y-up space).
func RotatePoint(p, center Point, degrees float64) Point {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// AngleDegrees returns the angle of the vector from a to b in degrees.
func AngleDegrees(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

// SnapAngle45 snaps the point p to the nearest 45° ray from pivot,
// preserving its distance from the pivot.
func SnapAngle45(pivot, p Point) Point {
	d := Dist(pivot, p)
	if d == 0 {
		return p
	}
	angle := math.Atan2(p.Y-pivot.Y, p.X-pivot.X)
	step := math.Pi / 4
	snapped := math.Round(angle/step) * step
	return Point{
		X: pivot.X + d*math.Cos(snapped),
		Y: pivot.Y + d*math.Sin(snapped),
	}
}
