package interaction

import (
	"math"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/hittest"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/snap"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/timeline"
)

// resize minimums in logical units.
const (
	minBoxExtent  = 0.2
	minRadius     = 0.05
	minAxisLength = 0.5
	radiusStep    = 0.25
)

// visibleOthers returns the visible objects a drag may snap against,
// excluding everything the session itself is mutating.
func (c *Controller) visibleOthers() []*scene.Object {
	var others []*scene.Object
	for _, obj := range timeline.VisibleObjects(c.scn, c.time) {
		if c.session != nil {
			if _, dragged := c.session.Origins[obj.ID]; dragged {
				continue
			}
		}
		others = append(others, obj)
	}
	return others
}

// --- Move ---

func (c *Controller) startMoveDrag(primaryID string, device, logical geometry.Point) {
	ds := newSession(StateDragMove, device, logical)
	ds.ObjectID = primaryID
	for _, id := range c.selection {
		if obj := c.scn.ObjectByID(id); obj != nil {
			ds.snapshot(obj)
		}
	}
	c.session = ds
	c.state = StateDragMove
}

// applyMoveDrag snaps the primary object's raw dragged position and applies
// the resulting delta rigidly to every selected object, so a multi-selection
// never deforms and secondary points of a shape never snap independently.
func (c *Controller) applyMoveDrag(logical geometry.Point) {
	origin, ok := c.session.origin(c.session.ObjectID)
	if !ok {
		return
	}

	rawX := origin.X + (logical.X - c.session.StartLogical.X)
	rawY := origin.Y + (logical.Y - c.session.StartLogical.Y)
	sx, sy := snap.Position(rawX, rawY, c.snapEnabled, c.visibleOthers(), c.session.ObjectID)
	dx, dy := sx-origin.X, sy-origin.Y

	for id, org := range c.session.Origins {
		fields := map[string]any{
			"x": geometry.Round2(org.X + dx),
			"y": geometry.Round2(org.Y + dy),
		}
		switch org.Type {
		case scene.TypeLine, scene.TypeArrow:
			fields["x2"] = geometry.Round2(org.X2 + dx)
			fields["y2"] = geometry.Round2(org.Y2 + dy)
		case scene.TypeArc:
			fields["x2"] = geometry.Round2(org.X2 + dx)
			fields["y2"] = geometry.Round2(org.Y2 + dy)
			fields["cx"] = geometry.Round2(org.CX + dx)
			fields["cy"] = geometry.Round2(org.CY + dy)
		}
		c.emit(id, fields)
	}
}

// --- Handles ---

func (c *Controller) startHandleDrag(obj *scene.Object, handleID string, device, logical geometry.Point) {
	kind := StateDragHandle
	vertex := -1
	if i := hittest.VertexIndex(handleID); i >= 0 {
		kind = StateDragVertex
		vertex = i
	}
	ds := newSession(kind, device, logical)
	ds.ObjectID = obj.ID
	ds.HandleID = handleID
	ds.VertexIndex = vertex
	ds.snapshot(obj)
	c.session = ds
	c.state = kind
}

func (c *Controller) applyHandleDrag(logical geometry.Point, mods Modifiers) {
	origin, ok := c.session.origin(c.session.ObjectID)
	if !ok {
		return
	}

	switch origin.Type {
	case scene.TypeRectangle:
		c.dragBoxCorner(origin, logical, false)
	case scene.TypeText:
		if c.session.HandleID == geometry.HandleRotate {
			c.dragRotate(origin, logical, mods)
		} else {
			c.dragBoxCorner(origin, logical, true)
		}
	case scene.TypeCircle, scene.TypeDot:
		c.dragRadius(origin, logical)
	case scene.TypeLine, scene.TypeArrow:
		c.dragEndpoint(origin, logical, mods)
	case scene.TypeArc:
		c.dragArcHandle(origin, logical, mods)
	case scene.TypeAxes:
		c.dragAxisLength(origin, logical)
	}
}

// dragBoxCorner resizes a rectangle or text box by its dragged corner,
// keeping the opposite corner fixed and clamping both extents to the
// minimum. Text resizes in its rotated frame.
func (c *Controller) dragBoxCorner(origin scene.Object, logical geometry.Point, rotated bool) {
	corner := hittest.CornerIndex(c.session.HandleID)
	if corner < 0 {
		return
	}

	center := geometry.Point{X: origin.X, Y: origin.Y}
	cursor := logical
	if rotated && origin.Rotation != 0 {
		cursor = geometry.RotatePoint(logical, center, -origin.Rotation)
	} else if !rotated {
		sx, sy := snap.Position(logical.X, logical.Y, c.snapEnabled, c.visibleOthers(), origin.ID)
		cursor = geometry.Point{X: sx, Y: sy}
	}

	// Corners are TL, TR, BR, BL in y-up order; the opposite corner stays
	// fixed.
	hw, hh := origin.Width/2, origin.Height/2
	corners := []geometry.Point{
		{X: origin.X - hw, Y: origin.Y + hh},
		{X: origin.X + hw, Y: origin.Y + hh},
		{X: origin.X + hw, Y: origin.Y - hh},
		{X: origin.X - hw, Y: origin.Y - hh},
	}
	fixed := corners[(corner+2)%4]

	w := math.Max(minBoxExtent, math.Abs(cursor.X-fixed.X))
	h := math.Max(minBoxExtent, math.Abs(cursor.Y-fixed.Y))
	cx := fixed.X + w/2
	if cursor.X < fixed.X {
		cx = fixed.X - w/2
	}
	cy := fixed.Y + h/2
	if cursor.Y < fixed.Y {
		cy = fixed.Y - h/2
	}

	newCenter := geometry.Point{X: cx, Y: cy}
	if rotated && origin.Rotation != 0 {
		newCenter = geometry.RotatePoint(newCenter, center, origin.Rotation)
	}

	c.emit(origin.ID, map[string]any{
		"x":      geometry.Round2(newCenter.X),
		"y":      geometry.Round2(newCenter.Y),
		"width":  geometry.Round2(w),
		"height": geometry.Round2(h),
	})
}

// dragRotate sets a text object's rotation from the handle angle; the
// handle sits above the box, so the stored rotation is the cursor angle
// minus 90°. The angle modifier snaps to 45° increments.
func (c *Controller) dragRotate(origin scene.Object, logical geometry.Point, mods Modifiers) {
	center := geometry.Point{X: origin.X, Y: origin.Y}
	deg := geometry.AngleDegrees(center, logical) - 90
	if mods.Shift {
		deg = math.Round(deg/45) * 45
	}
	for deg <= -180 {
		deg += 360
	}
	for deg > 180 {
		deg -= 360
	}
	c.emit(origin.ID, map[string]any{"rotation": geometry.Round2(deg)})
}

// dragRadius sets a circle's radius from the cursor distance, stepping to
// quarter units when snapping is enabled.
func (c *Controller) dragRadius(origin scene.Object, logical geometry.Point) {
	center := geometry.Point{X: origin.X, Y: origin.Y}
	r := geometry.Dist(center, logical)
	if c.snapEnabled {
		if stepped := geometry.SnapToGrid(r, radiusStep); stepped >= minRadius {
			r = stepped
		}
	}
	r = math.Max(minRadius, r)
	c.emit(origin.ID, map[string]any{"radius": geometry.Round2(r)})
}

// dragEndpoint moves one endpoint of a line or arrow, snapping it
// independently of the other. The angle modifier constrains the segment to
// 45° increments around the fixed endpoint.
func (c *Controller) dragEndpoint(origin scene.Object, logical geometry.Point, mods Modifiers) {
	fixed := geometry.Point{X: origin.X2, Y: origin.Y2}
	if c.session.HandleID == geometry.HandleEnd {
		fixed = geometry.Point{X: origin.X, Y: origin.Y}
	}

	p := logical
	if mods.Shift {
		p = geometry.SnapAngle45(fixed, p)
	} else {
		sx, sy := snap.Position(p.X, p.Y, c.snapEnabled, c.visibleOthers(), origin.ID)
		p = geometry.Point{X: sx, Y: sy}
	}

	fields := map[string]any{}
	if c.session.HandleID == geometry.HandleEnd {
		fields["x2"] = geometry.Round2(p.X)
		fields["y2"] = geometry.Round2(p.Y)
	} else {
		fields["x"] = geometry.Round2(p.X)
		fields["y"] = geometry.Round2(p.Y)
	}
	c.emit(origin.ID, fields)
}

// dragArcHandle moves an arc endpoint or its on-curve midpoint.
func (c *Controller) dragArcHandle(origin scene.Object, logical geometry.Point, mods Modifiers) {
	sx, sy := snap.Position(logical.X, logical.Y, c.snapEnabled, c.visibleOthers(), origin.ID)
	p := geometry.Point{X: sx, Y: sy}

	switch c.session.HandleID {
	case geometry.HandleStart:
		if mods.Shift {
			p = geometry.SnapAngle45(geometry.Point{X: origin.X2, Y: origin.Y2}, logical)
		}
		c.emit(origin.ID, map[string]any{
			"x": geometry.Round2(p.X), "y": geometry.Round2(p.Y),
		})
	case geometry.HandleEnd:
		if mods.Shift {
			p = geometry.SnapAngle45(geometry.Point{X: origin.X, Y: origin.Y}, logical)
		}
		c.emit(origin.ID, map[string]any{
			"x2": geometry.Round2(p.X), "y2": geometry.Round2(p.Y),
		})
	case geometry.HandleControl:
		c.emit(origin.ID, map[string]any{
			"cx": geometry.Round2(p.X), "cy": geometry.Round2(p.Y),
		})
	}
}

// dragAxisLength resizes one axis of an axes object symmetrically about its
// center, holding the other axis fixed.
func (c *Controller) dragAxisLength(origin scene.Object, logical geometry.Point) {
	switch c.session.HandleID {
	case geometry.HandleXMin, geometry.HandleXMax:
		l := math.Max(minAxisLength, 2*math.Abs(logical.X-origin.X))
		if c.snapEnabled {
			if stepped := geometry.SnapToGrid(l, snap.GridStep); stepped >= minAxisLength {
				l = stepped
			}
		}
		c.emit(origin.ID, map[string]any{"xLength": geometry.Round2(l)})
	case geometry.HandleYMin, geometry.HandleYMax:
		l := math.Max(minAxisLength, 2*math.Abs(logical.Y-origin.Y))
		if c.snapEnabled {
			if stepped := geometry.SnapToGrid(l, snap.GridStep); stepped >= minAxisLength {
				l = stepped
			}
		}
		c.emit(origin.ID, map[string]any{"yLength": geometry.Round2(l)})
	}
}

// --- Vertices ---

// applyVertexDrag moves one polygon or triangle vertex. The vertex snaps in
// absolute space and is stored relative to the object position; the angle
// modifier constrains it to 45° rays from the shape centroid. The polygon
// may degenerate freely; only the vertex count is fixed.
func (c *Controller) applyVertexDrag(logical geometry.Point, mods Modifiers) {
	origin, ok := c.session.origin(c.session.ObjectID)
	if !ok {
		return
	}
	i := c.session.VertexIndex
	if i < 0 || i >= len(origin.Vertices) {
		return
	}

	p := logical
	if mods.Shift {
		p = geometry.SnapAngle45(geometry.Centroid(&origin), p)
	} else {
		sx, sy := snap.Position(p.X, p.Y, c.snapEnabled, c.visibleOthers(), origin.ID)
		p = geometry.Point{X: sx, Y: sy}
	}

	verts := append([]scene.Vertex(nil), origin.Vertices...)
	verts[i] = scene.Vertex{
		X: geometry.Round2(p.X - origin.X),
		Y: geometry.Round2(p.Y - origin.Y),
	}
	c.emit(origin.ID, map[string]any{"vertices": verts})
}

// --- Nudge ---

// nudge offsets every selected object by a logical delta, bypassing snap.
func (c *Controller) nudge(dx, dy float64) {
	for _, id := range c.selection {
		obj := c.scn.ObjectByID(id)
		if obj == nil {
			continue
		}
		fields := map[string]any{
			"x": geometry.Round2(obj.X + dx),
			"y": geometry.Round2(obj.Y + dy),
		}
		switch obj.Type {
		case scene.TypeLine, scene.TypeArrow:
			fields["x2"] = geometry.Round2(obj.X2 + dx)
			fields["y2"] = geometry.Round2(obj.Y2 + dy)
		case scene.TypeArc:
			fields["x2"] = geometry.Round2(obj.X2 + dx)
			fields["y2"] = geometry.Round2(obj.Y2 + dy)
			fields["cx"] = geometry.Round2(obj.CX + dx)
			fields["cy"] = geometry.Round2(obj.CY + dy)
		}
		c.emit(id, fields)
	}
}
