package interaction

import "github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"

// Z-order commands operate on the primary selected object. Stacking is by
// zIndex only; the scene array order never changes, it just breaks ties.

// BringToFront raises the primary selection above every other object.
// Already-topmost objects are a no-op.
func (c *Controller) BringToFront() {
	obj := c.primarySelected()
	if obj == nil {
		return
	}
	maxZ, ok := c.zExtent(obj.ID, true)
	if !ok || obj.ZIndex > maxZ {
		return
	}
	c.emit(obj.ID, map[string]any{"zIndex": maxZ + 1})
}

// SendToBack lowers the primary selection below every other object.
func (c *Controller) SendToBack() {
	obj := c.primarySelected()
	if obj == nil {
		return
	}
	minZ, ok := c.zExtent(obj.ID, false)
	if !ok || obj.ZIndex < minZ {
		return
	}
	c.emit(obj.ID, map[string]any{"zIndex": minZ - 1})
}

// BringForward swaps zIndex with the nearest object above the primary
// selection, or no-ops at the top of the stack.
func (c *Controller) BringForward() {
	obj := c.primarySelected()
	if obj == nil {
		return
	}
	if other := c.nearestAbove(obj); other != nil {
		c.swapZ(obj, other)
	}
}

// SendBackward swaps zIndex with the nearest object below the primary
// selection, or no-ops at the bottom of the stack.
func (c *Controller) SendBackward() {
	obj := c.primarySelected()
	if obj == nil {
		return
	}
	if other := c.nearestBelow(obj); other != nil {
		c.swapZ(obj, other)
	}
}

func (c *Controller) primarySelected() *scene.Object {
	if len(c.selection) == 0 {
		return nil
	}
	return c.scn.ObjectByID(c.selection[0])
}

// zExtent returns the max (or min) zIndex among the other objects.
func (c *Controller) zExtent(excludeID string, wantMax bool) (int, bool) {
	best := 0
	found := false
	for i := range c.scn.Objects {
		o := &c.scn.Objects[i]
		if o.ID == excludeID {
			continue
		}
		if !found || (wantMax && o.ZIndex > best) || (!wantMax && o.ZIndex < best) {
			best = o.ZIndex
			found = true
		}
	}
	return best, found
}

func (c *Controller) nearestAbove(obj *scene.Object) *scene.Object {
	var best *scene.Object
	for i := range c.scn.Objects {
		o := &c.scn.Objects[i]
		if o.ID == obj.ID || o.ZIndex <= obj.ZIndex {
			continue
		}
		if best == nil || o.ZIndex < best.ZIndex {
			best = o
		}
	}
	return best
}

func (c *Controller) nearestBelow(obj *scene.Object) *scene.Object {
	var best *scene.Object
	for i := range c.scn.Objects {
		o := &c.scn.Objects[i]
		if o.ID == obj.ID || o.ZIndex >= obj.ZIndex {
			continue
		}
		if best == nil || o.ZIndex > best.ZIndex {
			best = o
		}
	}
	return best
}

func (c *Controller) swapZ(a, b *scene.Object) {
	az, bz := a.ZIndex, b.ZIndex
	c.emit(a.ID, map[string]any{"zIndex": bz})
	c.emit(b.ID, map[string]any{"zIndex": az})
}
