package scene

import "encoding/json"

// Patch is one object-mutation intent: a partial set of fields keyed by
// their JSON names. The engine emits patches during interaction; the
// collaboration layer applies the same shape to the authoritative scene.
type Patch struct {
	ObjectID string         `json:"objectId"`
	Fields   map[string]any `json:"fields"`
}

// NewPatch builds a patch for one object.
func NewPatch(objectID string, fields map[string]any) Patch {
	return Patch{ObjectID: objectID, Fields: fields}
}

// ApplyPatch sets the patched fields on the object. Unknown fields are
// ignored; values arriving from JSON (float64 for all numbers, []any for
// lists) and values set in-process are both accepted.
func ApplyPatch(obj *Object, fields map[string]any) {
	for name, raw := range fields {
		switch name {
		case "x":
			obj.X = toFloat(raw)
		case "y":
			obj.Y = toFloat(raw)
		case "x2":
			obj.X2 = toFloat(raw)
		case "y2":
			obj.Y2 = toFloat(raw)
		case "cx":
			obj.CX = toFloat(raw)
		case "cy":
			obj.CY = toFloat(raw)
		case "rotation":
			obj.Rotation = toFloat(raw)
		case "opacity":
			v := toFloat(raw)
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			obj.Opacity = v
		case "zIndex":
			obj.ZIndex = int(toFloat(raw))
		case "width":
			obj.Width = toFloat(raw)
		case "height":
			obj.Height = toFloat(raw)
		case "radius":
			obj.Radius = toFloat(raw)
		case "delay":
			v := toFloat(raw)
			if v < 0 {
				v = 0
			}
			obj.Delay = v
		case "runTime":
			v := toFloat(raw)
			if v > 0 {
				obj.RunTime = v
			}
		case "x0":
			obj.X0 = toFloat(raw)
		case "fontSize":
			obj.FontSize = toFloat(raw)
		case "strokeWidth":
			obj.StrokeWidth = toFloat(raw)
		case "visibleSpan":
			obj.VisibleSpan = toFloat(raw)
		case "derivativeStep":
			obj.DerivativeStep = toFloat(raw)
		case "xLength":
			obj.XLength = toFloat(raw)
		case "yLength":
			obj.YLength = toFloat(raw)
		case "name":
			obj.Name, _ = raw.(string)
		case "text":
			obj.Text, _ = raw.(string)
		case "formula":
			obj.Formula, _ = raw.(string)
		case "fill":
			obj.Fill, _ = raw.(string)
		case "stroke":
			obj.Stroke, _ = raw.(string)
		case "direction":
			obj.Direction, _ = raw.(string)
		case "valueType":
			obj.ValueType, _ = raw.(string)
		case "transformFromId":
			obj.TransformFromID, _ = raw.(string)
		case "graphId":
			obj.GraphID, _ = raw.(string)
		case "cursorId":
			obj.CursorID, _ = raw.(string)
		case "axesId":
			obj.AxesID, _ = raw.(string)
		case "vertices":
			if vs, ok := toVertices(raw); ok {
				obj.Vertices = vs
			}
		case "xRange":
			if r, ok := toRange(raw); ok {
				obj.XRange = r
			}
		case "yRange":
			if r, ok := toRange(raw); ok {
				obj.YRange = r
			}
		}
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

func toVertices(v any) ([]Vertex, bool) {
	switch vs := v.(type) {
	case []Vertex:
		return vs, true
	case []any:
		out := make([]Vertex, 0, len(vs))
		for _, item := range vs {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			vert := Vertex{X: toFloat(m["x"]), Y: toFloat(m["y"])}
			vert.Label, _ = m["label"].(string)
			out = append(out, vert)
		}
		return out, true
	}
	return nil, false
}

func toRange(v any) (*Range, bool) {
	switch r := v.(type) {
	case *Range:
		return r, true
	case Range:
		return &r, true
	case map[string]any:
		return &Range{Min: toFloat(r["min"]), Max: toFloat(r["max"]), Step: toFloat(r["step"])}, true
	}
	return nil, false
}
