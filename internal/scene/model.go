package scene

import "encoding/json"

// ObjectType discriminates the SceneObject tagged union. Every per-type
// operation in the engine (bounds, hit test, handles, drag apply) switches
// on this, so adding a type is a localized, compile-checked change.
type ObjectType string

const (
	TypeRectangle   ObjectType = "rectangle"
	TypeCircle      ObjectType = "circle"
	TypeDot         ObjectType = "dot"
	TypeTriangle    ObjectType = "triangle"
	TypePolygon     ObjectType = "polygon"
	TypeLine        ObjectType = "line"
	TypeArrow       ObjectType = "arrow"
	TypeArc         ObjectType = "arc"
	TypeText        ObjectType = "text"
	TypeAxes        ObjectType = "axes"
	TypeGraph       ObjectType = "graph"
	TypeGraphCursor ObjectType = "graphCursor"
	TypeTangentLine ObjectType = "tangentLine"
	TypeLimitProbe  ObjectType = "limitProbe"
	TypeValueLabel  ObjectType = "valueLabel"
)

// KnownType reports whether t is one of the defined object types.
func KnownType(t ObjectType) bool {
	switch t {
	case TypeRectangle, TypeCircle, TypeDot, TypeTriangle, TypePolygon,
		TypeLine, TypeArrow, TypeArc, TypeText, TypeAxes, TypeGraph,
		TypeGraphCursor, TypeTangentLine, TypeLimitProbe, TypeValueLabel:
		return true
	}
	return false
}

// IsTool reports whether the type is a composable tool whose geometry is
// derived entirely from another referenced object.
func (t ObjectType) IsTool() bool {
	switch t {
	case TypeGraphCursor, TypeTangentLine, TypeLimitProbe, TypeValueLabel:
		return true
	}
	return false
}

// Vertex is a polygon/triangle vertex relative to the object's (x, y).
type Vertex struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Range describes an axis range with tick step.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Keyframe is one animated property sample. Value is kept raw so numeric
// and string (e.g. color) values round-trip unchanged.
type Keyframe struct {
	Time     float64         `json:"time"`
	Property string          `json:"property"`
	Value    json.RawMessage `json:"value"`
}

// Object is one drawable entity. Common fields apply to every type; the
// remaining fields are meaningful only for the types noted in their groups
// and are omitted from JSON when zero. Foreign reference fields hold another
// object's id or are empty; dangling references are legal at rest and all
// consumers treat them as "nothing to draw/hit/link".
type Object struct {
	ID       string     `json:"id"`
	Type     ObjectType `json:"type"`
	Name     string     `json:"name,omitempty"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Rotation float64    `json:"rotation,omitempty"` // degrees
	Opacity  float64    `json:"opacity"`
	ZIndex   int        `json:"zIndex,omitempty"`

	Keyframes []Keyframe `json:"keyframes,omitempty"`
	RunTime   float64    `json:"runTime"` // seconds, > 0
	Delay     float64    `json:"delay"`   // seconds, >= 0

	// TransformFromID chains this object onto a predecessor on the timeline.
	TransformFromID string `json:"transformFromId,omitempty"`

	// rectangle, text
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// circle, dot
	Radius float64 `json:"radius,omitempty"`

	// triangle, polygon
	Vertices []Vertex `json:"vertices,omitempty"`

	// line, arrow, arc
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`
	// Arc midpoint on the curve at parameter 0.5 (not the Bezier control point).
	CX float64 `json:"cx,omitempty"`
	CY float64 `json:"cy,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	// text
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	// axes
	XRange  *Range  `json:"xRange,omitempty"`
	YRange  *Range  `json:"yRange,omitempty"`
	XLength float64 `json:"xLength,omitempty"`
	YLength float64 `json:"yLength,omitempty"`
	Labels  bool    `json:"labels,omitempty"`

	// graph
	Formula string `json:"formula,omitempty"`
	AxesID  string `json:"axesId,omitempty"`

	// graphCursor
	GraphID string  `json:"graphId,omitempty"`
	X0      float64 `json:"x0,omitempty"`

	// tangentLine
	CursorID       string  `json:"cursorId,omitempty"`
	DerivativeStep float64 `json:"derivativeStep,omitempty"`
	VisibleSpan    float64 `json:"visibleSpan,omitempty"`

	// limitProbe
	Direction     string    `json:"direction,omitempty"` // "left", "right", "both"
	DeltaSchedule []float64 `json:"deltaSchedule,omitempty"`

	// valueLabel
	ValueType string `json:"valueType,omitempty"` // "x", "y", "slope"
}

// Scene is an ordered sequence of objects plus a duration in seconds.
// Array order breaks zIndex ties (later wins) and drives rename defaults.
type Scene struct {
	Objects  []Object `json:"objects"`
	Duration float64  `json:"duration"`
}

// Index is the id→object lookup rebuilt after scene mutations so hot paths
// (drag, hover) never scan the object slice.
type Index map[string]*Object

// BuildIndex builds the id index over the scene's current object slice.
// Pointers are into the slice, so the index is invalidated by any append
// or removal and must be rebuilt.
func (s *Scene) BuildIndex() Index {
	idx := make(Index, len(s.Objects))
	for i := range s.Objects {
		idx[s.Objects[i].ID] = &s.Objects[i]
	}
	return idx
}

// ObjectByID returns the object with the given id, or nil.
func (s *Scene) ObjectByID(id string) *Object {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i]
		}
	}
	return nil
}

// IndexOf returns the array position of the object with the given id, or -1.
func (s *Scene) IndexOf(id string) int {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return i
		}
	}
	return -1
}

// Parse decodes a scene from JSON and normalizes invariant fields.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.Normalize()
	return &s, nil
}

// Marshal encodes the scene as JSON.
func (s *Scene) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Normalize enforces the data-model invariants on every object: runTime > 0,
// delay >= 0, opacity in [0,1], keyframes sorted with unique (time, property).
func (s *Scene) Normalize() {
	if s.Duration <= 0 {
		s.Duration = DefaultDuration
	}
	for i := range s.Objects {
		o := &s.Objects[i]
		if o.RunTime <= 0 {
			o.RunTime = 1
		}
		if o.Delay < 0 {
			o.Delay = 0
		}
		if o.Opacity < 0 {
			o.Opacity = 0
		}
		if o.Opacity > 1 {
			o.Opacity = 1
		}
		o.Keyframes = normalizeKeyframes(o.Keyframes)
	}
}
