package scene

import (
	"encoding/json"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/typeid"
)

// NewEmptyScene creates a scene with no objects and the default duration.
func NewEmptyScene() *Scene {
	return &Scene{Objects: []Object{}, Duration: DefaultDuration}
}

// NewSampleScene builds the built-in demo scene: an axes/graph/cursor/tangent
// chain showing the composable tools, plus a rectangle that transforms into
// a circle on the timeline.
func NewSampleScene() *Scene {
	axesID := typeid.NewObjectID()
	graphID := typeid.NewObjectID()
	cursorID := typeid.NewObjectID()
	tangentID := typeid.NewObjectID()
	rectID := typeid.NewObjectID()
	circleID := typeid.NewObjectID()

	axes := NewObject(TypeAxes)
	axes.ID = axesID
	axes.Name = "Axes 1"
	axes.RunTime = 2

	graph := NewObject(TypeGraph)
	graph.ID = graphID
	graph.Name = "Graph 1"
	graph.Formula = "sin(x)"
	graph.XRange = &Range{Min: -4, Max: 4, Step: 1}
	graph.AxesID = axesID
	graph.Delay = 1
	graph.RunTime = 2

	cursor := NewObject(TypeGraphCursor)
	cursor.ID = cursorID
	cursor.Name = "Cursor 1"
	cursor.GraphID = graphID
	cursor.X0 = 1
	cursor.Delay = 2

	tangent := NewObject(TypeTangentLine)
	tangent.ID = tangentID
	tangent.Name = "Tangent 1"
	tangent.CursorID = cursorID
	tangent.GraphID = graphID
	tangent.AxesID = axesID
	tangent.Delay = 3

	rect := NewObject(TypeRectangle)
	rect.ID = rectID
	rect.Name = "Rectangle 1"
	rect.X = -5
	rect.Y = 2.5
	rect.RunTime = 1.5
	rect.InsertKeyframe(Keyframe{Time: 0, Property: "opacity", Value: json.RawMessage("0")})
	rect.InsertKeyframe(Keyframe{Time: 0.5, Property: "opacity", Value: json.RawMessage("1")})

	circle := NewObject(TypeCircle)
	circle.ID = circleID
	circle.Name = "Circle 1"
	circle.X = -5
	circle.Y = 2.5
	circle.Radius = 0.8
	circle.Delay = 1.5
	circle.RunTime = 1.5
	circle.TransformFromID = rectID

	return &Scene{
		Objects:  []Object{axes, graph, cursor, tangent, rect, circle},
		Duration: DefaultDuration,
	}
}
