package scene

import "github.com/yyuan-rahh/Manim-Interactive-sub000/internal/typeid"

// DefaultDuration is the timeline length in seconds for a fresh scene.
const DefaultDuration = 10

// NewObject creates an object of the given type with its creation defaults
// and a generated id. New objects land at the canvas origin.
func NewObject(t ObjectType) Object {
	obj := Object{
		ID:      typeid.NewObjectID(),
		Type:    t,
		Opacity: 1,
		RunTime: 1,
	}

	switch t {
	case TypeRectangle:
		obj.Width = 2
		obj.Height = 1.5
		obj.Fill = "#58c4dd"
		obj.Stroke = "#ffffff"
		obj.StrokeWidth = 2
	case TypeCircle:
		obj.Radius = 1
		obj.Fill = "#fc6255"
		obj.Stroke = "#ffffff"
		obj.StrokeWidth = 2
	case TypeDot:
		obj.Radius = 0.08
		obj.Fill = "#ffffff"
	case TypeTriangle:
		obj.Vertices = []Vertex{
			{X: 0, Y: 1, Label: "A"},
			{X: -1, Y: -0.75, Label: "B"},
			{X: 1, Y: -0.75, Label: "C"},
		}
		obj.Fill = "#83c167"
		obj.Stroke = "#ffffff"
		obj.StrokeWidth = 2
	case TypePolygon:
		obj.Vertices = []Vertex{
			{X: 0, Y: 1},
			{X: 0.95, Y: 0.31},
			{X: 0.59, Y: -0.81},
			{X: -0.59, Y: -0.81},
			{X: -0.95, Y: 0.31},
		}
		obj.Fill = "#c59978"
		obj.Stroke = "#ffffff"
		obj.StrokeWidth = 2
	case TypeLine:
		obj.X = -1
		obj.X2 = 1
		obj.Stroke = "#ffffff"
		obj.StrokeWidth = 2
	case TypeArrow:
		obj.X = -1
		obj.X2 = 1
		obj.Stroke = "#ffff00"
		obj.StrokeWidth = 2
	case TypeArc:
		obj.X = -1
		obj.X2 = 1
		obj.CY = 0.75 // midpoint bows the curve upward
		obj.Stroke = "#ffffff"
		obj.StrokeWidth = 2
	case TypeText:
		obj.Text = "Text"
		obj.FontSize = 36
		obj.Width = 1.6
		obj.Height = 0.6
		obj.Fill = "#ffffff"
	case TypeAxes:
		obj.XRange = &Range{Min: -5, Max: 5, Step: 1}
		obj.YRange = &Range{Min: -3, Max: 3, Step: 1}
		obj.XLength = 10
		obj.YLength = 6
		obj.Labels = true
		obj.Stroke = "#ffffff"
		obj.StrokeWidth = 2
	case TypeGraph:
		obj.Formula = "x^2 / 4"
		obj.XRange = &Range{Min: -4, Max: 4, Step: 1}
		obj.Stroke = "#58c4dd"
		obj.StrokeWidth = 3
	case TypeGraphCursor:
		obj.X0 = 0
		obj.Radius = 0.1
		obj.Fill = "#fc6255"
	case TypeTangentLine:
		obj.DerivativeStep = 0.001
		obj.VisibleSpan = 3
		obj.Stroke = "#ffff00"
		obj.StrokeWidth = 2
	case TypeLimitProbe:
		obj.Direction = "both"
		obj.DeltaSchedule = []float64{1, 0.5, 0.25, 0.1, 0.05}
		obj.Stroke = "#83c167"
		obj.StrokeWidth = 2
	case TypeValueLabel:
		obj.ValueType = "y"
		obj.FontSize = 28
		obj.Fill = "#ffffff"
	}

	return obj
}
