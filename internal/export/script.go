// Package export renders a scene into a runnable Python animation script.
// The generated script targets the Manim community edition: every scene
// object becomes a mobject, the timeline's delays and run times become
// play/wait calls, and transform chains become Transform animations.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/formula"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/geometry"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/resolve"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

// GenerateScript renders the scene as a Python script. className must be a
// valid Python identifier; callers sanitize it first.
func GenerateScript(s *scene.Scene, className string) string {
	g := &generator{
		scn: s,
		res: resolve.New(s.BuildIndex(), formula.NewEvaluator()),
	}
	return g.generate(className)
}

type generator struct {
	scn *scene.Scene
	res *resolve.Resolver

	body []string
	vars map[string]string // object id -> python variable
}

func (g *generator) generate(className string) string {
	var b strings.Builder
	b.WriteString("from manim import *\n")
	b.WriteString("import numpy as np\n\n\n")
	fmt.Fprintf(&b, "class %s(Scene):\n", className)
	b.WriteString("    def construct(self):\n")

	g.vars = make(map[string]string, len(g.scn.Objects))
	for i := range g.scn.Objects {
		o := &g.scn.Objects[i]
		g.vars[o.ID] = fmt.Sprintf("obj_%d", i)
		g.emitConstruction(o)
	}

	g.emitTimeline()

	if len(g.body) == 0 {
		g.body = append(g.body, "pass")
	}
	for _, line := range g.body {
		b.WriteString("        ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (g *generator) add(format string, args ...any) {
	g.body = append(g.body, fmt.Sprintf(format, args...))
}

// emitConstruction emits the mobject assignment for one object. Composable
// tools are resolved to concrete geometry at export time; a tool whose
// dependency chain is broken is skipped.
func (g *generator) emitConstruction(o *scene.Object) {
	v := g.vars[o.ID]

	switch o.Type {
	case scene.TypeRectangle:
		g.add("%s = Rectangle(width=%s, height=%s%s).move_to(%s)",
			v, f(o.Width), f(o.Height), g.styleArgs(o), point(o.X, o.Y))
		g.maybeRotate(o)

	case scene.TypeCircle:
		g.add("%s = Circle(radius=%s%s).move_to(%s)",
			v, f(o.Radius), g.styleArgs(o), point(o.X, o.Y))

	case scene.TypeDot:
		g.add("%s = Dot(point=%s, radius=%s%s)",
			v, point(o.X, o.Y), f(o.Radius), g.styleArgs(o))

	case scene.TypeTriangle, scene.TypePolygon:
		pts := make([]string, 0, len(o.Vertices))
		for _, vert := range o.Vertices {
			pts = append(pts, point(o.X+vert.X, o.Y+vert.Y))
		}
		g.add("%s = Polygon(%s%s)", v, strings.Join(pts, ", "), g.styleArgs(o))

	case scene.TypeLine:
		g.add("%s = Line(%s, %s%s)",
			v, point(o.X, o.Y), point(o.X2, o.Y2), g.styleArgs(o))

	case scene.TypeArrow:
		g.add("%s = Arrow(%s, %s, buff=0%s)",
			v, point(o.X, o.Y), point(o.X2, o.Y2), g.styleArgs(o))

	case scene.TypeArc:
		c := geometry.ArcControl(
			geometry.Point{X: o.X, Y: o.Y},
			geometry.Point{X: o.CX, Y: o.CY},
			geometry.Point{X: o.X2, Y: o.Y2})
		// Quadratic curve expressed as its equivalent cubic.
		g.add("%s = CubicBezier(%s, %s, %s, %s)%s",
			v,
			point(o.X, o.Y),
			point(o.X+2.0/3.0*(c.X-o.X), o.Y+2.0/3.0*(c.Y-o.Y)),
			point(o.X2+2.0/3.0*(c.X-o.X2), o.Y2+2.0/3.0*(c.Y-o.Y2)),
			point(o.X2, o.Y2),
			g.strokeCalls(o))

	case scene.TypeText:
		g.add("%s = Text(%s, font_size=%s%s).move_to(%s)",
			v, pyString(o.Text), f(o.FontSize), g.styleArgs(o), point(o.X, o.Y))
		g.maybeRotate(o)

	case scene.TypeAxes:
		g.add("%s = Axes(x_range=%s, y_range=%s, x_length=%s, y_length=%s).move_to(%s)",
			v, rangeList(o.XRange), rangeList(o.YRange),
			f(o.XLength), f(o.YLength), point(o.X, o.Y))

	case scene.TypeGraph:
		g.emitGraph(o)

	case scene.TypeGraphCursor:
		if p, ok := g.res.CursorPoint(o); ok {
			g.add("%s = Dot(point=%s, radius=%s%s)",
				v, point(p.X, p.Y), f(o.Radius), g.styleArgs(o))
		} else {
			delete(g.vars, o.ID)
		}

	case scene.TypeTangentLine:
		if a, b, ok := g.res.TangentSegment(o); ok {
			g.add("%s = Line(%s, %s%s)", v, point(a.X, a.Y), point(b.X, b.Y), g.styleArgs(o))
		} else {
			delete(g.vars, o.ID)
		}

	case scene.TypeLimitProbe:
		pts := g.res.ProbePoints(o)
		if len(pts) == 0 {
			delete(g.vars, o.ID)
			return
		}
		dots := make([]string, 0, len(pts))
		for _, p := range pts {
			dots = append(dots, fmt.Sprintf("Dot(point=%s, radius=0.05)", point(p.X, p.Y)))
		}
		g.add("%s = VGroup(%s)", v, strings.Join(dots, ", "))

	case scene.TypeValueLabel:
		anchor, value, ok := g.res.LabelValue(o)
		if !ok {
			delete(g.vars, o.ID)
			return
		}
		g.add("%s = DecimalNumber(%s, num_decimal_places=2).move_to(%s)",
			v, f(value), point(anchor.X, anchor.Y+0.4))

	default:
		delete(g.vars, o.ID)
	}
}

// emitGraph plots the formula over the linked axes, or over a free-standing
// default range when unlinked. Formulas the evaluator rejects are skipped.
func (g *generator) emitGraph(o *scene.Object) {
	v := g.vars[o.ID]
	expr, ok := pythonFormula(o.Formula)
	if !ok {
		delete(g.vars, o.ID)
		return
	}

	if axesVar, ok := g.vars[o.AxesID]; ok && o.AxesID != "" {
		g.add("%s = %s.plot(lambda x: %s%s)", v, axesVar, expr, g.strokeKwargs(o))
		return
	}

	samples := g.res.GraphSamples(o)
	if len(samples) < 2 {
		delete(g.vars, o.ID)
		return
	}
	pts := make([]string, 0, len(samples))
	for _, p := range samples {
		pts = append(pts, point(p.X, p.Y))
	}
	g.add("%s = VMobject()%s", v, g.strokeCalls(o))
	g.add("%s.set_points_smoothly([%s])", v, strings.Join(pts, ", "))
}

// emitTimeline schedules the play calls: objects ordered by delay, gaps
// become waits, and a chained object plays as a Transform from its
// predecessor instead of a fresh Create.
func (g *generator) emitTimeline() {
	type event struct {
		obj   *scene.Object
		delay float64
		index int
	}

	events := make([]event, 0, len(g.scn.Objects))
	for i := range g.scn.Objects {
		o := &g.scn.Objects[i]
		if _, ok := g.vars[o.ID]; !ok {
			continue
		}
		events = append(events, event{obj: o, delay: o.Delay, index: i})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].delay != events[j].delay {
			return events[i].delay < events[j].delay
		}
		return events[i].index < events[j].index
	})

	now := 0.0
	for _, ev := range events {
		if ev.delay > now {
			g.add("self.wait(%s)", f(ev.delay-now))
			now = ev.delay
		}

		o := ev.obj
		v := g.vars[o.ID]
		if prev, ok := g.vars[o.TransformFromID]; ok && o.TransformFromID != "" {
			g.add("self.play(Transform(%s, %s), run_time=%s)", prev, v, f(o.RunTime))
		} else {
			g.add("self.play(%s(%s), run_time=%s)", introAnimation(o.Type), v, f(o.RunTime))
		}
		now += o.RunTime
	}

	// Nothing played: skip the padding wait so an empty scene still emits a
	// valid body.
	if len(events) > 0 && g.scn.Duration > now {
		g.add("self.wait(%s)", f(g.scn.Duration-now))
	}
}

func introAnimation(t scene.ObjectType) string {
	switch t {
	case scene.TypeText, scene.TypeValueLabel:
		return "Write"
	case scene.TypeDot, scene.TypeGraphCursor, scene.TypeLimitProbe:
		return "FadeIn"
	default:
		return "Create"
	}
}

func (g *generator) maybeRotate(o *scene.Object) {
	if o.Rotation != 0 {
		g.add("%s.rotate(%s * DEGREES)", g.vars[o.ID], f(o.Rotation))
	}
}

// styleArgs renders fill/stroke/opacity keyword arguments.
func (g *generator) styleArgs(o *scene.Object) string {
	var parts []string
	if o.Fill != "" {
		parts = append(parts, fmt.Sprintf("fill_color=%s, fill_opacity=%s", pyString(o.Fill), f(opacityOf(o))))
	}
	if o.Stroke != "" {
		parts = append(parts, fmt.Sprintf("stroke_color=%s", pyString(o.Stroke)))
	}
	if o.StrokeWidth > 0 {
		parts = append(parts, fmt.Sprintf("stroke_width=%s", f(o.StrokeWidth)))
	}
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

// strokeCalls renders stroke styling as chained set calls, for mobjects
// whose constructors reject style kwargs.
func (g *generator) strokeCalls(o *scene.Object) string {
	var b strings.Builder
	if o.Stroke != "" {
		fmt.Fprintf(&b, ".set_stroke(color=%s", pyString(o.Stroke))
		if o.StrokeWidth > 0 {
			fmt.Fprintf(&b, ", width=%s", f(o.StrokeWidth))
		}
		b.WriteString(")")
	} else if o.StrokeWidth > 0 {
		fmt.Fprintf(&b, ".set_stroke(width=%s)", f(o.StrokeWidth))
	}
	return b.String()
}

func (g *generator) strokeKwargs(o *scene.Object) string {
	if o.Stroke == "" {
		return ""
	}
	return fmt.Sprintf(", color=%s", pyString(o.Stroke))
}

func opacityOf(o *scene.Object) float64 {
	if o.Opacity <= 0 || o.Opacity > 1 {
		return 1
	}
	return o.Opacity
}

// pythonFormula converts an engine formula to a python expression: power
// operator and numpy-qualified functions. Formulas with no valid sample
// are rejected.
func pythonFormula(src string) (string, bool) {
	if strings.TrimSpace(src) == "" {
		return "", false
	}
	expr := strings.ReplaceAll(src, "^", "**")
	expr = formulaReplacer.Replace(expr)
	return expr, true
}

var formulaReplacer = strings.NewReplacer(
	"sin(", "np.sin(",
	"cos(", "np.cos(",
	"tan(", "np.tan(",
	"exp(", "np.exp(",
	"log(", "np.log(",
	"sqrt(", "np.sqrt(",
	"abs(", "np.abs(",
	"floor(", "np.floor(",
	"ceil(", "np.ceil(",
	"sign(", "np.sign(",
	"pi", "np.pi",
)

func rangeList(r *scene.Range) string {
	if r == nil {
		return "[-5, 5, 1]"
	}
	return fmt.Sprintf("[%s, %s, %s]", f(r.Min), f(r.Max), f(r.Step))
}

func f(v float64) string {
	return strconv.FormatFloat(geometry.Round2(v), 'g', -1, 64)
}

func point(x, y float64) string {
	return fmt.Sprintf("[%s, %s, 0]", f(x), f(y))
}

func pyString(s string) string {
	return strconv.Quote(s)
}
