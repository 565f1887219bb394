// Package formula evaluates graph formulas of the form y = f(x). Programs
// are compiled once per formula string and cached; evaluation failures and
// non-finite results are reported to the caller instead of propagating NaN
// into stored state.
package formula

import (
	"math"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator compiles and caches formula programs.
type Evaluator struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
	bad   map[string]bool // formulas that failed to compile
}

// NewEvaluator creates an empty evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*vm.Program),
		bad:   make(map[string]bool),
	}
}

// baseEnv returns the evaluation environment for a given x.
func baseEnv(x float64) map[string]any {
	return map[string]any{
		"x":     x,
		"pi":    math.Pi,
		"e":     math.E,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"abs":   math.Abs,
		"exp":   math.Exp,
		"log":   math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"sign": func(v float64) float64 {
			switch {
			case v > 0:
				return 1
			case v < 0:
				return -1
			}
			return 0
		},
	}
}

func (e *Evaluator) program(formula string) *vm.Program {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.cache[formula]; ok {
		return p
	}
	if e.bad[formula] {
		return nil
	}

	p, err := expr.Compile(formula, expr.Env(baseEnv(0)), expr.AllowUndefinedVariables())
	if err != nil {
		e.bad[formula] = true
		return nil
	}
	e.cache[formula] = p
	return p
}

// Eval evaluates the formula at x. The second return is false when the
// formula is empty, fails to compile or run, or yields a non-finite value.
func (e *Evaluator) Eval(formula string, x float64) (float64, bool) {
	if formula == "" {
		return 0, false
	}
	p := e.program(formula)
	if p == nil {
		return 0, false
	}

	out, err := expr.Run(p, baseEnv(x))
	if err != nil {
		return 0, false
	}

	var y float64
	switch v := out.(type) {
	case float64:
		y = v
	case int:
		y = float64(v)
	default:
		return 0, false
	}

	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}

// Derivative approximates f'(x) with the symmetric difference quotient at
// step h. Returns false when either side fails to evaluate.
func (e *Evaluator) Derivative(formula string, x, h float64) (float64, bool) {
	if h <= 0 {
		h = 1e-3
	}
	left, okL := e.Eval(formula, x-h)
	right, okR := e.Eval(formula, x+h)
	if !okL || !okR {
		return 0, false
	}
	d := (right - left) / (2 * h)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	return d, true
}
