package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	e := NewEvaluator()

	y, ok := e.Eval("x^2", 3)
	require.True(t, ok)
	assert.InDelta(t, 9, y, 1e-9)

	y, ok = e.Eval("x^2 / 4", 2)
	require.True(t, ok)
	assert.InDelta(t, 1, y, 1e-9)

	y, ok = e.Eval("sin(pi / 2)", 0)
	require.True(t, ok)
	assert.InDelta(t, 1, y, 1e-9)

	y, ok = e.Eval("sqrt(x) + abs(-2)", 4)
	require.True(t, ok)
	assert.InDelta(t, 4, y, 1e-9)
}

func TestEvalEmptyFormula(t *testing.T) {
	e := NewEvaluator()
	_, ok := e.Eval("", 1)
	assert.False(t, ok)
}

func TestEvalBadFormulaCached(t *testing.T) {
	e := NewEvaluator()

	_, ok := e.Eval("x +* 2", 1)
	assert.False(t, ok)

	// Second attempt hits the bad-formula cache and still reports failure.
	_, ok = e.Eval("x +* 2", 1)
	assert.False(t, ok)
}

func TestEvalNonFinite(t *testing.T) {
	e := NewEvaluator()

	_, ok := e.Eval("1 / x", 0)
	assert.False(t, ok)

	_, ok = e.Eval("sqrt(x)", -1)
	assert.False(t, ok)

	_, ok = e.Eval("log(x)", 0)
	assert.False(t, ok)
}

func TestEvalNonNumericResult(t *testing.T) {
	e := NewEvaluator()
	_, ok := e.Eval(`"hello"`, 0)
	assert.False(t, ok)
}

func TestDerivative(t *testing.T) {
	e := NewEvaluator()

	d, ok := e.Derivative("x^2", 3, 0.001)
	require.True(t, ok)
	assert.InDelta(t, 6, d, 1e-6)

	// Zero step falls back to the default.
	d, ok = e.Derivative("x^2", 3, 0)
	require.True(t, ok)
	assert.InDelta(t, 6, d, 1e-6)
}

func TestDerivativeFailsAcrossSingularity(t *testing.T) {
	e := NewEvaluator()
	_, ok := e.Derivative("sqrt(x)", 0, 0.001)
	assert.False(t, ok)
}
