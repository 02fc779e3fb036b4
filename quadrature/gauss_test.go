package quadrature

import (
	"math"
	"testing"

	"github.com/notargets/gospl/utils"
	"github.com/stretchr/testify/assert"
)

func TestGaussLegendre(t *testing.T) {
	var (
		tol = 1.e-12
	)
	// Tabulated nodes/weights on [-1,1]
	check := func(nq int, nodes, weights []float64) {
		X, W, err := GaussLegendre.Points(nq)
		assert.NoError(t, err)
		assert.Equal(t, nq, X.Len())
		for i := 0; i < nq; i++ {
			assert.InDelta(t, nodes[i], X.AtVec(i), tol)
			assert.InDelta(t, weights[i], W.AtVec(i), tol)
		}
	}
	check(1, []float64{0}, []float64{2})
	check(2,
		[]float64{-1. / math.Sqrt(3), 1. / math.Sqrt(3)},
		[]float64{1, 1})
	check(3,
		[]float64{-math.Sqrt(3. / 5.), 0, math.Sqrt(3. / 5.)},
		[]float64{5. / 9., 8. / 9., 5. / 9.})
	check(4,
		[]float64{
			-math.Sqrt((3. + 2.*math.Sqrt(6./5.)) / 7.),
			-math.Sqrt((3. - 2.*math.Sqrt(6./5.)) / 7.),
			math.Sqrt((3. - 2.*math.Sqrt(6./5.)) / 7.),
			math.Sqrt((3. + 2.*math.Sqrt(6./5.)) / 7.),
		},
		[]float64{
			(18. - math.Sqrt(30.)) / 36.,
			(18. + math.Sqrt(30.)) / 36.,
			(18. + math.Sqrt(30.)) / 36.,
			(18. - math.Sqrt(30.)) / 36.,
		})

	// Weights always sum to the reference interval length
	for nq := 1; nq <= 12; nq++ {
		_, W, err := GaussLegendre.Points(nq)
		assert.NoError(t, err)
		var sum float64
		for i := 0; i < nq; i++ {
			sum += W.AtVec(i)
		}
		assert.InDelta(t, 2., sum, tol)
	}
}

func TestGaussLobatto(t *testing.T) {
	var (
		tol = 1.e-12
	)
	X, W, err := GaussLobatto.Points(3)
	assert.NoError(t, err)
	for i, x := range []float64{-1, 0, 1} {
		assert.InDelta(t, x, X.AtVec(i), tol)
	}
	for i, w := range []float64{1. / 3., 4. / 3., 1. / 3.} {
		assert.InDelta(t, w, W.AtVec(i), tol)
	}
	X, W, err = GaussLobatto.Points(4)
	assert.NoError(t, err)
	for i, x := range []float64{-1, -1. / math.Sqrt(5), 1. / math.Sqrt(5), 1} {
		assert.InDelta(t, x, X.AtVec(i), tol)
	}
	for i, w := range []float64{1. / 6., 5. / 6., 5. / 6., 1. / 6.} {
		assert.InDelta(t, w, W.AtVec(i), tol)
	}
}

func TestRuleConfiguration(t *testing.T) {
	r, err := NewRule("GAUSS_LEGENDRE")
	assert.NoError(t, err)
	assert.Equal(t, GaussLegendre, r)
	r, err = NewRule("lobatto")
	assert.NoError(t, err)
	assert.Equal(t, GaussLobatto, r)

	_, err = NewRule("MONTE_CARLO")
	assert.Error(t, err)
	assert.IsType(t, &utils.ConfigurationError{}, err)

	_, _, err = GaussLegendre.Points(0)
	assert.IsType(t, &utils.ConfigurationError{}, err)
	_, _, err = GaussLobatto.Points(1)
	assert.IsType(t, &utils.ConfigurationError{}, err)
}

func TestGrid(t *testing.T) {
	var (
		tol    = 1.e-12
		breaks = []float64{0, 0.25, 0.5, 0.75, 1}
	)
	g, err := NewGrid(breaks, 3, GaussLegendre)
	assert.NoError(t, err)
	assert.Equal(t, 4, g.K)
	assert.Equal(t, 3, g.NQ)
	// Per-element weights integrate constants exactly
	for k := 0; k < g.K; k++ {
		var sum float64
		for q := 0; q < g.NQ; q++ {
			sum += g.Weights.At(q, k)
			assert.True(t, g.Points.At(q, k) > breaks[k] && g.Points.At(q, k) < breaks[k+1])
		}
		assert.InDelta(t, 0.25, sum, tol)
	}

	_, err = NewGrid([]float64{0}, 3, GaussLegendre)
	assert.IsType(t, &utils.ConfigurationError{}, err)
	_, err = NewGrid([]float64{0, 0}, 3, GaussLegendre)
	assert.IsType(t, &utils.ConfigurationError{}, err)
}
