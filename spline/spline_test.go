package spline

import (
	"testing"

	"github.com/notargets/gospl/quadrature"
	"github.com/notargets/gospl/utils"
	"github.com/stretchr/testify/assert"
)

func TestKnotVectorConstruction(t *testing.T) {
	kv, err := NewOpenUniformKnots(UniformBreaks(0, 1, 4), 2)
	assert.NoError(t, err)
	assert.Equal(t, 4+2, kv.NumDOF()) // K + p dofs on a clamped uniform knot vector
	assert.Equal(t, 4, kv.NumElements())
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, kv.Breakpoints())

	_, err = NewKnotVector([]float64{0, 0, 1, 1}, 3)
	assert.IsType(t, &utils.ConfigurationError{}, err)
	_, err = NewKnotVector([]float64{0, 1, 0.5, 1}, 1)
	assert.IsType(t, &utils.ConfigurationError{}, err)
	_, err = NewOpenUniformKnots([]float64{0}, 1)
	assert.IsType(t, &utils.ConfigurationError{}, err)
	_, err = NewKnotVector([]float64{0, 0, 1, 1}, -1)
	assert.IsType(t, &utils.ConfigurationError{}, err)
}

func TestFindSpan(t *testing.T) {
	kv, _ := NewOpenUniformKnots(UniformBreaks(0, 1, 4), 2)
	assert.Equal(t, 2, kv.FindSpan(0))    // left end clamps to first interval
	assert.Equal(t, 2, kv.FindSpan(0.1))
	assert.Equal(t, 3, kv.FindSpan(0.3))
	assert.Equal(t, 4, kv.FindSpan(0.6))
	assert.Equal(t, 5, kv.FindSpan(0.9))
	assert.Equal(t, 5, kv.FindSpan(1)) // right end clamps to last interval
}

func TestPartitionOfUnityAndLocality(t *testing.T) {
	var (
		tol = 1.e-12
	)
	for _, p := range []int{0, 1, 2, 3, 4} {
		// Locality: table size per element is p+1 regardless of mesh size
		for _, K := range []int{4, 16, 64} {
			kv, err := NewOpenUniformKnots(UniformBreaks(0, 1, K), p)
			assert.NoError(t, err)
			g, err := quadrature.NewGrid(kv.Breakpoints(), p+1, quadrature.GaussLegendre)
			assert.NoError(t, err)
			bt, err := NewBasisTable(kv, g, 1)
			assert.NoError(t, err)
			for e := 0; e < K; e++ {
				for q := 0; q < g.NQ; q++ {
					var sum, dsum float64
					for b := 0; b <= p; b++ {
						sum += bt.Value(0, b, q, e)
						dsum += bt.Value(1, b, q, e)
					}
					assert.InDelta(t, 1., sum, tol)  // partition of unity
					assert.InDelta(t, 0., dsum, tol) // derivatives of a partition of unity
				}
			}
		}
	}
}

func TestLobattoBasisTable(t *testing.T) {
	var (
		tol = 1.e-12
	)
	// Lobatto points sit exactly on the element breakpoints; the table must
	// keep them with their own element rather than reject them
	for _, p := range []int{1, 2, 3} {
		for _, K := range []int{2, 4, 16} {
			kv, err := NewOpenUniformKnots(UniformBreaks(0, 1, K), p)
			assert.NoError(t, err)
			g, err := quadrature.NewGrid(kv.Breakpoints(), p+2, quadrature.GaussLobatto)
			assert.NoError(t, err)
			bt, err := NewBasisTable(kv, g, 1)
			assert.NoError(t, err)
			assert.Equal(t, p, bt.Spans[0])
			assert.Equal(t, kv.NumDOF()-1, bt.Spans[K-1])
			for e := 0; e < K; e++ {
				for q := 0; q < g.NQ; q++ {
					var sum, dsum float64
					for b := 0; b <= p; b++ {
						sum += bt.Value(0, b, q, e)
						dsum += bt.Value(1, b, q, e)
					}
					assert.InDelta(t, 1., sum, tol)
					assert.InDelta(t, 0., dsum, tol)
				}
			}
		}
	}
}

func TestSpanInvariants(t *testing.T) {
	for _, p := range []int{1, 2, 3} {
		var (
			K     = 10
			kv, _ = NewOpenUniformKnots(UniformBreaks(0, 1, K), p)
			g, _  = quadrature.NewGrid(kv.Breakpoints(), p+1, quadrature.GaussLegendre)
		)
		bt, err := NewBasisTable(kv, g, 0)
		assert.NoError(t, err)
		assert.Equal(t, p, bt.Spans[0])
		for e := 1; e < K; e++ {
			step := bt.Spans[e] - bt.Spans[e-1]
			assert.True(t, step == 0 || step == 1)
		}
		assert.Equal(t, kv.NumDOF()-1, bt.Spans[K-1])
	}
}

func TestRepeatedKnotLocality(t *testing.T) {
	var (
		tol = 1.e-12
	)
	// Double interior knot at 0.5 reduces continuity but not the locality
	// bound: still p+1 active functions per element
	kv, err := NewKnotVector([]float64{0, 0, 0, 0.25, 0.5, 0.5, 0.75, 1, 1, 1}, 2)
	assert.NoError(t, err)
	assert.Equal(t, 7, kv.NumDOF())
	assert.Equal(t, 4, kv.NumElements())
	g, err := quadrature.NewGrid(kv.Breakpoints(), 3, quadrature.GaussLegendre)
	assert.NoError(t, err)
	bt, err := NewBasisTable(kv, g, 1)
	assert.NoError(t, err)
	for e := 0; e < bt.K; e++ {
		for q := 0; q < bt.NQ; q++ {
			var sum float64
			for b := 0; b <= kv.P; b++ {
				sum += bt.Value(0, b, q, e)
			}
			assert.InDelta(t, 1., sum, tol)
		}
	}
	// Span jumps by the knot multiplicity across the double knot
	assert.Equal(t, []int{2, 3, 5, 6}, bt.Spans)
}

func TestGrevilleAbscissae(t *testing.T) {
	var (
		tol   = 1.e-12
		kv, _ = NewOpenUniformKnots(UniformBreaks(0, 1, 4), 2)
		g     = kv.GrevilleAbscissae()
	)
	assert.Equal(t, kv.NumDOF(), len(g))
	assert.InDelta(t, 0., g[0], tol)
	assert.InDelta(t, 1., g[len(g)-1], tol)
	for i := 1; i < len(g); i++ {
		assert.True(t, g[i] > g[i-1])
	}
}

func TestBasisTableLocalSubrange(t *testing.T) {
	var (
		tol   = 1.e-12
		K, p  = 8, 2
		kv, _ = NewOpenUniformKnots(UniformBreaks(0, 1, K), p)
	)
	// Global table vs a table over the second half of the elements: values
	// identical, spans stay global
	breaks := kv.Breakpoints()
	gFull, _ := quadrature.NewGrid(breaks, p+1, quadrature.GaussLegendre)
	gHalf, _ := quadrature.NewGrid(breaks[4:], p+1, quadrature.GaussLegendre)
	btFull, err := NewBasisTable(kv, gFull, 0)
	assert.NoError(t, err)
	btHalf, err := NewBasisTable(kv, gHalf, 0)
	assert.NoError(t, err)
	for e := 0; e < 4; e++ {
		assert.Equal(t, btFull.Spans[e+4], btHalf.Spans[e])
		for q := 0; q < p+1; q++ {
			for b := 0; b <= p; b++ {
				assert.InDelta(t, btFull.Value(0, b, q, e+4), btHalf.Value(0, b, q, e), tol)
			}
		}
	}
}
