package quadrature

import (
	"github.com/notargets/gospl/utils"
)

// Grid holds the per-element quadrature of one mesh direction: reference
// points mapped into each element interval and weights carrying the affine
// Jacobian. Shape is (NQ, K). Immutable once built.
type Grid struct {
	NQ, K           int
	Rule            Rule
	Breaks          []float64
	Points, Weights utils.Matrix
}

// NewGrid builds the quadrature grid for the elements delimited by breaks
// (strictly increasing, one more entry than elements).
func NewGrid(breaks []float64, nq int, rule Rule) (g *Grid, err error) {
	var (
		K    = len(breaks) - 1
		X, W utils.Vector
	)
	if K < 1 {
		err = utils.ConfigErrorf("need at least one element, have %d breakpoints", len(breaks))
		return
	}
	for k := 0; k < K; k++ {
		if breaks[k+1] <= breaks[k] {
			err = utils.ConfigErrorf("breakpoints must be strictly increasing, have %v at %d", breaks[k:k+2], k)
			return
		}
	}
	if X, W, err = rule.Points(nq); err != nil {
		return
	}
	g = &Grid{
		NQ:      nq,
		K:       K,
		Rule:    rule,
		Breaks:  append([]float64{}, breaks...),
		Points:  utils.NewMatrix(nq, K),
		Weights: utils.NewMatrix(nq, K),
	}
	for k := 0; k < K; k++ {
		var (
			a, b = breaks[k], breaks[k+1]
			mid  = 0.5 * (a + b)
			hJac = 0.5 * (b - a)
		)
		for q := 0; q < nq; q++ {
			g.Points.Set(q, k, mid+hJac*X.AtVec(q))
			g.Weights.Set(q, k, hJac*W.AtVec(q))
		}
	}
	g.Points.SetReadOnly("QuadraturePoints")
	g.Weights.SetReadOnly("QuadratureWeights")
	return
}
