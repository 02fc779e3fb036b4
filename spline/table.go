package spline

import (
	"github.com/notargets/gospl/quadrature"
	"github.com/notargets/gospl/utils"
)

// BasisTable is the per-direction evaluation of all active basis functions at
// every quadrature point of every element, plus the element span indices.
// Storage is a flat 4-D array indexed (derivative, local basis, quadrature
// point, element); it never grows with the global basis count, only with
// (degree+1) x points x local elements. Immutable once built.
type BasisTable struct {
	P, NDeriv, NQ, K int
	Spans            []int
	data             []float64
}

// NewBasisTable evaluates the basis functions of kv with derivatives up to
// nderiv on the quadrature grid. The grid may cover any contiguous subrange
// of the knot vector's elements - spans stay global because the knot vector
// is global.
func NewBasisTable(kv KnotVector, g *quadrature.Grid, nderiv int) (bt *BasisTable, err error) {
	var (
		p    = kv.P
		ders = make([][]float64, nderiv+1)
	)
	if nderiv < 0 {
		err = utils.ConfigErrorf("derivative order must be non-negative, have %d", nderiv)
		return
	}
	for d := range ders {
		ders[d] = make([]float64, p+1)
	}
	bt = &BasisTable{
		P:      p,
		NDeriv: nderiv,
		NQ:     g.NQ,
		K:      g.K,
		Spans:  make([]int, g.K),
		data:   make([]float64, (nderiv+1)*(p+1)*g.NQ*g.K),
	}
	// Endpoint rules place points exactly on the breakpoints, where the affine
	// map rounds, so span membership is checked with a small slack
	eps := 1.e-12 * (kv.T[len(kv.T)-1] - kv.T[0])
	for e := 0; e < g.K; e++ {
		// The span comes from the element midpoint: boundary-coincident points
		// belong to the element they were generated for, not the next one
		span := kv.FindSpan(0.5 * (g.Breaks[e] + g.Breaks[e+1]))
		bt.Spans[e] = span
		for q := 0; q < g.NQ; q++ {
			x := g.Points.At(q, e)
			if x < kv.T[span]-eps || x > kv.T[span+1]+eps {
				err = utils.ConsistencyErrorf("quadrature point %d of element %d crosses a knot span boundary", q, e)
				return nil, err
			}
			kv.DersBasisFuns(span, x, nderiv, ders)
			for d := 0; d <= nderiv; d++ {
				for b := 0; b <= p; b++ {
					bt.data[bt.index(d, b, q, e)] = ders[d][b]
				}
			}
		}
	}
	for e := 1; e < g.K; e++ {
		if bt.Spans[e] < bt.Spans[e-1] {
			err = utils.ConsistencyErrorf("element spans must be non-decreasing, spans[%d]=%d < spans[%d]=%d",
				e, bt.Spans[e], e-1, bt.Spans[e-1])
			return nil, err
		}
	}
	return
}

func (bt *BasisTable) index(d, b, q, e int) int {
	return ((d*(bt.P+1)+b)*bt.NQ+q)*bt.K + e
}

// Value returns the d-th derivative of the b-th active basis function at
// quadrature point q of element e.
func (bt *BasisTable) Value(d, b, q, e int) float64 {
	return bt.data[bt.index(d, b, q, e)]
}
