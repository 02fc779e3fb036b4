package spline

import (
	"github.com/notargets/gospl/utils"
)

// KnotVector is a non-decreasing knot sequence with a fixed polynomial
// degree. The clamped (open) form repeats the end knots degree+1 times so the
// basis interpolates at the domain boundary.
type KnotVector struct {
	T []float64
	P int
}

func NewKnotVector(T []float64, p int) (kv KnotVector, err error) {
	if p < 0 {
		err = utils.ConfigErrorf("polynomial degree must be non-negative, have %d", p)
		return
	}
	if len(T) < 2*(p+1) {
		err = utils.ConfigErrorf("knot vector of length %d cannot support degree %d", len(T), p)
		return
	}
	for i := 1; i < len(T); i++ {
		if T[i] < T[i-1] {
			err = utils.ConfigErrorf("knot vector must be non-decreasing, T[%d]=%v < T[%d]=%v", i, T[i], i-1, T[i-1])
			return
		}
	}
	if T[p] == T[len(T)-p-1] {
		err = utils.ConfigErrorf("knot vector has an empty parametric domain")
		return
	}
	kv = KnotVector{T: T, P: p}
	return
}

// NewOpenUniformKnots builds the clamped knot vector over the given
// breakpoints: each end knot repeated degree+1 times, interior breakpoints
// once.
func NewOpenUniformKnots(breaks []float64, p int) (kv KnotVector, err error) {
	if len(breaks) < 2 {
		err = utils.ConfigErrorf("need at least 2 breakpoints, have %d", len(breaks))
		return
	}
	T := make([]float64, 0, len(breaks)+2*p)
	for i := 0; i <= p; i++ {
		T = append(T, breaks[0])
	}
	T = append(T, breaks[1:len(breaks)-1]...)
	for i := 0; i <= p; i++ {
		T = append(T, breaks[len(breaks)-1])
	}
	return NewKnotVector(T, p)
}

// UniformBreaks splits [xmin,xmax] into k equal elements.
func UniformBreaks(xmin, xmax float64, k int) (breaks []float64) {
	var (
		h = (xmax - xmin) / float64(k)
	)
	breaks = make([]float64, k+1)
	for i := 0; i <= k; i++ {
		breaks[i] = xmin + float64(i)*h
	}
	breaks[k] = xmax
	return
}

// NumDOF is the dimension of the spline space.
func (kv KnotVector) NumDOF() int { return len(kv.T) - kv.P - 1 }

// Breakpoints returns the distinct knots spanning the parametric domain.
func (kv KnotVector) Breakpoints() (breaks []float64) {
	var (
		lo, hi = kv.P, len(kv.T) - kv.P - 1
	)
	breaks = append(breaks, kv.T[lo])
	for i := lo + 1; i <= hi; i++ {
		if kv.T[i] > kv.T[i-1] {
			breaks = append(breaks, kv.T[i])
		}
	}
	return
}

func (kv KnotVector) NumElements() int { return len(kv.Breakpoints()) - 1 }

// FindSpan locates the knot interval containing x - the index of the last
// basis function active at x. Binary search, right end clamped onto the last
// interval.
func (kv KnotVector) FindSpan(x float64) (span int) {
	var (
		p = kv.P
		n = kv.NumDOF() - 1
	)
	if x >= kv.T[n+1] {
		for span = n; kv.T[span] == kv.T[span+1]; span-- {
		}
		return
	}
	if x <= kv.T[p] {
		return p
	}
	lo, hi := p, n+1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x < kv.T[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// GrevilleAbscissae returns the knot-averaged collocation sites, one per
// degree of freedom.
func (kv KnotVector) GrevilleAbscissae() (g []float64) {
	var (
		p = kv.P
		n = kv.NumDOF()
	)
	g = make([]float64, n)
	if p == 0 {
		for i := 0; i < n; i++ {
			g[i] = 0.5 * (kv.T[i] + kv.T[i+1])
		}
		return
	}
	for i := 0; i < n; i++ {
		var sum float64
		for j := 1; j <= p; j++ {
			sum += kv.T[i+j]
		}
		g[i] = sum / float64(p)
	}
	return
}
