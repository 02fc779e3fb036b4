package quadrature

import (
	"math"
	"strings"

	"github.com/notargets/gospl/utils"
	"gonum.org/v1/gonum/mat"
)

type Rule uint8

const (
	GaussLegendre Rule = iota
	GaussLobatto
)

// NewRule maps a configuration name onto a quadrature rule. Unknown names are
// a ConfigurationError.
func NewRule(name string) (r Rule, err error) {
	switch strings.ToUpper(name) {
	case "", "GAUSS", "LEGENDRE", "GAUSS_LEGENDRE":
		r = GaussLegendre
	case "LOBATTO", "GAUSS_LOBATTO":
		r = GaussLobatto
	default:
		err = utils.ConfigErrorf("unsupported quadrature rule %q", name)
	}
	return
}

func (r Rule) String() string {
	switch r {
	case GaussLegendre:
		return "GAUSS_LEGENDRE"
	case GaussLobatto:
		return "GAUSS_LOBATTO"
	}
	return "UNKNOWN"
}

// Points produces the nq reference points and weights of the rule on [-1,1].
// Deterministic, pure function of (rule, nq).
func (r Rule) Points(nq int) (X, W utils.Vector, err error) {
	switch {
	case nq < 1:
		err = utils.ConfigErrorf("quadrature point count must be positive, have %d", nq)
	case r == GaussLegendre:
		X, W = JacobiGQ(0, 0, nq-1)
	case r == GaussLobatto:
		if nq < 2 {
			err = utils.ConfigErrorf("Gauss-Lobatto needs at least 2 points, have %d", nq)
			return
		}
		X, W = LegendreGL(nq - 1)
	default:
		err = utils.ConfigErrorf("unsupported quadrature rule %d", r)
	}
	return
}

// JacobiGQ computes the N+1 point Gauss quadrature for the Jacobi weight
// (1-x)^alpha (1+x)^beta via Golub-Welsch: eigenvalues of the symmetric
// tridiagonal recurrence matrix are the nodes, the squared first components
// of the eigenvectors scale to the weights.
func JacobiGQ(alpha, beta float64, N int) (X, W utils.Vector) {
	var (
		x, w       []float64
		fac        float64
		h1, d0, d1 []float64
		VVr        *mat.Dense
	)
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{gamma0(alpha, beta)}
		return utils.NewVector(len(x), x), utils.NewVector(len(w), w)
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: -1/2*(alpha^2-beta^2)./(h1+2)./h1
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal: 2./(h1+2).*sqrt(i*(i+alpha+beta)*(i+alpha)*(i+beta)/(h1+1)/(h1+3))
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := newSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(x)
	X = utils.NewVector(N+1, x)

	VVr = mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	W = utils.NewVector(len(x), VVr.RawRowView(0)).POW(2).Scale(gamma0(alpha, beta))
	return X, W
}

// LegendreGL computes the N+1 point Gauss-Lobatto-Legendre rule: both
// endpoints are nodes, the interior nodes are the Gauss points of the
// Jacobi(1,1) weight.
func LegendreGL(N int) (X, W utils.Vector) {
	var (
		x = make([]float64, N+1)
		w = make([]float64, N+1)
	)
	x[0] = -1
	x[N] = 1
	if N > 1 {
		xint, _ := JacobiGQ(1, 1, N-2)
		dataXint := xint.V.RawVector().Data
		for i := 1; i < N; i++ {
			x[i] = dataXint[i-1]
		}
	}
	// w_i = 2/(N(N+1) P_N(x_i)^2)
	fac := 2. / (float64(N) * float64(N+1))
	for i := 0; i <= N; i++ {
		p := legendreP(N, x[i])
		w[i] = fac / (p * p)
	}
	X = utils.NewVector(len(x), x)
	W = utils.NewVector(len(w), w)
	return
}

func legendreP(N int, x float64) (p float64) {
	var (
		pm1, pm2 = x, 1.
	)
	switch N {
	case 0:
		return 1
	case 1:
		return x
	}
	for n := 2; n <= N; n++ {
		nf := float64(n)
		p = ((2*nf-1)*x*pm1 - (nf-1)*pm2) / nf
		pm2, pm1 = pm1, p
	}
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func newSymTriDiagonal(d0, d1 []float64) (J *mat.SymDense) {
	var (
		n = len(d0)
	)
	J = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		J.SetSym(i, i, d0[i])
		if i < n-1 {
			J.SetSym(i, i+1, d1[i])
		}
	}
	return
}
