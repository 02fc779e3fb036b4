package assembly

import (
	"github.com/notargets/gospl/exchange"
	"github.com/notargets/gospl/quadrature"
	"github.com/notargets/gospl/spline"
	"github.com/notargets/gospl/stencil"
	"github.com/notargets/gospl/topology"
	"github.com/notargets/gospl/utils"
)

// Discretization is one tensor-product spline space over a structured mesh:
// global breakpoints, degree, and quadrature per direction. Test and trial
// spaces coincide (Galerkin).
type Discretization struct {
	Degrees []int
	Breaks  [][]float64
	Rule    quadrature.Rule
	NQ      []int // points per element per direction, 0 entries default to degree+1
}

// NewUniformDiscretization builds the common case: uniform breakpoints on
// [xmin,xmax] per direction.
func NewUniformDiscretization(degrees, elements []int, xmin, xmax []float64, rule quadrature.Rule) (disc *Discretization, err error) {
	var (
		ndim = len(degrees)
	)
	if len(elements) != ndim || len(xmin) != ndim || len(xmax) != ndim {
		err = utils.ConfigErrorf("dimension mismatch: %d degrees, %d element counts, %d/%d bounds",
			ndim, len(elements), len(xmin), len(xmax))
		return
	}
	disc = &Discretization{
		Degrees: append([]int{}, degrees...),
		Breaks:  make([][]float64, ndim),
		Rule:    rule,
		NQ:      make([]int, ndim),
	}
	for d := 0; d < ndim; d++ {
		if elements[d] < 1 {
			return nil, utils.ConfigErrorf("element count along direction %d must be positive, have %d", d, elements[d])
		}
		if xmax[d] <= xmin[d] {
			return nil, utils.ConfigErrorf("empty domain along direction %d: [%v,%v]", d, xmin[d], xmax[d])
		}
		disc.Breaks[d] = spline.UniformBreaks(xmin[d], xmax[d], elements[d])
	}
	return
}

// KnotVectors builds the global clamped knot vector of every direction.
func (disc *Discretization) KnotVectors() (kvs []spline.KnotVector, err error) {
	kvs = make([]spline.KnotVector, len(disc.Degrees))
	for d := range disc.Degrees {
		if kvs[d], err = spline.NewOpenUniformKnots(disc.Breaks[d], disc.Degrees[d]); err != nil {
			return nil, err
		}
	}
	return
}

// Decompose partitions the discretization's element and dof index spaces over
// a process grid for one rank. pads override the default halo width (the
// degree) when non-nil.
func (disc *Discretization) Decompose(procGrid []int, size, rank int, pads []int) (topo *topology.Cartesian, err error) {
	var (
		ndim   = len(disc.Degrees)
		nelems = make([]int, ndim)
		ndofs  = make([]int, ndim)
		kvs    []spline.KnotVector
	)
	if kvs, err = disc.KnotVectors(); err != nil {
		return
	}
	if pads == nil {
		pads = append([]int{}, disc.Degrees...)
	}
	for d := 0; d < ndim; d++ {
		nelems[d] = len(disc.Breaks[d]) - 1
		ndofs[d] = kvs[d].NumDOF()
	}
	return topology.Decompose(nelems, ndofs, procGrid, size, rank, pads)
}

// buildArgs evaluates quadrature and basis tables over the rank's local
// element range. Tables stay local-sized; spans are global because the knot
// vectors are global.
func buildArgs(disc *Discretization, topo *topology.Cartesian, nderiv int) (args *KernelArgs, globalDofs []int, err error) {
	var (
		ndim = len(disc.Degrees)
		kvs  []spline.KnotVector
	)
	if kvs, err = disc.KnotVectors(); err != nil {
		return
	}
	if topo.NumDirs() != ndim {
		err = utils.ConfigErrorf("topology has %d directions, discretization has %d", topo.NumDirs(), ndim)
		return
	}
	args = &KernelArgs{
		TestBasis:    make([]*spline.BasisTable, ndim),
		TrialBasis:   make([]*spline.BasisTable, ndim),
		Spans:        make([][]int, ndim),
		Points:       make([]utils.Matrix, ndim),
		Weights:      make([]utils.Matrix, ndim),
		TestDegrees:  append([]int{}, disc.Degrees...),
		TrialDegrees: append([]int{}, disc.Degrees...),
		ElemCounts:   make([]int, ndim),
		NQ:           make([]int, ndim),
		Pads:         make([]int, ndim),
	}
	globalDofs = make([]int, ndim)
	for d := 0; d < ndim; d++ {
		var (
			dir = topo.Dirs[d]
			nq  = disc.NQ[d]
			g   *quadrature.Grid
			bt  *spline.BasisTable
		)
		if nq == 0 {
			nq = disc.Degrees[d] + 1
		}
		if dir.ElemCount > 0 {
			localBreaks := disc.Breaks[d][dir.ElemStart : dir.ElemStart+dir.ElemCount+1]
			if g, err = quadrature.NewGrid(localBreaks, nq, disc.Rule); err != nil {
				return nil, nil, err
			}
			if bt, err = spline.NewBasisTable(kvs[d], g, nderiv); err != nil {
				return nil, nil, err
			}
			args.Points[d] = g.Points
			args.Weights[d] = g.Weights
			args.Spans[d] = bt.Spans
			args.TestBasis[d] = bt
			args.TrialBasis[d] = bt
		}
		args.ElemCounts[d] = dir.ElemCount
		args.NQ[d] = nq
		args.Pads[d] = dir.Pad
		globalDofs[d] = kvs[d].NumDOF()
	}
	return
}

// BilinearAssembler runs one rank's share of a matrix assembly pass:
// local element loop, kernel invocation, stencil accumulation, halo exchange.
type BilinearAssembler struct {
	Topo *topology.Cartesian
	Grp  *exchange.Group
	Args *KernelArgs
	Kern BilinearKernel

	layout stencil.Layout
}

func NewBilinearAssembler(disc *Discretization, kern BilinearKernel,
	topo *topology.Cartesian, grp *exchange.Group) (a *BilinearAssembler, err error) {
	var (
		args       *KernelArgs
		globalDofs []int
	)
	if args, globalDofs, err = buildArgs(disc, topo, kern.NDeriv()); err != nil {
		return
	}
	a = &BilinearAssembler{
		Topo:   topo,
		Grp:    grp,
		Args:   args,
		Kern:   kern,
		layout: stencil.NewLayout(topo, globalDofs),
	}
	return
}

// Assemble runs the full two-phase pass: a pure local accumulate phase
// followed by one collective halo reconciliation. Every local element is
// visited exactly once; shared degrees of freedom sum across elements and,
// through the exchange, across ranks. The call is collective - every rank of
// the group must call it for the exchange to complete.
func (a *BilinearAssembler) Assemble() (M *stencil.Matrix, err error) {
	var (
		args       = a.Args
		ndim       = args.NumDirs()
		elem       = make([]int, ndim)
		testSpans  = make([]int, ndim)
		trialSpans = make([]int, ndim)
		nTest      = 1
		nTrial     = 1
		haveElems  = true
	)
	for d := 0; d < ndim; d++ {
		nTest *= args.TestDegrees[d] + 1
		nTrial *= args.TrialDegrees[d] + 1
		if args.ElemCounts[d] == 0 {
			haveElems = false
		}
	}
	M = stencil.NewMatrix(a.layout)
	local := utils.NewMatrix(nTest, nTrial)
	for haveElems {
		local.Zero()
		a.Kern.Element(args, elem, local)
		for d := 0; d < ndim; d++ {
			testSpans[d] = args.Spans[d][elem[d]]
			trialSpans[d] = testSpans[d]
		}
		if err = M.Accumulate(local, testSpans, trialSpans, args.TestDegrees, args.TrialDegrees); err != nil {
			return nil, err
		}
		if nextIndex(elem, args.ElemCounts) {
			break
		}
	}
	if err = a.Grp.Exchange(a.Topo, M); err != nil {
		return nil, err
	}
	return
}

// LinearAssembler is the vector counterpart of BilinearAssembler.
type LinearAssembler struct {
	Topo *topology.Cartesian
	Grp  *exchange.Group
	Args *KernelArgs
	Kern LinearKernel

	layout stencil.Layout
}

func NewLinearAssembler(disc *Discretization, kern LinearKernel,
	topo *topology.Cartesian, grp *exchange.Group) (a *LinearAssembler, err error) {
	var (
		args       *KernelArgs
		globalDofs []int
	)
	if args, globalDofs, err = buildArgs(disc, topo, kern.NDeriv()); err != nil {
		return
	}
	a = &LinearAssembler{
		Topo:   topo,
		Grp:    grp,
		Args:   args,
		Kern:   kern,
		layout: stencil.NewLayout(topo, globalDofs),
	}
	return
}

func (a *LinearAssembler) Assemble() (V *stencil.Vector, err error) {
	var (
		args      = a.Args
		ndim      = args.NumDirs()
		elem      = make([]int, ndim)
		spans     = make([]int, ndim)
		nTest     = 1
		haveElems = true
	)
	for d := 0; d < ndim; d++ {
		nTest *= args.TestDegrees[d] + 1
		if args.ElemCounts[d] == 0 {
			haveElems = false
		}
	}
	V = stencil.NewVector(a.layout)
	local := utils.NewVector(nTest)
	for haveElems {
		local.Scale(0)
		a.Kern.Element(args, elem, local)
		for d := 0; d < ndim; d++ {
			spans[d] = args.Spans[d][elem[d]]
		}
		if err = V.Accumulate(local, spans, args.TestDegrees); err != nil {
			return nil, err
		}
		if nextIndex(elem, args.ElemCounts) {
			break
		}
	}
	if err = a.Grp.Exchange(a.Topo, V); err != nil {
		return nil, err
	}
	return
}
