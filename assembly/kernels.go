package assembly

import (
	"github.com/notargets/gospl/utils"
)

// MassKernel is the L2 product of test and trial bases. The tensor-product
// structure makes it separable: one small per-direction matrix each, outer
// product into the local block.
type MassKernel struct{}

func (MassKernel) Name() string { return "mass" }
func (MassKernel) NDeriv() int  { return 0 }

func (MassKernel) Element(args *KernelArgs, elem []int, local utils.Matrix) {
	var (
		md = directionProducts(args, elem, 0, 0)
	)
	fillTensorProduct(args, local, func(i, j []int) (val float64) {
		val = 1
		for d := range md {
			val *= md[d].At(i[d], j[d])
		}
		return
	})
}

// StiffnessKernel is the grad-grad product: a sum over directions of tensor
// products with the derivative factor in one slot.
type StiffnessKernel struct{}

func (StiffnessKernel) Name() string { return "stiffness" }
func (StiffnessKernel) NDeriv() int  { return 1 }

func (StiffnessKernel) Element(args *KernelArgs, elem []int, local utils.Matrix) {
	var (
		m0 = directionProducts(args, elem, 0, 0)
		m1 = directionProducts(args, elem, 1, 1)
	)
	fillTensorProduct(args, local, func(i, j []int) (val float64) {
		for dd := range m0 {
			term := 1.
			for d := range m0 {
				if d == dd {
					term *= m1[d].At(i[d], j[d])
				} else {
					term *= m0[d].At(i[d], j[d])
				}
			}
			val += term
		}
		return
	})
}

// LoadKernel is the weighted integral of the test basis against a coefficient
// function, evaluated at physical quadrature points. Not separable for
// arbitrary F, so it walks the full quadrature tensor.
type LoadKernel struct {
	F func(x []float64) float64
}

func (LoadKernel) Name() string { return "load" }
func (LoadKernel) NDeriv() int  { return 0 }

func (k LoadKernel) Element(args *KernelArgs, elem []int, local utils.Vector) {
	var (
		ndim = args.NumDirs()
		q    = make([]int, ndim)
		i    = make([]int, ndim)
		x    = make([]float64, ndim)
		dims = make([]int, ndim)
		data = local.RawVector().Data
	)
	for d := 0; d < ndim; d++ {
		dims[d] = args.TestDegrees[d] + 1
	}
	for {
		w := 1.
		for d := 0; d < ndim; d++ {
			x[d] = args.Points[d].At(q[d], elem[d])
			w *= args.Weights[d].At(q[d], elem[d])
		}
		fw := w * k.F(x)
		for d := range i {
			i[d] = 0
		}
		for li := 0; ; li++ {
			b := fw
			for d := 0; d < ndim; d++ {
				b *= args.TestBasis[d].Value(0, i[d], q[d], elem[d])
			}
			data[li] += b
			if nextIndex(i, dims) {
				break
			}
		}
		if nextIndex(q, args.NQ) {
			break
		}
	}
}

// directionProducts integrates the per-direction basis products of one
// element: md[d][i][j] = sum_q D^da test_i * D^db trial_j * w.
func directionProducts(args *KernelArgs, elem []int, da, db int) (md []utils.Matrix) {
	var (
		ndim = args.NumDirs()
	)
	md = make([]utils.Matrix, ndim)
	for d := 0; d < ndim; d++ {
		var (
			np, mq = args.TestDegrees[d] + 1, args.TrialDegrees[d] + 1
			e      = elem[d]
		)
		md[d] = utils.NewMatrix(np, mq)
		for i := 0; i < np; i++ {
			for j := 0; j < mq; j++ {
				var sum float64
				for q := 0; q < args.NQ[d]; q++ {
					sum += args.TestBasis[d].Value(da, i, q, e) *
						args.TrialBasis[d].Value(db, j, q, e) *
						args.Weights[d].At(q, e)
				}
				md[d].Set(i, j, sum)
			}
		}
	}
	return
}

// fillTensorProduct walks the local block's (test, trial) multi-indices in
// row-major order and writes f at each.
func fillTensorProduct(args *KernelArgs, local utils.Matrix, f func(i, j []int) float64) {
	var (
		ndim  = args.NumDirs()
		iDims = make([]int, ndim)
		jDims = make([]int, ndim)
		i     = make([]int, ndim)
		j     = make([]int, ndim)
	)
	for d := 0; d < ndim; d++ {
		iDims[d] = args.TestDegrees[d] + 1
		jDims[d] = args.TrialDegrees[d] + 1
	}
	for li := 0; ; li++ {
		for lj := 0; ; lj++ {
			local.Set(li, lj, f(i, j))
			if nextIndex(j, jDims) {
				break
			}
		}
		if nextIndex(i, iDims) {
			break
		}
	}
}

// nextIndex advances a row-major multi-index, reporting wraparound.
func nextIndex(idx, dims []int) (wrapped bool) {
	for d := len(dims) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < dims[d] {
			return false
		}
		idx[d] = 0
	}
	return true
}
