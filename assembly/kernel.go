package assembly

import (
	"github.com/notargets/gospl/spline"
	"github.com/notargets/gospl/utils"
)

// KernelArgs is the fixed argument contract between the assembly core and a
// local assembly kernel. The core fills it once per pass and never inspects
// what the kernel does with it; the kernel reads basis tables in
// (derivative, local basis, quadrature point, element) order and element
// indexed span/quadrature arrays, all restricted to the rank's local element
// range with globally numbered spans.
type KernelArgs struct {
	TestBasis, TrialBasis     []*spline.BasisTable
	Spans                     [][]int
	Points, Weights           []utils.Matrix
	TestDegrees, TrialDegrees []int
	ElemCounts                []int
	NQ                        []int
	Pads                      []int
}

// NumDirs is the number of tensor-product directions.
func (ka *KernelArgs) NumDirs() int { return len(ka.TestDegrees) }

// BilinearKernel computes the dense local block of one element for a matrix
// operator. Kernels are selected ahead of time by name; the core never
// generates or interprets kernel code at run time.
type BilinearKernel interface {
	Name() string
	NDeriv() int // highest basis derivative the kernel reads
	Element(args *KernelArgs, elem []int, local utils.Matrix)
}

// LinearKernel computes the dense local load contribution of one element for
// a vector functional.
type LinearKernel interface {
	Name() string
	NDeriv() int
	Element(args *KernelArgs, elem []int, local utils.Vector)
}

// NewBilinearKernel looks up a built-in matrix kernel by configuration name.
func NewBilinearKernel(name string) (k BilinearKernel, err error) {
	switch name {
	case "mass":
		k = MassKernel{}
	case "stiffness":
		k = StiffnessKernel{}
	default:
		err = utils.ConfigErrorf("unknown bilinear kernel %q", name)
	}
	return
}

// NewLinearKernel looks up a built-in vector kernel by configuration name. f
// is the coefficient function of the functional, evaluated at physical
// quadrature points.
func NewLinearKernel(name string, f func(x []float64) float64) (k LinearKernel, err error) {
	switch name {
	case "load":
		if f == nil {
			f = func([]float64) float64 { return 1 }
		}
		k = LoadKernel{F: f}
	default:
		err = utils.ConfigErrorf("unknown linear kernel %q", name)
	}
	return
}
