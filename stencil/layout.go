package stencil

import (
	"github.com/notargets/gospl/topology"
)

// Layout describes the per-rank shape of a stencil buffer: owned degree-of-
// freedom counts, halo padding, and the rank's offset into the global dof
// numbering, per direction.
type Layout struct {
	Dofs   []int // owned dofs per direction
	Pads   []int // halo width per direction
	Starts []int // global dof start per direction
	Global []int // global dof count per direction
}

// NewLayout extracts the stencil layout of one rank from its Cartesian
// decomposition.
func NewLayout(c *topology.Cartesian, globalDofs []int) (l Layout) {
	var (
		ndim = c.NumDirs()
	)
	l = Layout{
		Dofs:   make([]int, ndim),
		Pads:   make([]int, ndim),
		Starts: make([]int, ndim),
		Global: append([]int{}, globalDofs...),
	}
	for d, dir := range c.Dirs {
		l.Dofs[d] = dir.DofCount
		l.Pads[d] = dir.Pad
		l.Starts[d] = dir.DofStart
	}
	return
}

func (l Layout) NumDirs() int { return len(l.Dofs) }

// OwnedRows is the number of locally owned rows, ghost rows excluded.
func (l Layout) OwnedRows() (n int) {
	n = 1
	for _, d := range l.Dofs {
		n *= d
	}
	return
}

func prod(dims []int) (n int) {
	n = 1
	for _, d := range dims {
		n *= d
	}
	return
}

// next advances a row-major multi-index (last direction fastest) and reports
// whether it wrapped around.
func next(idx, dims []int) (wrapped bool) {
	for d := len(dims) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < dims[d] {
			return false
		}
		idx[d] = 0
	}
	return true
}

func rowMajorStrides(dims []int) (strides []int) {
	strides = make([]int, len(dims))
	s := 1
	for d := len(dims) - 1; d >= 0; d-- {
		strides[d] = s
		s *= dims[d]
	}
	return
}

// forSlab visits the flat indices of every entry whose direction-d index lies
// in [lo,hi), the other directions covering their full extents.
func forSlab(dims, strides []int, d, lo, hi int, f func(flat int)) {
	var (
		idx = make([]int, len(dims))
	)
	if hi <= lo {
		return
	}
	idx[d] = lo
	for {
		flat := 0
		for i := range idx {
			flat += idx[i] * strides[i]
		}
		f(flat)
		// Advance, holding direction d inside [lo,hi)
		done := true
		for i := len(dims) - 1; i >= 0; i-- {
			idx[i]++
			limit := dims[i]
			floor := 0
			if i == d {
				limit = hi
				floor = lo
			}
			if idx[i] < limit {
				done = false
				break
			}
			idx[i] = floor
		}
		if done {
			return
		}
	}
}
