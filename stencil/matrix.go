package stencil

import (
	"github.com/notargets/gospl/utils"
)

// Matrix is the per-rank banded view of a distributed sparse matrix. Storage
// is a flat row-major array shaped (rows per direction..., band offsets per
// direction...): rows run over the owned dofs plus pad ghost rows on each
// side, band offsets run over 2*pad+1 diagonals. Entry (i, d) represents
// matrix[i, i-pad+d]. Everything outside the band is structurally zero and
// never written.
type Matrix struct {
	L        Layout
	rowDims  []int
	bandDims []int
	strides  []int
	data     []float64
}

func NewMatrix(l Layout) (m *Matrix) {
	var (
		ndim = l.NumDirs()
		dims = make([]int, 2*ndim)
	)
	m = &Matrix{
		L:        l,
		rowDims:  make([]int, ndim),
		bandDims: make([]int, ndim),
	}
	for d := 0; d < ndim; d++ {
		m.rowDims[d] = l.Dofs[d] + 2*l.Pads[d]
		m.bandDims[d] = 2*l.Pads[d] + 1
		dims[d] = m.rowDims[d]
		dims[ndim+d] = m.bandDims[d]
	}
	m.strides = rowMajorStrides(dims)
	m.data = make([]float64, prod(dims))
	return
}

// index flattens local row indices (ghost rows negative or >= Dofs) and band
// offsets. Callers have already validated the ranges.
func (m *Matrix) index(rows, offs []int) (flat int) {
	var (
		ndim = m.L.NumDirs()
	)
	for d := 0; d < ndim; d++ {
		flat += (rows[d] + m.L.Pads[d]) * m.strides[d]
	}
	for d := 0; d < ndim; d++ {
		flat += offs[d] * m.strides[ndim+d]
	}
	return
}

// At reads entry (local row, band offset) per direction. Ghost rows are
// addressed with negative or past-the-end row indices.
func (m *Matrix) At(rows, offs []int) float64 {
	return m.data[m.index(rows, offs)]
}

func (m *Matrix) Set(rows, offs []int, val float64) {
	m.data[m.index(rows, offs)] = val
}

// Accumulate folds one element's dense local block into the banded buffer.
// The block is shaped (active test functions, active trial functions) with
// per-direction indices flattened row-major. Writes are strictly additive:
// neighboring elements share degrees of freedom and their contributions must
// sum. Rows landing in the pad region are kept for halo reconciliation; a
// band offset outside [0, 2*pad] violates the locality invariant and is
// fatal.
func (m *Matrix) Accumulate(local utils.Matrix, testSpans, trialSpans, testDegs, trialDegs []int) (err error) {
	var (
		ndim  = m.L.NumDirs()
		iDims = make([]int, ndim)
		jDims = make([]int, ndim)
		i     = make([]int, ndim)
		j     = make([]int, ndim)
		rows  = make([]int, ndim)
		offs  = make([]int, ndim)
	)
	for d := 0; d < ndim; d++ {
		iDims[d] = testDegs[d] + 1
		jDims[d] = trialDegs[d] + 1
	}
	nr, nc := local.Dims()
	if nr != prod(iDims) || nc != prod(jDims) {
		return utils.ConsistencyErrorf("local block is %dx%d, want %dx%d", nr, nc, prod(iDims), prod(jDims))
	}
	for li := 0; ; li++ {
		for lj := 0; ; lj++ {
			for d := 0; d < ndim; d++ {
				var (
					rowG = testSpans[d] - testDegs[d] + i[d]
					colG = trialSpans[d] - trialDegs[d] + j[d]
					pad  = m.L.Pads[d]
				)
				rows[d] = rowG - m.L.Starts[d]
				offs[d] = colG - rowG + pad
				if rows[d] < -pad || rows[d] >= m.L.Dofs[d]+pad {
					return utils.ConsistencyErrorf("row %d along direction %d outside padded extent [%d,%d)",
						rows[d], d, -pad, m.L.Dofs[d]+pad)
				}
				if offs[d] < 0 || offs[d] > 2*pad {
					return utils.ConsistencyErrorf("band offset %d along direction %d outside bandwidth [0,%d]",
						offs[d], d, 2*pad)
				}
			}
			m.data[m.index(rows, offs)] += local.At(li, lj)
			if next(j, jDims) {
				break
			}
		}
		if next(i, iDims) {
			break
		}
	}
	return
}

// Zero clears the whole buffer, ghosts included.
func (m *Matrix) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// Scale multiplies every stored entry.
func (m *Matrix) Scale(a float64) {
	for i := range m.data {
		m.data[i] *= a
	}
}

// Add accumulates another buffer of identical layout.
func (m *Matrix) Add(o *Matrix) error {
	if len(o.data) != len(m.data) {
		return utils.ProtocolErrorf("buffer shape mismatch: %d entries vs %d", len(o.data), len(m.data))
	}
	for i := range m.data {
		m.data[i] += o.data[i]
	}
	return nil
}
