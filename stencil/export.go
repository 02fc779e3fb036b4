package stencil

import (
	"github.com/james-bowman/sparse"
	"github.com/notargets/gospl/utils"
)

// ToDense expands the owned (non-ghost) rows into a dense matrix with the
// full global column space: row r, band offset o map to global column
// (r + start) - pad + o per direction. The banded layout is preserved
// exactly; reloading the band from the dense form loses nothing.
func (m *Matrix) ToDense() (R utils.Matrix) {
	var (
		ndim = m.L.NumDirs()
		rows = make([]int, ndim)
		offs = make([]int, ndim)
		cols = make([]int, ndim)
	)
	R = utils.NewMatrix(m.L.OwnedRows(), prod(m.L.Global))
	for {
		for {
			inside := true
			for d := 0; d < ndim; d++ {
				cols[d] = rows[d] + m.L.Starts[d] - m.L.Pads[d] + offs[d]
				if cols[d] < 0 || cols[d] >= m.L.Global[d] {
					inside = false
					break
				}
			}
			if inside {
				var (
					ri, ci = 0, 0
				)
				for d := 0; d < ndim; d++ {
					ri = ri*m.L.Dofs[d] + rows[d]
					ci = ci*m.L.Global[d] + cols[d]
				}
				R.Set(ri, ci, m.At(rows, offs))
			}
			if next(offs, m.bandDims) {
				break
			}
		}
		if next(rows, m.L.Dofs) {
			break
		}
	}
	return
}

// ToCSR exports the owned rows as a compressed sparse row matrix for
// downstream solvers.
func (m *Matrix) ToCSR() (R *sparse.CSR) {
	var (
		ndim = m.L.NumDirs()
		rows = make([]int, ndim)
		offs = make([]int, ndim)
		cols = make([]int, ndim)
		dok  = sparse.NewDOK(m.L.OwnedRows(), prod(m.L.Global))
	)
	for {
		for {
			inside := true
			for d := 0; d < ndim; d++ {
				cols[d] = rows[d] + m.L.Starts[d] - m.L.Pads[d] + offs[d]
				if cols[d] < 0 || cols[d] >= m.L.Global[d] {
					inside = false
					break
				}
			}
			if inside {
				var (
					ri, ci = 0, 0
				)
				for d := 0; d < ndim; d++ {
					ri = ri*m.L.Dofs[d] + rows[d]
					ci = ci*m.L.Global[d] + cols[d]
				}
				if val := m.At(rows, offs); val != 0 {
					dok.Set(ri, ci, val)
				}
			}
			if next(offs, m.bandDims) {
				break
			}
		}
		if next(rows, m.L.Dofs) {
			break
		}
	}
	return dok.ToCSR()
}

// ToDense flattens the owned rows of the vector.
func (v *Vector) ToDense() (R utils.Vector) {
	var (
		ndim = v.L.NumDirs()
		rows = make([]int, ndim)
		i    = 0
	)
	R = utils.NewVector(v.L.OwnedRows())
	data := R.V.RawVector().Data
	for {
		data[i] = v.At(rows)
		i++
		if next(rows, v.L.Dofs) {
			break
		}
	}
	return
}
