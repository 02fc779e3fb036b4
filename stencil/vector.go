package stencil

import (
	"github.com/notargets/gospl/utils"
)

// Vector is the per-rank slice of a distributed vector, same padded row
// layout as Matrix without the band axis.
type Vector struct {
	L       Layout
	rowDims []int
	strides []int
	data    []float64
}

func NewVector(l Layout) (v *Vector) {
	var (
		ndim = l.NumDirs()
	)
	v = &Vector{
		L:       l,
		rowDims: make([]int, ndim),
	}
	for d := 0; d < ndim; d++ {
		v.rowDims[d] = l.Dofs[d] + 2*l.Pads[d]
	}
	v.strides = rowMajorStrides(v.rowDims)
	v.data = make([]float64, prod(v.rowDims))
	return
}

func (v *Vector) index(rows []int) (flat int) {
	for d := range rows {
		flat += (rows[d] + v.L.Pads[d]) * v.strides[d]
	}
	return
}

func (v *Vector) At(rows []int) float64 { return v.data[v.index(rows)] }

func (v *Vector) Set(rows []int, val float64) { v.data[v.index(rows)] = val }

// Accumulate folds one element's local load vector, shaped over the active
// test functions, into the padded rows. Additive, ghost rows legal, rows
// outside the padded extent fatal.
func (v *Vector) Accumulate(local utils.Vector, spans, degs []int) (err error) {
	var (
		ndim  = v.L.NumDirs()
		iDims = make([]int, ndim)
		i     = make([]int, ndim)
		rows  = make([]int, ndim)
	)
	for d := 0; d < ndim; d++ {
		iDims[d] = degs[d] + 1
	}
	if local.Len() != prod(iDims) {
		return utils.ConsistencyErrorf("local vector has %d entries, want %d", local.Len(), prod(iDims))
	}
	for li := 0; ; li++ {
		for d := 0; d < ndim; d++ {
			var (
				rowG = spans[d] - degs[d] + i[d]
				pad  = v.L.Pads[d]
			)
			rows[d] = rowG - v.L.Starts[d]
			if rows[d] < -pad || rows[d] >= v.L.Dofs[d]+pad {
				return utils.ConsistencyErrorf("row %d along direction %d outside padded extent [%d,%d)",
					rows[d], d, -pad, v.L.Dofs[d]+pad)
			}
		}
		v.data[v.index(rows)] += local.AtVec(li)
		if next(i, iDims) {
			break
		}
	}
	return
}

func (v *Vector) Zero() {
	for i := range v.data {
		v.data[i] = 0
	}
}

func (v *Vector) Scale(a float64) {
	for i := range v.data {
		v.data[i] *= a
	}
}

func (v *Vector) Add(o *Vector) error {
	if len(o.data) != len(v.data) {
		return utils.ProtocolErrorf("buffer shape mismatch: %d entries vs %d", len(o.data), len(v.data))
	}
	for i := range v.data {
		v.data[i] += o.data[i]
	}
	return nil
}
