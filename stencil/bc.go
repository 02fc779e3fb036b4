package stencil

// ZeroRowPlane clears every entry whose direction-d local row index equals
// row, across the full padded extent of the other directions and all band
// offsets. Used when imposing essential boundary conditions.
func (m *Matrix) ZeroRowPlane(d, row int) {
	var (
		lo = row + m.L.Pads[d]
	)
	forSlab(m.fullDims(), m.strides, d, lo, lo+1, func(flat int) {
		m.data[flat] = 0
	})
}

func (v *Vector) ZeroRowPlane(d, row int) {
	var (
		lo = row + v.L.Pads[d]
	)
	forSlab(v.rowDims, v.strides, d, lo, lo+1, func(flat int) {
		v.data[flat] = 0
	})
}
