package stencil

import (
	"github.com/notargets/gospl/utils"
)

// The halo slab protocol shared by Matrix and Vector. A ghost slab is the pad
// rows beyond one side of the owned range along one direction, all other
// directions at full padded extent so corner contributions travel with the
// slab; an owned slab is the pad rows just inside that side. Slabs are
// serialized in canonical row-major order, so two ranks with matching layouts
// produce matching slab shapes.

func (m *Matrix) NumDirs() int  { return m.L.NumDirs() }
func (m *Matrix) Pad(d int) int { return m.L.Pads[d] }
func (v *Vector) NumDirs() int  { return v.L.NumDirs() }
func (v *Vector) Pad(d int) int { return v.L.Pads[d] }

func (m *Matrix) fullDims() []int {
	return append(append([]int{}, m.rowDims...), m.bandDims...)
}

func ghostRange(dofs, pad, side int) (lo, hi int) {
	if side == 0 {
		return 0, pad
	}
	return pad + dofs, 2*pad + dofs
}

func ownedRange(dofs, pad, side int) (lo, hi int) {
	if side == 0 {
		return pad, 2 * pad
	}
	return dofs, dofs + pad
}

// GhostSlab copies out the ghost rows beyond side (0 lower, 1 upper) of
// direction d.
func (m *Matrix) GhostSlab(d, side int) (slab []float64) {
	lo, hi := ghostRange(m.L.Dofs[d], m.L.Pads[d], side)
	forSlab(m.fullDims(), m.strides, d, lo, hi, func(flat int) {
		slab = append(slab, m.data[flat])
	})
	return
}

// AddOwnedSlab adds a neighbor's ghost contribution into the owned rows
// adjacent to side of direction d. A length mismatch means the peer assembled
// a differently shaped buffer, which is fatal.
func (m *Matrix) AddOwnedSlab(d, side int, slab []float64) (err error) {
	var (
		lo, hi = ownedRange(m.L.Dofs[d], m.L.Pads[d], side)
		n      = 0
	)
	forSlab(m.fullDims(), m.strides, d, lo, hi, func(flat int) {
		if n < len(slab) {
			m.data[flat] += slab[n]
		}
		n++
	})
	if n != len(slab) {
		err = utils.ProtocolErrorf("halo slab along direction %d side %d has %d entries, want %d",
			d, side, len(slab), n)
	}
	return
}

// ZeroGhosts resets both ghost slabs of direction d so a second exchange pass
// cannot double count.
func (m *Matrix) ZeroGhosts(d int) {
	for side := 0; side < 2; side++ {
		lo, hi := ghostRange(m.L.Dofs[d], m.L.Pads[d], side)
		forSlab(m.fullDims(), m.strides, d, lo, hi, func(flat int) {
			m.data[flat] = 0
		})
	}
}

func (v *Vector) GhostSlab(d, side int) (slab []float64) {
	lo, hi := ghostRange(v.L.Dofs[d], v.L.Pads[d], side)
	forSlab(v.rowDims, v.strides, d, lo, hi, func(flat int) {
		slab = append(slab, v.data[flat])
	})
	return
}

func (v *Vector) AddOwnedSlab(d, side int, slab []float64) (err error) {
	var (
		lo, hi = ownedRange(v.L.Dofs[d], v.L.Pads[d], side)
		n      = 0
	)
	forSlab(v.rowDims, v.strides, d, lo, hi, func(flat int) {
		if n < len(slab) {
			v.data[flat] += slab[n]
		}
		n++
	})
	if n != len(slab) {
		err = utils.ProtocolErrorf("halo slab along direction %d side %d has %d entries, want %d",
			d, side, len(slab), n)
	}
	return
}

func (v *Vector) ZeroGhosts(d int) {
	for side := 0; side < 2; side++ {
		lo, hi := ghostRange(v.L.Dofs[d], v.L.Pads[d], side)
		forSlab(v.rowDims, v.strides, d, lo, hi, func(flat int) {
			v.data[flat] = 0
		})
	}
}
