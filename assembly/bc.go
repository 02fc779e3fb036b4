package assembly

import (
	"github.com/notargets/gospl/stencil"
	"github.com/notargets/gospl/topology"
	"github.com/notargets/gospl/utils"
)

// ApplyEssentialBC imposes a homogeneous Dirichlet condition on the global
// boundary at side (0 lower, 1 upper) of direction d: the boundary row is
// zeroed and its diagonal set to 1. Only the rank owning that piece of the
// global boundary acts; everywhere else this is a no-op, so the call is safe
// (and cheap) to make on every rank.
func ApplyEssentialBC(m *stencil.Matrix, topo *topology.Cartesian, d, side int) (err error) {
	row, ok, err := boundaryRow(m.L, topo, d, side)
	if err != nil || !ok {
		return
	}
	m.ZeroRowPlane(d, row)
	// Unit diagonal on every owned row of the boundary plane
	var (
		ndim = m.L.NumDirs()
		rows = make([]int, ndim)
		offs = make([]int, ndim)
	)
	for dd := 0; dd < ndim; dd++ {
		offs[dd] = m.L.Pads[dd] // zero band offset is the diagonal
	}
	rows[d] = row
	for {
		m.Set(rows, offs, 1)
		if nextBoundaryRow(rows, m.L.Dofs, d) {
			break
		}
	}
	return
}

// ApplyEssentialBCVector zeroes the boundary rows of a load vector to match
// ApplyEssentialBC on the operator.
func ApplyEssentialBCVector(v *stencil.Vector, topo *topology.Cartesian, d, side int) (err error) {
	row, ok, err := boundaryRow(v.L, topo, d, side)
	if err != nil || !ok {
		return
	}
	v.ZeroRowPlane(d, row)
	return
}

// boundaryRow resolves which local row lies on the requested global boundary,
// if this rank owns it.
func boundaryRow(l stencil.Layout, topo *topology.Cartesian, d, side int) (row int, ok bool, err error) {
	if d < 0 || d >= l.NumDirs() {
		err = utils.ConfigErrorf("boundary direction %d outside [0,%d)", d, l.NumDirs())
		return
	}
	if side != 0 && side != 1 {
		err = utils.ConfigErrorf("boundary side must be 0 or 1, have %d", side)
		return
	}
	var (
		dir = topo.Dirs[d]
	)
	if side == 0 {
		if dir.DofStart != 0 {
			return
		}
		return 0, true, nil
	}
	if dir.DofStart+dir.DofCount != l.Global[d] {
		return
	}
	return dir.DofCount - 1, true, nil
}

// nextBoundaryRow advances the owned row multi-index holding direction d
// fixed.
func nextBoundaryRow(rows, dims []int, d int) (wrapped bool) {
	for i := len(dims) - 1; i >= 0; i-- {
		if i == d {
			continue
		}
		rows[i]++
		if rows[i] < dims[i] {
			return false
		}
		rows[i] = 0
	}
	return true
}
