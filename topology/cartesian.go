package topology

import (
	"fmt"

	"github.com/notargets/gospl/utils"
)

// Direction is the 1-D block decomposition of one mesh direction as seen by
// one rank: contiguous element and degree-of-freedom ranges plus the halo
// padding needed for basis support crossing the partition boundary.
type Direction struct {
	NP, Coord            int // processes along this direction, this rank's coordinate
	ElemStart, ElemCount int
	DofStart, DofCount   int
	Pad                  int
}

// Cartesian is the full process-grid decomposition for one rank. Ranks map to
// grid coordinates row-major: the last direction varies fastest.
type Cartesian struct {
	Size, Rank int
	Grid       []int
	Coords     []int
	Dirs       []Direction
}

// Decompose splits the global element and dof index spaces into contiguous
// per-direction blocks. Blocks differ in size by at most one, with the larger
// blocks assigned to lower coordinates. pads fixes the halo width per
// direction (normally the polynomial degree).
func Decompose(nelems, ndofs, procGrid []int, size, rank int, pads []int) (c *Cartesian, err error) {
	var (
		ndim  = len(procGrid)
		total = 1
	)
	if ndim == 0 {
		err = utils.ConfigErrorf("process grid is empty")
		return
	}
	if len(nelems) != ndim || len(ndofs) != ndim || len(pads) != ndim {
		err = utils.ConfigErrorf("dimension mismatch: %d directions in process grid, %d element counts, %d dof counts, %d pads",
			ndim, len(nelems), len(ndofs), len(pads))
		return
	}
	for d, np := range procGrid {
		if np < 1 {
			err = utils.ConfigErrorf("process count along direction %d must be positive, have %d", d, np)
			return
		}
		if nelems[d] < 1 {
			err = utils.ConfigErrorf("element count along direction %d must be positive, have %d", d, nelems[d])
			return
		}
		if pads[d] < 0 {
			err = utils.ConfigErrorf("pad along direction %d must be non-negative, have %d", d, pads[d])
			return
		}
		total *= np
	}
	if total != size {
		err = utils.ConfigErrorf("process grid %v multiplies to %d, communicator size is %d", procGrid, total, size)
		return
	}
	if rank < 0 || rank >= size {
		err = utils.ConfigErrorf("rank %d outside [0,%d)", rank, size)
		return
	}
	c = &Cartesian{
		Size:   size,
		Rank:   rank,
		Grid:   append([]int{}, procGrid...),
		Coords: coordsOf(rank, procGrid),
		Dirs:   make([]Direction, ndim),
	}
	for d := 0; d < ndim; d++ {
		var (
			coord = c.Coords[d]
			dir   = Direction{NP: procGrid[d], Coord: coord, Pad: pads[d]}
		)
		dir.ElemStart, dir.ElemCount = blockRange(nelems[d], procGrid[d], coord)
		dir.DofStart, dir.DofCount = blockRange(ndofs[d], procGrid[d], coord)
		if procGrid[d] > 1 && ndofs[d]/procGrid[d] < pads[d] {
			// A halo wider than the smallest owned block would need
			// multi-hop neighbor exchange
			err = utils.ConfigErrorf("halo width %d exceeds the smallest dof block %d along direction %d",
				pads[d], ndofs[d]/procGrid[d], d)
			return nil, err
		}
		c.Dirs[d] = dir
	}
	return
}

// blockRange splits n items over np blocks with a maximum imbalance of one
// item, spreading the remainder over the first blocks.
func blockRange(n, np, coord int) (start, count int) {
	var (
		npart     = n / np
		remainder = n % np
	)
	if coord < remainder {
		start = coord * (npart + 1)
		count = npart + 1
	} else {
		start = remainder*(npart+1) + (coord-remainder)*npart
		count = npart
	}
	return
}

func coordsOf(rank int, grid []int) (coords []int) {
	coords = make([]int, len(grid))
	for d := len(grid) - 1; d >= 0; d-- {
		coords[d] = rank % grid[d]
		rank /= grid[d]
	}
	return
}

// RankOf is the inverse of coordsOf. Coordinates outside the grid return -1.
func (c *Cartesian) RankOf(coords []int) (rank int) {
	for d, np := range c.Grid {
		if coords[d] < 0 || coords[d] >= np {
			return -1
		}
		rank = rank*np + coords[d]
	}
	return
}

// Neighbor returns the rank one step along direction d, side 0 (lower) or 1
// (upper), or -1 at the global boundary.
func (c *Cartesian) Neighbor(d, side int) (rank int) {
	var (
		coords = append([]int{}, c.Coords...)
	)
	if side == 0 {
		coords[d]--
	} else {
		coords[d]++
	}
	return c.RankOf(coords)
}

// NumDirs is the number of mesh directions.
func (c *Cartesian) NumDirs() int { return len(c.Dirs) }

func (c *Cartesian) String() string {
	return fmt.Sprintf("rank %d/%d coords %v dirs %+v", c.Rank, c.Size, c.Coords, c.Dirs)
}
