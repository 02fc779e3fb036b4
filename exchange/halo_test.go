package exchange

import (
	"sync"
	"testing"
	"time"

	"github.com/notargets/gospl/stencil"
	"github.com/notargets/gospl/topology"
	"github.com/notargets/gospl/utils"
	"github.com/stretchr/testify/assert"
)

func decompose1D(t *testing.T, nelems, ndofs, np, rank, pad int) *topology.Cartesian {
	c, err := topology.Decompose([]int{nelems}, []int{ndofs}, []int{np}, np, rank, []int{pad})
	assert.NoError(t, err)
	return c
}

func TestExchangeReconcilesGhosts(t *testing.T) {
	var (
		NP  = 2
		g   = NewGroup(NP, time.Second)
		wg  = sync.WaitGroup{}
		ms  = make([]*stencil.Matrix, NP)
		err = make([]error, NP)
	)
	// 8 global dofs, pad 2. Rank 0 assembles a block reaching into rank 1's
	// rows and vice versa.
	for rank := 0; rank < NP; rank++ {
		topo := decompose1D(t, 8, 8, NP, rank, 2)
		ms[rank] = stencil.NewMatrix(stencil.NewLayout(topo, []int{8}))
		local := utils.NewMatrix(3, 3)
		for i := 0; i < 9; i++ {
			local.Data()[i] = 1
		}
		// Element straddling the partition boundary: rows 3,4,5
		assert.NoError(t, ms[rank].Accumulate(local, []int{5}, []int{5}, []int{2}, []int{2}))
	}
	for rank := 0; rank < NP; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			topo := decompose1D(t, 8, 8, NP, rank, 2)
			err[rank] = g.Exchange(topo, ms[rank])
		}(rank)
	}
	wg.Wait()
	for rank := 0; rank < NP; rank++ {
		assert.NoError(t, err[rank])
	}
	// Both ranks wrote 1 to every (row, col) pair in rows 3..5; after the
	// exchange each owner holds the sum 2 and all ghosts are zero
	assert.Equal(t, 2., ms[0].At([]int{3}, []int{2})) // row 3 diag, owned by rank 0
	assert.Equal(t, 2., ms[1].At([]int{0}, []int{2})) // row 4 diag, owned by rank 1
	assert.Equal(t, 2., ms[1].At([]int{1}, []int{2})) // row 5 diag
	for side := 0; side < 2; side++ {
		for _, val := range ms[0].GhostSlab(0, side) {
			assert.Equal(t, 0., val)
		}
		for _, val := range ms[1].GhostSlab(0, side) {
			assert.Equal(t, 0., val)
		}
	}
}

func TestExchangeIdempotentAfterReconcile(t *testing.T) {
	var (
		NP = 2
		g  = NewGroup(NP, time.Second)
		wg = sync.WaitGroup{}
		ms = make([]*stencil.Matrix, NP)
	)
	for rank := 0; rank < NP; rank++ {
		topo := decompose1D(t, 8, 8, NP, rank, 1)
		ms[rank] = stencil.NewMatrix(stencil.NewLayout(topo, []int{8}))
		local := utils.NewMatrix(2, 2, []float64{1, 2, 3, 4})
		assert.NoError(t, ms[rank].Accumulate(local, []int{4}, []int{4}, []int{1}, []int{1}))
	}
	run := func() {
		for rank := 0; rank < NP; rank++ {
			wg.Add(1)
			go func(rank int) {
				defer wg.Done()
				topo := decompose1D(t, 8, 8, NP, rank, 1)
				assert.NoError(t, g.Exchange(topo, ms[rank]))
			}(rank)
		}
		wg.Wait()
	}
	run()
	var (
		d0 = ms[0].ToDense()
		d1 = ms[1].ToDense()
	)
	// A second exchange with no new local contributions must change nothing
	run()
	e0, e1 := ms[0].ToDense(), ms[1].ToDense()
	for i := 0; i < 4; i++ {
		for j := 0; j < 8; j++ {
			assert.Equal(t, d0.At(i, j), e0.At(i, j))
			assert.Equal(t, d1.At(i, j), e1.At(i, j))
		}
	}
}

func TestExchangeVector(t *testing.T) {
	var (
		NP = 2
		g  = NewGroup(NP, time.Second)
		wg = sync.WaitGroup{}
		vs = make([]*stencil.Vector, NP)
	)
	for rank := 0; rank < NP; rank++ {
		topo := decompose1D(t, 8, 8, NP, rank, 1)
		vs[rank] = stencil.NewVector(stencil.NewLayout(topo, []int{8}))
		local := utils.NewVector(2, []float64{1, 1})
		assert.NoError(t, vs[rank].Accumulate(local, []int{4}, []int{1}))
	}
	for rank := 0; rank < NP; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			topo := decompose1D(t, 8, 8, NP, rank, 1)
			assert.NoError(t, g.Exchange(topo, vs[rank]))
		}(rank)
	}
	wg.Wait()
	assert.Equal(t, 2., vs[0].At([]int{3})) // row 3: both ranks contributed
	assert.Equal(t, 2., vs[1].At([]int{0})) // row 4: both ranks contributed
}

func TestExchangeLiveness(t *testing.T) {
	// One of two ranks never calls Exchange: the other must get a bounded
	// wait failure, not a hang
	var (
		g    = NewGroup(2, 20*time.Millisecond)
		topo = decompose1D(t, 8, 8, 2, 0, 1)
		m    = stencil.NewMatrix(stencil.NewLayout(topo, []int{8}))
	)
	err := g.Exchange(topo, m)
	assert.Error(t, err)
	assert.IsType(t, &utils.ProtocolError{}, err)
}

func TestExchangeShapeMismatch(t *testing.T) {
	// Rank 1 assembles against a different global dof count: its slabs will
	// not match rank 0's layout
	var (
		NP   = 2
		g    = NewGroup(NP, time.Second)
		wg   = sync.WaitGroup{}
		errs = make([]error, NP)
	)
	for rank := 0; rank < NP; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			var (
				pad = 1 + rank // inconsistent halo widths across the group
			)
			topo := decompose1D(t, 8, 8, NP, rank, pad)
			m := stencil.NewMatrix(stencil.NewLayout(topo, []int{8}))
			errs[rank] = g.Exchange(topo, m)
		}(rank)
	}
	wg.Wait()
	var sawProtocol bool
	for _, err := range errs {
		if err != nil {
			assert.IsType(t, &utils.ProtocolError{}, err)
			sawProtocol = true
		}
	}
	assert.True(t, sawProtocol)
}
