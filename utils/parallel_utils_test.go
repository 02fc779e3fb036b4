package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMailBox(t *testing.T) {
	var (
		NP  = 4
		mb  = NewMailBox[int](NP)
		bar = NewBarrier(NP)
		wg  = sync.WaitGroup{}
		got = make([][]int, NP)
	)
	for n := 0; n < NP; n++ {
		wg.Add(1)
		go func(myRank int) {
			defer wg.Done()
			// Each rank posts its rank number to both cyclic neighbors
			mb.PostMessage(myRank, (myRank+1)%NP, myRank)
			mb.PostMessage(myRank, (myRank+NP-1)%NP, myRank)
			mb.DeliverMyMessages(myRank)
			assert.NoError(t, bar.Await(time.Second))
			got[myRank] = mb.ReceiveMyMessages(myRank)
		}(n)
	}
	wg.Wait()
	for n := 0; n < NP; n++ {
		assert.Len(t, got[n], 2)
		sum := got[n][0] + got[n][1]
		assert.Equal(t, (n+1)%NP+(n+NP-1)%NP, sum)
	}
}

func TestBarrierTimeout(t *testing.T) {
	var (
		bar = NewBarrier(2)
	)
	// Only one of two ranks arrives - the bounded wait must escalate
	err := bar.Await(10 * time.Millisecond)
	assert.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestBarrierReuse(t *testing.T) {
	var (
		NP  = 3
		bar = NewBarrier(NP)
		wg  = sync.WaitGroup{}
	)
	for n := 0; n < NP; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cycle := 0; cycle < 10; cycle++ {
				assert.NoError(t, bar.Await(time.Second))
			}
		}()
	}
	wg.Wait()
}
