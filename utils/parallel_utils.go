package utils

import (
	"fmt"
	"sync"
	"time"
)

// MailBox carries typed messages between rank goroutines. The usage pattern
// is: for range messages {PostMessage}; DeliverMyMessages; barrier;
// ReceiveMyMessages. The barrier between deliver and receive guarantees every
// rank's outbox has been flushed before any rank drains its inbox.
type MailBox[T any] struct {
	NP           int
	MessageChans []chan []T    // One for each rank
	PostMsgQs    []map[int][]T // One for each rank, key is target rank
}

func NewMailBox[T any](NP int) *MailBox[T] {
	mb := &MailBox[T]{
		NP:           NP,
		MessageChans: make([]chan []T, NP),
		PostMsgQs:    make([]map[int][]T, NP),
	}
	for n := 0; n < NP; n++ {
		mb.MessageChans[n] = make(chan []T, NP) // Worst case is all-to-all
		mb.PostMsgQs[n] = make(map[int][]T)
	}
	return mb
}

func (mb *MailBox[T]) PostMessage(myRank, targetRank int, msg T) {
	if targetRank < 0 || targetRank > mb.NP-1 {
		panic(fmt.Sprintf("target rank %d out of bounds", targetRank))
	}
	mb.PostMsgQs[myRank][targetRank] = append(mb.PostMsgQs[myRank][targetRank], msg)
}

func (mb *MailBox[T]) DeliverMyMessages(myRank int) {
	// Must be called in myRank before receivers can receive
	for targetRank, msgs := range mb.PostMsgQs[myRank] {
		mb.MessageChans[targetRank] <- msgs
		delete(mb.PostMsgQs[myRank], targetRank)
	}
}

func (mb *MailBox[T]) ReceiveMyMessages(myRank int) (msgs []T) {
	// Must be called after waiting for all DeliverMyMessages calls in a sync
	for {
		select {
		case batch := <-mb.MessageChans[myRank]:
			msgs = append(msgs, batch...)
		default:
			return
		}
	}
}

// Barrier is a reusable rendezvous for NP rank goroutines. Await blocks until
// all NP ranks have arrived, or until timeout expires, which surfaces as a
// ProtocolError - a peer that never arrives must not leave the others blocked
// indefinitely.
type Barrier struct {
	NP     int
	mu     sync.Mutex
	count  int
	waitCh chan struct{}
}

func NewBarrier(NP int) *Barrier {
	return &Barrier{
		NP:     NP,
		waitCh: make(chan struct{}),
	}
}

func (b *Barrier) Await(timeout time.Duration) error {
	b.mu.Lock()
	ch := b.waitCh
	b.count++
	if b.count == b.NP {
		b.count = 0
		b.waitCh = make(chan struct{})
		close(ch)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-time.After(timeout):
		return ProtocolErrorf("barrier wait exceeded %v: a peer rank never arrived", timeout)
	}
}
