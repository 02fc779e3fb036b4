package exchange

import (
	"time"

	"github.com/notargets/gospl/topology"
	"github.com/notargets/gospl/utils"
)

// Ghosted is any per-rank stencil buffer that speaks the halo slab protocol.
type Ghosted interface {
	NumDirs() int
	Pad(d int) int
	GhostSlab(d, side int) []float64
	AddOwnedSlab(d, side int, slab []float64) error
	ZeroGhosts(d int)
}

type haloMsg struct {
	FromRank, Dir, Side int
	Slab                []float64
}

// Group coordinates the halo exchange of one set of rank goroutines. It is
// created once for the process group and shared by every rank; per-rank state
// lives in the caller's topology and buffer. Exchange is collective: every
// rank of the group must call it, and a rank that never does will surface at
// the peers as a ProtocolError after Timeout rather than blocking forever.
type Group struct {
	NP      int
	Timeout time.Duration
	mb      *utils.MailBox[*haloMsg]
	bar     *utils.Barrier
}

const DefaultTimeout = 30 * time.Second

func NewGroup(NP int, timeout time.Duration) *Group {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Group{
		NP:      NP,
		Timeout: timeout,
		mb:      utils.NewMailBox[*haloMsg](NP),
		bar:     utils.NewBarrier(NP),
	}
}

// Exchange reconciles the ghost regions of buf with the neighboring ranks of
// topo. Directions are processed one at a time so corner contributions
// propagate through edge neighbors; within a direction the pattern is the
// mailbox protocol: post both ghost slabs, deliver, barrier, receive and add,
// zero own ghosts, barrier. After the call buf's owned rows hold the fully
// summed values and all ghosts are zero, so a second call with no new local
// contributions leaves buf unchanged.
func (g *Group) Exchange(topo *topology.Cartesian, buf Ghosted) (err error) {
	var (
		rank = topo.Rank
	)
	if topo.Size != g.NP {
		return utils.ProtocolErrorf("topology has %d ranks, exchange group has %d", topo.Size, g.NP)
	}
	if buf.NumDirs() != topo.NumDirs() {
		return utils.ProtocolErrorf("buffer has %d directions, topology has %d", buf.NumDirs(), topo.NumDirs())
	}
	for d := 0; d < topo.NumDirs(); d++ {
		var (
			nWant = 0
		)
		for side := 0; side < 2; side++ {
			nb := topo.Neighbor(d, side)
			if nb < 0 {
				continue // global boundary, nothing to reconcile
			}
			nWant++
			g.mb.PostMessage(rank, nb, &haloMsg{
				FromRank: rank,
				Dir:      d,
				Side:     side,
				Slab:     buf.GhostSlab(d, side),
			})
		}
		g.mb.DeliverMyMessages(rank)
		if err = g.bar.Await(g.Timeout); err != nil {
			return
		}
		msgs := g.mb.ReceiveMyMessages(rank)
		if len(msgs) != nWant {
			return utils.ProtocolErrorf("rank %d direction %d: received %d halo messages, want %d",
				rank, d, len(msgs), nWant)
		}
		for _, msg := range msgs {
			if msg.Dir != d {
				return utils.ProtocolErrorf("rank %d direction %d: unexpected message for direction %d from rank %d",
					rank, d, msg.Dir, msg.FromRank)
			}
			// The sender's upper ghost lands on our lower owned rows and
			// vice versa
			if err = buf.AddOwnedSlab(d, 1-msg.Side, msg.Slab); err != nil {
				return
			}
		}
		buf.ZeroGhosts(d)
		if err = g.bar.Await(g.Timeout); err != nil {
			return
		}
	}
	return
}
