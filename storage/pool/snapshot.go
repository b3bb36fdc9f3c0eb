package pool

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/riftdb/pagebuf/storage/frame"
	"github.com/riftdb/pagebuf/types"
)

// FifoSnapshot returns the page ids currently in the FIFO queue, oldest
// first. Diagnostic/testing only: callers must ensure no concurrent
// Fix/Unfix.
func (p *Pool) FifoSnapshot() []types.PageID {
	return pageIDsOf(p.fifo.Snapshot())
}

// LruSnapshot returns the page ids currently in the LRU queue,
// least-recently-fixed first. Diagnostic/testing only: callers must
// ensure no concurrent Fix/Unfix.
func (p *Pool) LruSnapshot() []types.PageID {
	return pageIDsOf(p.lru.Snapshot())
}

// PinnedPages returns the set of page ids a client currently holds in any
// mode. Diagnostic only, generalizing the teacher's
// PrintBufferUsageState/PrintReplacerInternalState scans; callers must
// ensure no concurrent Fix/Unfix.
func (p *Pool) PinnedPages() mapset.Set[types.PageID] {
	return p.pinnedPages()
}

// Size returns the number of frames currently resident in the pool.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.table)
}

func pageIDsOf(frames []*frame.Frame) []types.PageID {
	ids := make([]types.PageID, len(frames))
	for i, f := range frames {
		ids[i] = f.PageID()
	}
	return ids
}
