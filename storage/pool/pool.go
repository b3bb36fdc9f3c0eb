// Package pool implements the buffer pool: a bounded set of frames
// indexed by page id, with a two-queue (FIFO + LRU) replacement policy and
// Fix/Unfix as the only way clients obtain or release access to a page.
package pool

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sasha-s/go-deadlock"

	"github.com/riftdb/pagebuf/common"
	"github.com/riftdb/pagebuf/storage/frame"
	"github.com/riftdb/pagebuf/storage/queue"
	"github.com/riftdb/pagebuf/storage/segment"
	"github.com/riftdb/pagebuf/types"
)

// Pool is the pool of frames and their indexing. All structural changes —
// to the page table and to the FIFO/LRU queues — happen under mu. Whoever
// holds mu never waits for a frame lock another client may hold: under mu
// a frame is only try-locked, or locked right after it was created. So
// Unfix, which takes mu while its caller still holds the frame lock,
// cannot deadlock with a fix or an eviction in progress.
type Pool struct {
	mu deadlock.Mutex

	pageSize int
	capacity int
	segments *segment.Dir

	table map[types.PageID]*frame.Frame
	fifo  queue.List[*frame.Frame]
	lru   queue.List[*frame.Frame]
}

// New returns an empty pool backed by segments, holding at most capacity
// frames of pageSize bytes each.
func New(pageSize, capacity int, segments *segment.Dir) *Pool {
	common.Assert(pageSize > 0, "pool: pageSize must be positive")
	common.Assert(capacity > 0, "pool: capacity must be positive")
	return &Pool{
		pageSize: pageSize,
		capacity: capacity,
		segments: segments,
		table:    make(map[types.PageID]*frame.Frame, capacity),
	}
}

// Fix resolves pageID to a resident frame, granting the frame's lock in
// shared (exclusive=false) or exclusive mode before returning. It either
// hits an already-resident frame or allocates one, evicting a victim if
// the pool is at capacity. Returns common.ErrBufferFull if the pool is
// full and every resident frame is currently pinned, or an *common.IoError
// if the page's segment file cannot be opened. Fix does not read the page
// itself; its bytes are loaded on the first Frame.GetData.
func (p *Pool) Fix(pageID types.PageID, exclusive bool) (*frame.Frame, error) {
	p.mu.Lock()

	if f, ok := p.table[pageID]; ok {
		p.lru.PushBack(&f.Link)
		p.lockHit(f, exclusive)
		return f, nil
	}

	if len(p.table) >= p.capacity {
		victim := p.chooseVictim()
		if victim == nil {
			p.mu.Unlock()
			common.ShPrintf(common.CACHE_OUT_IN_INFO, "pool: buffer full, no victim available for page %d\n", pageID)
			return nil, common.ErrBufferFull
		}
		p.evict(victim)
	}

	f, err := p.admit(pageID)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	if exclusive {
		f.LockExclusive()
	} else {
		f.LockShared()
	}
	p.mu.Unlock()
	return f, nil
}

// lockHit grants the frame's lock on the hit path. It takes the lock
// while mu is still held — spec.md §9's recommended fix for the race that
// would otherwise let a concurrent eviction steal a frame between the
// pool mutex release and the per-frame lock acquisition — and only then
// releases mu.
func (p *Pool) lockHit(f *frame.Frame, exclusive bool) {
	if exclusive {
		if !f.TryLockExclusive() {
			p.mu.Unlock()
			f.LockExclusive()
			return
		}
	} else {
		if !f.TryLockShared() {
			p.mu.Unlock()
			f.LockShared()
			return
		}
	}
	p.mu.Unlock()
}

// chooseVictim scans FIFO (oldest first) then LRU (least-recent first)
// for a frame whose exclusive lock can be acquired without blocking —
// i.e. one nobody currently holds in any mode. Returns nil if every
// resident frame is pinned.
func (p *Pool) chooseVictim() *frame.Frame {
	var victim *frame.Frame
	p.fifo.Each(func(e *queue.Elem[*frame.Frame]) bool {
		if e.Value.TryLockExclusive() {
			victim = e.Value
			return false
		}
		return true
	})
	if victim == nil {
		p.lru.Each(func(e *queue.Elem[*frame.Frame]) bool {
			if e.Value.TryLockExclusive() {
				victim = e.Value
				return false
			}
			return true
		})
	}
	return victim
}

// evict flushes, unindexes and destroys victim. Called with mu held and
// victim's exclusive lock already acquired by chooseVictim.
func (p *Pool) evict(victim *frame.Frame) {
	if err := victim.Flush(); err != nil {
		common.ShPrintf(common.WARN, "pool: flush of victim page %d failed during eviction: %v\n", victim.PageID(), err)
	}
	common.ShPrintf(common.CACHE_OUT_IN_INFO, "pool: evicted page %d\n", victim.PageID())
	delete(p.table, victim.PageID())
	victim.Link.Unlink()
	victim.Destroy()
}

// admit creates a fresh frame for pageID, opens its backing segment file,
// indexes it and places it at the tail of FIFO. Called with mu held.
func (p *Pool) admit(pageID types.PageID) (*frame.Frame, error) {
	file, err := p.segments.Open(pageID.GetSegmentID())
	if err != nil {
		return nil, common.NewIoError("pool: open segment", err)
	}
	f := frame.New(pageID, p.pageSize, file)
	p.table[pageID] = f
	p.fifo.PushBack(&f.Link)
	common.ShPrintf(common.DEBUG_INFO, "pool: admitted page %d\n", pageID)
	return f, nil
}

// Unfix marks f dirty (if dirty is true) and releases its lock, in
// whichever mode it is currently held. This is the only way a client
// releases a frame obtained from Fix.
func (p *Pool) Unfix(f *frame.Frame, dirty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dirty {
		f.MarkDirty()
	}
	f.Unlock()
}

// Destroy flushes every resident dirty frame, closes all segment files
// and releases all resources. Every flush is attempted even if an earlier
// one failed; the first error encountered, if any, is returned.
func (p *Pool) Destroy() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for pageID, f := range p.table {
		if err := f.Flush(); err != nil {
			common.ShPrintf(common.WARN, "pool: flush of page %d failed during teardown: %v\n", pageID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
		f.Link.Unlink()
		f.Destroy()
		delete(p.table, pageID)
	}

	if err := p.segments.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// pinnedPages returns the set of page ids currently held by some client in
// any mode — frames for which a non-blocking exclusive acquire would fail.
// Diagnostic only; like FifoSnapshot/LruSnapshot, callers must ensure no
// concurrent Fix/Unfix.
func (p *Pool) pinnedPages() mapset.Set[types.PageID] {
	pinned := mapset.NewThreadUnsafeSet[types.PageID]()
	for pageID, f := range p.table {
		if f.TryLockExclusive() {
			f.Unlock()
			continue
		}
		pinned.Add(pageID)
	}
	return pinned
}
