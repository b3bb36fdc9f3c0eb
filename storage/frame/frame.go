// Package frame implements the in-memory image of one page: its byte
// buffer, load state, and the reader/writer lock that doubles as its pin.
package frame

import (
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"

	"github.com/riftdb/pagebuf/common"
	"github.com/riftdb/pagebuf/storage/queue"
	"github.com/riftdb/pagebuf/storage/segment"
	"github.com/riftdb/pagebuf/types"
)

// state is the frame's load state, per spec.md §3: empty -> clean (on
// load), clean -> dirty (on client write signal), dirty -> clean (on
// flush). No transition ever returns to empty.
type state int32

const (
	empty state = iota
	clean
	dirty
)

// Frame is the in-memory image of one page. A Frame is owned exclusively
// by a Pool; clients only ever hold a non-owning reference for the
// duration of a Fix/Unfix bracket.
type Frame struct {
	pageID types.PageID
	offset int64

	file     segment.File
	pageSize int

	latch           deadlock.RWMutex
	heldExclusively atomic.Bool

	// loadMu serializes the empty->clean transition in GetData. Two
	// clients may legitimately hold latch in shared mode at once (stacked
	// RLocks on a fresh frame's first hit), so latch alone does not
	// protect the lazy load; loadMu does.
	loadMu deadlock.Mutex
	state  state
	data   []byte

	// Link threads this frame onto whichever of the pool's FIFO/LRU
	// queues currently holds it; InList/Unlink/PushBack on the pool's
	// *queue.List[*Frame] are how membership is tested and changed.
	Link queue.Elem[*Frame]
}

// New allocates a frame descriptor for pageID. No I/O happens and no
// buffer is allocated yet; per spec.md §4.1, construction never touches
// disk.
func New(pageID types.PageID, pageSize int, file segment.File) *Frame {
	f := &Frame{
		pageID:   pageID,
		offset:   pageID.ComputeOffset(pageSize),
		file:     file,
		pageSize: pageSize,
		state:    empty,
	}
	f.Link.Value = f
	return f
}

// PageID returns the identifier of the page this frame caches.
func (f *Frame) PageID() types.PageID {
	return f.pageID
}

// GetData returns the frame's byte buffer, loading it from the backing
// segment file first if the frame is still empty. The caller must already
// hold the frame's lock in some mode; loadMu additionally serializes the
// load itself, since two callers may both hold the frame's lock in shared
// mode at once.
func (f *Frame) GetData() ([]byte, error) {
	f.loadMu.Lock()
	defer f.loadMu.Unlock()

	if f.state == empty {
		f.data = make([]byte, f.pageSize)
		if err := f.file.ReadBlock(f.offset, f.pageSize, f.data); err != nil {
			return nil, common.NewIoError("frame: read page", err)
		}
		f.state = clean
		common.ShPrintf(common.CACHE_OUT_IN_INFO, "frame: loaded page %d\n", f.pageID)
	}
	return f.data, nil
}

// MarkDirty transitions the frame to dirty. Must be called under the
// frame's exclusive lock.
func (f *Frame) MarkDirty() {
	common.Assert(f.state != empty, "frame: MarkDirty on a frame that was never loaded")
	f.state = dirty
}

// IsDirty reports whether the frame's buffer differs from its on-disk image.
func (f *Frame) IsDirty() bool {
	return f.state == dirty
}

// Flush writes the buffer back to the segment file if the frame is dirty,
// and marks it clean. A no-op when the frame is clean or empty.
func (f *Frame) Flush() error {
	if f.state != dirty {
		return nil
	}
	if err := f.file.WriteBlock(f.data, f.offset, f.pageSize); err != nil {
		return common.NewIoError("frame: write page", err)
	}
	f.state = clean
	common.ShPrintf(common.CACHE_OUT_IN_INFO, "frame: flushed page %d\n", f.pageID)
	return nil
}

// Destroy releases the frame's buffer. Callers (the pool) must only call
// this while holding the frame's own exclusive lock, and only after
// attempting a Flush — at that point the frame is neither in the page
// table nor in either queue. A frame that is still dirty here means its
// flush failed; per spec.md §7 the frame is freed anyway and that data is
// lost, rather than the pool refusing to make progress.
func (f *Frame) Destroy() {
	if f.state == dirty {
		common.ShPrintf(common.WARN, "frame: destroying page %d while still dirty; flush must have failed\n", f.pageID)
	}
	common.Assert(!f.Link.Resident(), "frame: Destroy while still queued")
	f.data = nil
}

// TryLockShared attempts to acquire the frame's lock for shared (read)
// access without blocking. Reports whether it succeeded.
func (f *Frame) TryLockShared() bool {
	return f.latch.TryRLock()
}

// LockShared blocks until the frame's lock is acquired for shared access.
func (f *Frame) LockShared() {
	f.latch.RLock()
}

// TryLockExclusive attempts to acquire the frame's lock for exclusive
// (write) access without blocking. Reports whether it succeeded. This is
// the pool's sole test for "is anyone using this frame" during eviction:
// it fails on any frame currently pinned in any mode.
func (f *Frame) TryLockExclusive() bool {
	if !f.latch.TryLock() {
		return false
	}
	f.heldExclusively.Store(true)
	return true
}

// LockExclusive blocks until the frame's lock is acquired for exclusive access.
func (f *Frame) LockExclusive() {
	f.latch.Lock()
	f.heldExclusively.Store(true)
}

// Unlock releases the frame's lock, in whichever mode it is currently held.
func (f *Frame) Unlock() {
	if f.heldExclusively.CompareAndSwap(true, false) {
		f.latch.Unlock()
		return
	}
	f.latch.RUnlock()
}
