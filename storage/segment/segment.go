// Package segment implements the File abstraction the buffer manager reads
// and writes pages through: one flat file per segment, named by the
// segment id's decimal text, holding a contiguous run of fixed-size pages
// with no header and an implicitly-zero tail.
package segment

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sasha-s/go-deadlock"

	"github.com/riftdb/pagebuf/common"
	"github.com/riftdb/pagebuf/types"
)

// File is the positional block read/write primitive the frame layer talks
// to. A real segment file and any test double implement it.
type File interface {
	ReadBlock(offset int64, length int, buf []byte) error
	WriteBlock(buf []byte, offset int64, length int) error
	Close() error
}

type file struct {
	mu deadlock.Mutex
	f  *os.File
}

// open opens path for read/write, creating it empty if it does not
// already exist, per spec.md §4.1:
// "If the segment file does not exist when the frame attempts to read, the
// frame creates it empty before reading."
func open(path string) (*file, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	return &file{f: f}, nil
}

// ReadBlock reads length bytes at offset into buf. Reads past the current
// end of file are well-defined as zero bytes; reads that only partially
// overlap the file are zero-filled past EOF.
func (s *file) ReadBlock(offset int64, length int, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range buf[:length] {
		buf[i] = 0
	}

	n, err := s.f.ReadAt(buf[:length], offset)
	if err != nil && err != io.EOF && !(n > 0 && err == io.ErrUnexpectedEOF) {
		return err
	}
	return nil
}

// WriteBlock writes length bytes from buf at offset, extending the file as
// needed, and fsyncs before returning.
func (s *file) WriteBlock(buf []byte, offset int64, length int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.f.WriteAt(buf[:length], offset)
	if err != nil {
		return err
	}
	common.Assert(n == length, "segment: short write: wrote %d of %d bytes", n, length)
	return s.f.Sync()
}

func (s *file) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Dir opens and caches one File per segment id under a directory, by the
// decimal text of the segment id (spec.md §6). Safe for concurrent use.
type Dir struct {
	mu   deadlock.Mutex
	root string
	open map[types.SegmentID]*file
}

// NewDir returns a Dir rooted at root. root is created if it does not
// exist.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o777); err != nil {
		return nil, err
	}
	return &Dir{root: root, open: make(map[types.SegmentID]*file)}, nil
}

// Open returns the File backing segmentID, opening (and creating, if
// necessary) it on first use.
func (d *Dir) Open(segmentID types.SegmentID) (File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if f, ok := d.open[segmentID]; ok {
		return f, nil
	}

	f, err := open(d.path(segmentID))
	if err != nil {
		return nil, err
	}
	d.open[segmentID] = f
	return f, nil
}

func (d *Dir) path(segmentID types.SegmentID) string {
	return filepath.Join(d.root, strconv.FormatUint(uint64(segmentID), 10))
}

// Close closes every segment file opened through d. Every close is
// attempted even if an earlier one failed; the first error, if any, is
// returned.
func (d *Dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var first error
	for id, f := range d.open {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
		delete(d.open, id)
	}
	return first
}
