package segment

import (
	"os"
	"testing"

	"github.com/riftdb/pagebuf/types"
)

func newTestDir(t *testing.T) *Dir {
	t.Helper()
	root, err := os.MkdirTemp("", "pagebuf-segment-")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })

	dir, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { dir.Close() })
	return dir
}

func TestReadUnwrittenPageIsZeroFilled(t *testing.T) {
	dir := newTestDir(t)
	f, err := dir.Open(types.SegmentID(3))
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 128)
	for i := range buf {
		buf[i] = 0xAA
	}
	if err := f.ReadBlock(4096, 128, buf); err != nil {
		t.Fatal(err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %x, want 0", i, b)
		}
	}
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	dir := newTestDir(t)
	f, err := dir.Open(types.SegmentID(1))
	if err != nil {
		t.Fatal(err)
	}

	want := make([]byte, 64)
	for i := range want {
		want[i] = byte(i)
	}
	if err := f.WriteBlock(want, 256, len(want)); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, 64)
	if err := f.ReadBlock(256, 64, got); err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]=%x want[%d]=%x", i, got[i], i, want[i])
		}
	}
}

func TestOpenIsIdempotentPerSegment(t *testing.T) {
	dir := newTestDir(t)
	a, err := dir.Open(types.SegmentID(7))
	if err != nil {
		t.Fatal(err)
	}
	b, err := dir.Open(types.SegmentID(7))
	if err != nil {
		t.Fatal(err)
	}

	if err := a.WriteBlock([]byte("hi"), 0, 2); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 2)
	if err := b.ReadBlock(0, 2, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "hi" {
		t.Fatalf("got %q, want %q", buf, "hi")
	}
}

func TestSegmentFileNamedByDecimalSegmentID(t *testing.T) {
	root, err := os.MkdirTemp("", "pagebuf-segment-")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(root)

	dir, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	defer dir.Close()

	if _, err := dir.Open(types.SegmentID(42)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(root + "/42"); err != nil {
		t.Fatalf("expected file named 42 to exist: %v", err)
	}
}
