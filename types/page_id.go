package types

import (
	"bytes"
	"encoding/binary"
)

// PageID identifies a page across the whole pool. The high 16 bits carry
// the segment id, the low 48 bits the segment-local page number.
type PageID uint64

// SegmentID identifies the backing file a page lives in.
type SegmentID uint16

// SegmentPageNumber is a page's offset within its segment, in pages.
type SegmentPageNumber uint64

const segmentPageNumberBits = 48
const segmentPageNumberMask = (uint64(1) << segmentPageNumberBits) - 1

// InvalidPageID is never assigned to a real page.
const InvalidPageID = PageID(0xFFFFFFFFFFFFFFFF)

// NewPageID packs a segment id and a segment-local page number into a PageID.
func NewPageID(segmentID SegmentID, segmentPageNumber SegmentPageNumber) PageID {
	return PageID(uint64(segmentID)<<segmentPageNumberBits | (uint64(segmentPageNumber) & segmentPageNumberMask))
}

// GetSegmentID returns the segment id carried in the high 16 bits of id.
func (id PageID) GetSegmentID() SegmentID {
	return SegmentID(uint64(id) >> segmentPageNumberBits)
}

// GetSegmentPageID returns the segment-local page number carried in the low 48 bits of id.
func (id PageID) GetSegmentPageID() SegmentPageNumber {
	return SegmentPageNumber(uint64(id) & segmentPageNumberMask)
}

// ComputeOffset returns the byte offset of id's page within its segment file.
func (id PageID) ComputeOffset(pageSize int) int64 {
	return int64(id.GetSegmentPageID()) * int64(pageSize)
}

func (id PageID) IsValid() bool {
	return id != InvalidPageID
}

// Serialize casts it to []byte.
func (id PageID) Serialize() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint64(id))
	return buf.Bytes()
}

// NewPageIDFromBytes creates a page id from []byte.
func NewPageIDFromBytes(data []byte) (ret PageID) {
	var raw uint64
	binary.Read(bytes.NewBuffer(data), binary.LittleEndian, &raw)
	return PageID(raw)
}
