// Package planner maps an edit window onto an ordered multipart plan.
//
// The plan covers the final object [0, size) with contiguous segments, one
// store operation each: copy segments carry unmodified spans of the existing
// object server-side, upload segments carry the replacement payload. Segment
// order equals part order; part numbers are assigned 1..N downstream.
package planner

import (
	"fmt"

	"github.com/blobforge/s3patch/errors"
)

// MaxUploadParts is the store-imposed ceiling on parts per multipart upload.
const MaxUploadParts = 10_000

// SegmentKind distinguishes the store operation backing a segment.
type SegmentKind int

const (
	// SegmentCopy takes bytes unchanged from the existing object at the
	// same offsets via a server-side copy-part operation.
	SegmentCopy SegmentKind = iota

	// SegmentUpload carries the caller-supplied replacement bytes.
	SegmentUpload
)

// String returns the kind name for logging.
func (k SegmentKind) String() string {
	if k == SegmentUpload {
		return "upload"
	}
	return "copy"
}

// Segment is one part of the final object, spanning [Start, End).
type Segment struct {
	// Start is the inclusive byte offset in the final object
	Start int64

	// End is the exclusive byte offset in the final object
	End int64

	// Kind selects copy or upload
	Kind SegmentKind
}

// Len returns the segment length in bytes.
func (s Segment) Len() int64 {
	return s.End - s.Start
}

// Window is the byte range being replaced, [Offset, Offset+Length).
type Window struct {
	Offset int64
	Length int64
}

// End returns the exclusive end offset of the window.
func (w Window) End() int64 {
	return w.Offset + w.Length
}

// Plan produces the ordered segment list covering [0, size).
//
// Copy segments are capped at maxPartSize and shortened whenever the edit
// window starts strictly inside them, so the window always begins on a
// segment boundary. A window longer than maxPartSize is split into
// consecutive upload segments of at most maxPartSize each.
//
// The caller must have verified that the window fits inside the object;
// Plan only validates what the caller cannot: the part-size ceiling and the
// store's part-count limit.
func Plan(size, maxPartSize int64, w Window) ([]Segment, error) {
	if maxPartSize <= 0 {
		return nil, errors.NewError("plan", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("part size must be positive, got %d", maxPartSize))
	}

	// The walk below emits ceil-division part counts for the three spans
	// around the window, so the total is known before allocating anything.
	projected := ceilDiv(w.Offset, maxPartSize) +
		ceilDiv(w.Length, maxPartSize) +
		ceilDiv(size-w.End(), maxPartSize)
	if projected > MaxUploadParts {
		return nil, errors.NewError("plan", errors.ErrTooManyParts).
			WithMessage(fmt.Sprintf("%d parts needed, store allows %d", projected, MaxUploadParts))
	}

	segments := make([]Segment, 0, projected)
	cursor := int64(0)
	for cursor < size {
		if cursor >= w.Offset && cursor < w.End() {
			end := min(cursor+maxPartSize, w.End())
			segments = append(segments, Segment{Start: cursor, End: end, Kind: SegmentUpload})
			cursor = end
			continue
		}

		end := min(cursor+maxPartSize, size)
		if w.Offset > cursor && w.Offset < end {
			// Stop at the window so the edit lands on a clean part boundary.
			end = w.Offset
		}
		segments = append(segments, Segment{Start: cursor, End: end, Kind: SegmentCopy})
		cursor = end
	}

	return segments, nil
}

func ceilDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}
