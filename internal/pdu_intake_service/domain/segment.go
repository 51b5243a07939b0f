package domain

import (
	"encoding/hex"
	"strings"
)

// Segment is one opaque PDU as delivered by the platform. The bytes are copied on the way in
// and on the way out so a Segment can never be mutated after construction.
type Segment struct {
	b []byte
}

// NewSegment copies raw into a new Segment.
func NewSegment(raw []byte) Segment {
	return Segment{b: append([]byte(nil), raw...)}
}

// Bytes returns a copy of the segment contents.
func (s Segment) Bytes() []byte {
	return append([]byte(nil), s.b...)
}

func (s Segment) Len() int { return len(s.b) }

// Hex renders the segment as upper-case hex, the usual notation for PDUs in logs.
func (s Segment) Hex() string {
	return strings.ToUpper(hex.EncodeToString(s.b))
}

// SegmentFromHex parses a hex-encoded PDU (either case).
func SegmentFromHex(s string) (Segment, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Segment{}, err
	}
	return Segment{b: b}, nil
}
