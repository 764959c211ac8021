package orgdat

import (
	"github.com/pkg/errors"
)

// Fixed bytes of the legacy trie file.
const (
	delimiter = 42 // between node table and data section
	comment   = "bat.bast"
	separator = "\xff\xff\xff"

	ipv4Depth = 31
)

// Format holds the per-variant parameters of a trie file.
//
// RecLen is the width in bytes of each child pointer, SegRecLen the width of
// the node count stored in the trailer. Depth is the index of the most
// significant address bit; the trie walks IPv4 addresses, so it must be 31.
type Format struct {
	RecLen    int
	SegRecLen int
	Edition   byte
	Depth     int
}

// OrgFormat is the organisation edition read by legacy GeoIP readers.
var OrgFormat = Format{
	RecLen:    4,
	SegRecLen: 4,
	Edition:   5,
	Depth:     ipv4Depth,
}

// Validate reports whether f can be encoded.
func (f Format) Validate() error {
	if f.RecLen < 1 || f.RecLen > 4 {
		return errors.Wrapf(ErrInvalidFormat, "record length %d", f.RecLen)
	}
	if f.SegRecLen < 1 || f.SegRecLen > 4 {
		return errors.Wrapf(ErrInvalidFormat, "segment record length %d", f.SegRecLen)
	}
	if f.Depth != ipv4Depth {
		return errors.Wrapf(ErrInvalidFormat, "depth %d, IPv4 tries start at bit %d", f.Depth, ipv4Depth)
	}
	return nil
}

// maxSegments is the first node count the trailer cannot represent.
func (f Format) maxSegments() uint64 {
	return uint64(1) << (8 * uint(f.SegRecLen))
}
