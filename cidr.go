package orgdat

import (
	"encoding/binary"
	"math/bits"
	"net/netip"

	"github.com/pkg/errors"
)

// SummarizeRange returns the smallest list of networks that exactly covers
// the inclusive IPv4 range lo..hi, in ascending order.
func SummarizeRange(lo, hi netip.Addr) ([]netip.Prefix, error) {
	if !lo.Is4() || !hi.Is4() {
		return nil, errors.Wrapf(ErrInvalidRange, "%s-%s: not IPv4", lo, hi)
	}
	start, end := addrToU32(lo), addrToU32(hi)
	if start > end {
		return nil, errors.Wrapf(ErrInvalidRange, "%s-%s: start after end", lo, hi)
	}
	return rangeToCIDRs(start, end), nil
}

func rangeToCIDRs(start, end uint32) []netip.Prefix {
	out := make([]netip.Prefix, 0, 8)
	cur := uint64(start)
	last := uint64(end)
	for cur <= last {
		// Largest aligned block starting at cur that does not pass end.
		size := 32
		if cur != 0 {
			size = bits.TrailingZeros32(uint32(cur))
		}
		for uint64(1)<<size > last-cur+1 {
			size--
		}
		out = append(out, netip.PrefixFrom(u32ToAddr(uint32(cur)), 32-size))
		cur += uint64(1) << size
	}
	return out
}

func addrToU32(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}

func u32ToAddr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}
