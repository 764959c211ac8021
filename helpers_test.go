package orgdat

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTrie(t testing.TB, opts ...TrieOption) *Trie[string] {
	t.Helper()
	tr, err := NewTrie(OrgFormat, NewLabelStore(StringEncoder), opts...)
	require.NoError(t, err)
	return tr
}

func insertAll(t testing.TB, tr *Trie[string], nets map[string]string, order ...string) {
	t.Helper()
	for _, n := range order {
		require.NoError(t, tr.Insert(netip.MustParsePrefix(n), nets[n]))
	}
}

func serialize(t testing.TB, tr *Trie[string]) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := tr.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

// lookupDat walks a written trie file the way legacy readers do and returns
// the label stored for ip.
func lookupDat(t testing.TB, b []byte, f Format, ip netip.Addr) (string, bool) {
	t.Helper()
	segments := readRec(b[len(b)-f.SegRecLen:])
	v := addrToU32(ip)
	x := uint32(0)
	for depth := f.Depth; depth >= 0; depth-- {
		off := int(x) * 2 * f.RecLen
		if v&(1<<uint(depth)) != 0 {
			off += f.RecLen
		}
		x = readRec(b[off : off+f.RecLen])
		if x == segments {
			return "", false
		}
		if x > segments {
			pos := int(segments)*2*f.RecLen + int(x-segments)
			end := bytes.IndexByte(b[pos:], 0)
			require.GreaterOrEqual(t, end, 0, "unterminated label at %d", pos)
			return string(b[pos : pos+end]), true
		}
	}
	t.Fatalf("walked past the last address bit for %s", ip)
	return "", false
}

func readRec(b []byte) uint32 {
	var v uint32
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}
