package orgdat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Dump writes one line per node in the form
//
//	<index> [<lo>, <hi>]
//
// where a child is "--" when empty, a node index, or the on-disk pointer
// followed by the label for a leaf.
func (t *Trie[L]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for i := range t.nodes {
		n := &t.nodes[i]
		line = strconv.AppendUint(line[:0], uint64(i), 10)
		line = append(line, " ["...)
		line = t.appendSlot(line, n.lo)
		line = append(line, ", "...)
		line = t.appendSlot(line, n.hi)
		line = append(line, "]\n"...)
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (t *Trie[L]) appendSlot(line []byte, s slot) []byte {
	switch s.kind {
	case slotNode:
		return strconv.AppendUint(line, uint64(s.node()), 10)
	case slotLeaf:
		line = strconv.AppendUint(line, uint64(t.pointer(s)), 10)
		line = append(line, ' ')
		return fmt.Appendf(line, "%v", t.labels.Label(s.label()))
	default:
		return append(line, "--"...)
	}
}
