package orgdat

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// countWriter counts the bytes that reach the underlying writer.
type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo writes the trie file: node table, delimiter, data section,
// comment, separator, edition and node count.
//
// A node count that does not fit in the trailer is logged and written
// truncated.
func (t *Trie[L]) WriteTo(w io.Writer) (int64, error) {
	count := uint64(len(t.nodes))
	if count >= t.format.maxSegments() {
		log.WithFields(log.Fields{
			"nodes":     count,
			"segreclen": t.format.SegRecLen,
		}).Warn("too many segments for final segment record size")
	}

	cw := &countWriter{w: w}
	bw := bufio.NewWriterSize(cw, 64*1024)

	var rec [8]byte
	for i := range t.nodes {
		n := &t.nodes[i]
		putRec(rec[:t.format.RecLen], t.pointer(n.lo))
		putRec(rec[t.format.RecLen:2*t.format.RecLen], t.pointer(n.hi))
		if _, err := bw.Write(rec[:2*t.format.RecLen]); err != nil {
			return cw.n, errors.Wrapf(err, "write node %d", i)
		}
	}

	if err := bw.WriteByte(delimiter); err != nil {
		return cw.n, errors.Wrap(err, "write delimiter")
	}
	if _, err := t.labels.WriteTo(bw); err != nil {
		return cw.n, errors.Wrap(err, "write data section")
	}

	trailer := make([]byte, 0, len(comment)+len(separator)+1+t.format.SegRecLen)
	trailer = append(trailer, comment...)
	trailer = append(trailer, separator...)
	trailer = append(trailer, t.format.Edition)
	trailer = trailer[:len(trailer)+t.format.SegRecLen]
	putRec(trailer[len(trailer)-t.format.SegRecLen:], uint32(count))
	if _, err := bw.Write(trailer); err != nil {
		return cw.n, errors.Wrap(err, "write trailer")
	}

	if err := bw.Flush(); err != nil {
		return cw.n, errors.Wrap(err, "flush")
	}
	return cw.n, nil
}

// pointer flattens a slot into its on-disk value.
func (t *Trie[L]) pointer(s slot) uint32 {
	count := uint32(len(t.nodes))
	switch s.kind {
	case slotNode:
		return s.node()
	case slotLeaf:
		return count + t.labels.Offset(s.label())
	default:
		return count
	}
}

// putRec stores v little-endian in dst, keeping only len(dst) low bytes.
func putRec(dst []byte, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	copy(dst, b[:])
}
