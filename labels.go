package orgdat

import (
	"io"
)

// StringEncoder encodes a label as a zero-terminated string.
func StringEncoder(s string) []byte {
	b := make([]byte, 0, len(s)+1)
	b = append(b, s...)
	return append(b, 0)
}

// LabelRef identifies a registered label. Refs are dense and follow
// registration order.
type LabelRef uint32

// LabelStore deduplicates labels and assigns each distinct value a byte
// offset into the data section.
//
// Offsets start at 1; zero is left for "no data" in the node table.
type LabelStore[L comparable] struct {
	enc      func(L) []byte
	idx      map[L]LabelRef
	labels   []L
	offsets  []uint32
	segments [][]byte
	next     uint32
}

// NewLabelStore returns an empty store encoding labels with enc.
func NewLabelStore[L comparable](enc func(L) []byte) *LabelStore[L] {
	return &LabelStore[L]{
		enc:  enc,
		idx:  make(map[L]LabelRef),
		next: 1,
	}
}

// Register returns the ref of label, encoding and appending it on first use.
func (s *LabelStore[L]) Register(label L) LabelRef {
	if ref, ok := s.idx[label]; ok {
		return ref
	}
	b := s.enc(label)
	ref := LabelRef(len(s.labels))
	s.idx[label] = ref
	s.labels = append(s.labels, label)
	s.offsets = append(s.offsets, s.next)
	s.segments = append(s.segments, b)
	s.next += uint32(len(b))
	return ref
}

// Offset returns the data-section offset of ref.
func (s *LabelStore[L]) Offset(ref LabelRef) uint32 {
	return s.offsets[ref]
}

// Label returns the value registered under ref.
func (s *LabelStore[L]) Label(ref LabelRef) L {
	return s.labels[ref]
}

// Len returns the number of distinct labels.
func (s *LabelStore[L]) Len() int {
	return len(s.labels)
}

// Size returns the length of the data section in bytes.
func (s *LabelStore[L]) Size() int {
	return int(s.next - 1)
}

// WriteTo writes the encoded labels in registration order.
func (s *LabelStore[L]) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, b := range s.segments {
		n, err := w.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
