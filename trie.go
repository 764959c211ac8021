package orgdat

import (
	"io"
	"net/netip"

	"github.com/gaissmai/bart"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type slotKind uint8

const (
	slotEmpty slotKind = iota
	slotNode
	slotLeaf
)

// slot is one child of a node: nothing, another node (by index) or a label.
type slot struct {
	kind slotKind
	ref  uint32
}

func nodeSlot(i uint32) slot { return slot{kind: slotNode, ref: i} }

func leafSlot(r LabelRef) slot { return slot{kind: slotLeaf, ref: uint32(r)} }

func (s slot) node() uint32 { return s.ref }

func (s slot) label() LabelRef { return LabelRef(s.ref) }

// node is a trie segment. lo is taken when the address bit is 0.
type node struct {
	lo, hi slot
}

// TrieOption configures a Trie.
type TrieOption func(*trieOptions)

type trieOptions struct {
	warnOverlaps bool
}

// WithOverlapWarnings logs a warning for every network that overlaps one
// inserted before it. The insertion still happens.
func WithOverlapWarnings(on bool) TrieOption {
	return func(o *trieOptions) {
		o.warnOverlaps = on
	}
}

// Trie is an append-only binary trie over IPv4 address bits.
//
// Nodes live in a single slice and refer to their children by index, so
// the node table can be written out in slice order. Node 0 is the root.
type Trie[L comparable] struct {
	format Format
	labels *LabelStore[L]
	nodes  []node
	opts   trieOptions

	networks int
	seen     *bart.Table[LabelRef]
}

// NewTrie returns an empty trie writing labels into labels.
func NewTrie[L comparable](format Format, labels *LabelStore[L], opts ...TrieOption) (*Trie[L], error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	t := &Trie[L]{
		format: format,
		labels: labels,
		nodes:  make([]node, 1, 1024),
		seen:   new(bart.Table[LabelRef]),
	}
	for _, opt := range opts {
		opt(&t.opts)
	}
	return t, nil
}

// Insert maps every address of prefix to label.
//
// The walk consumes prefix.Bits()-1 address bits from the most significant
// one, creating nodes as needed, and the next bit selects the slot that
// receives the label. Whatever that slot held before is overwritten.
func (t *Trie[L]) Insert(prefix netip.Prefix, label L) error {
	bits := prefix.Bits()
	if !prefix.IsValid() || !prefix.Addr().Is4() || bits < 1 || bits > t.format.Depth+1 {
		return errors.Wrapf(ErrInvalidPrefix, "%s", prefix)
	}
	prefix = prefix.Masked()
	ip := addrToU32(prefix.Addr())

	if t.opts.warnOverlaps && t.seen.OverlapsPrefix(prefix) {
		log.WithField("network", prefix).Warn("network overlaps an earlier one, last insertion wins")
	}

	cur := uint32(0)
	last := t.format.Depth - (bits - 1)
	for depth := t.format.Depth; depth > last; depth-- {
		s := *t.child(cur, ip, depth)
		if s.kind != slotNode {
			fill := slot{}
			if s.kind == slotLeaf {
				// A shorter network ends here; push it one level down so
				// it still covers the addresses the new network does not.
				fill = s
			}
			// grow may move t.nodes, so the slot is looked up again.
			s = nodeSlot(t.grow(fill))
			*t.child(cur, ip, depth) = s
		}
		cur = s.node()
	}

	ref := t.labels.Register(label)
	*t.child(cur, ip, last) = leafSlot(ref)

	t.seen.Insert(prefix, ref)
	t.networks++
	return nil
}

func (t *Trie[L]) child(i, ip uint32, depth int) *slot {
	n := &t.nodes[i]
	if ip&(1<<uint(depth)) != 0 {
		return &n.hi
	}
	return &n.lo
}

// grow appends a node whose two slots are fill and returns its index.
func (t *Trie[L]) grow(fill slot) uint32 {
	i := uint32(len(t.nodes))
	t.nodes = append(t.nodes, node{lo: fill, hi: fill})
	return i
}

// Load inserts every network src reads from r, in input order.
func (t *Trie[L]) Load(src Source[L], r io.Reader) error {
	return src.Networks(r, func(nets []netip.Prefix, label L) error {
		for _, n := range nets {
			if err := t.Insert(n, label); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of nodes.
func (t *Trie[L]) Len() int {
	return len(t.nodes)
}

// Networks returns the number of Insert calls that succeeded.
func (t *Trie[L]) Networks() int {
	return t.networks
}

// Distinct returns the number of distinct networks inserted.
func (t *Trie[L]) Distinct() int {
	return t.seen.Size4()
}

// Labels returns the label store backing the trie.
func (t *Trie[L]) Labels() *LabelStore[L] {
	return t.labels
}
