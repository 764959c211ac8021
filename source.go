package orgdat

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/netip"
	"strings"

	"github.com/pkg/errors"
)

// EmitFunc receives the networks of one input row and the label they share.
type EmitFunc[L comparable] func(nets []netip.Prefix, label L) error

// Source is a trie variant: it knows how to turn raw input into labelled
// networks and how to encode its labels.
type Source[L comparable] interface {
	// Networks calls emit once per input row, in input order. An error
	// from emit stops the read and is returned.
	Networks(r io.Reader, emit EmitFunc[L]) error
	// Encode returns the data-section bytes for label.
	Encode(label L) []byte
}

// OrgRangeSource reads "lo,hi,org" rows and summarizes each address range
// into covering networks.
type OrgRangeSource struct{}

// Networks emits the networks covering each row's range with the row's
// organisation.
func (OrgRangeSource) Networks(r io.Reader, emit EmitFunc[string]) error {
	return readCSV(r, 3, func(row []string) error {
		lo, err := netip.ParseAddr(strings.TrimSpace(row[0]))
		if err != nil {
			return err
		}
		hi, err := netip.ParseAddr(strings.TrimSpace(row[1]))
		if err != nil {
			return err
		}
		nets, err := SummarizeRange(lo, hi)
		if err != nil {
			return err
		}
		return emit(nets, row[2])
	})
}

// Encode returns label as a zero-terminated string.
func (OrgRangeSource) Encode(label string) []byte {
	return StringEncoder(label)
}

// OrgNetworkSource reads "cidr,org" rows. A bare address is taken as a
// host network.
type OrgNetworkSource struct{}

// Networks emits each row's network with its organisation.
func (OrgNetworkSource) Networks(r io.Reader, emit EmitFunc[string]) error {
	return readCSV(r, 2, func(row []string) error {
		n, err := parseNetwork(strings.TrimSpace(row[0]))
		if err != nil {
			return err
		}
		return emit([]netip.Prefix{n}, row[1])
	})
}

// Encode returns label as a zero-terminated string.
func (OrgNetworkSource) Encode(label string) []byte {
	return StringEncoder(label)
}

func parseNetwork(s string) (netip.Prefix, error) {
	if !strings.Contains(s, "/") {
		a, err := netip.ParseAddr(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return netip.PrefixFrom(a, a.BitLen()), nil
	}
	return netip.ParsePrefix(s)
}

// rowError carries the line of a rejected row. It matches ErrInvalidRow and
// unwraps to the underlying parse or emit error.
type rowError struct {
	line int
	err  error
}

func (e *rowError) Error() string {
	if e.line == 0 {
		return fmt.Sprintf("%v: %v", ErrInvalidRow, e.err)
	}
	return fmt.Sprintf("%v: line %d: %v", ErrInvalidRow, e.line, e.err)
}

func (e *rowError) Unwrap() error { return e.err }

func (e *rowError) Is(target error) bool { return target == ErrInvalidRow }

// readCSV calls fn for every row of r. Bare quotes inside unquoted fields
// are kept as literal characters; blank lines are skipped.
func readCSV(r io.Reader, fields int, fn func(row []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.LazyQuotes = true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.WithStack(&rowError{err: err})
		}
		line, _ := cr.FieldPos(0)
		if err := fn(row); err != nil {
			return errors.WithStack(&rowError{line: line, err: err})
		}
	}
}
