// Package orgdat builds legacy fixed-format binary trie files that map IPv4
// networks to organisation labels.
//
// A build inserts (network, label) pairs into an append-only binary trie,
// deduplicates the labels into a data section and writes the node table,
// data section and trailer in the layout read by legacy GeoIP readers.
//
// Use Build for a complete run over CSV inputs, or NewTrie and WriteTo to
// drive the pieces directly.
package orgdat

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidPrefix = errors.New("orgdat: invalid network")
	ErrInvalidRange  = errors.New("orgdat: invalid address range")
	ErrInvalidRow    = errors.New("orgdat: invalid csv row")
	ErrInvalidFormat = errors.New("orgdat: invalid trie format")
	ErrNoOutput      = errors.New("orgdat: no output file")
)
