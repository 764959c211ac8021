package orgdat

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Config controls a single Build run.
type Config struct {
	// Output is the path of the trie file to write. Required.
	Output string
	// Debug dumps every node to DumpWriter before the file is written.
	Debug bool
	// WarnOverlaps logs networks that overlap earlier ones.
	WarnOverlaps bool
	// MetricsFile, when set, receives the run statistics in Prometheus
	// text format.
	MetricsFile string

	Format     Format      // zero value means OrgFormat
	Clock      clock.Clock // defaults to the wall clock
	DumpWriter io.Writer   // defaults to os.Stdout
	Stdin      io.Reader   // read for the "-" input; defaults to os.Stdin
}

func (c Config) withDefaults() Config {
	if c.Format == (Format{}) {
		c.Format = OrgFormat
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.DumpWriter == nil {
		c.DumpWriter = os.Stdout
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	return c
}

// Stats summarizes a finished run.
type Stats struct {
	Nodes    int
	Networks int // successful insertions
	Distinct int // distinct networks
	Labels   int
	DataSize int
	Bytes    int64
	Digest   uint64 // xxhash64 of the written file
	Elapsed  time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("wrote %d-node trie with %d networks (%d distinct labels) in %d seconds",
		s.Nodes, s.Distinct, s.Labels, int64(s.Elapsed/time.Second))
}

// Build reads every input with src, builds the trie and writes it to
// cfg.Output. An empty input list or "-" reads cfg.Stdin.
//
// Any error aborts the run; the output file may then be incomplete.
func Build[L comparable](cfg Config, src Source[L], inputs []string) (Stats, error) {
	cfg = cfg.withDefaults()
	if cfg.Output == "" {
		return Stats{}, ErrNoOutput
	}
	start := cfg.Clock.Now()

	t, err := NewTrie[L](cfg.Format, NewLabelStore[L](src.Encode), WithOverlapWarnings(cfg.WarnOverlaps))
	if err != nil {
		return Stats{}, err
	}
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, in := range inputs {
		if err := loadInput(t, src, in, cfg.Stdin); err != nil {
			return Stats{}, err
		}
	}

	if cfg.Debug {
		if err := t.Dump(cfg.DumpWriter); err != nil {
			return Stats{}, errors.Wrap(err, "dump trie")
		}
	}

	n, digest, err := writeFile(cfg.Output, t)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Nodes:    t.Len(),
		Networks: t.Networks(),
		Distinct: t.Distinct(),
		Labels:   t.Labels().Len(),
		DataSize: t.Labels().Size(),
		Bytes:    n,
		Digest:   digest,
		Elapsed:  cfg.Clock.Now().Sub(start),
	}
	log.WithFields(log.Fields{
		"file":     cfg.Output,
		"nodes":    stats.Nodes,
		"networks": stats.Networks,
		"distinct": stats.Distinct,
		"labels":   stats.Labels,
		"bytes":    stats.Bytes,
		"xxhash":   fmt.Sprintf("%016x", stats.Digest),
	}).Info("trie written")

	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile, stats); err != nil {
			return stats, errors.Wrapf(err, "write metrics %s", cfg.MetricsFile)
		}
	}
	return stats, nil
}

func loadInput[L comparable](t *Trie[L], src Source[L], path string, stdin io.Reader) error {
	if path == "-" {
		log.Debug("loading networks from stdin")
		return errors.Wrap(t.Load(src, stdin), "stdin")
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	log.WithField("file", path).Debug("loading networks")
	if err := t.Load(src, f); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}

func writeFile[L comparable](path string, t *Trie[L]) (n int64, digest uint64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, 0, errors.Wrap(err, "create output")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close output")
		}
	}()

	h := xxhash.New()
	n, err = t.WriteTo(io.MultiWriter(f, h))
	if err != nil {
		return n, 0, errors.Wrapf(err, "write %s", path)
	}
	return n, h.Sum64(), nil
}
