package orgdat

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "orgdat"

// writeMetrics stores s in path using the Prometheus text format, ready for
// the node_exporter textfile collector.
func writeMetrics(path string, s Stats) error {
	reg := prometheus.NewRegistry()
	for _, m := range []struct {
		name, help string
		value      float64
	}{
		{"trie_nodes", "Number of nodes in the written trie.", float64(s.Nodes)},
		{"networks", "Number of networks inserted.", float64(s.Networks)},
		{"distinct_networks", "Number of distinct networks inserted.", float64(s.Distinct)},
		{"labels", "Number of distinct labels.", float64(s.Labels)},
		{"data_bytes", "Size of the data section in bytes.", float64(s.DataSize)},
		{"file_bytes", "Size of the written trie file in bytes.", float64(s.Bytes)},
		{"build_duration_seconds", "Time taken by the build.", s.Elapsed.Seconds()},
	} {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      m.name,
			Help:      m.help,
		})
		g.Set(m.value)
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return prometheus.WriteToTextfile(path, reg)
}
