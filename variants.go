package orgdat

// Variant is a trie flavour selectable by command name.
type Variant struct {
	Name  string
	Short string
	Usage string
	Build func(cfg Config, inputs []string) (Stats, error)
}

// Variants returns the supported trie flavours, sorted by name.
func Variants() []Variant {
	return []Variant{
		{
			Name:  "mmorg_ip",
			Short: "Build an organisation trie from lo,hi,org address ranges",
			Usage: "-w mmorg.dat mmorg_ip GeoIPORG.csv",
			Build: func(cfg Config, inputs []string) (Stats, error) {
				return Build[string](cfg, OrgRangeSource{}, inputs)
			},
		},
		{
			Name:  "mmorg_net",
			Short: "Build an organisation trie from cidr,org networks",
			Usage: "-w mmorg.dat mmorg_net GeoIPORG.csv",
			Build: func(cfg Config, inputs []string) (Stats, error) {
				return Build[string](cfg, OrgNetworkSource{}, inputs)
			},
		},
	}
}
