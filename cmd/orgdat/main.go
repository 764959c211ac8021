package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dnsoa/orgdat"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	buildVersion      = "unknown"
	envPrefix         = "ORGDAT"
	defaultConfigName = ".orgdat"
)

type options struct {
	ConfigFile   string
	LogLevel     string
	Debug        bool
	WriteDat     string
	WarnOverlaps bool
	MetricsFile  string
}

// usageError is reported with the command usage and exit code 2.
type usageError struct{ error }

func main() {
	root := newRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprint(os.Stderr, root.UsageString())
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "orgdat [options] <cmd> <csv>...",
		Short:         "Build legacy binary organisation trie files from CSV",
		Version:       buildVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{errors.Errorf("unknown command %q, choose from: %s", args[0], commandList())}
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return usageError{errors.Errorf("missing command, choose from: %s", commandList())}
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, &opts)
		},
	}
	root.SetOut(out)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s.yaml)", defaultConfigName))
	pf.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warning, error")
	pf.BoolVarP(&opts.Debug, "debug", "d", false, "debug mode: verbose logs and a node dump before writing")
	pf.StringVarP(&opts.WriteDat, "write-dat", "w", "", "write the trie to this .dat file")
	pf.BoolVar(&opts.WarnOverlaps, "warn-overlaps", false, "log networks that overlap earlier ones")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write build metrics in Prometheus text format to this file")

	for _, v := range orgdat.Variants() {
		root.AddCommand(&cobra.Command{
			Use:     v.Name + " <csv>...",
			Short:   v.Short,
			Example: "  orgdat " + v.Usage,
			RunE:    runVariant(v, &opts, out),
		})
	}
	return root
}

func commandList() string {
	var names []string
	for _, v := range orgdat.Variants() {
		names = append(names, v.Name)
	}
	return strings.Join(names, " ")
}

func runVariant(v orgdat.Variant, opts *options, out io.Writer) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		if opts.WriteDat == "" {
			return usageError{errors.New("missing -w/--write-dat")}
		}
		log.Debugf("options: %+v", *opts)
		log.Debugf("inputs: %v", args)

		stats, err := v.Build(orgdat.Config{
			Output:       opts.WriteDat,
			Debug:        opts.Debug,
			WarnOverlaps: opts.WarnOverlaps,
			MetricsFile:  opts.MetricsFile,
			DumpWriter:   out,
		}, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, stats)
		return nil
	}
}

// initConfig applies the config file and ORGDAT_* environment variables to
// flags not set on the command line, then sets up logging.
func initConfig(cmd *cobra.Command, opts *options) error {
	v := viper.New()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(defaultConfigName)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
	}

	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	initLogger(opts)
	return nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "config" || !v.IsSet(f.Name) {
			return
		}
		if serr := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); serr != nil {
			err = usageError{errors.Wrapf(serr, "config value for %s", f.Name)}
		}
	})
	return err
}

func initLogger(opts *options) {
	ll, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		ll = log.InfoLevel
	}
	if opts.Debug {
		ll = log.DebugLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}
