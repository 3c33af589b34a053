// Command xmlwf checks whether one or more XML files are well-formed,
// mirroring expat's own xmlwf sample tool and spec.md §4.12's well-formedness
// checker component. Each file is checked concurrently; a non-zero exit
// status indicates at least one file failed.
package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/r2xml/xmlcore/xmlcore"
)

// fileConfig holds the subset of parser options an xmlwf.toml config file
// may override; any flag on the command line takes precedence.
type fileConfig struct {
	Encoding          string  `toml:"encoding"`
	Namespaces        bool    `toml:"namespaces"`
	NamespaceSep      string  `toml:"namespace_separator"`
	MaxAmplification  float64 `toml:"max_amplification"`
	ActivationBytes   int64   `toml:"activation_bytes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("xmlwf", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to a TOML config file of default parser options")
	encoding := flags.StringP("encoding", "e", "", "override the declared/protocol encoding")
	namespaces := flags.BoolP("namespaces", "n", false, "enable Namespaces-in-XML processing")
	nsSep := flags.String("namespace-separator", "\x1f", "namespace separator character (default: ASCII unit separator)")
	quiet := flags.BoolP("quiet", "q", false, "suppress per-file OK output; only report failures")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg := fileConfig{NamespaceSep: *nsSep}
	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "xmlwf: reading config %s: %v\n", *configPath, err)
			return 2
		}
	}
	if flags.Changed("namespace-separator") {
		cfg.NamespaceSep = *nsSep
	}
	if *encoding != "" {
		cfg.Encoding = *encoding
	}
	if *namespaces {
		cfg.Namespaces = true
	}

	paths := flags.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: xmlwf [flags] file...")
		return 2
	}

	results := make([]string, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			err := checkFile(path, cfg)
			if err != nil {
				results[i] = fmt.Sprintf("%s: %v", path, err)
				return err
			}
			if !*quiet {
				results[i] = fmt.Sprintf("%s: OK", path)
			}
			return nil
		})
	}
	failed := g.Wait() != nil

	for _, r := range results {
		if r != "" {
			fmt.Println(r)
		}
	}
	if failed {
		return 1
	}
	return 0
}

func checkFile(path string, cfg fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var opts []xmlcore.Option
	if cfg.Encoding != "" {
		opts = append(opts, xmlcore.WithEncoding(cfg.Encoding))
	}
	if cfg.Namespaces {
		sep := ' '
		if len([]rune(cfg.NamespaceSep)) > 0 {
			sep = []rune(cfg.NamespaceSep)[0]
		}
		opts = append(opts, xmlcore.WithNamespaces(sep))
	}
	if cfg.MaxAmplification > 0 || cfg.ActivationBytes > 0 {
		opts = append(opts, xmlcore.WithAmplificationLimit(cfg.ActivationBytes, cfg.MaxAmplification))
	}

	p := xmlcore.NewParser(opts...)
	defer p.Free()

	if res := p.Parse(data, true); res == xmlcore.ParseError {
		return fmt.Errorf("not well-formed (%s) at line %d, column %d, byte %d",
			xmlcore.ErrorString(p.GetErrorCode()), p.CurrentLineNumber(), p.CurrentColumnNumber(), p.CurrentByteIndex())
	}
	return nil
}
