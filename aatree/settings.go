package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"bitbucket.org/Davydov/aatree/composition"
	"bitbucket.org/Davydov/aatree/reroot"
)

// options are the raw values from the command line or the settings
// file. Zero values mean "not set".
type options struct {
	Outgroup       string `toml:"outgroup"`
	Ingroup        string `toml:"ingroup"`
	NonInteractive bool   `toml:"noninteractive"`
	NoLadderize    bool   `toml:"no-ladderize"`
	Mode           string `toml:"mode"`
	Subsets        string `toml:"subsets"`
	ChiSquare      bool   `toml:"chi2"`
	Output         string `toml:"output"`
	LogLevel       string `toml:"loglevel"`
}

// readOptions reads options from a TOML file.
func readOptions(fn string) (opts options, err error) {
	md, err := toml.DecodeFile(fn, &opts)
	if err != nil {
		return opts, fmt.Errorf("while reading settings file %q: %v", fn, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return opts, fmt.Errorf("unknown keys in settings file %q: %v", fn, undecoded)
	}
	return opts, nil
}

// flagOptions initializes options from global variables
// (command-line arguments).
func flagOptions() options {
	return options{
		Outgroup:       *outgroup,
		Ingroup:        *ingroup,
		NonInteractive: *nonInteractive,
		NoLadderize:    *noLadderize,
		Mode:           *mode,
		Subsets:        *subsets,
		ChiSquare:      *chi2,
		Output:         *output,
		LogLevel:       *logLevel,
	}
}

// override returns opts with the values set in o replaced.
func (opts options) override(o options) options {
	if o.Outgroup != "" {
		opts.Outgroup = o.Outgroup
	}
	if o.Ingroup != "" {
		opts.Ingroup = o.Ingroup
	}
	if o.NonInteractive {
		opts.NonInteractive = true
	}
	if o.NoLadderize {
		opts.NoLadderize = true
	}
	if o.Mode != "" {
		opts.Mode = o.Mode
	}
	if o.Subsets != "" {
		opts.Subsets = o.Subsets
	}
	if o.ChiSquare {
		opts.ChiSquare = true
	}
	if o.Output != "" {
		opts.Output = o.Output
	}
	if o.LogLevel != "" {
		opts.LogLevel = o.LogLevel
	}
	return opts
}

// settings are the validated run settings.
type settings struct {
	outgroup  []string
	resolver  reroot.Resolver
	ladderize bool
	analysis  composition.Options
	output    string
	logLevel  string
}

// Defaults for the values not set anywhere.
const (
	defaultOutput   = "tree.png"
	defaultLogLevel = "notice"
)

// settings validates the options. The console resolver reads
// answers from in and writes prompts to out.
func (opts options) settings(in io.Reader, out io.Writer) (*settings, error) {
	s := &settings{
		ladderize: !opts.NoLadderize,
		output:    opts.Output,
		logLevel:  opts.LogLevel,
	}
	if s.output == "" {
		s.output = defaultOutput
	}
	if s.logLevel == "" {
		s.logLevel = defaultLogLevel
	}

	if opts.Outgroup != "" {
		for _, name := range strings.Split(opts.Outgroup, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("empty name in outgroup %q", opts.Outgroup)
			}
			s.outgroup = append(s.outgroup, name)
		}
	}

	switch {
	case opts.Ingroup != "":
		s.resolver = reroot.StaticResolver(opts.Ingroup)
	case opts.NonInteractive:
		s.resolver = nil
	default:
		s.resolver = newConsoleResolver(in, out)
	}

	if opts.Mode != "" {
		m, err := composition.ParseMode(opts.Mode)
		if err != nil {
			return nil, err
		}
		s.analysis.Mode = m
	}
	if opts.Subsets != "" {
		spec, err := composition.ParseSubsetSpec(opts.Subsets)
		if err != nil {
			return nil, err
		}
		s.analysis.Subsets = &spec
	}
	s.analysis.ChiSquare = opts.ChiSquare
	return s, nil
}
