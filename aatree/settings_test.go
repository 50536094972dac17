package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/aatree/composition"
	"bitbucket.org/Davydov/aatree/reroot"
	"bitbucket.org/Davydov/aatree/tree"
)

func init() {
	for _, m := range modules {
		logging.SetLevel(logging.WARNING, m)
	}
}

const config1 = `
outgroup = "FLY,LOCUST"
mode = "relative"
subsets = "fymink,garp"
chi2 = true
`

func writeConfig(tst *testing.T, s string) string {
	fn := filepath.Join(tst.TempDir(), "aatree.toml")
	if err := os.WriteFile(fn, []byte(s), 0644); err != nil {
		tst.Fatal(err)
	}
	return fn
}

func TestReadOptions(tst *testing.T) {
	opts, err := readOptions(writeConfig(tst, config1))
	if err != nil {
		tst.Fatal("Error reading config:", err)
	}
	if opts.Outgroup != "FLY,LOCUST" || opts.Mode != "relative" || !opts.ChiSquare {
		tst.Error("Wrong options:", opts)
	}

	s, err := opts.settings(strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		tst.Fatal("Error validating:", err)
	}
	if len(s.outgroup) != 2 || s.outgroup[1] != "LOCUST" {
		tst.Error("Wrong outgroup:", s.outgroup)
	}
	if s.analysis.Mode != composition.RelativeMode {
		tst.Error("Wrong mode:", s.analysis.Mode)
	}
	if s.analysis.Subsets == nil || s.analysis.Subsets.A != "FYMINK" || s.analysis.Subsets.B != "GARP" {
		tst.Error("Wrong subsets:", s.analysis.Subsets)
	}
	if s.output != defaultOutput || s.logLevel != defaultLogLevel {
		tst.Error("Wrong defaults:", s.output, s.logLevel)
	}
	if _, ok := s.resolver.(*consoleResolver); !ok {
		tst.Errorf("Expected console resolver, got %T", s.resolver)
	}
}

func TestReadOptionsUnknown(tst *testing.T) {
	if _, err := readOptions(writeConfig(tst, "outgrup = \"A\"\n")); err == nil {
		tst.Error("Expected an error for an unknown key")
	}
	if _, err := readOptions(writeConfig(tst, "outgroup = \n")); err == nil {
		tst.Error("Expected an error for a broken file")
	}
}

func TestOverride(tst *testing.T) {
	file := options{Outgroup: "A,B", Mode: "relative", Output: "a.svg"}
	flags := options{Outgroup: "C", Ingroup: "D"}
	opts := file.override(flags)
	if opts.Outgroup != "C" || opts.Mode != "relative" || opts.Output != "a.svg" || opts.Ingroup != "D" {
		tst.Error("Wrong override:", opts)
	}

	s, err := opts.settings(nil, nil)
	if err != nil {
		tst.Fatal(err)
	}
	if r, ok := s.resolver.(reroot.StaticResolver); !ok || string(r) != "D" {
		tst.Errorf("Expected static resolver, got %#v", s.resolver)
	}
}

func TestNonInteractive(tst *testing.T) {
	s, err := options{NonInteractive: true}.settings(nil, nil)
	if err != nil {
		tst.Fatal(err)
	}
	if s.resolver != nil {
		tst.Error("Expected no resolver, got", s.resolver)
	}
	if s.outgroup != nil {
		tst.Error("Expected no outgroup, got", s.outgroup)
	}
}

func TestSettingsErrors(tst *testing.T) {
	for _, opts := range []options{
		{Mode: "percent"},
		{Subsets: "FYMINK"},
		{Subsets: "FYMINK,GAXP"},
		{Outgroup: "A,,B"},
	} {
		if _, err := opts.settings(nil, nil); err == nil {
			tst.Error("Expected an error for", opts)
		}
	}
}

func TestPrepareTree(tst *testing.T) {
	t, err := tree.ParseNewick(strings.NewReader("((A:1,B:1):1,(C:1,D:1):1,E:1);"))
	if err != nil {
		tst.Fatal(err)
	}
	s, err := options{Outgroup: "C,D", NonInteractive: true}.settings(nil, nil)
	if err != nil {
		tst.Fatal(err)
	}
	summary := &RunSummary{}
	if err := prepareTree(t, s, summary); err != nil {
		tst.Fatal("Error preparing tree:", err)
	}
	if summary.StartingTree == summary.FinalTree {
		tst.Error("Tree was not rerooted:", summary.FinalTree)
	}
	root := t.Root()
	if len(root.ChildIds()) != 2 {
		tst.Fatal("Root is not bifurcating:", t)
	}
	found := false
	for _, child := range t.ChildNodes(root) {
		leaves := t.SubLeaves(child)
		if len(leaves) == 2 && leaves[0] == "C" && leaves[1] == "D" {
			found = true
		}
	}
	if !found {
		tst.Error("C,D is not a root clade:", t)
	}
}

func TestLadderizeSetting(tst *testing.T) {
	const input = "((A,B),(C,(D,E)),F);"

	opts, err := readOptions(writeConfig(tst, "no-ladderize = true\n"))
	if err != nil {
		tst.Fatal("Error reading config:", err)
	}
	for _, c := range []struct {
		opts options
		exp  string
	}{
		{options{NonInteractive: true}, "(F,(A,B),(C,(D,E)));"},
		{opts.override(options{NonInteractive: true}), input},
	} {
		s, err := c.opts.settings(nil, nil)
		if err != nil {
			tst.Fatal(err)
		}
		t, err := tree.ParseNewick(strings.NewReader(input))
		if err != nil {
			tst.Fatal(err)
		}
		summary := &RunSummary{}
		if err := prepareTree(t, s, summary); err != nil {
			tst.Fatal("Error preparing tree:", err)
		}
		if summary.FinalTree != c.exp {
			tst.Errorf("Expected %s, got %s", c.exp, summary.FinalTree)
		}
	}
}
