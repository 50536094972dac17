package main

import (
	"fmt"
	"os"
	"sort"

	"bitbucket.org/Davydov/aatree/bio"
	"bitbucket.org/Davydov/aatree/composition"
	"bitbucket.org/Davydov/aatree/render"
	"bitbucket.org/Davydov/aatree/reroot"
	"bitbucket.org/Davydov/aatree/store"
	"bitbucket.org/Davydov/aatree/tree"
)

// result is what a command produced, nil fields were not computed.
type result struct {
	tree   *tree.Tree
	report *composition.Report
}

// readTree reads a newick tree from a file.
func readTree(fn string) (*tree.Tree, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := tree.ParseNewick(f)
	if err != nil {
		return nil, fmt.Errorf("while reading tree %q: %w", fn, err)
	}
	log.Infof("Read tree with %d leaves", t.NLeaves())
	log.Debugf("intree=%s", t)
	return t, nil
}

// readAlignment reads sequences in fasta format from a file.
func readAlignment(fn string) (bio.Sequences, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seqs, err := bio.ParseFasta(f)
	if err != nil {
		return nil, fmt.Errorf("while reading alignment %q: %w", fn, err)
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("no sequences in %q", fn)
	}
	log.Infof("Read alignment of %d sequences", len(seqs))
	return seqs, nil
}

// prepareTree roots the tree by the outgroup (if given) and
// ladderizes it.
func prepareTree(t *tree.Tree, s *settings, summary *RunSummary) error {
	summary.StartingTree = t.String()
	if len(s.outgroup) > 0 {
		if err := reroot.Reroot(t, s.outgroup, s.resolver); err != nil {
			return err
		}
		log.Infof("rooted=%s", t)
	}
	if s.ladderize {
		t.Ladderize()
	}
	log.Debug(t.FullString())
	summary.FinalTree = t.String()
	return nil
}

// writeTree writes the tree into --tree-out file.
func writeTree(t *tree.Tree) error {
	if *outTreeF == "" {
		return nil
	}
	f, err := os.Create(*outTreeF)
	if err != nil {
		return fmt.Errorf("error creating tree output file: %v", err)
	}
	defer f.Close()
	_, err = f.WriteString(t.String() + "\n")
	return err
}

func analyze(fn string, s *settings, summary *RunSummary) (*composition.Report, error) {
	seqs, err := readAlignment(fn)
	if err != nil {
		return nil, err
	}
	report, err := composition.Analyze(seqs, s.analysis)
	if err != nil {
		return nil, err
	}
	summary.Report = report
	return report, nil
}

// runDraw roots the tree, computes the composition and draws the
// image.
func runDraw(s *settings, summary *RunSummary) (res result, err error) {
	res.tree, err = readTree(*drawTree)
	if err != nil {
		return
	}
	if err = prepareTree(res.tree, s, summary); err != nil {
		return
	}
	if err = writeTree(res.tree); err != nil {
		return
	}
	res.report, err = analyze(*drawAlignment, s, summary)
	if err != nil {
		return
	}

	p, err := render.Draw(res.tree, res.report, render.Options{})
	if err != nil {
		return
	}
	if err = render.Save(p, res.tree.NLeaves(), s.output, render.Options{}); err != nil {
		return
	}
	summary.Output = s.output
	return
}

// runStats prints the composition table to stdout.
func runStats(s *settings, summary *RunSummary) (res result, err error) {
	res.report, err = analyze(*statsAlignment, s, summary)
	if err != nil {
		return
	}
	err = res.report.WriteTable(os.Stdout)
	return
}

// runReroot prints the rooted tree to stdout.
func runReroot(s *settings, summary *RunSummary) (res result, err error) {
	if len(s.outgroup) == 0 && !*unroot {
		log.Warning("No outgroup given, the tree is not rerooted")
	}
	res.tree, err = readTree(*rerootTree)
	if err != nil {
		return
	}
	if err = prepareTree(res.tree, s, summary); err != nil {
		return
	}
	if *unroot {
		if _, err = res.tree.Unroot(); err != nil {
			return
		}
		log.Infof("unrooted=%s", res.tree)
		summary.FinalTree = res.tree.String()
	}
	if err = writeTree(res.tree); err != nil {
		return
	}
	fmt.Println(res.tree)
	return
}

// runCompare prints the Robinson-Foulds distance between two trees
// followed by the splits found in only one of them.
func runCompare(fn1, fn2 string, summary *RunSummary) error {
	t1, err := readTree(fn1)
	if err != nil {
		return err
	}
	t2, err := readTree(fn2)
	if err != nil {
		return err
	}
	d, err := tree.RobinsonFoulds(t1, t2)
	if err != nil {
		return err
	}
	summary.Distance = &d
	fmt.Println(d)

	s1 := t1.Bipartitions()
	s2 := t2.Bipartitions()
	for _, c := range []struct {
		prefix string
		a, b   map[string]bool
	}{{"<", s1, s2}, {">", s2, s1}} {
		for _, split := range sortedKeys(c.a) {
			if !c.b[split] {
				fmt.Println(c.prefix, split)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runShow prints the database content.
func runShow(fn string) error {
	db, err := store.Open(fn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Dump(os.Stdout); err != nil {
		return err
	}

	t, err := db.Tree()
	if err != nil {
		return fmt.Errorf("stored tree is broken: %w", err)
	}
	if t != nil {
		log.Noticef("Stored tree has %d leaves, rooted=%v", t.NLeaves(), t.IsRooted())
	}
	return nil
}

// saveResults saves the tree, the report and the summary into the
// database.
func saveResults(fn string, res result, summary *RunSummary) error {
	db, err := store.Open(fn)
	if err != nil {
		return err
	}
	defer db.Close()

	if res.tree != nil {
		if err := db.SaveTree(res.tree); err != nil {
			return err
		}
	}
	if res.report != nil {
		if err := db.SaveReport(res.report); err != nil {
			return err
		}
	}
	return db.SaveSummary(summary)
}
