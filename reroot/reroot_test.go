package reroot

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/aatree/tree"
)

const (
	// rooted between vertebrates and invertebrates
	scenarioRooted = "((((HUMAN:0.1,MOUSE:0.12):0.05,CHICKEN:0.2):0.08,(FROG:0.25,ZEBRAFISH:0.3):0.06):0.1,((FLY:0.3,LOCUST:0.28):0.07,(BRINESHR:0.35,NEMATODE:0.4):0.09):0.1);"
	// same topology, unrooted with HUMAN and MOUSE at the top level
	scenarioUnrooted = "(HUMAN:0.1,MOUSE:0.12,(CHICKEN:0.2,((FROG:0.25,ZEBRAFISH:0.3):0.06,((FLY:0.3,LOCUST:0.28):0.07,(BRINESHR:0.35,NEMATODE:0.4):0.09):0.2):0.08):0.05);"
	// every root child has an outgroup leaf for {A, B}
	ambiguous = "((A:1,X:1):1,(B:1,Y:1):1);"
)

func init() {
	logging.SetLevel(logging.ERROR, "reroot")
}

func parse(tst *testing.T, s string) *tree.Tree {
	t, err := tree.ParseNewick(bytes.NewBufferString(s))
	if err != nil {
		tst.Fatal("Error parsing tree", err)
	}
	return t
}

// isOutgroup checks if one of the root children has exactly the
// given leaves.
func isOutgroup(t *tree.Tree, names []string) bool {
	exp := append([]string(nil), names...)
	sort.Strings(exp)
	for _, child := range t.ChildNodes(t.Root()) {
		leaves := t.SubLeaves(child)
		sort.Strings(leaves)
		if strings.Join(leaves, ",") == strings.Join(exp, ",") {
			return true
		}
	}
	return false
}

func noResolver(tst *testing.T) Resolver {
	return ResolverFunc(func([]string) (string, error) {
		tst.Error("Resolver should not be called")
		return "", errors.New("unexpected call")
	})
}

func TestRerootClade(tst *testing.T) {
	t := parse(tst, scenarioRooted)
	outgroup := []string{"FLY", "LOCUST"}
	if err := Reroot(t, outgroup, noResolver(tst)); err != nil {
		tst.Fatal("Error rerooting:", err)
	}
	tst.Log("Rerooted:", t)
	if !isOutgroup(t, outgroup) {
		tst.Error("Outgroup is not monophyletic:", t)
	}
	if d, _ := tree.RobinsonFoulds(t, parse(tst, scenarioRooted)); d != 0 {
		tst.Error("Rerooting changed topology, RF =", d)
	}
}

func TestRerootRootAncestor(tst *testing.T) {
	t := parse(tst, scenarioUnrooted)
	outgroup := []string{"HUMAN", "MOUSE"}
	anc, _ := t.CommonAncestor(outgroup...)
	if !t.IsCurrentRoot(anc) {
		tst.Fatal("Test tree should have the ancestor at the root")
	}
	if err := Reroot(t, outgroup, noResolver(tst)); err != nil {
		tst.Fatal("Error rerooting:", err)
	}
	tst.Log("Rerooted:", t)
	if !isOutgroup(t, outgroup) {
		tst.Error("Outgroup is not monophyletic:", t)
	}
	if d, _ := tree.RobinsonFoulds(t, parse(tst, scenarioRooted)); d != 0 {
		tst.Error("Rerooting changed topology, RF =", d)
	}
}

func TestRerootIdempotent(tst *testing.T) {
	for _, outgroup := range [][]string{
		{"FLY", "LOCUST"},
		{"HUMAN", "MOUSE"},
		{"NEMATODE"},
		{"FLY", "LOCUST", "BRINESHR", "NEMATODE"},
	} {
		t := parse(tst, scenarioRooted)
		if err := Reroot(t, outgroup, noResolver(tst)); err != nil {
			tst.Fatal("Error rerooting:", err)
		}
		once := t.Copy()
		if err := Reroot(t, outgroup, noResolver(tst)); err != nil {
			tst.Fatal("Error rerooting:", err)
		}
		if t.String() != once.String() {
			tst.Errorf("Second reroot with %v changed the tree:\n%s\n%s", outgroup, once, t)
		}
		if d, _ := tree.RobinsonFoulds(t, once); d != 0 {
			tst.Error("Second reroot changed topology, RF =", d)
		}
	}
}

func TestRerootStartIndependent(tst *testing.T) {
	outgroup := []string{"BRINESHR", "NEMATODE"}

	var starts []*tree.Tree
	starts = append(starts, parse(tst, scenarioRooted), parse(tst, scenarioUnrooted))
	for _, name := range []string{"HUMAN", "FROG", "LOCUST", "CHICKEN"} {
		t := parse(tst, scenarioRooted)
		leaf, _ := t.Leaf(name)
		if err := t.SetOutgroup(leaf.Id); err != nil {
			tst.Fatal("Error rooting:", err)
		}
		starts = append(starts, t)
	}
	unrooted := parse(tst, scenarioRooted)
	if _, err := unrooted.Unroot(); err != nil {
		tst.Fatal("Error unrooting:", err)
	}
	starts = append(starts, unrooted)

	var res []*tree.Tree
	for _, t := range starts {
		if err := Reroot(t, outgroup, nil); err != nil {
			tst.Fatal("Error rerooting", t, err)
		}
		if !isOutgroup(t, outgroup) {
			tst.Error("Outgroup is not monophyletic:", t)
		}
		res = append(res, t)
	}
	for i := 1; i < len(res); i++ {
		d, err := tree.RobinsonFoulds(res[0], res[i])
		if err != nil || d != 0 {
			tst.Errorf("Results differ: %s %s (RF=%d, %v)", res[0], res[i], d, err)
		}
	}
}

func TestRerootSingle(tst *testing.T) {
	for _, start := range []string{scenarioRooted, scenarioUnrooted, ambiguous} {
		t := parse(tst, start)
		name := t.Leaves()[0]
		if err := Reroot(t, []string{name}, noResolver(tst)); err != nil {
			tst.Fatal("Error rerooting:", err)
		}
		if !isOutgroup(t, []string{name}) {
			tst.Error("Leaf is not the outgroup:", t)
		}
		if !t.IsRooted() {
			tst.Error("Tree should be rooted:", t)
		}
	}
}

func TestRerootAmbiguousAborted(tst *testing.T) {
	t := parse(tst, ambiguous)
	err := Reroot(t, []string{"A", "B"}, nil)
	if !errors.Is(err, ErrAmbiguousRootingAborted) {
		tst.Error("Expected aborted rooting, got", err)
	}

	failing := ResolverFunc(func([]string) (string, error) {
		return "", errors.New("non-interactive")
	})
	err = Reroot(t, []string{"A", "B"}, failing)
	if !errors.Is(err, ErrAmbiguousRootingAborted) {
		tst.Error("Expected aborted rooting, got", err)
	}
}

func TestRerootAmbiguousResolved(tst *testing.T) {
	t := parse(tst, ambiguous)
	outgroup := []string{"A", "B"}
	if err := Reroot(t, outgroup, StaticResolver("X")); err != nil {
		tst.Fatal("Error rerooting:", err)
	}
	tst.Log("Rerooted:", t)
	anc, _ := t.CommonAncestor(outgroup...)
	if t.IsCurrentRoot(anc) {
		tst.Error("Common ancestor is still the root:", t)
	}
	if t.String() != "(X:0.5,(A:1,(B:1,Y:1):2):0.5);" {
		tst.Error("Unexpected tree:", t)
	}
}

func TestRerootAmbiguousRetry(tst *testing.T) {
	answers := []string{"NOPE", "A", "Y"}
	calls := 0
	resolver := ResolverFunc(func([]string) (string, error) {
		a := answers[calls]
		calls++
		return a, nil
	})
	t := parse(tst, ambiguous)
	if err := Reroot(t, []string{"A", "B"}, resolver); err != nil {
		tst.Fatal("Error rerooting:", err)
	}
	if calls != 3 {
		tst.Error("Expected 3 resolver calls, got", calls)
	}

	calls = 0
	always := ResolverFunc(func([]string) (string, error) {
		calls++
		return "B", nil
	})
	err := Reroot(parse(tst, ambiguous), []string{"A", "B"}, always)
	if !errors.Is(err, ErrInvalidIngroup) {
		tst.Error("Expected invalid ingroup, got", err)
	}
	if calls != MaxAttempts {
		tst.Error("Expected", MaxAttempts, "calls, got", calls)
	}
}

func TestRerootUnaryRoot(tst *testing.T) {
	for _, outgroup := range [][]string{{"A"}, {"B", "C"}} {
		t := parse(tst, "((A:1,B:1,C:1):1);")
		if err := Reroot(t, outgroup, nil); err != nil {
			tst.Fatal("Error rerooting:", outgroup, err)
		}
		if !isOutgroup(t, outgroup) {
			tst.Error("Outgroup is not a root clade:", outgroup, t)
		}
		if len(t.Leaves()) != 3 || t.NLeaves() != 3 {
			tst.Error("Wrong leaves:", t.Leaves())
		}
		for _, node := range t.NodeIDArray() {
			if node != nil && node.IsTerminal() && node.Name == "" {
				tst.Error("Unnamed leaf left in", t)
			}
		}
	}
}

func TestRerootErrors(tst *testing.T) {
	t := parse(tst, scenarioRooted)
	if err := Reroot(t, nil, nil); !errors.Is(err, ErrEmptyOutgroup) {
		tst.Error("Expected empty outgroup error, got", err)
	}
	if err := Reroot(t, []string{"HUMAN", "DOG"}, nil); !errors.Is(err, ErrUnknownOutgroup) {
		tst.Error("Expected unknown outgroup error, got", err)
	}
	if err := Reroot(t, []string{"HUMAN", "HUMAN"}, nil); !errors.Is(err, ErrDuplicateOutgroup) {
		tst.Error("Expected duplicate outgroup error, got", err)
	}
	if t.String() != parse(tst, scenarioRooted).String() {
		tst.Error("Failed reroot changed the tree")
	}
}
