// Package reroot roots a tree so that a set of leaves forms the
// outgroup.
//
// When the common ancestor of the outgroup is already the root, the
// tree is first rooted on an ingroup leaf. The leaf is taken from the
// first child of the root which has no outgroup leaves; if there is
// no such child, it is requested from a Resolver.
package reroot

import (
	"errors"
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/aatree/tree"
)

// log is the global logging variable.
var log = logging.MustGetLogger("reroot")

// MaxAttempts is the number of times an invalid ingroup answer is
// re-requested from a Resolver.
const MaxAttempts = 5

var (
	// ErrEmptyOutgroup is returned for an empty outgroup.
	ErrEmptyOutgroup = errors.New("empty outgroup")
	// ErrUnknownOutgroup is returned when an outgroup name is not a
	// leaf of the tree.
	ErrUnknownOutgroup = errors.New("outgroup not found in tree")
	// ErrDuplicateOutgroup is returned when a name is repeated.
	ErrDuplicateOutgroup = errors.New("duplicate outgroup name")
	// ErrAmbiguousRootingAborted is returned when the ingroup is
	// needed but cannot be obtained.
	ErrAmbiguousRootingAborted = errors.New("common ancestor is root, no ingroup supplied")
	// ErrInvalidIngroup is returned after MaxAttempts invalid
	// ingroup answers.
	ErrInvalidIngroup = errors.New("invalid ingroup")
)

// Resolver supplies an ingroup leaf name when the outgroup cannot be
// rooted automatically. An error means no leaf can be supplied.
type Resolver interface {
	Ingroup(outgroup []string) (string, error)
}

// ResolverFunc is a function implementing Resolver.
type ResolverFunc func(outgroup []string) (string, error)

// Ingroup calls f.
func (f ResolverFunc) Ingroup(outgroup []string) (string, error) {
	return f(outgroup)
}

// StaticResolver always answers with the same leaf name.
type StaticResolver string

// Ingroup returns the leaf name.
func (r StaticResolver) Ingroup([]string) (string, error) {
	return string(r), nil
}

// Reroot roots t so that the outgroup leaves are on one side of the
// root. A nil resolver means the ambiguous case fails with
// ErrAmbiguousRootingAborted.
func Reroot(t *tree.Tree, outgroup []string, resolver Resolver) error {
	set, err := validate(t, outgroup)
	if err != nil {
		return err
	}

	if len(outgroup) == 1 {
		leaf, err := t.Leaf(outgroup[0])
		if err != nil {
			return err
		}
		log.Debugf("Single taxon outgroup: %s", leaf.Name)
		return setOutgroup(t, leaf)
	}

	ancestor, err := t.CommonAncestor(outgroup...)
	if err != nil {
		return err
	}

	if t.IsCurrentRoot(ancestor) {
		log.Info("Common ancestor is root, taking a detour")
		pivot, err := findPivot(t, ancestor, outgroup, set, resolver)
		if err != nil {
			return err
		}
		log.Infof("Rooting on ingroup taxon %s first", pivot.Name)
		if err := setOutgroup(t, pivot); err != nil {
			return err
		}
		ancestor, err = t.CommonAncestor(outgroup...)
		if err != nil {
			return err
		}
		if t.IsCurrentRoot(ancestor) {
			return fmt.Errorf("common ancestor is still the root after rooting on %s", pivot.Name)
		}
	}

	return setOutgroup(t, ancestor)
}

// validate checks outgroup names and returns them as a set.
func validate(t *tree.Tree, outgroup []string) (map[string]bool, error) {
	if len(outgroup) == 0 {
		return nil, ErrEmptyOutgroup
	}
	leaves := make(map[string]bool, t.NLeaves())
	for _, name := range t.Leaves() {
		leaves[name] = true
	}
	set := make(map[string]bool, len(outgroup))
	for _, name := range outgroup {
		if !leaves[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOutgroup, name)
		}
		if set[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOutgroup, name)
		}
		set[name] = true
	}
	return set, nil
}

// setOutgroup roots on the branch above node. A tree rooted on a leaf
// is turned around first.
func setOutgroup(t *tree.Tree, node *tree.Node) error {
	if node.IsRoot() {
		if node.IsTerminal() {
			return errors.New("cannot root a single-node tree")
		}
		if err := t.SetRoot(node.ChildIds()[0]); err != nil {
			return err
		}
	}
	return t.SetOutgroup(node.Id)
}

// findPivot returns an ingroup leaf: the first leaf of the first root
// child without outgroup leaves, or else the resolver answer.
func findPivot(t *tree.Tree, root *tree.Node, outgroup []string,
	set map[string]bool, resolver Resolver) (*tree.Node, error) {
	for _, child := range t.ChildNodes(root) {
		leaves := t.SubLeaves(child)
		if disjoint(leaves, set) {
			return t.Leaf(leaves[0])
		}
	}

	if resolver == nil {
		return nil, ErrAmbiguousRootingAborted
	}
	for i := 0; i < MaxAttempts; i++ {
		name, err := resolver.Ingroup(outgroup)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAmbiguousRootingAborted, err)
		}
		if set[name] {
			log.Warningf("%s is an outgroup taxon", name)
			continue
		}
		leaf, err := t.Leaf(name)
		if err != nil {
			log.Warningf("%s is not a part of the tree", name)
			continue
		}
		return leaf, nil
	}
	return nil, fmt.Errorf("%w: no valid answer after %d attempts", ErrInvalidIngroup, MaxAttempts)
}

func disjoint(leaves []string, set map[string]bool) bool {
	for _, name := range leaves {
		if set[name] {
			return false
		}
	}
	return true
}
