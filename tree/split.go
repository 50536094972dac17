package tree

import (
	"errors"
	"sort"
	"strings"
)

// Bipartitions returns the non-trivial leaf splits induced by the
// tree edges. Each split is keyed by the sorted names of the side
// which does not contain the alphabetically first leaf, so the keys
// do not depend on where the tree is rooted.
func (tree *Tree) Bipartitions() map[string]bool {
	all := tree.Leaves()
	sort.Strings(all)
	n := len(all)
	splits := make(map[string]bool)
	if n < 4 {
		return splits
	}
	first := all[0]

	for node := range tree.Walker(nil) {
		if node.IsRoot() {
			continue
		}
		side := tree.SubLeaves(node)
		if len(side) < 2 || len(side) > n-2 {
			continue
		}
		in := make(map[string]bool, len(side))
		for _, name := range side {
			in[name] = true
		}
		if in[first] {
			side = side[:0]
			for _, name := range all {
				if !in[name] {
					side = append(side, name)
				}
			}
		}
		sort.Strings(side)
		splits[strings.Join(side, ",")] = true
	}
	return splits
}

// RobinsonFoulds returns the number of bipartitions present in only
// one of the two trees. Both trees should have the same leaves.
func RobinsonFoulds(t1, t2 *Tree) (int, error) {
	l1 := t1.Leaves()
	l2 := t2.Leaves()
	if len(l1) != len(l2) {
		return 0, errors.New("trees have different number of leaves")
	}
	for _, name := range l1 {
		if _, ok := t2.leaves[name]; !ok {
			return 0, errors.New("trees have different leaves")
		}
	}

	s1 := t1.Bipartitions()
	s2 := t2.Bipartitions()
	d := 0
	for k := range s1 {
		if !s2[k] {
			d++
		}
	}
	for k := range s2 {
		if !s1[k] {
			d++
		}
	}
	return d, nil
}
