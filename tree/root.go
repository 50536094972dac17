package tree

import (
	"errors"
	"fmt"
	"sort"
)

// pathToRoot returns node ids from id up to the root (inclusive).
func (tree *Tree) pathToRoot(id int) (path []int) {
	for ; id != NoParent; id = tree.nodes[id].Parent {
		path = append(path, id)
	}
	return
}

// CommonAncestor returns the smallest clade containing all the named
// leaves. For a single name the leaf itself is returned.
func (tree *Tree) CommonAncestor(names ...string) (*Node, error) {
	if len(names) == 0 {
		return nil, errors.New("no leaf names")
	}
	first, err := tree.Leaf(names[0])
	if err != nil {
		return nil, err
	}
	path := tree.pathToRoot(first.Id)
	pos := make(map[int]int, len(path))
	for i, id := range path {
		pos[id] = i
	}

	top := 0
	for _, name := range names[1:] {
		leaf, err := tree.Leaf(name)
		if err != nil {
			return nil, err
		}
		for id := leaf.Id; ; id = tree.nodes[id].Parent {
			if i, ok := pos[id]; ok {
				if i > top {
					top = i
				}
				break
			}
		}
	}
	return tree.nodes[path[top]], nil
}

// SetRoot makes node id the root by reversing the parent links on
// the path to the old root. Branch lengths stay on the same edges. If
// the old root is left with a single child it is removed and its two
// edges are merged.
func (tree *Tree) SetRoot(id int) error {
	node := tree.Node(id)
	if node == nil {
		return fmt.Errorf("no node with id=%d", id)
	}
	if id == tree.root {
		return nil
	}
	oldRoot := tree.root

	path := tree.pathToRoot(id)
	lengths := make([]float64, len(path)-1)
	for i := range lengths {
		lengths[i] = tree.nodes[path[i]].BranchLength
	}
	for i := 0; i < len(path)-1; i++ {
		child, parent := path[i], path[i+1]
		tree.removeChild(parent, child)
		tree.addChild(child, parent)
		tree.nodes[parent].BranchLength = lengths[i]
	}
	node.Parent = NoParent
	node.BranchLength = 0
	tree.root = id

	tree.suppress(oldRoot)
	return tree.reindex()
}

// suppress removes a non-root node with exactly one child, joining
// the edge above it with the edge below. An unnamed node without
// children is removed with its edge.
func (tree *Tree) suppress(id int) {
	node := tree.nodes[id]
	if node.IsRoot() {
		return
	}
	switch {
	case len(node.children) == 1:
		child := tree.nodes[node.children[0]]
		child.BranchLength += node.BranchLength
		tree.replaceChild(node.Parent, id, child.Id)
		tree.nodes[id] = nil
	case len(node.children) == 0 && node.Name == "":
		tree.removeChild(node.Parent, id)
		tree.nodes[id] = nil
	}
}

// SetOutgroup places the root on the branch above node id. The new
// root has two children: the node and the rest of the tree, the
// branch length is split in halves. It does nothing if the node is
// already a child of a bifurcating root.
func (tree *Tree) SetOutgroup(id int) error {
	node := tree.Node(id)
	if node == nil {
		return fmt.Errorf("no node with id=%d", id)
	}
	if node.IsRoot() {
		return fmt.Errorf("node id=%d is the root", id)
	}
	parent := node.Parent
	if parent == tree.root && len(tree.nodes[parent].children) == 2 {
		return nil
	}
	if err := tree.SetRoot(parent); err != nil {
		return err
	}

	l := node.BranchLength
	tree.removeChild(parent, id)
	root := tree.newNode(NoParent)
	tree.addChild(root.Id, id)
	tree.addChild(root.Id, parent)
	node.BranchLength = l / 2
	tree.nodes[parent].BranchLength = l / 2
	tree.root = root.Id

	tree.suppress(parent)
	return tree.reindex()
}

// IsRooted returns true if the root is bifurcating.
func (tree *Tree) IsRooted() bool {
	return len(tree.Root().children) == 2
}

// Unroot turns a bifurcating root into a multifurcation by merging
// the first internal child into the root. It returns the id of the
// node whose branch carried the root, so that RootOn can restore it.
func (tree *Tree) Unroot() (int, error) {
	root := tree.Root()
	if len(root.children) != 2 {
		return 0, errors.New("tree is not rooted")
	}
	pos := -1
	for i, c := range root.children {
		if !tree.nodes[c].IsTerminal() {
			pos = i
			break
		}
	}
	if pos < 0 {
		return 0, errors.New("cannot unroot a two-leaf tree")
	}
	merged := tree.nodes[root.children[pos]]
	other := tree.nodes[root.children[1-pos]]
	other.BranchLength += merged.BranchLength

	children := make([]int, 0, len(merged.children)+1)
	children = append(children, root.children[:pos]...)
	children = append(children, merged.children...)
	children = append(children, root.children[pos+1:]...)
	for _, c := range merged.children {
		tree.nodes[c].Parent = root.Id
	}
	root.children = children
	tree.nodes[merged.Id] = nil

	return other.Id, tree.reindex()
}

// RootOn roots the tree on the branch above node id.
func (tree *Tree) RootOn(id int) error {
	return tree.SetOutgroup(id)
}

// Ladderize sorts children of every node by the number of leaves
// below them, smallest first.
func (tree *Tree) Ladderize() {
	size := make(map[int]int, len(tree.nodes))
	var count func(id int) int
	count = func(id int) int {
		node := tree.nodes[id]
		if node.IsTerminal() {
			size[id] = 1
			return 1
		}
		n := 0
		for _, c := range node.children {
			n += count(c)
		}
		sort.SliceStable(node.children, func(i, j int) bool {
			return size[node.children[i]] < size[node.children[j]]
		})
		size[id] = n
		return n
	}
	count(tree.root)
	if err := tree.reindex(); err != nil {
		panic(err)
	}
}
