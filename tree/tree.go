// Package tree implements phylogenetic trees, newick input and output
// and the rerooting primitives. Nodes are kept in an arena and refer
// to each other by id, so rerooting only rewrites ids.
package tree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NoParent is the parent id of the root node.
const NoParent = -1

var (
	// ErrUnknownLeaf is returned when a leaf name is not in the tree.
	ErrUnknownLeaf = errors.New("unknown leaf")
	// ErrDuplicateLeaf is returned when two leaves share a name.
	ErrDuplicateLeaf = errors.New("duplicate leaf name")
)

// Node is a tree node. Children and parent are node ids in the
// owning tree.
type Node struct {
	Name         string
	BranchLength float64
	Id           int
	Parent       int
	children     []int
}

// ChildIds returns the ids of the node children.
func (node *Node) ChildIds() []int {
	return node.children
}

// IsRoot returns true if the node has no parent.
func (node *Node) IsRoot() bool {
	return node.Parent == NoParent
}

// IsTerminal returns true if the node has no children.
func (node *Node) IsTerminal() bool {
	return len(node.children) == 0
}

// Copy creates copy of node with empty parent and children.
func (node *Node) Copy() *Node {
	return &Node{
		Name:         node.Name,
		BranchLength: node.BranchLength,
		Id:           node.Id,
		Parent:       NoParent,
		children:     make([]int, 0, len(node.children)),
	}
}

// LongString returns a one-line description of the node.
func (node *Node) LongString() (s string) {
	s = "<"
	if node.IsRoot() {
		s += "root, "
	}
	if node.Name != "" {
		s += "name=" + node.Name + ", "
	}
	s += fmt.Sprintf("Id=%v, BranchLength=%v", node.Id, node.BranchLength)
	s += ">"
	return
}

// Tree is a tree stored as an arena of nodes. Detached nodes leave a
// nil slot, so node ids stay stable through rerooting.
type Tree struct {
	nodes   []*Node
	root    int
	leaves  map[string]int
	order   []string
	lengths bool
}

// newNode appends a node to the arena. If parent is not NoParent the
// node is added as its last child.
func (tree *Tree) newNode(parent int) *Node {
	node := &Node{Id: len(tree.nodes), Parent: NoParent}
	tree.nodes = append(tree.nodes, node)
	if parent != NoParent {
		tree.addChild(parent, node.Id)
	}
	return node
}

func (tree *Tree) addChild(parent, child int) {
	p := tree.nodes[parent]
	p.children = append(p.children, child)
	tree.nodes[child].Parent = parent
}

// removeChild only edits the children list; the caller fixes the
// parent field of child.
func (tree *Tree) removeChild(parent, child int) {
	p := tree.nodes[parent]
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (tree *Tree) replaceChild(parent, old, new int) {
	p := tree.nodes[parent]
	for i, c := range p.children {
		if c == old {
			p.children[i] = new
			tree.nodes[new].Parent = parent
			return
		}
	}
}

// Root returns the root node.
func (tree *Tree) Root() *Node {
	return tree.nodes[tree.root]
}

// IsCurrentRoot returns true if node is the root of the tree.
func (tree *Tree) IsCurrentRoot(node *Node) bool {
	return node != nil && node.Id == tree.root
}

// Node returns node by id, nil if there is no such node.
func (tree *Tree) Node(id int) *Node {
	if id < 0 || id >= len(tree.nodes) {
		return nil
	}
	return tree.nodes[id]
}

// NodeIDArray returns the node arena indexed by node id. Slots of
// removed nodes are nil.
func (tree *Tree) NodeIDArray() []*Node {
	return tree.nodes
}

// ChildNodes returns the children of a node.
func (tree *Tree) ChildNodes(node *Node) []*Node {
	res := make([]*Node, len(node.children))
	for i, id := range node.children {
		res[i] = tree.nodes[id]
	}
	return res
}

// IsLeaf returns true for terminal nodes and for a named root with a
// single child (a tree rooted on a leaf).
func (tree *Tree) IsLeaf(node *Node) bool {
	if node.IsTerminal() {
		return true
	}
	return node.IsRoot() && len(node.children) == 1 && node.Name != ""
}

// NNodes returns the number of nodes reachable from the root.
func (tree *Tree) NNodes() int {
	return tree.nSubNodes(tree.root)
}

func (tree *Tree) nSubNodes(id int) (size int) {
	for _, c := range tree.nodes[id].children {
		size += tree.nSubNodes(c)
	}
	return size + 1
}

// NLeaves returns the number of leaves.
func (tree *Tree) NLeaves() int {
	return len(tree.order)
}

// Walker returns a channel with all the nodes passing the filter in
// preorder.
func (tree *Tree) Walker(filter func(*Node) bool) <-chan *Node {
	ch := make(chan *Node, tree.NNodes())
	tree.walk(tree.root, ch, filter)
	close(ch)
	return ch
}

func (tree *Tree) walk(id int, ch chan *Node, filter func(*Node) bool) {
	node := tree.nodes[id]
	if filter == nil || filter(node) {
		ch <- node
	}
	for _, c := range node.children {
		tree.walk(c, ch, filter)
	}
}

// Terminals returns a channel with all the leaves.
func (tree *Tree) Terminals() <-chan *Node {
	return tree.Walker(tree.IsLeaf)
}

// NonTerminals returns a channel with all the internal nodes.
func (tree *Tree) NonTerminals() <-chan *Node {
	return tree.Walker(func(node *Node) bool {
		return !tree.IsLeaf(node)
	})
}

// reindex rebuilds the leaf index. It has to be called after every
// change of the tree structure.
func (tree *Tree) reindex() error {
	tree.leaves = make(map[string]int, len(tree.order))
	tree.order = tree.order[:0]
	for node := range tree.Terminals() {
		if node.Name == "" {
			return fmt.Errorf("unnamed leaf (id=%d)", node.Id)
		}
		if _, ok := tree.leaves[node.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateLeaf, node.Name)
		}
		tree.leaves[node.Name] = node.Id
		tree.order = append(tree.order, node.Name)
	}
	return nil
}

// Leaves returns leaf names in preorder.
func (tree *Tree) Leaves() []string {
	res := make([]string, len(tree.order))
	copy(res, tree.order)
	return res
}

// Leaf returns the leaf node with the given name.
func (tree *Tree) Leaf(name string) (*Node, error) {
	id, ok := tree.leaves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLeaf, name)
	}
	return tree.nodes[id], nil
}

// SubLeaves returns names of the leaves below node (including node
// itself if it is a leaf).
func (tree *Tree) SubLeaves(node *Node) (names []string) {
	ch := make(chan *Node, tree.nSubNodes(node.Id))
	tree.walk(node.Id, ch, tree.IsLeaf)
	close(ch)
	for n := range ch {
		names = append(names, n.Name)
	}
	return
}

// Copy creates independent copy of the tree.
func (tree *Tree) Copy() *Tree {
	newTree := &Tree{
		nodes:   make([]*Node, len(tree.nodes)),
		root:    tree.root,
		lengths: tree.lengths,
	}

	// Create node list.
	for i, node := range tree.nodes {
		if node == nil {
			continue
		}
		if i != node.Id {
			panic("node id mismatch")
		}
		newTree.nodes[i] = node.Copy()
	}

	// Rewire node/parent connections.
	for i, node := range tree.nodes {
		if node == nil {
			continue
		}
		for _, child := range node.children {
			newTree.addChild(i, child)
		}
	}

	if err := newTree.reindex(); err != nil {
		panic(err)
	}
	return newTree
}

// String returns the tree in newick format.
func (tree *Tree) String() string {
	return tree.nodeString(tree.root) + ";"
}

func (tree *Tree) nodeString(id int) (s string) {
	node := tree.nodes[id]
	if len(node.children) > 0 {
		parts := make([]string, len(node.children))
		for i, c := range node.children {
			parts[i] = tree.nodeString(c)
		}
		s = "(" + strings.Join(parts, ",") + ")"
	}
	s += node.Name
	if tree.lengths && !node.IsRoot() {
		s += ":" + strconv.FormatFloat(node.BranchLength, 'f', -1, 64)
	}
	return
}

// FullString returns an indented representation of the tree, one
// node per line.
func (tree *Tree) FullString() string {
	return strings.TrimSpace(tree.prefixString(tree.root, ""))
}

func (tree *Tree) prefixString(id int, prefix string) (s string) {
	node := tree.nodes[id]
	s = prefix + node.LongString() + "\n"
	for _, c := range node.children {
		s += tree.prefixString(c, prefix+"    ")
	}
	return
}
