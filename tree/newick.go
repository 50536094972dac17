package tree

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type mode int

const (
	normal mode = iota
	length
)

// IsSpecial returns true for the newick punctuation characters.
func IsSpecial(c rune) bool {
	switch c {
	case '(', ')', ':', ';', ',':
		return true
	}
	return false
}

// NewickSplit is a bufio.SplitFunc returning newick tokens.
func NewickSplit(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	// Skip leading spaces; and return 1-char tokens.
	for width := 0; start < len(data); start += width {
		var r rune
		r, width = utf8.DecodeRune(data[start:])
		if IsSpecial(r) {
			return start + width, data[start : start+width], nil
		}
		if !unicode.IsSpace(r) {
			break
		}
	}
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// Scan until space or special character.
	for width, i := 0, start; i < len(data); i += width {
		var r rune
		r, width = utf8.DecodeRune(data[i:])
		if unicode.IsSpace(r) || IsSpecial(r) {
			return i, data[start:i], nil
		}
	}
	// If we're at EOF, we have a final, non-empty, non-terminated word. Return it.
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	// Request more data.
	return 0, nil, nil
}

// ParseNewick parses a newick tree from a reader. Names are accepted
// on leaves and on internal nodes, branch lengths are optional.
func ParseNewick(rd io.Reader) (*Tree, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Split(NewickSplit)

	tree := &Tree{}
	node := tree.newNode(NoParent)
	tree.root = node.Id

	m := normal
	tokens := 0

scan:
	for scanner.Scan() {
		text := scanner.Text()
		tokens++
		switch text {
		case "(":
			node = tree.newNode(node.Id)

		case ",":
			if node.IsRoot() {
				return nil, errors.New("top level comma mismatch")
			}
			node = tree.newNode(node.Parent)

		case ")":
			if node.IsRoot() {
				return nil, errors.New("brackets mismatch")
			}
			node = tree.nodes[node.Parent]
		case ":":
			m = length
		case ";":
			break scan
		default:
			switch m {
			case length:
				l, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return nil, err
				}
				node.BranchLength = l
				tree.lengths = true
				m = normal
			default:
				node.Name = text
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if tokens == 0 {
		return nil, errors.New("empty tree")
	}
	if !node.IsRoot() {
		return nil, errors.New("brackets mismatch")
	}
	tree.collapseRoot()

	if err := tree.reindex(); err != nil {
		return nil, err
	}
	return tree, nil
}

// collapseRoot removes unnamed roots with a single child, e.g. the
// outer brackets of ((A,B,C));.
func (tree *Tree) collapseRoot() {
	for {
		root := tree.nodes[tree.root]
		if root.Name != "" || len(root.children) != 1 {
			return
		}
		child := tree.nodes[root.children[0]]
		child.Parent = NoParent
		child.BranchLength = 0
		tree.nodes[root.Id] = nil
		tree.root = child.Id
	}
}
