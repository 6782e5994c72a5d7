package splay

import "unicode/utf8"

// New builds a height-balanced tree over seq. Element p gets position p.
// The tree keeps its own copy of the elements.
func New(seq []rune) *Tree {
	t := &Tree{nodes: make([]node, len(seq)+1)}
	for p, r := range seq {
		t.nodes[p+1] = node{position: p, value: r}
	}
	t.root = t.build(none, 0, len(seq)-1)
	return t
}

// NewString builds a tree over the runes of s.
func NewString(s string) *Tree {
	seq := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		seq = append(seq, r)
	}
	return New(seq)
}

// build links the slots for positions [lo, hi] under parent and returns the
// subtree root. The arena slot for position p is p+1.
func (t *Tree) build(parent index, lo, hi int) index {
	if lo > hi {
		return none
	}
	mid := lo + (hi-lo)/2
	i := index(mid + 1)
	n := t.at(i)
	n.parent = parent
	n.left = t.build(i, lo, mid-1)
	n.right = t.build(i, mid+1, hi)
	return i
}
