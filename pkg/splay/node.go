package splay

// index addresses a node in the tree's arena. Slot 0 is reserved so the zero
// value means "no node".
type index int32

const none index = 0

// node is a single element of the sequence. position is only exact once every
// ancestor's pending correction has been pushed down.
type node struct {
	position            int
	value               rune
	left, right, parent index
	pending             bool
	delta               int
}

func (t *Tree) at(i index) *node {
	return &t.nodes[i]
}

func (t *Tree) isLeftChild(i index) bool {
	p := t.nodes[i].parent
	return p != none && t.nodes[p].left == i
}

func (t *Tree) setParent(child, parent index) {
	if child != none {
		t.nodes[child].parent = parent
	}
}
