// Package splay implements a sequence editor on an implicit-key splay tree.
// A contiguous block of the sequence can be moved to a new offset in
// amortized O(log n) time: the tree is split at the block boundaries, the
// parts are glued back in their new order, and the position shift of every
// element in a moved part is recorded once on the part's root and pushed
// down lazily as nodes are visited.
package splay

import (
	"errors"
	"fmt"
)

// ErrCorrupt is returned by Check when the tree no longer satisfies its
// structural invariants.
var ErrCorrupt = errors.New("splay tree invariant violated")

// Tree is a fixed-length sequence of runes that supports block relocation.
// A Tree is not safe for concurrent use.
type Tree struct {
	nodes []node // nodes[0] is the sentinel
	root  index
}

// Len returns the number of elements in the sequence.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Process moves the elements at positions [i, j] so that they start at
// position k, shifting the elements in between to fill the gap.
//
// The caller must ensure 0 <= i <= j < Len() and 0 <= k <= Len()-(j-i+1);
// other arguments leave the tree in an unspecified state.
func (t *Tree) Process(i, j, k int) {
	if k == i {
		return
	}
	length := j - i + 1
	var b1, b2, b3, d2, d3 int
	if k > i {
		shift := k - i
		b1, b2, b3 = i, j+1, j+shift+1
		d2, d3 = shift, -length
	} else {
		shift := i - k
		b1, b2, b3 = k, i, j+1
		d2, d3 = length, -shift
	}

	r3, r4 := t.split(t.root, b3)
	r2, r3 := t.split(r3, b2)
	r1, r2 := t.split(r2, b1)

	t.shift(r2, d2)
	t.shift(r3, d3)
	t.correct(r2)
	t.correct(r3)

	t.root = t.merge(t.merge(t.merge(r1, r3), r2), r4)
}

// Result returns the current sequence in position order.
func (t *Tree) Result() []rune {
	out := make([]rune, 0, t.Len())
	t.walk(func(n *node) {
		out = append(out, n.value)
	})
	return out
}

// String returns the current sequence as a string.
func (t *Tree) String() string {
	return string(t.Result())
}

// Check verifies that parent links mirror child links, that every node is
// reachable from the root, and that the resolved positions in order are
// exactly 0..Len()-1.
func (t *Tree) Check() error {
	if t.root != none && t.at(t.root).parent != none {
		return fmt.Errorf("%w: root %d has parent %d", ErrCorrupt, t.root, t.at(t.root).parent)
	}
	for i := 1; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		for _, c := range []index{n.left, n.right} {
			if c != none && t.at(c).parent != index(i) {
				return fmt.Errorf("%w: child %d of %d points at parent %d", ErrCorrupt, c, i, t.at(c).parent)
			}
		}
	}

	want := 0
	var err error
	t.walk(func(n *node) {
		if err == nil && n.position != want {
			err = fmt.Errorf("%w: position %d found where %d was expected", ErrCorrupt, n.position, want)
		}
		want++
	})
	if err != nil {
		return err
	}
	if want != t.Len() {
		return fmt.Errorf("%w: reached %d of %d nodes", ErrCorrupt, want, t.Len())
	}
	return nil
}

// walk visits every node in order, resolving corrections before a node's
// subtrees are entered. It uses an explicit stack since a splay tree may be
// arbitrarily deep.
func (t *Tree) walk(visit func(*node)) {
	var stack []index
	cur := t.root
	for cur != none || len(stack) > 0 {
		for cur != none {
			t.correct(cur)
			stack = append(stack, cur)
			cur = t.at(cur).left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(t.at(cur))
		cur = t.at(cur).right
	}
}
