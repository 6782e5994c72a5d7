package utils

import "time"

// rankTree is a multiset of durations kept in a red-black tree. Equal samples
// share one node with a count, and every node knows how many samples its
// subtree holds, so the i-th smallest sample is found in O(log n).

const (
	colorRed   = 1
	colorBlack = 0
)

type rankNode struct {
	key                 time.Duration
	count               int
	size                int
	color               int
	left, right, parent *rankNode
}

type rankTree struct {
	root *rankNode
	len  int
}

func (rt *rankTree) Len() int {
	return rt.len
}

// Insert adds one sample.
func (rt *rankTree) Insert(key time.Duration) {
	if rt.root == nil {
		rt.root = &rankNode{key: key, count: 1, size: 1, color: colorBlack}
		rt.len++
		return
	}

	current := rt.root
	var parent *rankNode
	for current != nil {
		parent = current
		if key == current.key {
			current.count++
			rt.len++
			rt.recomputeSizes(current)
			return
		}
		if key < current.key {
			current = current.left
		} else {
			current = current.right
		}
	}

	n := &rankNode{key: key, count: 1, size: 1, color: colorRed, parent: parent}
	if key < parent.key {
		parent.left = n
	} else {
		parent.right = n
	}

	rt.recomputeSizes(n)
	rt.insertFixup(n)
	rt.len++
}

// Delete removes one sample equal to key, if any.
func (rt *rankTree) Delete(key time.Duration) {
	n := rt.find(key)
	if n == nil {
		return
	}
	rt.len--
	if n.count > 1 {
		n.count--
		rt.recomputeSizes(n)
		return
	}
	rt.deleteNode(n)
}

// Select returns the sample at 0-based rank index.
func (rt *rankTree) Select(index int) (time.Duration, bool) {
	if index < 0 || index >= rt.len {
		return 0, false
	}
	current := rt.root
	remaining := index
	for current != nil {
		leftSize := sizeOf(current.left)
		if remaining < leftSize {
			current = current.left
			continue
		}
		remaining -= leftSize
		if remaining < current.count {
			return current.key, true
		}
		remaining -= current.count
		current = current.right
	}
	return 0, false
}

func (rt *rankTree) find(key time.Duration) *rankNode {
	current := rt.root
	for current != nil && current.key != key {
		if key < current.key {
			current = current.left
		} else {
			current = current.right
		}
	}
	return current
}

func sizeOf(n *rankNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func (rt *rankTree) updateSize(n *rankNode) {
	if n != nil {
		n.size = n.count + sizeOf(n.left) + sizeOf(n.right)
	}
}

func (rt *rankTree) recomputeSizes(n *rankNode) {
	for current := n; current != nil; current = current.parent {
		rt.updateSize(current)
	}
}

func parentOf(n *rankNode) *rankNode {
	if n == nil {
		return nil
	}
	return n.parent
}

func colorOf(n *rankNode) int {
	if n == nil {
		return colorBlack
	}
	return n.color
}

// replaceChild points old's parent (or the root) at repl.
func (rt *rankTree) replaceChild(old, repl *rankNode) {
	switch {
	case old.parent == nil:
		rt.root = repl
	case old == old.parent.left:
		old.parent.left = repl
	default:
		old.parent.right = repl
	}
}

func (rt *rankTree) leftRotate(x *rankNode) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	rt.replaceChild(x, y)
	y.left = x
	x.parent = y

	rt.updateSize(x)
	rt.updateSize(y)
}

func (rt *rankTree) rightRotate(y *rankNode) {
	x := y.left
	y.left = x.right
	if x.right != nil {
		x.right.parent = y
	}
	x.parent = y.parent
	rt.replaceChild(y, x)
	x.right = y
	y.parent = x

	rt.updateSize(y)
	rt.updateSize(x)
}

func (rt *rankTree) insertFixup(z *rankNode) {
	for colorOf(z.parent) == colorRed {
		gp := z.parent.parent
		if z.parent == gp.left {
			uncle := gp.right
			if colorOf(uncle) == colorRed {
				z.parent.color = colorBlack
				uncle.color = colorBlack
				gp.color = colorRed
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				rt.leftRotate(z)
			}
			z.parent.color = colorBlack
			gp.color = colorRed
			rt.rightRotate(gp)
		} else {
			uncle := gp.left
			if colorOf(uncle) == colorRed {
				z.parent.color = colorBlack
				uncle.color = colorBlack
				gp.color = colorRed
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				rt.rightRotate(z)
			}
			z.parent.color = colorBlack
			gp.color = colorRed
			rt.leftRotate(gp)
		}
	}
	rt.root.color = colorBlack
}

// deleteNode unlinks z, whose count has already dropped to zero.
func (rt *rankTree) deleteNode(z *rankNode) {
	y := z
	if z.left != nil && z.right != nil {
		y = z.right
		for y.left != nil {
			y = y.left
		}
	}

	x := y.left
	if x == nil {
		x = y.right
	}
	xParent := y.parent
	if x != nil {
		x.parent = y.parent
	}
	rt.replaceChild(y, x)

	if y != z {
		z.key = y.key
		z.count = y.count
	}
	rt.recomputeSizes(xParent)

	if y.color == colorBlack {
		rt.deleteFixup(x, xParent)
	}
}

// deleteFixup restores the red-black properties after removing a black node.
// x may be nil, so its parent is tracked separately.
func (rt *rankTree) deleteFixup(x, parent *rankNode) {
	for x != rt.root && colorOf(x) == colorBlack {
		if x == parent.left {
			w := parent.right
			if colorOf(w) == colorRed {
				w.color = colorBlack
				parent.color = colorRed
				rt.leftRotate(parent)
				w = parent.right
			}
			if colorOf(w.left) == colorBlack && colorOf(w.right) == colorBlack {
				w.color = colorRed
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.right) == colorBlack {
				w.left.color = colorBlack
				w.color = colorRed
				rt.rightRotate(w)
				w = parent.right
			}
			w.color = parent.color
			parent.color = colorBlack
			if w.right != nil {
				w.right.color = colorBlack
			}
			rt.leftRotate(parent)
			x = rt.root
		} else {
			w := parent.left
			if colorOf(w) == colorRed {
				w.color = colorBlack
				parent.color = colorRed
				rt.rightRotate(parent)
				w = parent.left
			}
			if colorOf(w.right) == colorBlack && colorOf(w.left) == colorBlack {
				w.color = colorRed
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.left) == colorBlack {
				w.right.color = colorBlack
				w.color = colorRed
				rt.leftRotate(w)
				w = parent.left
			}
			w.color = parent.color
			parent.color = colorBlack
			if w.left != nil {
				w.left.color = colorBlack
			}
			rt.rightRotate(parent)
			x = rt.root
		}
	}
	if x != nil {
		x.color = colorBlack
	}
}
