package splay

// rotate lifts x above its parent, keeping in-order sequence intact. The inner
// child of x moves under the old parent. Pending corrections are not touched:
// callers resolve every node on the access path before rotating.
func (t *Tree) rotate(x index) {
	xn := t.at(x)
	p := xn.parent
	pn := t.at(p)
	g := pn.parent

	if pn.left == x {
		inner := xn.right
		pn.left = inner
		t.setParent(inner, p)
		xn.right = p
	} else {
		inner := xn.left
		pn.right = inner
		t.setParent(inner, p)
		xn.left = p
	}
	pn.parent = x
	xn.parent = g

	if g != none {
		gn := t.at(g)
		if gn.left == p {
			gn.left = x
		} else {
			gn.right = x
		}
	}
}

// splay moves x to the root of the tree that contains it and returns x.
func (t *Tree) splay(x index) index {
	if x == none {
		return none
	}
	for {
		p := t.at(x).parent
		if p == none {
			return x
		}
		if t.at(p).parent == none {
			// zig
			t.rotate(x)
			return x
		}
		if t.isLeftChild(x) == t.isLeftChild(p) {
			// zig-zig
			t.rotate(p)
			t.rotate(x)
		} else {
			// zig-zag
			t.rotate(x)
			t.rotate(x)
		}
	}
}
