package splay

// correct resolves the pending delta of x: x's position becomes exact and the
// delta moves down to its children, where it stays until they are visited.
// The sentinel never carries a delta, so correct(none) is a no-op.
func (t *Tree) correct(x index) {
	n := t.at(x)
	if !n.pending {
		return
	}
	t.shift(n.left, n.delta)
	t.shift(n.right, n.delta)
	n.position += n.delta
	n.pending = false
	n.delta = 0
}

// shift records delta as pending on x, on top of anything already pending.
func (t *Tree) shift(x index, delta int) {
	if x == none {
		return
	}
	n := t.at(x)
	if n.pending {
		n.delta += delta
		return
	}
	n.pending = true
	n.delta = delta
}
