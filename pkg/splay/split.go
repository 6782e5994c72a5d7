package splay

// find searches the tree rooted at root for the node with the smallest
// position >= key, resolving corrections on the way down. The last visited
// node is splayed to the root so that misses are paid for as well; the new
// root is returned next to the target, which is none when every position is
// below key.
func (t *Tree) find(root index, key int) (target, newRoot index) {
	last := root
	for cur := root; cur != none; {
		t.correct(cur)
		n := t.at(cur)
		if n.position >= key && (target == none || n.position < t.at(target).position) {
			target = cur
		}
		last = cur
		if n.position == key {
			break
		}
		if n.position < key {
			cur = n.right
		} else {
			cur = n.left
		}
	}
	return target, t.splay(last)
}

// split cuts the tree rooted at root into positions < key and positions >= key.
func (t *Tree) split(root index, key int) (left, right index) {
	if root == none {
		return none, none
	}
	target, root := t.find(root, key)
	if target == none {
		return root, none
	}
	right = t.splay(target)
	rn := t.at(right)
	left = rn.left
	rn.left = none
	t.setParent(left, none)
	return left, right
}

// merge joins two trees where every position in left is below every position
// in right. The minimum of right becomes the new root.
func (t *Tree) merge(left, right index) index {
	if left == none {
		return right
	}
	if right == none {
		return left
	}
	lowest := right
	for {
		t.correct(lowest)
		next := t.at(lowest).left
		if next == none {
			break
		}
		lowest = next
	}
	root := t.splay(lowest)
	t.at(root).left = left
	t.setParent(left, root)
	return root
}
