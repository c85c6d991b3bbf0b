package bintree

func (t *Tree) markSubtree(idx int, used bool) {
	maxNode := t.MaxNode()
	width := 1

	for left := idx; left <= maxNode; left = LeftChild(left) {
		for i := left; i < left+width; i++ {
			if used {
				t.bitmap.Set(i)
			} else {
				t.bitmap.Clear(i)
			}
		}
		width <<= 1
	}
}

// UseSubtree marks idx and all of its descendants as used.
// Ancestors of idx are not touched, see SyncAncestors.
func (t *Tree) UseSubtree(idx int) {
	t.markSubtree(idx, true)
}

// FreeSubtree marks idx and all of its descendants as free.
func (t *Tree) FreeSubtree(idx int) {
	t.markSubtree(idx, false)
}

// UseNode ...
func (t *Tree) UseNode(idx int) {
	t.bitmap.Set(idx)
}

// FreeNode ...
func (t *Tree) FreeNode(idx int) {
	t.bitmap.Clear(idx)
}

// SyncAncestors recomputes every ancestor of idx, bottom up, as used
// if either of its children is used and free otherwise.
func (t *Tree) SyncAncestors(idx int) {
	for idx > 0 {
		parent := Parent(idx)
		if t.bitmap.Get(LeftChild(parent)) || t.bitmap.Get(RightChild(parent)) {
			t.bitmap.Set(parent)
		} else {
			t.bitmap.Clear(parent)
		}
		idx = parent
	}
}

// UsedAncestor returns the nearest ancestor of idx that is used.
func (t *Tree) UsedAncestor(idx int) (int, bool) {
	for idx > 0 {
		idx = Parent(idx)
		if t.bitmap.Get(idx) {
			return idx, true
		}
	}
	return 0, false
}
