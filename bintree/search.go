package bintree

import (
	errors "github.com/juju/errors"
)

// State ...
type State uint8

const (
	// Free nodes can be allocated
	Free State = iota
	// Used nodes can be freed
	Used
)

func (s State) String() string {
	if s == Used {
		return "used"
	}
	return "free"
}

func (t *Tree) levelFor(size uint64) (int, error) {
	if size > t.maxSize {
		return 0, errors.Trace(ErrTooLarge)
	}
	if t.level == 0 {
		return 0, errors.Annotate(ErrNotFound, "tree is not initialized")
	}
	if size > t.leaves*t.minSize {
		return 0, errors.Annotatef(ErrTooLarge, "region holds %d bytes", t.leaves*t.minSize)
	}
	return t.Level(size), nil
}

func (t *Tree) pageCount(size uint64) int {
	n := size / t.minSize
	if n == 0 {
		return 1
	}
	return int(n)
}

func (t *Tree) leftmostLeaf(idx int) int {
	maxNode := t.MaxNode()
	for LeftChild(idx) <= maxNode {
		idx = LeftChild(idx)
	}
	return idx
}

func (t *Tree) qualifies(idx int, pages int, state State) bool {
	if t.bitmap.Get(idx) != (state == Used) {
		return false
	}

	leaf := t.leftmostLeaf(idx)
	if state == Used {
		return t.AllUsed(leaf, pages)
	}
	return t.AllFree(leaf, pages)
}

// Find returns the lowest index at the level of size whose node is in state
// and whose size/MinSize leaves are all in state too.
func (t *Tree) Find(size uint64, state State) (int, error) {
	level, err := t.levelFor(size)
	if err != nil {
		return 0, err
	}

	pages := t.pageCount(size)
	last := FirstIndex(level + 1)

	for idx := FirstIndex(level); idx < last; idx++ {
		if t.qualifies(idx, pages, state) {
			return idx, nil
		}
	}

	return 0, errors.Annotatef(ErrNotFound, "size %d, state %s", size, state)
}

// FindMatch is Find restricted to the node whose base address is addr.
func (t *Tree) FindMatch(size uint64, addr uint64, state State) (int, error) {
	first, err := t.Find(size, state)
	if err != nil {
		return 0, errors.Trace(err)
	}

	pages := t.pageCount(size)
	last := FirstIndex(t.Level(size) + 1)

	for idx := first; idx < last; idx++ {
		if t.nodes[idx] == addr && t.qualifies(idx, pages, state) {
			return idx, nil
		}
	}

	return 0, errors.Annotatef(ErrNotFound, "address %#x, state %s", addr, state)
}

// AllFree reports whether bits [index, index+count) are all free.
func (t *Tree) AllFree(index int, count int) bool {
	for i := 0; i < count; i++ {
		if !t.bitmap.IsFree(index + i) {
			return false
		}
	}
	return true
}

// AllUsed reports whether bits [index, index+count) are all used.
func (t *Tree) AllUsed(index int, count int) bool {
	for i := 0; i < count; i++ {
		if !t.bitmap.Get(index + i) {
			return false
		}
	}
	return true
}
