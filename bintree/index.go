package bintree

// FirstIndex returns the index of the leftmost node at level (1 = root).
func FirstIndex(level int) int {
	return 1<<uint(level-1) - 1
}

// LeftChild ...
func LeftChild(idx int) int {
	return idx*2 + 1
}

// RightChild ...
func RightChild(idx int) int {
	return idx*2 + 2
}

// Parent returns -1 for the root.
func Parent(idx int) int {
	return (idx+1)/2 - 1
}

// MaxNode returns the last node index of the tree.
func (t *Tree) MaxNode() int {
	return FirstIndex(t.level+1) - 1
}

// Level returns the level whose blocks hold size bytes.
// size must be a power-of-two multiple of MinSize no larger than the region.
func (t *Tree) Level(size uint64) int {
	indexSize := alignDown(size, t.minSize)
	level := t.level

	for indexSize > t.minSize {
		indexSize >>= 1
		level--
	}

	return level
}
