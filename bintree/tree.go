// Package bintree manages a contiguous address range as a complete binary
// tree of buddy blocks stored in arrays: node i has children 2i+1 and 2i+2.
//
// The tree is a plain state machine with no locking. Callers that share a
// Tree between goroutines must serialize access themselves.
package bintree

import (
	"log/slog"
	"math/bits"

	errors "github.com/juju/errors"

	"github.com/QuangTung97/buddytree/bitmap"
)

// Bitmap is the per-node allocation state. Get returns true for used nodes,
// IsFree must always be its negation.
type Bitmap interface {
	Len() int
	SetAll()
	Set(i int)
	Clear(i int)
	Get(i int) bool
	IsFree(i int) bool
	CountUsed() int
}

// Tree ...
type Tree struct {
	minSize uint64
	maxSize uint64

	level  int
	leaves uint64
	nodes  []uint64
	bitmap Bitmap
}

// New creates a tree whose node table and bitmap hold conf.Capacity nodes.
// Every node is used until Init is called.
func New(conf Config) *Tree {
	validateConfig(conf)
	return newTree(conf, bitmap.New(conf.Capacity))
}

// NewWithBitmap is New with a caller supplied bitmap of at least conf.Capacity bits.
func NewWithBitmap(conf Config, bm Bitmap) *Tree {
	validateConfig(conf)
	if bm.Len() < conf.Capacity {
		panic("bitmap is smaller than Capacity")
	}
	bm.SetAll()
	return newTree(conf, bm)
}

func newTree(conf Config, bm Bitmap) *Tree {
	return &Tree{
		minSize: conf.MinSize,
		maxSize: conf.MaxSize,
		nodes:   make([]uint64, conf.Capacity),
		bitmap:  bm,
	}
}

func alignDown(v uint64, align uint64) uint64 {
	return v &^ (align - 1)
}

// Init lays the tree over [root, root+size) and returns the number of leaf pages.
//
// size is rounded down to the largest power-of-two number of MinSize pages,
// the remainder is never managed. Nodes are written breadth first, from the
// root down to the leaves, and each written node becomes free.
func (t *Tree) Init(root uint64, size uint64) (uint64, error) {
	pageCount := alignDown(size, t.minSize) / t.minSize
	if pageCount == 0 {
		return 0, errors.Trace(ErrInit)
	}
	pageCount = 1 << uint(bits.Len64(pageCount)-1)
	memSize := pageCount * t.minSize

	end := root + memSize
	if end < root {
		return 0, errors.Annotatef(ErrInit, "region at %#x wraps the address space", root)
	}

	nodeCount := pageCount*2 - 1
	if nodeCount > uint64(len(t.nodes)) {
		return 0, errors.Annotatef(ErrCapacity, "need %d nodes, capacity is %d", nodeCount, len(t.nodes))
	}

	t.bitmap.SetAll()
	t.level = 0
	t.leaves = pageCount

	count := 0
	for blockSize := memSize; uint64(count) < nodeCount; blockSize >>= 1 {
		for addr := root; addr < end; addr += blockSize {
			t.nodes[count] = addr
			t.bitmap.Clear(count)
			count++
		}
		t.level++
	}

	for i := count; i < len(t.nodes); i++ {
		t.nodes[i] = 0
	}

	return pageCount, nil
}

// Height is the number of levels, 0 before Init.
func (t *Tree) Height() int {
	return t.level
}

// Leaves ...
func (t *Tree) Leaves() uint64 {
	return t.leaves
}

// Capacity ...
func (t *Tree) Capacity() int {
	return len(t.nodes)
}

// AddressOf returns the base address of the block node idx represents.
func (t *Tree) AddressOf(idx int) uint64 {
	return t.nodes[idx]
}

// BlockSize returns the block size of nodes at level.
func (t *Tree) BlockSize(level int) uint64 {
	return t.leaves * t.minSize >> uint(level-1)
}

// bits past MaxNode are set by Init and never cleared
func (t *Tree) usedNodes() int {
	reserved := t.bitmap.Len() - (t.MaxNode() + 1)
	return t.bitmap.CountUsed() - reserved
}

// LogValue implements slog.LogValuer.
func (t *Tree) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("height", t.level),
		slog.Uint64("leaves", t.leaves),
		slog.Int("capacity", len(t.nodes)),
		slog.Int("used", t.usedNodes()),
	)
}
