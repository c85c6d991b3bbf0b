package allocator

import (
	"io"
	"log/slog"

	errors "github.com/juju/errors"

	"github.com/QuangTung97/buddytree/bintree"
)

// Config ...
type Config struct {
	Tree bintree.Config
	Root uint64
	Size uint64

	// Logger defaults to discarding everything
	Logger *slog.Logger
}

// Allocator hands out blocks of a bintree.Tree by address.
// It is not safe for concurrent use.
type Allocator struct {
	tree   *bintree.Tree
	logger *slog.Logger

	memoryUsage uint64
}

// New ...
func New(conf Config) (*Allocator, error) {
	logger := conf.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tree := bintree.New(conf.Tree)
	leaves, err := tree.Init(conf.Root, conf.Size)
	if err != nil {
		return nil, errors.Annotatef(err, "init region %#x size %d", conf.Root, conf.Size)
	}

	logger.Info("buddy tree initialized",
		slog.Uint64("root", conf.Root),
		slog.Uint64("managed", leaves*conf.Tree.MinSize),
		slog.Uint64("discarded", conf.Size-leaves*conf.Tree.MinSize),
		slog.Any("tree", tree),
	)

	return &Allocator{
		tree:   tree,
		logger: logger,
	}, nil
}

// Tree ...
func (a *Allocator) Tree() *bintree.Tree {
	return a.tree
}

// Leaves ...
func (a *Allocator) Leaves() uint64 {
	return a.tree.Leaves()
}

// GetMemUsage returns the bytes of all blocks currently allocated.
func (a *Allocator) GetMemUsage() uint64 {
	return a.memoryUsage
}

func (a *Allocator) blockSize(size uint64) uint64 {
	return a.tree.BlockSize(a.tree.Level(size))
}

// Allocate returns the base address of the lowest free block holding size bytes.
func (a *Allocator) Allocate(size uint64) (uint64, error) {
	idx, err := a.tree.Find(size, bintree.Free)
	if err != nil {
		a.logger.Debug("allocate failed",
			slog.Uint64("size", size),
			slog.String("err", err.Error()),
			slog.Any("tree", a.tree),
		)
		return 0, errors.Trace(err)
	}

	a.tree.UseSubtree(idx)
	a.memoryUsage += a.blockSize(size)

	return a.tree.AddressOf(idx), nil
}

// Deallocate releases the block at addr that was allocated with size.
func (a *Allocator) Deallocate(addr uint64, size uint64) error {
	idx, err := a.tree.FindMatch(size, addr, bintree.Used)
	if err != nil {
		a.logger.Debug("deallocate failed",
			slog.Uint64("addr", addr),
			slog.Uint64("size", size),
			slog.String("err", err.Error()),
		)
		return errors.Trace(err)
	}

	// a used ancestor is a larger block still allocated around this one
	if parent, ok := a.tree.UsedAncestor(idx); ok {
		a.logger.Debug("deallocate inside a larger block",
			slog.Uint64("addr", addr),
			slog.Uint64("size", size),
			slog.Uint64("block", a.tree.AddressOf(parent)),
		)
		return errors.Annotatef(bintree.ErrNotFound, "address %#x lies inside the block at %#x",
			addr, a.tree.AddressOf(parent))
	}

	a.tree.FreeSubtree(idx)
	a.memoryUsage -= a.blockSize(size)

	return nil
}
