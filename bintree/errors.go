package bintree

import (
	errors "github.com/juju/errors"
)

var (
	// ErrInit ...
	ErrInit     = errors.New("region too small to form a power-of-two page count")
	// ErrCapacity is returned by Init when 2*leaves-1 exceeds Config.Capacity
	ErrCapacity = errors.New("region needs more nodes than the tree capacity")
	// ErrTooLarge ...
	ErrTooLarge = errors.New("requested size exceeds the maximum size")
	// ErrNotFound means no node is in the requested state, try another size or give up
	ErrNotFound = errors.New("no node satisfies the request")
)
