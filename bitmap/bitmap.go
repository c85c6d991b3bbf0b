package bitmap

import (
	"math/bits"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// Bitmap keeps one bit per tree node: 0 = free, 1 = used.
type Bitmap struct {
	bits []byte
	n    int
}

// New creates a bitmap of n bits with every bit set to used.
func New(n int) *Bitmap {
	size := (n + 7) >> 3
	b := &Bitmap{
		bits: dirtmake.Bytes(size, size),
		n:    n,
	}
	b.SetAll()
	return b
}

// Len ...
func (b *Bitmap) Len() int {
	return b.n
}

// SetAll marks every bit as used.
func (b *Bitmap) SetAll() {
	for i := range b.bits {
		b.bits[i] = 0xff
	}
}

func (b *Bitmap) checkIndex(i int) {
	if i < 0 || i >= b.n {
		panic("bitmap: index out of range")
	}
}

// Set ...
func (b *Bitmap) Set(i int) {
	b.checkIndex(i)
	b.bits[i>>3] |= 1 << uint(i&0x7)
}

// Clear ...
func (b *Bitmap) Clear(i int) {
	b.checkIndex(i)
	b.bits[i>>3] &^= 1 << uint(i&0x7)
}

// Get returns true if bit i is used.
func (b *Bitmap) Get(i int) bool {
	b.checkIndex(i)
	return b.bits[i>>3]&(1<<uint(i&0x7)) != 0
}

// IsFree is the free view of Get.
func (b *Bitmap) IsFree(i int) bool {
	return !b.Get(i)
}

// CountUsed returns the number of used bits in [0, Len()).
func (b *Bitmap) CountUsed() int {
	count := 0
	full := b.n >> 3
	for _, v := range b.bits[:full] {
		count += bits.OnesCount8(v)
	}
	if rem := b.n & 0x7; rem != 0 {
		mask := byte(1<<uint(rem)) - 1
		count += bits.OnesCount8(b.bits[full] & mask)
	}
	return count
}
