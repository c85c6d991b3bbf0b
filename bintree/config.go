package bintree

// Config ...
type Config struct {
	// MinSize is the leaf block size, a power of two
	MinSize uint64
	// MaxSize is the largest size Find will serve
	MaxSize uint64
	// Capacity bounds the node table and the bitmap
	Capacity int
}

// DefaultConfig is 4KB pages, up to 4MB per request and a tree of at most 1024 leaves.
func DefaultConfig() Config {
	return Config{
		MinSize:  4 << 10,
		MaxSize:  4 << 20,
		Capacity: 2047,
	}
}

func isPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

func validateConfig(conf Config) {
	if !isPowerOfTwo(conf.MinSize) {
		panic("MinSize must be a power of two")
	}
	if conf.MaxSize < conf.MinSize {
		panic("MaxSize must >= MinSize")
	}
	if conf.Capacity <= 0 {
		panic("Capacity must > 0")
	}
}
