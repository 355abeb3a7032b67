package serial

import "sync/atomic"

// ring is a single-producer single-consumer byte queue. Capacity is a power
// of two; the head and tail indexes grow monotonically and are masked on
// access, so full and empty never alias. The producer owns head, the
// consumer owns tail, and each side only loads the other's index.
type ring struct {
	buf  []byte
	mask uint32
	head atomic.Uint32 // next write
	tail atomic.Uint32 // next read
}

func newRing(size int) *ring {
	if size <= 0 || size&(size-1) != 0 {
		panic("serial: ring size must be a power of two")
	}
	return &ring{buf: make([]byte, size), mask: uint32(size - 1)}
}

// push appends one byte. Producer side only. Returns false when full.
func (r *ring) push(b byte) bool {
	head := r.head.Load()
	if head-r.tail.Load() > r.mask {
		return false
	}
	r.buf[head&r.mask] = b
	r.head.Store(head + 1)
	return true
}

// pop removes one byte. Consumer side only.
func (r *ring) pop() (byte, bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		return 0, false
	}
	b := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return b, true
}

func (r *ring) len() int {
	return int(r.head.Load() - r.tail.Load())
}

func (r *ring) free() int {
	return len(r.buf) - r.len()
}
