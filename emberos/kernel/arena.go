package kernel

import "encoding/binary"

const (
	granule     = 8
	headerBytes = 8

	// firstPayload leaves a dead granule at the region base so that no
	// valid Ref is ever 0.
	firstPayload = granule + headerBytes

	tagLive = 0xA110C8ED
	tagFree = 0xF7EEF7EE
)

// Ref is an opaque reference to an allocated block.
type Ref uint32

// NilRef is the null block reference. Free(NilRef) is a no-op.
const NilRef Ref = 0

// Arena is a static allocator over one caller-supplied region. Every block
// carries an 8-byte header (size and state tag) in front of its payload;
// free space forms an address-ordered singly-linked list threaded through
// the free payloads. There is no allocation outside the region.
//
// Free-list mutation runs under the kernel critical section, so task code
// may allocate while interrupt sources are live.
type Arena struct {
	crit   Critical
	mem    []byte
	head   uint32 // payload offset of the first free block, 0 = none
	end    uint32 // one past the last payload byte
	usable uint32 // allocatable payload when fully coalesced

	stats ArenaStats
}

// ArenaStats is a snapshot of allocator counters. UsedBytes and FreeBytes
// count payloads; the headers of split-off blocks live in the gap between
// their sum and UsableBytes.
type ArenaStats struct {
	RegionBytes  uint32
	UsableBytes  uint32
	UsedBytes    uint32
	FreeBytes    uint32
	PeakBytes    uint32
	LiveBlocks   uint32
	FailedAllocs uint32
}

// NewArena initializes an allocator over mem. All bookkeeping lives inside
// the region. The region must hold the base bookkeeping plus one granule.
func NewArena(mem []byte, crit Critical) (*Arena, error) {
	if crit == nil {
		crit = NewCritical()
	}
	a := &Arena{crit: crit, mem: mem}
	if err := a.format(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) format() error {
	if len(a.mem) < firstPayload+headerBytes+granule {
		return ErrRegionTooSmall
	}
	if int64(len(a.mem)) > 1<<31 {
		return ErrRegionTooLarge
	}
	size := (uint32(len(a.mem)) - firstPayload) &^ (granule - 1)
	a.usable = size
	a.end = firstPayload + size
	a.head = firstPayload
	a.writeHeader(firstPayload, size, tagFree)
	a.setNextFree(firstPayload, 0)
	a.stats = ArenaStats{
		RegionBytes: uint32(len(a.mem)),
		UsableBytes: size,
		FreeBytes:   size,
	}
	return nil
}

// Alloc carves n bytes out of the region, first fit over the address-
// ordered free list. n == 0 is valid and returns a distinct, freeable Ref
// with an empty payload. The returned slice aliases the region and stays
// valid until the matching Free. On exhaustion the arena is unchanged and
// ErrOutOfMemory is returned.
func (a *Arena) Alloc(n int) (Ref, []byte, error) {
	if n < 0 {
		return NilRef, nil, ErrBadSize
	}
	a.crit.Lock()
	defer a.crit.Unlock()

	if uint64(n) > uint64(a.usable) {
		a.stats.FailedAllocs++
		return NilRef, nil, ErrOutOfMemory
	}
	need := uint32(granule)
	if n > 0 {
		need = (uint32(n) + granule - 1) &^ (granule - 1)
	}

	prev := uint32(0)
	cur := a.head
	for cur != 0 && a.blockSize(cur) < need {
		prev = cur
		cur = a.nextFree(cur)
	}
	if cur == 0 {
		a.stats.FailedAllocs++
		return NilRef, nil, ErrOutOfMemory
	}

	size := a.blockSize(cur)
	next := a.nextFree(cur)
	if size-need >= headerBytes+granule {
		// split: the tail becomes a new free block
		rest := cur + need + headerBytes
		a.writeHeader(rest, size-need-headerBytes, tagFree)
		a.setNextFree(rest, next)
		next = rest
		a.stats.FreeBytes -= need + headerBytes
	} else {
		// the remainder cannot hold a block; the allocation absorbs it
		need = size
		a.stats.FreeBytes -= size
	}
	if prev == 0 {
		a.head = next
	} else {
		a.setNextFree(prev, next)
	}
	a.writeHeader(cur, need, tagLive)

	a.stats.UsedBytes += need
	if a.stats.UsedBytes > a.stats.PeakBytes {
		a.stats.PeakBytes = a.stats.UsedBytes
	}
	a.stats.LiveBlocks++

	return Ref(cur), a.mem[cur : cur+uint32(n) : cur+need], nil
}

// Free returns r's block to the arena, merging with the address-adjacent
// neighbors so adjacent free blocks always coalesce into one. Freeing
// NilRef is a no-op. A double free or a ref the arena never issued is
// fatal: the heap can no longer be trusted.
func (a *Arena) Free(r Ref) {
	if r == NilRef {
		return
	}
	a.crit.Lock()
	defer a.crit.Unlock()

	off := uint32(r)
	size := a.checkLive(off)

	a.stats.UsedBytes -= size
	a.stats.FreeBytes += size
	a.stats.LiveBlocks--

	prev := uint32(0)
	cur := a.head
	for cur != 0 && cur < off {
		prev = cur
		cur = a.nextFree(cur)
	}
	// successor adjacent: fold it into this block
	if cur != 0 && off+size+headerBytes == cur {
		size += headerBytes + a.blockSize(cur)
		a.stats.FreeBytes += headerBytes
		cur = a.nextFree(cur)
	}
	// predecessor adjacent: fold this block into it
	if prev != 0 && prev+a.blockSize(prev)+headerBytes == off {
		a.writeHeader(prev, a.blockSize(prev)+headerBytes+size, tagFree)
		a.setNextFree(prev, cur)
		a.stats.FreeBytes += headerBytes
		return
	}
	a.writeHeader(off, size, tagFree)
	a.setNextFree(off, cur)
	if prev == 0 {
		a.head = off
	} else {
		a.setNextFree(prev, off)
	}
}

// Bytes returns the payload of a live block. The length is the block's
// rounded capacity, which may exceed the size passed to Alloc by up to a
// granule. A stale or foreign ref is fatal.
func (a *Arena) Bytes(r Ref) []byte {
	if r == NilRef {
		trap(TrapCorruptArena, "arena: nil ref")
	}
	a.crit.Lock()
	defer a.crit.Unlock()
	off := uint32(r)
	size := a.checkLive(off)
	return a.mem[off : off+size : off+size]
}

// Owns reports whether r lies inside the region. It is a cheap range and
// alignment test; it does not prove r is a live block.
func (a *Arena) Owns(r Ref) bool {
	off := uint32(r)
	return off%granule == 0 && off >= firstPayload && off+granule <= a.end
}

// Stats returns a snapshot of the allocator counters.
func (a *Arena) Stats() ArenaStats {
	a.crit.Lock()
	defer a.crit.Unlock()
	return a.stats
}

// Reset abandons every allocation and restores the single spanning free
// block. Outstanding Refs become invalid; freeing one afterwards traps.
func (a *Arena) Reset() {
	a.crit.Lock()
	defer a.crit.Unlock()
	_ = a.format()
}

// checkLive validates that off names a live block and returns its payload
// size. Caller holds crit.
func (a *Arena) checkLive(off uint32) uint32 {
	if off%granule != 0 || off < firstPayload || off+granule > a.end {
		trap(TrapCorruptArena, "arena: foreign ref")
	}
	switch a.blockTag(off) {
	case tagLive:
	case tagFree:
		trap(TrapCorruptArena, "arena: double free")
	default:
		trap(TrapCorruptArena, "arena: bad ref")
	}
	size := a.blockSize(off)
	if size == 0 || size%granule != 0 || off+size > a.end {
		trap(TrapCorruptArena, "arena: corrupt header")
	}
	return size
}

func (a *Arena) blockSize(off uint32) uint32 {
	return binary.LittleEndian.Uint32(a.mem[off-headerBytes:])
}

func (a *Arena) blockTag(off uint32) uint32 {
	return binary.LittleEndian.Uint32(a.mem[off-4:])
}

func (a *Arena) writeHeader(off, size, tag uint32) {
	binary.LittleEndian.PutUint32(a.mem[off-headerBytes:], size)
	binary.LittleEndian.PutUint32(a.mem[off-4:], tag)
}

func (a *Arena) nextFree(off uint32) uint32 {
	return binary.LittleEndian.Uint32(a.mem[off:])
}

func (a *Arena) setNextFree(off, next uint32) {
	binary.LittleEndian.PutUint32(a.mem[off:], next)
}
