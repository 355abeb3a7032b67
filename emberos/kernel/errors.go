package kernel

import "errors"

var (
	// ErrOutOfMemory is returned by Alloc when no free block fits.
	// The arena is unchanged and later frees may make the call succeed.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrBadSize is returned by Alloc for negative sizes.
	ErrBadSize = errors.New("arena: negative size")

	// ErrRegionTooSmall is returned by NewArena when the region cannot
	// hold the bookkeeping plus one block.
	ErrRegionTooSmall = errors.New("arena: region too small")

	// ErrRegionTooLarge is returned by NewArena for regions beyond the
	// 32-bit offset space the block headers use.
	ErrRegionTooLarge = errors.New("arena: region too large")

	// ErrCapacityExceeded is returned by Register when every slot is
	// occupied. The table is unchanged.
	ErrCapacityExceeded = errors.New("reactor: capacity exceeded")

	// ErrHalted is returned by Run after the kernel enters trap mode.
	ErrHalted = errors.New("reactor: halted by trap")
)
