// Package kernel is the Ember kernel core: a static arena allocator, a
// cooperative reactor over a fixed slot table, and the interrupt bridge
// connecting the two to the hardware.
//
// Memory:
//
// An Arena manages one caller-supplied region. All bookkeeping lives inside
// the region; the kernel never allocates after initialization. Blocks carry
// an 8-byte header, free space is kept on an address-ordered first-fit list,
// and adjacent free blocks always coalesce.
//
// Scheduling:
//
// A Reactor owns up to 32 slots. Each slot holds one Task, an optional event
// interest, and an optional deadline. Tasks run to completion of each Poll;
// there is no preemption. A Poll may be spurious: tasks re-check their own
// condition rather than trusting the wakeup.
//
// Interrupt bridge:
//
// Fire, Wake, and Tick are the only operations legal in interrupt context.
// They touch single words with atomic operations, never allocate, and never
// run task code. Task bodies execute later, inside PollOnce, on kernel time.
//
// Fatal conditions (corrupted arena state, stale handles, task panics) do
// not return errors; they trap. See SetTrapHandler.
package kernel
