package kernel

// The trap latch is process-wide and sticky by design. Tests that provoke
// traps reset it between cases.
func resetTrap() {
	trapActive.Store(false)
	trapHandler.Store((func(TrapInfo))(nil))
	currentSlot.Store(0)
}
