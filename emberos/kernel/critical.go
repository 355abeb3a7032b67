package kernel

// Critical guards kernel bookkeeping against the interrupt bridge. The
// baremetal implementation masks interrupts; the host implementation is a
// mutex shared with the goroutines standing in for interrupt sources.
// Sections are short and never nest.
type Critical interface {
	Lock()
	Unlock()
}
