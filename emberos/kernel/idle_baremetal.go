//go:build tinygo && baremetal

package kernel

import "device/arm"

// RunForever is the baremetal scheduler loop: poll until idle, then WFE.
// Interrupt arrival wakes the core and the scan runs again; the event
// register latches a wakeup that lands between the scan and the WFE.
func (r *Reactor) RunForever() {
	for {
		if InTrapMode() {
			park()
		}
		if r.PollOnce() == 0 {
			arm.Asm("wfe")
		}
	}
}

// kick is a no-op here: wakeups arrive as interrupts, and those end WFE
// on their own.
func (r *Reactor) kick() {}
