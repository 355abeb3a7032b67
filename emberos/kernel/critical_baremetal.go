//go:build tinygo && baremetal

package kernel

import "runtime/interrupt"

type irqMask struct {
	state interrupt.State
}

func (m *irqMask) Lock()   { m.state = interrupt.Disable() }
func (m *irqMask) Unlock() { interrupt.Restore(m.state) }

// NewCritical returns the interrupt-mask critical section.
func NewCritical() Critical {
	return &irqMask{}
}
