// Package serial is the interrupt-driven serial port driver. The interrupt
// side moves single bytes between the hardware and a pair of SPSC rings;
// tasks see only the rings and the RX/TX events.
package serial

import (
	"sync/atomic"

	"ember/emberos/kernel"
)

// Config wires a Port to the reactor and the platform transmit unmask.
type Config struct {
	Reactor *kernel.Reactor

	// RxEvent fires when a received byte lands in the ring; TxEvent fires
	// when the transmitter drains ring space.
	RxEvent kernel.EventID
	TxEvent kernel.EventID

	// Ring capacities. Powers of two; defaults 256/1024.
	RxSize int
	TxSize int

	// StartTx unmasks the platform's transmit side after Write queues
	// bytes. The platform then calls OnSendReady until it returns false.
	StartTx func()
}

// Port is one serial port. OnRecv and OnSendReady are the interrupt half:
// single ring operation plus an event fire, no allocation, no task code.
// ReadByte and Write are the task half.
type Port struct {
	rx *ring
	tx *ring

	r       *kernel.Reactor
	rxEvent kernel.EventID
	txEvent kernel.EventID
	startTx func()

	rxDropped atomic.Uint32
}

func NewPort(cfg Config) *Port {
	if cfg.RxSize == 0 {
		cfg.RxSize = 256
	}
	if cfg.TxSize == 0 {
		cfg.TxSize = 1024
	}
	return &Port{
		rx:      newRing(cfg.RxSize),
		tx:      newRing(cfg.TxSize),
		r:       cfg.Reactor,
		rxEvent: cfg.RxEvent,
		txEvent: cfg.TxEvent,
		startTx: cfg.StartTx,
	}
}

// OnRecv accepts one received byte. Interrupt context. When the ring is
// full the newest byte is dropped; the receiver never blocks.
func (p *Port) OnRecv(b byte) {
	if !p.rx.push(b) {
		p.rxDropped.Add(1)
		return
	}
	p.r.Fire(p.rxEvent)
}

// OnSendReady hands the next byte to the transmitter. Interrupt context.
// A false return means the ring is drained and the caller masks further
// send callbacks.
func (p *Port) OnSendReady() (byte, bool) {
	b, ok := p.tx.pop()
	if !ok {
		return 0, false
	}
	p.r.Fire(p.txEvent)
	return b, true
}

// ReadByte takes one byte from the receive ring. Task context.
func (p *Port) ReadByte() (byte, bool) {
	return p.rx.pop()
}

// RxPending reports whether received bytes are waiting. A task returning to
// its read state checks this: a byte that arrived while the task was not
// armed for RxEvent produced no wakeup.
func (p *Port) RxPending() bool {
	return p.rx.len() > 0
}

// RxDropped returns the count of bytes dropped on receive overrun.
func (p *Port) RxDropped() uint32 {
	return p.rxDropped.Load()
}

// Write queues bytes for transmit and returns how many fit. Task context;
// never blocks. A short count means the ring is full: suspend on TxEvent
// and retry with the remainder.
func (p *Port) Write(b []byte) int {
	n := 0
	for n < len(b) && p.tx.push(b[n]) {
		n++
	}
	if n > 0 && p.startTx != nil {
		p.startTx()
	}
	return n
}

// WriteString is Write for a string, avoiding a copy at call sites.
func (p *Port) WriteString(s string) int {
	n := 0
	for n < len(s) && p.tx.push(s[n]) {
		n++
	}
	if n > 0 && p.startTx != nil {
		p.startTx()
	}
	return n
}

// TxFree returns the space left in the transmit ring.
func (p *Port) TxFree() int {
	return p.tx.free()
}
