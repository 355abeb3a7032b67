//go:build !tinygo

package hal

import "time"

// hostTime converts wall-clock progress into the kernel's 1ms tick stream.
// The runners call step once per frame; the carry turns however much real
// time passed into whole ticks, so the stream stays at tick rate no matter
// the frame rate.
type hostTime struct {
	ch  chan uint64
	seq uint64

	prev  time.Time
	carry time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step(n uint64) {
	now := time.Now()
	if t.prev.IsZero() {
		t.prev = now
		t.emit(n)
		return
	}
	t.carry += now.Sub(t.prev)
	t.prev = now

	elapsed := uint64(t.carry / time.Millisecond)
	if elapsed == 0 {
		return
	}
	t.carry -= time.Duration(elapsed) * time.Millisecond
	t.emit(elapsed)
}

// emit publishes n ticks. A lagging reader drops deliveries, but the tick
// numbers stay monotonic.
func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
