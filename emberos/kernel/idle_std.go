//go:build !tinygo

package kernel

import "context"

// Run is the host scheduler loop: poll until idle, sleep until the next
// wakeup. It returns ErrHalted once the kernel traps, or the context error.
func (r *Reactor) Run(ctx context.Context) error {
	for {
		if InTrapMode() {
			return ErrHalted
		}
		if r.PollOnce() != 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.idle:
		}
	}
}

func (r *Reactor) kick() {
	select {
	case r.idle <- struct{}{}:
	default:
	}
}
