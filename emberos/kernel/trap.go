package kernel

import (
	"sync"
	"sync/atomic"
)

// TrapCode classifies fatal kernel conditions.
type TrapCode uint8

const (
	// TrapCorruptArena: double free, foreign ref, or a damaged block header.
	TrapCorruptArena TrapCode = iota + 1
	// TrapInvalidHandle: a stale or never-issued Handle reached the kernel.
	TrapInvalidHandle
	// TrapBadDecision: a Poll returned the zero Decision, or Register was
	// given an unusable task or initial decision.
	TrapBadDecision
	// TrapTaskPanic: a Poll panicked and was recovered.
	TrapTaskPanic
)

func (c TrapCode) String() string {
	switch c {
	case TrapCorruptArena:
		return "corrupt-arena"
	case TrapInvalidHandle:
		return "invalid-handle"
	case TrapBadDecision:
		return "bad-decision"
	case TrapTaskPanic:
		return "task-panic"
	}
	return "unknown"
}

// TrapInfo describes the first fatal condition the kernel hit.
type TrapInfo struct {
	Code  TrapCode
	Slot  int // slot being polled, -1 outside task context
	Value any
	Stack []byte
}

var (
	trapMu     sync.Mutex
	trapActive atomic.Bool

	trapHandler atomic.Value // func(TrapInfo)
)

// InTrapMode reports whether the kernel has hit a fatal condition. Once set
// it never clears; PollOnce refuses to run further tasks.
func InTrapMode() bool {
	return trapActive.Load()
}

// SetTrapHandler installs a process-wide trap handler.
//
// The handler is invoked at most once, on the first trap. It must not panic
// and must not call back into the kernel.
func SetTrapHandler(fn func(TrapInfo)) {
	trapHandler.Store(fn)
}

func triggerTrap(info TrapInfo) {
	trapMu.Lock()
	defer trapMu.Unlock()
	if trapActive.Load() {
		return
	}
	trapActive.Store(true)
	info.Stack = captureStack()
	if v := trapHandler.Load(); v != nil {
		if fn, ok := v.(func(TrapInfo)); ok && fn != nil {
			fn(info)
		}
	}
}

// trap reports a fatal kernel condition and does not return.
func trap(code TrapCode, detail string) {
	triggerTrap(TrapInfo{Code: code, Slot: int(currentSlot.Load()) - 1, Value: detail})
	halt(detail)
}
