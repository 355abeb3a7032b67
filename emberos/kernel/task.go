package kernel

const (
	numSlots  = 32
	numEvents = 16
)

// EventID names a hardware or software event source. Values are assigned at
// system assembly time; 0 is reserved.
type EventID uint8

// EvNone means "no event": deadline-only or wake-only waits.
const EvNone EventID = 0

// Cause tells a Task why it is being polled.
type Cause uint8

const (
	// CauseEvent: the slot's ready bit was set (event fired, Wake, or Yield).
	CauseEvent Cause = iota
	// CauseTimeout: the armed deadline expired. The deadline is disarmed
	// before the poll; any pending event stays for a later scan.
	CauseTimeout
)

func (c Cause) String() string {
	switch c {
	case CauseEvent:
		return "event"
	case CauseTimeout:
		return "timeout"
	}
	return "unknown"
}

// Task is a cooperative unit of work. Poll runs on kernel time and must
// return promptly; long work yields and resumes on a later scan.
type Task interface {
	Poll(ctx *Context, cause Cause) Decision
}

type decisionOp uint8

const (
	opInvalid decisionOp = iota
	opDone
	opAwait
	opYield
	opPending
)

// Decision is a Task's resumption: what the slot should wait for next.
// The zero Decision is invalid and traps, so a forgotten return is caught
// at the first poll rather than as a silently parked task.
type Decision struct {
	op       decisionOp
	event    EventID
	timed    bool
	deadline uint64
}

// Done completes the task. The slot is reclaimed and its handle goes stale.
func Done() Decision {
	return Decision{op: opDone}
}

// Await suspends until ev fires.
func Await(ev EventID) Decision {
	return Decision{op: opAwait, event: ev}
}

// AwaitUntil suspends until ev fires or the absolute tick passes,
// whichever comes first. On expiry the task is polled with CauseTimeout.
func AwaitUntil(ev EventID, tick uint64) Decision {
	return Decision{op: opAwait, event: ev, timed: true, deadline: tick}
}

// Sleep suspends until the absolute tick passes.
func Sleep(tick uint64) Decision {
	return Decision{op: opAwait, event: EvNone, timed: true, deadline: tick}
}

// Yield stays ready: the task is polled again on a later scan. Use it to
// split long work into poll-sized pieces.
func Yield() Decision {
	return Decision{op: opYield}
}

// Pending suspends with the slot's interest unchanged: the armed event and
// any unexpired deadline stay in place.
func Pending() Decision {
	return Decision{op: opPending}
}

// Handle refers to a registered slot. It is opaque by construction and goes
// stale when the slot is reclaimed; using a stale handle traps.
type Handle struct {
	slot uint8
	gen  uint16
}

// Valid reports whether the handle was ever issued by Register.
// It does not check staleness.
func (h Handle) Valid() bool { return h.gen != 0 }

// Context is the task's view of the kernel during a Poll.
type Context struct {
	r    *Reactor
	slot uint8
	gen  uint16
}

// Self returns the handle of the running task.
func (c *Context) Self() Handle {
	return Handle{slot: c.slot, gen: c.gen}
}

// Now returns the current monotonic tick.
func (c *Context) Now() uint64 { return c.r.now.Load() }

// Fire injects a software event, exactly as the bridge would.
func (c *Context) Fire(ev EventID) { c.r.Fire(ev) }

// Wake makes another slot ready.
func (c *Context) Wake(h Handle) { c.r.Wake(h) }

// Cancel cancels a slot. Cancelling your own slot is allowed: the current
// Poll finishes and its Decision is ignored.
func (c *Context) Cancel(h Handle) { c.r.Cancel(h) }
