package kernel

import "sync/atomic"

// currentSlot holds slot+1 of the task being polled, 0 when none.
// Traps read it so the handler can name the offender.
var currentSlot atomic.Int32

type slotState uint8

const (
	slotEmpty slotState = iota
	slotRegistered
	slotRunning
	slotCancelled
)

type slot struct {
	state    slotState
	gen      uint16
	event    EventID
	timed    bool
	deadline uint64
	task     Task
	ctx      Context
}

// Reactor schedules Tasks from a fixed table of 32 slots.
//
// The table itself is mutated only under crit. The ready, waiting and timer
// words are shared with the interrupt bridge and touched only atomically:
// bit i of ready means slot i wants a poll, bit i of waiting[e] means slot i
// is armed for event e.
type Reactor struct {
	crit Critical

	ready   atomic.Uint32
	timers  atomic.Uint32
	now     atomic.Uint64
	waiting [numEvents]atomic.Uint32

	idle chan struct{}

	slots [numSlots]slot
}

func NewReactor(crit Critical) *Reactor {
	if crit == nil {
		crit = NewCritical()
	}
	r := &Reactor{crit: crit, idle: make(chan struct{}, 1)}
	for i := range r.slots {
		r.slots[i].gen = 1
	}
	return r
}

// Register claims the lowest free slot for t and arms it with the initial
// decision: Await or Sleep for event-driven tasks, Yield for an immediate
// first poll, Pending to park until Wake. When every slot is occupied it
// returns ErrCapacityExceeded and the table is unchanged.
func (r *Reactor) Register(t Task, initial Decision) (Handle, error) {
	if t == nil {
		trap(TrapBadDecision, "reactor: nil task")
	}
	switch initial.op {
	case opAwait, opYield, opPending:
	default:
		trap(TrapBadDecision, "reactor: bad initial decision")
	}
	r.crit.Lock()
	defer r.crit.Unlock()
	for i := range r.slots {
		s := &r.slots[i]
		if s.state == slotCancelled {
			r.release(i)
		}
		if s.state != slotEmpty {
			continue
		}
		s.state = slotRegistered
		s.task = t
		s.ctx = Context{r: r, slot: uint8(i), gen: s.gen}
		r.arm(i, initial)
		return Handle{slot: uint8(i), gen: s.gen}, nil
	}
	return Handle{}, ErrCapacityExceeded
}

// Cancel tears down the slot h refers to. The task is never polled again
// and its pending wakeups are suppressed. The slot is reclaimed right away,
// or at the end of the in-flight Poll when a task cancels itself. A stale
// or never-issued handle traps.
func (r *Reactor) Cancel(h Handle) {
	r.crit.Lock()
	defer r.crit.Unlock()
	i := r.mustSlot(h)
	s := &r.slots[i]
	switch s.state {
	case slotRegistered:
		r.release(i)
	case slotRunning:
		r.disarm(i)
		r.ready.And(^(uint32(1) << uint(i)))
		s.state = slotCancelled
	case slotCancelled:
		// repeated cancel before the reap: nothing left to do
	}
}

// Wake makes h's slot ready without an event firing. Kernel context only
// (handle validation takes the kernel lock); interrupt handlers use Fire.
func (r *Reactor) Wake(h Handle) {
	r.crit.Lock()
	defer r.crit.Unlock()
	i := r.mustSlot(h)
	if r.slots[i].state == slotCancelled {
		return
	}
	r.ready.Or(uint32(1) << uint(i))
	r.kick()
}

// Fire makes every slot armed for ev ready. This is the interrupt half of
// the two-phase contract: word atomics only, no allocation, no task code,
// callable from any context. Events nobody is armed for are dropped;
// out-of-range events are ignored.
func (r *Reactor) Fire(ev EventID) {
	if ev == EvNone || int(ev) >= numEvents {
		return
	}
	m := r.waiting[ev].Swap(0)
	if m == 0 {
		return
	}
	r.ready.Or(m)
	r.kick()
}

// Tick publishes the monotonic counter deadlines compare against.
// Interrupt-safe: an atomic store, plus a wakeup when a deadline is armed.
func (r *Reactor) Tick(now uint64) {
	r.now.Store(now)
	if r.timers.Load() != 0 {
		r.kick()
	}
}

// Now returns the last published tick.
func (r *Reactor) Now() uint64 { return r.now.Load() }

// PollOnce makes one scan over the slot table in index order. A ready slot
// has its bit cleared before the task runs, so an event firing during the
// poll is a fresh wakeup and produces another poll on a later scan. A slot
// whose deadline has passed is polled with CauseTimeout; when readiness and
// expiry race, the event wins and the deadline stays armed. Returns the
// number of tasks polled. In trap mode it runs nothing.
func (r *Reactor) PollOnce() int {
	if InTrapMode() {
		return 0
	}
	now := r.now.Load()
	n := 0
	for i := 0; i < numSlots; i++ {
		bit := uint32(1) << uint(i)
		wasReady := r.ready.And(^bit)&bit != 0

		r.crit.Lock()
		s := &r.slots[i]
		if s.state == slotCancelled {
			r.release(i)
		}
		if s.state != slotRegistered {
			r.crit.Unlock()
			continue
		}
		cause := CauseEvent
		run := wasReady
		if !run && s.timed && now >= s.deadline {
			s.timed = false
			r.timers.And(^bit)
			cause = CauseTimeout
			run = true
		}
		if !run {
			r.crit.Unlock()
			continue
		}
		task := s.task
		s.state = slotRunning
		r.crit.Unlock()

		d := r.pollTask(i, task, cause)
		r.applyDecision(i, d)
		n++
		if InTrapMode() {
			return n
		}
	}
	return n
}

func (r *Reactor) pollTask(i int, t Task, cause Cause) (d Decision) {
	currentSlot.Store(int32(i + 1))
	defer func() {
		currentSlot.Store(0)
		if v := recover(); v != nil {
			triggerTrap(TrapInfo{Code: TrapTaskPanic, Slot: i, Value: v})
			d = Done()
		}
	}()
	return t.Poll(&r.slots[i].ctx, cause)
}

func (r *Reactor) applyDecision(i int, d Decision) {
	r.crit.Lock()
	defer r.crit.Unlock()
	s := &r.slots[i]
	if s.state != slotRunning {
		// cancelled during its own poll: the decision is void
		r.release(i)
		return
	}
	switch d.op {
	case opDone:
		r.release(i)
	case opAwait, opYield:
		r.disarm(i)
		r.arm(i, d)
	case opPending:
		r.arm(i, d)
	default:
		s.state = slotRegistered
		trap(TrapBadDecision, "reactor: invalid decision")
	}
}

// arm applies a non-terminal decision to slot i. Caller holds crit.
func (r *Reactor) arm(i int, d Decision) {
	s := &r.slots[i]
	bit := uint32(1) << uint(i)
	switch d.op {
	case opAwait:
		if int(d.event) >= numEvents {
			trap(TrapBadDecision, "reactor: event out of range")
		}
		s.event = d.event
		if d.event != EvNone {
			r.waiting[d.event].Or(bit)
		}
		s.timed = d.timed
		s.deadline = d.deadline
		if d.timed {
			r.timers.Or(bit)
		}
	case opYield:
		r.ready.Or(bit)
	case opPending:
		// re-arm the interest a Fire may have consumed mid-poll
		if s.event != EvNone {
			r.waiting[s.event].Or(bit)
		}
	}
	s.state = slotRegistered
}

// disarm drops slot i's event and deadline interest. Caller holds crit.
func (r *Reactor) disarm(i int) {
	s := &r.slots[i]
	bit := uint32(1) << uint(i)
	if s.event != EvNone {
		r.waiting[s.event].And(^bit)
		s.event = EvNone
	}
	s.timed = false
	s.deadline = 0
	r.timers.And(^bit)
}

// release reclaims slot i and bumps its generation so outstanding handles
// go stale. Caller holds crit.
func (r *Reactor) release(i int) {
	s := &r.slots[i]
	r.disarm(i)
	r.ready.And(^(uint32(1) << uint(i)))
	s.task = nil
	s.state = slotEmpty
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
}

// mustSlot resolves h or traps. Caller holds crit.
func (r *Reactor) mustSlot(h Handle) int {
	if h.gen == 0 || int(h.slot) >= numSlots {
		trap(TrapInvalidHandle, "reactor: invalid handle")
	}
	s := &r.slots[h.slot]
	if s.state == slotEmpty || s.gen != h.gen {
		trap(TrapInvalidHandle, "reactor: stale handle")
	}
	return int(h.slot)
}
