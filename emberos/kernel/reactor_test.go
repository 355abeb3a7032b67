package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type pollFunc func(ctx *Context, cause Cause) Decision

func (f pollFunc) Poll(ctx *Context, cause Cause) Decision { return f(ctx, cause) }

const (
	evA EventID = 1
	evB EventID = 2
)

func TestRegisterCapacity(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	task := pollFunc(func(_ *Context, _ Cause) Decision {
		polled++
		return Await(evA)
	})

	handles := make([]Handle, 0, numSlots)
	for i := 0; i < numSlots; i++ {
		h, err := r.Register(task, Await(evA))
		if err != nil {
			t.Fatalf("Register #%d = %v", i, err)
		}
		if !h.Valid() {
			t.Fatalf("Register #%d returned invalid handle", i)
		}
		handles = append(handles, h)
	}

	if _, err := r.Register(task, Await(evA)); err != ErrCapacityExceeded {
		t.Fatalf("Register #%d = %v, want ErrCapacityExceeded", numSlots, err)
	}

	// The failed registration must not have disturbed the table.
	r.Fire(evA)
	if n := r.PollOnce(); n != numSlots {
		t.Fatalf("PollOnce polled %d tasks, want %d", n, numSlots)
	}
	if polled != numSlots {
		t.Fatalf("polled = %d, want %d", polled, numSlots)
	}
	_ = handles
}

func TestSingleDelivery(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	_, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		polled++
		return Await(evA)
	}), Await(evA))
	if err != nil {
		t.Fatal(err)
	}

	r.Fire(evA)
	r.Fire(evA) // collapses into the pending signal
	if n := r.PollOnce(); n != 1 {
		t.Fatalf("PollOnce = %d, want 1", n)
	}
	if polled != 1 {
		t.Fatalf("polled = %d, want 1 (double delivery)", polled)
	}
	if n := r.PollOnce(); n != 0 {
		t.Fatalf("second PollOnce = %d, want 0", n)
	}
}

func TestFireUnregisteredEventDropped(t *testing.T) {
	r := NewReactor(nil)
	r.Fire(evB)
	r.Fire(EvNone)
	r.Fire(EventID(200))
	if n := r.PollOnce(); n != 0 {
		t.Fatalf("PollOnce = %d, want 0", n)
	}
}

func TestRoundRobinScanOrder(t *testing.T) {
	r := NewReactor(nil)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		_, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
			order = append(order, i)
			return Done()
		}), Yield())
		if err != nil {
			t.Fatal(err)
		}
	}

	r.PollOnce()
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("scan order = %v, want [0 1 2]", order)
	}
}

// A wakeup landing during a task's own poll must produce exactly one later
// poll, never a nested or lost one.
func TestWakeupDuringPoll(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	_, err := r.Register(pollFunc(func(ctx *Context, _ Cause) Decision {
		polled++
		if polled == 1 {
			ctx.Wake(ctx.Self())
		}
		return Await(evA)
	}), Yield())
	if err != nil {
		t.Fatal(err)
	}

	if n := r.PollOnce(); n != 1 {
		t.Fatalf("first scan = %d polls", n)
	}
	if n := r.PollOnce(); n != 1 {
		t.Fatalf("second scan = %d polls, want the deferred wakeup", n)
	}
	if n := r.PollOnce(); n != 0 {
		t.Fatalf("third scan = %d polls, want 0", n)
	}
}

func TestCancelSuppressesEvent(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	h, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		polled++
		return Await(evA)
	}), Await(evA))
	if err != nil {
		t.Fatal(err)
	}

	r.Cancel(h)
	r.Fire(evA)
	if n := r.PollOnce(); n != 0 {
		t.Fatalf("PollOnce after Cancel = %d, want 0", n)
	}
	if polled != 0 {
		t.Fatal("cancelled task was polled")
	}

	// The slot is recycled with a fresh generation.
	h2, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		return Done()
	}), Yield())
	if err != nil {
		t.Fatal(err)
	}
	if h2 == h {
		t.Fatal("recycled slot reissued the same handle")
	}
}

func TestCancelSelf(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	_, err := r.Register(pollFunc(func(ctx *Context, _ Cause) Decision {
		polled++
		ctx.Cancel(ctx.Self())
		return Await(evA) // void: the cancel wins
	}), Yield())
	if err != nil {
		t.Fatal(err)
	}

	r.PollOnce()
	r.Fire(evA)
	if n := r.PollOnce(); n != 0 {
		t.Fatalf("poll after self-cancel = %d, want 0", n)
	}
	if polled != 1 {
		t.Fatalf("polled = %d, want 1", polled)
	}
}

func TestStaleHandleTraps(t *testing.T) {
	defer resetTrap()
	r := NewReactor(nil)

	h, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		return Done()
	}), Yield())
	if err != nil {
		t.Fatal(err)
	}
	r.PollOnce() // task completes, slot reclaimed

	require.Panics(t, func() { r.Cancel(h) })
	require.True(t, InTrapMode())
}

func TestDeadlineFires(t *testing.T) {
	r := NewReactor(nil)

	var causes []Cause
	_, err := r.Register(pollFunc(func(_ *Context, cause Cause) Decision {
		causes = append(causes, cause)
		return Pending()
	}), AwaitUntil(evA, 100))
	if err != nil {
		t.Fatal(err)
	}

	r.Tick(99)
	if n := r.PollOnce(); n != 0 {
		t.Fatal("deadline fired early")
	}
	r.Tick(100)
	if n := r.PollOnce(); n != 1 {
		t.Fatal("deadline did not fire at its tick")
	}
	if causes[0] != CauseTimeout {
		t.Fatalf("cause = %v, want timeout", causes[0])
	}

	// One-shot: the deadline disarmed, but Pending kept the event armed.
	r.Tick(500)
	if n := r.PollOnce(); n != 0 {
		t.Fatal("disarmed deadline fired again")
	}
	r.Fire(evA)
	if n := r.PollOnce(); n != 1 {
		t.Fatal("event interest lost after timeout")
	}
	if causes[1] != CauseEvent {
		t.Fatalf("cause = %v, want event", causes[1])
	}
}

func TestEventWinsDeadlineRace(t *testing.T) {
	r := NewReactor(nil)

	var causes []Cause
	_, err := r.Register(pollFunc(func(_ *Context, cause Cause) Decision {
		causes = append(causes, cause)
		return Pending()
	}), AwaitUntil(evA, 100))
	if err != nil {
		t.Fatal(err)
	}

	r.Fire(evA)
	r.Tick(150) // both ready and expired
	if n := r.PollOnce(); n != 1 {
		t.Fatal("no poll delivered")
	}
	if causes[0] != CauseEvent {
		t.Fatalf("cause = %v, want event (event wins the race)", causes[0])
	}

	// The deadline stayed armed and delivers on the next scan.
	if n := r.PollOnce(); n != 1 {
		t.Fatal("armed deadline lost after the event poll")
	}
	if causes[1] != CauseTimeout {
		t.Fatalf("cause = %v, want timeout", causes[1])
	}
}

func TestSleep(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	_, err := r.Register(pollFunc(func(ctx *Context, cause Cause) Decision {
		polled++
		if cause != CauseTimeout {
			t.Fatalf("cause = %v, want timeout", cause)
		}
		if polled < 3 {
			return Sleep(ctx.Now() + 10)
		}
		return Done()
	}), Sleep(10))
	if err != nil {
		t.Fatal(err)
	}

	for now := uint64(0); now <= 40; now += 5 {
		r.Tick(now)
		r.PollOnce()
	}
	if polled != 3 {
		t.Fatalf("polled = %d, want 3", polled)
	}
}

func TestYieldTimeslicing(t *testing.T) {
	r := NewReactor(nil)

	var steps int
	_, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		steps++
		if steps < 4 {
			return Yield()
		}
		return Done()
	}), Yield())
	if err != nil {
		t.Fatal(err)
	}

	scans := 0
	for steps < 4 && scans < 10 {
		r.PollOnce()
		scans++
	}
	if steps != 4 {
		t.Fatalf("steps = %d after %d scans", steps, scans)
	}
}

func TestPendingKeepsInterest(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	_, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		polled++
		return Pending()
	}), Await(evA))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		r.Fire(evA)
		r.PollOnce()
	}
	if polled != 3 {
		t.Fatalf("polled = %d, want 3", polled)
	}
}

func TestWakeSoftwareReadiness(t *testing.T) {
	r := NewReactor(nil)

	var polled int
	h, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		polled++
		return Pending()
	}), Pending())
	if err != nil {
		t.Fatal(err)
	}

	if n := r.PollOnce(); n != 0 {
		t.Fatal("parked task polled without a wake")
	}
	r.Wake(h)
	if n := r.PollOnce(); n != 1 || polled != 1 {
		t.Fatalf("poll after Wake: n=%d polled=%d", n, polled)
	}
}

func TestZeroDecisionTraps(t *testing.T) {
	defer resetTrap()
	r := NewReactor(nil)

	_, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		return Decision{}
	}), Yield())
	require.NoError(t, err)

	require.Panics(t, func() { r.PollOnce() })
	require.True(t, InTrapMode())
}

func TestTaskPanicEntersTrapMode(t *testing.T) {
	defer resetTrap()
	r := NewReactor(nil)

	var got TrapInfo
	SetTrapHandler(func(info TrapInfo) { got = info })

	_, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		panic("boom")
	}), Yield())
	require.NoError(t, err)

	require.NotPanics(t, func() { r.PollOnce() })
	require.True(t, InTrapMode())
	require.Equal(t, TrapTaskPanic, got.Code)
	require.Equal(t, 0, got.Slot)
	require.Equal(t, "boom", got.Value)

	// The kernel refuses to run anything further.
	require.Equal(t, 0, r.PollOnce())
}

func TestDoneReclaimsSlot(t *testing.T) {
	r := NewReactor(nil)

	// Churn one slot through many lifetimes; registration must keep
	// succeeding and handles must never repeat back to back.
	var last Handle
	for i := 0; i < 100; i++ {
		h, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
			return Done()
		}), Yield())
		if err != nil {
			t.Fatalf("Register #%d = %v", i, err)
		}
		if h == last {
			t.Fatalf("handle repeated at iteration %d", i)
		}
		last = h
		r.PollOnce()
	}
}

func TestRunHost(t *testing.T) {
	r := NewReactor(nil)

	done := make(chan struct{})
	_, err := r.Register(pollFunc(func(_ *Context, _ Cause) Decision {
		close(done)
		return Done()
	}), Await(evA))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	r.Fire(evA)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran under Run")
	}

	cancel()
	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Fatalf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
