package serial

import (
	"testing"

	"ember/emberos/kernel"
)

const (
	evRx kernel.EventID = 1
	evTx kernel.EventID = 2
)

type pollFunc func(ctx *kernel.Context, cause kernel.Cause) kernel.Decision

func (f pollFunc) Poll(ctx *kernel.Context, cause kernel.Cause) kernel.Decision {
	return f(ctx, cause)
}

func TestPortRxWakesReader(t *testing.T) {
	r := kernel.NewReactor(nil)
	p := NewPort(Config{Reactor: r, RxEvent: evRx, TxEvent: evTx})

	var got []byte
	_, err := r.Register(pollFunc(func(_ *kernel.Context, _ kernel.Cause) kernel.Decision {
		for {
			b, ok := p.ReadByte()
			if !ok {
				return kernel.Await(evRx)
			}
			got = append(got, b)
		}
	}), kernel.Await(evRx))
	if err != nil {
		t.Fatal(err)
	}

	p.OnRecv('h')
	p.OnRecv('i')
	if n := r.PollOnce(); n != 1 {
		t.Fatalf("PollOnce = %d, want 1", n)
	}
	if string(got) != "hi" {
		t.Fatalf("read %q, want %q", got, "hi")
	}
}

func TestPortRxOverrunDropsNewest(t *testing.T) {
	r := kernel.NewReactor(nil)
	p := NewPort(Config{Reactor: r, RxEvent: evRx, TxEvent: evTx, RxSize: 4})

	for i := 0; i < 6; i++ {
		p.OnRecv(byte('a' + i))
	}
	if d := p.RxDropped(); d != 2 {
		t.Fatalf("RxDropped = %d, want 2", d)
	}

	var got []byte
	for {
		b, ok := p.ReadByte()
		if !ok {
			break
		}
		got = append(got, b)
	}
	// The oldest bytes survive; the overflow was dropped on arrival.
	if string(got) != "abcd" {
		t.Fatalf("read %q, want %q", got, "abcd")
	}
}

func TestPortWriteStartsTx(t *testing.T) {
	r := kernel.NewReactor(nil)
	started := 0
	p := NewPort(Config{Reactor: r, RxEvent: evRx, TxEvent: evTx, TxSize: 8,
		StartTx: func() { started++ }})

	if n := p.WriteString("abc"); n != 3 {
		t.Fatalf("WriteString = %d, want 3", n)
	}
	if started != 1 {
		t.Fatalf("StartTx called %d times, want 1", started)
	}

	var wire []byte
	for {
		b, ok := p.OnSendReady()
		if !ok {
			break
		}
		wire = append(wire, b)
	}
	if string(wire) != "abc" {
		t.Fatalf("transmitted %q", wire)
	}
}

func TestPortWriteShortOnFullRing(t *testing.T) {
	r := kernel.NewReactor(nil)
	p := NewPort(Config{Reactor: r, RxEvent: evRx, TxEvent: evTx, TxSize: 4})

	if n := p.Write([]byte("abcdef")); n != 4 {
		t.Fatalf("Write = %d, want 4", n)
	}
	if p.TxFree() != 0 {
		t.Fatalf("TxFree = %d, want 0", p.TxFree())
	}

	// Draining fires TxEvent so a backpressured writer can resume.
	var woken bool
	_, err := r.Register(pollFunc(func(_ *kernel.Context, _ kernel.Cause) kernel.Decision {
		woken = true
		return kernel.Done()
	}), kernel.Await(evTx))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := p.OnSendReady(); !ok {
		t.Fatal("OnSendReady empty on a full ring")
	}
	r.PollOnce()
	if !woken {
		t.Fatal("TxEvent not delivered on drain")
	}
}

func TestPortTxDrainedMasks(t *testing.T) {
	r := kernel.NewReactor(nil)
	p := NewPort(Config{Reactor: r, RxEvent: evRx, TxEvent: evTx})

	if _, ok := p.OnSendReady(); ok {
		t.Fatal("OnSendReady reported a byte on an empty ring")
	}
}
