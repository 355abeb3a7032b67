package serial

import "testing"

func TestRingFillDrain(t *testing.T) {
	r := newRing(8)
	for i := 0; i < 8; i++ {
		if !r.push(byte(i)) {
			t.Fatalf("push #%d failed below capacity", i)
		}
	}
	if r.push(0xFF) {
		t.Fatal("push succeeded on a full ring")
	}
	if r.len() != 8 || r.free() != 0 {
		t.Fatalf("len=%d free=%d, want 8/0", r.len(), r.free())
	}
	for i := 0; i < 8; i++ {
		b, ok := r.pop()
		if !ok || b != byte(i) {
			t.Fatalf("pop #%d = %d,%v", i, b, ok)
		}
	}
	if _, ok := r.pop(); ok {
		t.Fatal("pop succeeded on an empty ring")
	}
}

func TestRingWrapAround(t *testing.T) {
	r := newRing(4)
	// Push/pop past the index wrap several times over.
	for i := 0; i < 1000; i++ {
		if !r.push(byte(i)) {
			t.Fatalf("push #%d failed on empty ring", i)
		}
		b, ok := r.pop()
		if !ok || b != byte(i) {
			t.Fatalf("pop #%d = %d,%v", i, b, ok)
		}
	}
}

func TestRingInterleaved(t *testing.T) {
	r := newRing(8)
	next := byte(0)
	expect := byte(0)
	for i := 0; i < 200; i++ {
		if i%3 != 0 {
			if r.push(next) {
				next++
			}
		} else {
			if b, ok := r.pop(); ok {
				if b != expect {
					t.Fatalf("out of order: got %d, want %d", b, expect)
				}
				expect++
			}
		}
	}
	for {
		b, ok := r.pop()
		if !ok {
			break
		}
		if b != expect {
			t.Fatalf("tail out of order: got %d, want %d", b, expect)
		}
		expect++
	}
	if expect != next {
		t.Fatalf("drained %d bytes, pushed %d", expect, next)
	}
}

func TestRingBadSize(t *testing.T) {
	for _, n := range []int{0, -1, 3, 12} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("newRing(%d) did not panic", n)
				}
			}()
			newRing(n)
		}()
	}
}
