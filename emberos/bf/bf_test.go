package bf

import (
	"bytes"
	"testing"

	"ember/emberos/kernel"
)

func newTestArena(t *testing.T) *kernel.Arena {
	t.Helper()
	a, err := kernel.NewArena(make([]byte, 4096), nil)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func run(t *testing.T, prog string) (string, error) {
	t.Helper()
	a := newTestArena(t)
	var out bytes.Buffer
	err := Run([]byte(prog), &out, a, 0)

	// The tape must be returned regardless of the outcome.
	if st := a.Stats(); st.LiveBlocks != 0 {
		t.Fatalf("tape leaked: %d live blocks", st.LiveBlocks)
	}
	return out.String(), err
}

func TestIncrement(t *testing.T) {
	out, err := run(t, ".+.+.+.+.")
	if err != nil {
		t.Fatal(err)
	}
	if out != "\x00\x01\x02\x03\x04" {
		t.Fatalf("output = %q", out)
	}
}

func TestDecrementWraps(t *testing.T) {
	out, err := run(t, "-.")
	if err != nil {
		t.Fatal(err)
	}
	if out != "\xff" {
		t.Fatalf("output = %q", out)
	}
}

func TestLoopMultiply(t *testing.T) {
	// 8*8+1 = 'A'
	out, err := run(t, "++++++++[>++++++++<-]>+.")
	if err != nil {
		t.Fatal(err)
	}
	if out != "A" {
		t.Fatalf("output = %q, want A", out)
	}
}

func TestHelloWorld(t *testing.T) {
	prog := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]" +
		">>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	out, err := run(t, prog)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello World!\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestSkippedLoop(t *testing.T) {
	out, err := run(t, "[.]")
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Fatalf("skipped loop produced output %q", out)
	}
}

func TestNestedLoopSkip(t *testing.T) {
	out, err := run(t, "[[-].].")
	if err != nil {
		t.Fatal(err)
	}
	if out != "\x00" {
		t.Fatalf("output = %q", out)
	}
}

func TestPointerWrapsTape(t *testing.T) {
	// One step left from cell 0 lands on cell 255.
	out, err := run(t, "<+.")
	if err != nil {
		t.Fatal(err)
	}
	if out != "\x01" {
		t.Fatalf("output = %q", out)
	}
}

func TestComments(t *testing.T) {
	out, err := run(t, "this + is . a comment")
	if err != nil {
		t.Fatal(err)
	}
	if out != "\x01" {
		t.Fatalf("output = %q", out)
	}
}

func TestUnbalancedBrackets(t *testing.T) {
	for _, prog := range []string{"[", "]", "[[]", "[]]"} {
		if _, err := run(t, prog); err != ErrUnbalanced {
			t.Fatalf("Run(%q) = %v, want ErrUnbalanced", prog, err)
		}
	}
}

func TestStepBudget(t *testing.T) {
	if _, err := run(t, "+[]"); err != ErrSteps {
		t.Fatalf("infinite loop = %v, want ErrSteps", err)
	}
}

func TestInputUnsupported(t *testing.T) {
	if _, err := run(t, ","); err != ErrNoInput {
		t.Fatalf("input program = %v, want ErrNoInput", err)
	}
}

func TestOutOfMemory(t *testing.T) {
	a, err := kernel.NewArena(make([]byte, 128), nil)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Run([]byte("+."), &out, a, 0); err != kernel.ErrOutOfMemory {
		t.Fatalf("Run with tiny arena = %v, want ErrOutOfMemory", err)
	}
}
