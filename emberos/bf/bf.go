// Package bf interprets brainfuck programs on a 256-cell wrapping tape.
// The tape comes out of the kernel arena, so a program's working memory is
// accounted like any other allocation and returned when it finishes.
package bf

import (
	"errors"
	"io"

	"ember/emberos/kernel"
)

// TapeSize is the cell count. The data pointer wraps at both ends.
const TapeSize = 256

// DefaultSteps bounds a single run; a program that exceeds it is assumed
// to be stuck.
const DefaultSteps = 1_000_000

var (
	ErrUnbalanced = errors.New("bf: unbalanced brackets")
	ErrSteps      = errors.New("bf: step budget exceeded")
	ErrNoInput    = errors.New("bf: program reads input, no input source")
)

// Run interprets prog, writing output bytes to out. The tape is allocated
// from a and freed before return. steps <= 0 means DefaultSteps.
func Run(prog []byte, out io.ByteWriter, a *kernel.Arena, steps int) error {
	if steps <= 0 {
		steps = DefaultSteps
	}
	jumps, err := matchBrackets(prog)
	if err != nil {
		return err
	}

	ref, tape, err := a.Alloc(TapeSize)
	if err != nil {
		return err
	}
	defer a.Free(ref)
	for i := range tape {
		tape[i] = 0
	}

	cur := 0
	for pos := 0; pos < len(prog); pos++ {
		if steps--; steps < 0 {
			return ErrSteps
		}
		switch prog[pos] {
		case '>':
			cur = (cur + 1) % TapeSize
		case '<':
			cur = (cur + TapeSize - 1) % TapeSize
		case '+':
			tape[cur]++
		case '-':
			tape[cur]--
		case '.':
			if err := out.WriteByte(tape[cur]); err != nil {
				return err
			}
		case ',':
			return ErrNoInput
		case '[':
			if tape[cur] == 0 {
				pos = jumps[pos]
			}
		case ']':
			if tape[cur] != 0 {
				pos = jumps[pos]
			}
		}
		// anything else is a comment
	}
	return nil
}

// matchBrackets resolves every bracket to its partner in one pass.
func matchBrackets(prog []byte) (map[int]int, error) {
	jumps := make(map[int]int)
	var stack []int
	for i, c := range prog {
		switch c {
		case '[':
			stack = append(stack, i)
		case ']':
			if len(stack) == 0 {
				return nil, ErrUnbalanced
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jumps[open] = i
			jumps[i] = open
		}
	}
	if len(stack) != 0 {
		return nil, ErrUnbalanced
	}
	return jumps, nil
}
