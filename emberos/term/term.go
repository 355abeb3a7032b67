// Package term is the serial command terminal: prompt, echo, line editing,
// and the command set, running as one reactor task. Output is flush-first:
// when the transmit ring backs up, the task suspends on the TX event until
// the interrupt side drains it.
package term

import (
	"ember/emberos/dev/htu21d"
	"ember/emberos/dev/led"
	"ember/emberos/dev/serial"
	"ember/emberos/kernel"
)

const banner = "Welcome to ember!\nType 'help' to list available commands.\n"

const prompt = "> "

const (
	lineCap = 64

	// outCap bounds the output a single command can queue. What fits
	// neither here nor in the transmit ring is dropped; Poll never blocks
	// on output.
	outCap = 2048

	defaultSensorWait = 500 // ms
)

type mode uint8

const (
	modeRead mode = iota
	modeSensor
)

// Config wires the terminal to its collaborators. Leds, LedFun, Sensor and
// Console are optional.
type Config struct {
	Port    *serial.Port
	RxEvent kernel.EventID
	TxEvent kernel.EventID

	Arena *kernel.Arena

	Leds   *led.Bank
	LedFun kernel.EventID

	Sensor      *htu21d.Driver
	SensorEvent kernel.EventID
	SensorWait  uint64 // ticks to wait for a reading

	Console Console
}

// Terminal is the command terminal task. Its line buffer and output queue
// live in the arena.
type Terminal struct {
	cfg Config

	booted bool
	mode   mode

	lineRef kernel.Ref
	line    []byte
	lineLen int
	lastCR  bool

	outRef   kernel.Ref
	out      []byte
	outStart int
	outLen   int

	sensorDeadline uint64
}

// New allocates the terminal's buffers from the arena.
func New(cfg Config) (*Terminal, error) {
	if cfg.SensorWait == 0 {
		cfg.SensorWait = defaultSensorWait
	}
	t := &Terminal{cfg: cfg}
	var err error
	if t.lineRef, t.line, err = cfg.Arena.Alloc(lineCap); err != nil {
		return nil, err
	}
	if t.outRef, t.out, err = cfg.Arena.Alloc(outCap); err != nil {
		cfg.Arena.Free(t.lineRef)
		return nil, err
	}
	return t, nil
}

// Start registers the terminal; the first poll prints the banner.
func (t *Terminal) Start(r *kernel.Reactor) (kernel.Handle, error) {
	return r.Register(t, kernel.Yield())
}

func (t *Terminal) Poll(ctx *kernel.Context, cause kernel.Cause) kernel.Decision {
	if !t.booted {
		t.booted = true
		t.print(banner)
		t.print(prompt)
		return t.decide()
	}

	switch t.mode {
	case modeSensor:
		t.finishSensor(cause)
	default:
		t.pump()
		if t.outLen == 0 {
			t.readInput(ctx)
		}
	}
	return t.decide()
}

// decide picks the next suspension from the terminal's state: finish the
// sensor wait, drain queued output, or read.
func (t *Terminal) decide() kernel.Decision {
	t.pump()
	if t.mode == modeSensor {
		return kernel.AwaitUntil(t.cfg.SensorEvent, t.sensorDeadline)
	}
	if t.outLen > 0 {
		return kernel.Await(t.cfg.TxEvent)
	}
	if t.cfg.Port.RxPending() {
		// Bytes that arrived while we were not armed for RX made no
		// wakeup; poll again rather than sleep on them.
		return kernel.Yield()
	}
	return kernel.Await(t.cfg.RxEvent)
}

// readInput consumes the receive ring: echo, backspace, line assembly.
func (t *Terminal) readInput(ctx *kernel.Context) {
	for {
		b, ok := t.cfg.Port.ReadByte()
		if !ok {
			return
		}
		wasCR := t.lastCR
		t.lastCR = b == '\r'

		switch {
		case b == 0x08 || b == 0x7F:
			if t.lineLen > 0 {
				t.lineLen--
				t.print("\b \b")
			}
		case b == '\r' || b == '\n':
			if b == '\n' && wasCR {
				continue // second half of CRLF
			}
			t.enter(ctx)
			if t.mode != modeRead {
				return
			}
		default:
			t.line[t.lineLen] = b
			t.lineLen++
			t.writeByte(b)
			if t.lineLen == lineCap {
				// Line full: behave as if enter was pressed.
				t.enter(ctx)
				if t.mode != modeRead {
					return
				}
			}
		}
	}
}

func (t *Terminal) enter(ctx *kernel.Context) {
	t.print("\n")
	line := string(t.line[:t.lineLen])
	t.lineLen = 0
	t.exec(ctx, line)
	if t.mode == modeRead {
		t.print(prompt)
	}
}

// finishSensor completes the temp command: the done event delivers the
// reading, the deadline delivers the error path.
func (t *Terminal) finishSensor(cause kernel.Cause) {
	t.mode = modeRead
	if cause == kernel.CauseEvent {
		if rd, ok := t.cfg.Sensor.Take(); ok {
			t.print("Temperature: " + htu21d.FormatMilli(rd.Millicelsius()) +
				" C    Humidity: " + htu21d.FormatMilli(rd.Millipercent()) + "%\n")
			t.print(prompt)
			return
		}
	}
	t.print("Temperature read error\n")
	t.print(prompt)
}

// print queues s for transmit, expanding LF to CRLF, and mirrors it to the
// console.
func (t *Terminal) print(s string) {
	for i := 0; i < len(s); i++ {
		t.writeByte(s[i])
	}
}

func (t *Terminal) writeByte(b byte) {
	if b == '\n' {
		t.queueByte('\r')
	}
	t.queueByte(b)
}

func (t *Terminal) queueByte(b byte) {
	if c := t.cfg.Console; c != nil {
		c.WriteByte(b)
	}
	if t.outStart+t.outLen == len(t.out) {
		if t.outLen == 0 {
			t.outStart = 0
		} else if t.outStart > 0 {
			copy(t.out, t.out[t.outStart:t.outStart+t.outLen])
			t.outStart = 0
		} else {
			return // queue full: drop
		}
	}
	t.out[t.outStart+t.outLen] = b
	t.outLen++
}

// termWriter routes byte-at-a-time writers (the brainfuck interpreter)
// through the terminal's output path.
type termWriter Terminal

func (w *termWriter) WriteByte(b byte) error {
	(*Terminal)(w).writeByte(b)
	return nil
}

// pump moves queued output into the transmit ring.
func (t *Terminal) pump() {
	for t.outLen > 0 {
		n := t.cfg.Port.Write(t.out[t.outStart : t.outStart+t.outLen])
		t.outStart += n
		t.outLen -= n
		if n == 0 {
			return
		}
	}
	t.outStart = 0
	if c := t.cfg.Console; c != nil {
		c.Display()
	}
}
