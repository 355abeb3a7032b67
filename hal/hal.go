package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Serial is the board serial port. The kernel installs its interrupt entry
// points once at assembly time; the platform calls them from its receive and
// transmit contexts and from nowhere else.
type Serial interface {
	// SetISR installs the receive and transmit hooks. onRecv is called once
	// per received byte. onSendReady is called when the transmitter can take
	// a byte; a false return means the transmit side is drained and the
	// platform masks further send callbacks until EnableTx.
	SetISR(onRecv func(b byte), onSendReady func() (byte, bool))

	// EnableTx unmasks the transmit side: the platform drains onSendReady
	// until it reports empty. Idempotent.
	EnableTx()
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// Time provides a base tick stream.
//
// One tick is one millisecond on every platform; kernel deadlines are
// expressed in these ticks.
type Time interface {
	Ticks() <-chan uint64
}

// Measurement is one completed sensor conversion, tagged with the command
// that started it.
type Measurement struct {
	Cmd byte
	Raw uint16
	Err bool
}

// Sensor is an HTU21D-compatible measurement engine: a command starts a
// conversion, the result arrives later on the channel.
type Sensor interface {
	Measure(cmd byte)
	Results() <-chan Measurement
}

// HAL provides the only contact point between the kernel and the board.
type HAL interface {
	Logger() Logger
	LEDs() []LED // user LEDs, index 0..3 = LD3..LD6
	Serial() Serial
	Display() Display // nil framebuffer when the board has none
	Input() Input
	Time() Time
	Sensor() Sensor // nil when the board has none
}
