//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

type hostHAL struct {
	logger *hostLogger
	leds   []*hostLED
	serial *hostSerial
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	sensor *hostSensor
}

var ledNames = [4]string{"LD3", "LD4", "LD5", "LD6"}

// New returns a host HAL implementation.
func New() HAL {
	logger := &hostLogger{w: os.Stderr}
	leds := make([]*hostLED, 4)
	for i := range leds {
		leds[i] = &hostLED{name: ledNames[i]}
	}
	return &hostHAL{
		logger: logger,
		leds:   leds,
		serial: newHostSerial(os.Stdout),
		fb:     newHostFramebuffer(480, 320),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		sensor: newHostSensor(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Serial() Serial   { return h.serial }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Sensor() Sensor   { return h.sensor }

func (h *hostHAL) LEDs() []LED {
	out := make([]LED, len(h.leds))
	for i, l := range h.leds {
		out[i] = l
	}
	return out
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// hostLED is one simulated user LED. The window draws it; headless mode
// only tracks the level.
type hostLED struct {
	name string
	on   atomic.Bool
}

func (l *hostLED) High()     { l.on.Store(true) }
func (l *hostLED) Low()      { l.on.Store(false) }
func (l *hostLED) lit() bool { return l.on.Load() }
