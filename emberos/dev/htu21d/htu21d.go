// Package htu21d reads the HTU21D temperature/humidity sensor. The
// measurement engine lives behind hal.Sensor; this driver owns the command
// sequencing, the result latch shared with the bridge, and the raw-to-
// engineering conversions from the datasheet.
package htu21d

import (
	"strconv"
	"sync/atomic"

	"ember/emberos/kernel"
	"ember/hal"
)

// Measurement commands, hold-master mode.
const (
	CmdSoftReset    = 0xFE
	CmdReadTemp     = 0xE3
	CmdReadHumidity = 0xE5
)

// Millicelsius converts a raw temperature sample. The two low status bits
// are masked off per the datasheet.
func Millicelsius(raw uint16) int64 {
	return -46_850 + (175_720*int64(raw&^0x3))>>16
}

// Millipercent converts a raw humidity sample to milli-%RH.
func Millipercent(raw uint16) int64 {
	return -6_000 + (125_000*int64(raw&^0x3))>>16
}

// FormatMilli renders a milli-unit value as a decimal with three places,
// e.g. 23456 -> "23.456".
func FormatMilli(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v/1000, 10) + "." + pad3(v%1000)
	if neg {
		return "-" + s
	}
	return s
}

func pad3(v int64) string {
	s := strconv.FormatInt(v, 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// Reading is one completed temperature+humidity measurement pair.
type Reading struct {
	TempRaw uint16
	HumRaw  uint16
}

func (r Reading) Millicelsius() int64 { return Millicelsius(r.TempRaw) }
func (r Reading) Millipercent() int64 { return Millipercent(r.HumRaw) }

// latch word layout: bit 16 = valid, low 16 bits = raw sample.
const latchValid = 1 << 16

// Driver sequences paired temperature and humidity conversions. Start is
// task context; OnResult is the bridge half, fed by the platform's result
// stream, and only latches words and fires the done event.
type Driver struct {
	sensor hal.Sensor
	r      *kernel.Reactor
	done   kernel.EventID

	temp   atomic.Uint32
	hum    atomic.Uint32
	failed atomic.Bool
}

func New(sensor hal.Sensor, r *kernel.Reactor, done kernel.EventID) *Driver {
	return &Driver{sensor: sensor, r: r, done: done}
}

// Start begins a temperature+humidity measurement pair. Returns false when
// the board has no sensor. The done event fires when both results (or a
// failure) have arrived.
func (d *Driver) Start() bool {
	if d.sensor == nil {
		return false
	}
	d.temp.Store(0)
	d.hum.Store(0)
	d.failed.Store(false)
	d.sensor.Measure(CmdReadTemp)
	d.sensor.Measure(CmdReadHumidity)
	return true
}

// OnResult accepts one conversion result. Interrupt-bridge context: latch
// writes and an event fire only.
func (d *Driver) OnResult(m hal.Measurement) {
	if m.Err {
		d.failed.Store(true)
		d.r.Fire(d.done)
		return
	}
	switch m.Cmd {
	case CmdReadTemp:
		d.temp.Store(latchValid | uint32(m.Raw))
	case CmdReadHumidity:
		d.hum.Store(latchValid | uint32(m.Raw))
	default:
		return
	}
	if d.temp.Load()&latchValid != 0 && d.hum.Load()&latchValid != 0 {
		d.r.Fire(d.done)
	}
}

// Take returns the completed reading, if both halves arrived without error.
// Task context.
func (d *Driver) Take() (Reading, bool) {
	if d.failed.Load() {
		return Reading{}, false
	}
	t := d.temp.Load()
	h := d.hum.Load()
	if t&latchValid == 0 || h&latchValid == 0 {
		return Reading{}, false
	}
	return Reading{TempRaw: uint16(t), HumRaw: uint16(h)}, true
}
