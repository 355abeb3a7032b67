//go:build !tinygo

package hal

import (
	"math/rand"
	"sync"
	"time"
)

// hostSensor fakes the HTU21D measurement engine: a command starts a
// conversion that completes ~20ms later with a plausible raw sample, about
// 22.5 degrees and 45% humidity with a little wander.
type hostSensor struct {
	mu  sync.Mutex
	rng *rand.Rand
	ch  chan Measurement
}

const (
	// Raw codes for the fake readings, per the HTU21D conversion formulas.
	hostRawTemp22C5 = 25868
	hostRawHum45    = 26738
)

func newHostSensor() *hostSensor {
	return &hostSensor{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		ch:  make(chan Measurement, 4),
	}
}

func (s *hostSensor) Results() <-chan Measurement { return s.ch }

func (s *hostSensor) Measure(cmd byte) {
	s.mu.Lock()
	jitter := uint16(s.rng.Intn(64)) &^ 0x3
	s.mu.Unlock()

	var m Measurement
	switch cmd {
	case 0xE3: // temperature, hold master
		m = Measurement{Cmd: cmd, Raw: hostRawTemp22C5 + jitter}
	case 0xE5: // humidity, hold master
		m = Measurement{Cmd: cmd, Raw: hostRawHum45 + jitter}
	case 0xFE: // soft reset completes silently
		return
	default:
		m = Measurement{Cmd: cmd, Err: true}
	}

	time.AfterFunc(20*time.Millisecond, func() {
		select {
		case s.ch <- m:
		default:
		}
	})
}
