//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// uartSerial adapts machine.UART to the interrupt-hook Serial contract.
// TinyGo's UART driver buffers internally, so the "interrupt" sides are
// pump goroutines sitting on that buffer.
type uartSerial struct {
	uart   *machine.UART
	onRecv func(byte)
	onSend func() (byte, bool)
	txKick chan struct{}
}

func newUARTSerial(uart *machine.UART) *uartSerial {
	return &uartSerial{uart: uart, txKick: make(chan struct{}, 1)}
}

func (s *uartSerial) SetISR(onRecv func(b byte), onSendReady func() (byte, bool)) {
	s.onRecv = onRecv
	s.onSend = onSendReady

	go func() {
		for {
			if s.uart.Buffered() > 0 {
				b, err := s.uart.ReadByte()
				if err == nil && s.onRecv != nil {
					s.onRecv(b)
				}
				continue
			}
			time.Sleep(time.Millisecond)
		}
	}()
	go func() {
		for range s.txKick {
			for s.onSend != nil {
				b, ok := s.onSend()
				if !ok {
					break
				}
				s.uart.WriteByte(b)
			}
		}
	}()
}

func (s *uartSerial) EnableTx() {
	select {
	case s.txKick <- struct{}{}:
	default:
	}
}

// i2cSensor drives a real HTU21D on the given bus. One worker goroutine
// owns the bus, so paired temperature and humidity conversions never
// interleave their transactions.
type i2cSensor struct {
	i2c  *machine.I2C
	cmds chan byte
	ch   chan Measurement
}

const htu21dAddr = 0x40

func newI2CSensor(i2c *machine.I2C) *i2cSensor {
	s := &i2cSensor{
		i2c:  i2c,
		cmds: make(chan byte, 8),
		ch:   make(chan Measurement, 4),
	}
	go s.run()
	return s
}

func (s *i2cSensor) Results() <-chan Measurement { return s.ch }

func (s *i2cSensor) Measure(cmd byte) {
	select {
	case s.cmds <- cmd:
	default:
	}
}

func (s *i2cSensor) run() {
	var buf [3]byte
	for cmd := range s.cmds {
		err := s.i2c.Tx(htu21dAddr, []byte{cmd}, buf[:])
		m := Measurement{Cmd: cmd}
		if err != nil {
			m.Err = true
		} else {
			m.Raw = uint16(buf[0])<<8 | uint16(buf[1])
		}
		select {
		case s.ch <- m:
		default:
		}
	}
}
