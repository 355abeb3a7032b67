//go:build !tinygo

package hal

import (
	"os"
	"sync"
)

// hostSerial simulates an interrupt-driven UART. Received bytes (stdin in
// headless mode, window keystrokes otherwise) are delivered through the
// installed receive hook; EnableTx wakes a pump goroutine that drains the
// kernel's transmit ring into w, standing in for the TX-empty interrupt.
type hostSerial struct {
	w *os.File

	mu     sync.Mutex
	onRecv func(byte)
	onSend func() (byte, bool)

	txKick chan struct{}
}

func newHostSerial(w *os.File) *hostSerial {
	s := &hostSerial{w: w, txKick: make(chan struct{}, 1)}
	go s.txPump()
	return s
}

func (s *hostSerial) SetISR(onRecv func(b byte), onSendReady func() (byte, bool)) {
	s.mu.Lock()
	s.onRecv = onRecv
	s.onSend = onSendReady
	s.mu.Unlock()
}

func (s *hostSerial) EnableTx() {
	select {
	case s.txKick <- struct{}{}:
	default:
	}
}

func (s *hostSerial) txPump() {
	buf := make([]byte, 0, 256)
	for range s.txKick {
		s.mu.Lock()
		onSend := s.onSend
		s.mu.Unlock()
		if onSend == nil {
			continue
		}
		for {
			buf = buf[:0]
			for len(buf) < cap(buf) {
				b, ok := onSend()
				if !ok {
					break
				}
				buf = append(buf, b)
			}
			if len(buf) == 0 {
				break
			}
			s.w.Write(buf)
		}
	}
}

// inject delivers one received byte through the ISR hook.
func (s *hostSerial) inject(b byte) {
	s.mu.Lock()
	onRecv := s.onRecv
	s.mu.Unlock()
	if onRecv != nil {
		onRecv(b)
	}
}

// pumpStdin bridges os.Stdin into the receive hook. Used by headless mode,
// where stdin is the terminal; the window feeds keystrokes instead.
func (s *hostSerial) pumpStdin() error {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			s.inject(buf[0])
		}
		if err != nil {
			return err
		}
	}
}
