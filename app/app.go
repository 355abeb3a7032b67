// Package app assembles a running system from a HAL: the static arena, the
// reactor, the serial port, the LED player, the sensor driver and the
// command terminal, wired together with the event IDs assigned here.
package app

import (
	"ember/emberos/dev/htu21d"
	"ember/emberos/dev/led"
	"ember/emberos/dev/serial"
	"ember/emberos/kernel"
	"ember/emberos/term"
	"ember/hal"
)

// Event IDs. Assigned once, at assembly time; 0 is reserved.
const (
	EvSerialRx kernel.EventID = iota + 1
	EvSerialTx
	EvLedFun
	EvSensorDone
)

const defaultMemKiB = 64

type Config struct {
	// MemKiB sizes the arena region. Default 64.
	MemKiB int
	// SensorWait bounds a temperature read, in ticks. Default 500.
	SensorWait uint64
}

type system struct {
	arena *kernel.Arena
	r     *kernel.Reactor
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	if cfg.MemKiB <= 0 {
		cfg.MemKiB = defaultMemKiB
	}
	installTrapHandler(h)

	arena, err := kernel.NewArena(make([]byte, cfg.MemKiB*1024), nil)
	if err != nil {
		return nil, err
	}
	r := kernel.NewReactor(nil)

	port := serial.NewPort(serial.Config{
		Reactor: r,
		RxEvent: EvSerialRx,
		TxEvent: EvSerialTx,
		StartTx: h.Serial().EnableTx,
	})
	h.Serial().SetISR(port.OnRecv, port.OnSendReady)

	bank := led.NewBank(h.LEDs())
	player := led.NewPlayer(bank, EvLedFun)
	if _, err := player.Start(r); err != nil {
		return nil, err
	}

	var drv *htu21d.Driver
	if s := h.Sensor(); s != nil {
		drv = htu21d.New(s, r, EvSensorDone)
		go func() {
			for m := range s.Results() {
				drv.OnResult(m)
			}
		}()
	}

	t, err := term.New(term.Config{
		Port:        port,
		RxEvent:     EvSerialRx,
		TxEvent:     EvSerialTx,
		Arena:       arena,
		Leds:        bank,
		LedFun:      EvLedFun,
		Sensor:      drv,
		SensorEvent: EvSensorDone,
		SensorWait:  cfg.SensorWait,
		Console:     term.NewConsole(h.Display()),
	})
	if err != nil {
		return nil, err
	}
	if _, err := t.Start(r); err != nil {
		return nil, err
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					r.Tick(seq)
				}
			}()
		}
	}

	return &system{arena: arena, r: r}, nil
}
