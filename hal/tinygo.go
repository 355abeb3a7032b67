//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	leds   []LED
	serial *uartSerial
	t      *tinyGoTime
	sensor *i2cSensor
}

// New returns the baremetal HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. User LEDs LD3..LD6 on
// GP2..GP5. HTU21D on I2C0 (GP8 SDA / GP9 SCL).
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPins := []machine.Pin{machine.GP2, machine.GP3, machine.GP4, machine.GP5}
	leds := make([]LED, len(ledPins))
	for i, pin := range ledPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		leds[i] = &pinLED{pin: pin}
	}

	i2c := machine.I2C0
	i2c.Configure(machine.I2CConfig{SDA: machine.GP8, SCL: machine.GP9})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		leds:   leds,
		serial: newUARTSerial(uart),
		t:      newTinyGoTime(),
		sensor: newI2CSensor(i2c),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LEDs() []LED      { return h.leds }
func (h *tinyGoHAL) Serial() Serial   { return h.serial }
func (h *tinyGoHAL) Display() Display { return noDisplay{} }
func (h *tinyGoHAL) Input() Input     { return noInput{} }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) Sensor() Sensor   { return h.sensor }

type noDisplay struct{}

func (noDisplay) Framebuffer() Framebuffer { return nil }

type noInput struct{}

func (noInput) Keyboard() Keyboard { return nil }
