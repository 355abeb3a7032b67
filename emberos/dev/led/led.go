// Package led drives the four user LEDs (LD3..LD6) and plays the timed
// "led-fun" pattern as a deadline-driven task.
package led

import (
	"ember/emberos/kernel"
	"ember/hal"
)

// Bank is the board's user LEDs with a shadow of the current levels.
type Bank struct {
	leds []hal.LED
	mask uint8
}

func NewBank(leds []hal.LED) *Bank {
	return &Bank{leds: leds}
}

func (b *Bank) Count() int { return len(b.leds) }

// Set drives LED i. Out-of-range indexes are ignored.
func (b *Bank) Set(i int, on bool) {
	if i < 0 || i >= len(b.leds) {
		return
	}
	if on {
		b.mask |= 1 << uint(i)
		b.leds[i].High()
	} else {
		b.mask &^= 1 << uint(i)
		b.leds[i].Low()
	}
}

// SetMask drives every LED at once, bit i = LED i.
func (b *Bank) SetMask(m uint8) {
	for i := range b.leds {
		b.Set(i, m&(1<<uint(i)) != 0)
	}
}

// Mask returns the shadow of the current levels.
func (b *Bank) Mask() uint8 { return b.mask }

// patternStep holds a mask for a number of ticks.
type patternStep struct {
	mask uint8
	hold uint64
}

const (
	stepHold  = 120 // ms per chase step
	stepGap   = 12
	stepShort = 20
)

// funPattern is the led-fun sequence: blink all, ten chase rounds, then
// everything back on.
var funPattern = buildFunPattern()

func buildFunPattern() []patternStep {
	p := []patternStep{
		{0x0, stepHold},
		{0xF, stepHold},
		{0x0, stepHold},
	}
	for round := 0; round < 10; round++ {
		for i := 0; i < 4; i++ {
			hold := uint64(stepHold)
			if i == 3 {
				hold = stepShort
			}
			p = append(p,
				patternStep{1 << uint(i), hold},
				patternStep{0x0, stepGap},
			)
		}
	}
	return append(p, patternStep{0xF, stepHold})
}

// Player runs the pattern when its trigger event fires. While idle it waits
// on the trigger; while playing it holds each step with a sleep deadline,
// still listening so a re-trigger restarts the sequence.
type Player struct {
	bank    *Bank
	trigger kernel.EventID
	step    int
	playing bool
}

func NewPlayer(bank *Bank, trigger kernel.EventID) *Player {
	return &Player{bank: bank, trigger: trigger}
}

// Start registers the player, parked on its trigger event.
func (p *Player) Start(r *kernel.Reactor) (kernel.Handle, error) {
	return r.Register(p, kernel.Await(p.trigger))
}

func (p *Player) Poll(ctx *kernel.Context, cause kernel.Cause) kernel.Decision {
	if cause == kernel.CauseEvent {
		// Trigger: start, or restart mid-play.
		p.playing = true
		p.step = 0
	} else if p.playing {
		p.step++
	}
	if !p.playing {
		return kernel.Await(p.trigger)
	}
	if p.step >= len(funPattern) {
		p.playing = false
		return kernel.Await(p.trigger)
	}
	s := funPattern[p.step]
	p.bank.SetMask(s.mask)
	return kernel.AwaitUntil(p.trigger, ctx.Now()+s.hold)
}
