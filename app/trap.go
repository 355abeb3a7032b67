package app

import (
	"fmt"
	"strings"

	"ember/emberos/kernel"
	"ember/emberos/term"
	"ember/hal"
)

// installTrapHandler routes the first fatal kernel condition to the log and,
// when the board has a display, paints a trap screen. The handler runs once
// and must not call back into the kernel.
func installTrapHandler(h hal.HAL) {
	kernel.SetTrapHandler(func(info kernel.TrapInfo) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("ember trap: code=%s slot=%d value=%v",
				info.Code, info.Slot, info.Value))
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line != "" {
					l.WriteLineString(line)
				}
			}
		}
		paintTrapScreen(h, info)
	})
}

func paintTrapScreen(h hal.HAL, info kernel.TrapInfo) {
	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}
	fb.ClearRGB(0, 0, 0)
	c := term.NewConsole(disp)
	if c == nil {
		_ = fb.Present()
		return
	}
	w := func(s string) {
		for i := 0; i < len(s); i++ {
			_ = c.WriteByte(s[i])
		}
	}
	w("EMBER TRAP\n\n")
	w("code:  " + info.Code.String() + "\n")
	w(fmt.Sprintf("slot:  %d\n", info.Slot))
	w(fmt.Sprintf("value: %v\n", info.Value))
	if len(info.Stack) > 0 {
		w("\nstack:\n")
		w(string(info.Stack))
	}
	c.Display()
}
