//go:build tinygo && baremetal

package app

import "ember/hal"

// Run assembles the system and never returns.
func Run(h hal.HAL) {
	sys, err := newSystem(h, Config{})
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("boot failed: " + err.Error())
		}
		select {}
	}
	sys.r.RunForever()
}
