//go:build tinygo && baremetal

package kernel

import "device/arm"

func halt(detail string) {
	_ = detail
	park()
}

// park stops the core. Only a reset gets out.
func park() {
	for {
		arm.Asm("wfe")
	}
}
