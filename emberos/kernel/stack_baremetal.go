//go:build tinygo && baremetal

package kernel

func captureStack() []byte { return nil }
