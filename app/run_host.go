//go:build !tinygo

package app

import (
	"context"

	"ember/emberos/kernel"
	"ember/hal"
)

// New initializes and starts the system with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// NewWithConfig initializes the system and returns the per-frame hook for
// the host runners. The reactor runs on its own goroutine; the hook only
// reports a halt.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	sys, err := newSystem(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	go sys.r.Run(context.Background())
	return sys.step
}

func (s *system) step() error {
	if kernel.InTrapMode() {
		return kernel.ErrHalted
	}
	return nil
}
