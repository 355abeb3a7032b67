//go:build !tinygo

package kernel

import "sync"

// NewCritical returns the host critical section.
func NewCritical() Critical {
	return &sync.Mutex{}
}
