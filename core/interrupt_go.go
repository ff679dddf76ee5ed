//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// On hosted Go the interrupt context is a goroutine (see host/sim), so
// the critical section is a real lock. Sections must not nest.
var irqMu sync.Mutex

// disableInterrupts enters the critical section shared with the
// simulated interrupt context
func disableInterrupts() State {
	irqMu.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	irqMu.Unlock()
}
