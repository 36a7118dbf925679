package catalog

import "sync"

// Effect runs a function only when its dependency value changes between
// calls. The first call always runs.
type Effect[K comparable] struct {
	mu   sync.Mutex
	last K
	ran  bool
}

// Run calls fn if deps differs from the value passed on the previous call
// and reports whether fn ran
func (e *Effect[K]) Run(deps K, fn func()) bool {
	e.mu.Lock()
	if e.ran && e.last == deps {
		e.mu.Unlock()
		return false
	}
	e.last = deps
	e.ran = true
	e.mu.Unlock()

	fn()
	return true
}

// Reset forgets the last dependency value so the next Run always fires
func (e *Effect[K]) Reset() {
	e.mu.Lock()
	var zero K
	e.last = zero
	e.ran = false
	e.mu.Unlock()
}
