package clock

import (
	"sync"
	"time"
)

// Fake is a deterministic Clock for tests: Since returns the elapsed
// duration accumulated by Advance or pinned by Set, never wall-clock
// time.
type Fake struct {
	mu      sync.Mutex
	elapsed time.Duration
}

// NewFake returns a Fake clock starting at zero elapsed time.
func NewFake() *Fake {
	return &Fake{}
}

// Since implements Clock.
func (f *Fake) Since() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.elapsed
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elapsed += d
}

// Set pins the elapsed duration to exactly d.
func (f *Fake) Set(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elapsed = d
}
