package sync

import "sync"

// busyGuard tracks paths with an in-flight sync pass. acquire is
// non-blocking: a caller that loses the race is expected to drop its
// work rather than wait.
type busyGuard struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newBusyGuard() *busyGuard {
	return &busyGuard{busy: map[string]bool{}}
}

func (g *busyGuard) acquire(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[path] {
		return false
	}
	g.busy[path] = true
	return true
}

func (g *busyGuard) release(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, path)
}
