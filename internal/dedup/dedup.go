// Package dedup prevents the same inbound message from being processed
// twice. Membership only, bounded memory.
package dedup

import "sync"

// Key identifies one inbound message.
type Key struct {
	ChatID    int64
	MessageID int64
}

// Guard is a bounded membership set. When the cap is exceeded the oldest
// half of the entries is evicted, trading perfect history for bounded
// memory.
type Guard struct {
	mu    sync.Mutex
	cap   int
	order []Key
	seen  map[Key]struct{}
}

func New(capacity int) *Guard {
	if capacity < 2 {
		capacity = 2
	}
	return &Guard{
		cap:  capacity,
		seen: make(map[Key]struct{}, capacity),
	}
}

// Check records the key and reports whether it was already present.
func (g *Guard) Check(k Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, dup := g.seen[k]; dup {
		return true
	}

	g.seen[k] = struct{}{}
	g.order = append(g.order, k)

	if len(g.order) > g.cap {
		evict := g.order[:len(g.order)/2]
		for _, old := range evict {
			delete(g.seen, old)
		}
		g.order = append(g.order[:0:0], g.order[len(g.order)/2:]...)
	}
	return false
}

// Len returns the current number of tracked keys.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.order)
}
