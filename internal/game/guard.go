package game

import "sync"

// Guard provides scoped mutual exclusion for the rotation pipeline, one
// flag per guild. It is a second, coarser layer on top of the store's own
// read/write serialization: it covers the whole multi-step rotation, while
// each step still takes the store's normal access for its own call.
type Guard struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewGuard returns an empty guard registry.
func NewGuard() *Guard {
	return &Guard{held: make(map[string]bool)}
}

// TryAcquire attempts to take the guild's exclusion flag without
// blocking. On success it returns a release func that must be deferred
// immediately, so the flag is cleared on every exit path of the acquiring
// scope. Release is idempotent. Returns ok=false if the flag is already
// set.
func (g *Guard) TryAcquire(guildID string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[guildID] {
		return nil, false
	}
	g.held[guildID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, guildID)
			g.mu.Unlock()
		})
	}, true
}

// InProgress reports whether a rotation currently holds the guild's flag.
func (g *Guard) InProgress(guildID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[guildID]
}
