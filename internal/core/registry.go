package core

import (
	"sync"
	"time"

	"github.com/okofalt/cellsync-server/internal/proto"
)

// Registry holds the authoritative set of joined players. It is constructed
// once per room and injected into everything that needs it; there is no
// package-level instance. Reads never observe a partially written record:
// records are stored by value and copied in and out under the lock.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	players  map[string]PlayerRecord
}

// NewRegistry builds an empty registry bounded to capacity players.
func NewRegistry(capacity int) *Registry {
	return &Registry{
		capacity: capacity,
		players:  make(map[string]PlayerRecord, capacity),
	}
}

// Insert adds a record if the id is free and the room has space.
func (r *Registry) Insert(id string, rec PlayerRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[id]; exists {
		return false
	}
	if len(r.players) >= r.capacity {
		return false
	}
	r.players[id] = rec
	return true
}

// Get returns a copy of the record for id.
func (r *Registry) Get(id string) (PlayerRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.players[id]
	return rec, ok
}

// Update applies mutate to the record for id, if present. The mutator runs
// under the lock and must not call back into the registry.
func (r *Registry) Update(id string, mutate func(*PlayerRecord)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.players[id]
	if !ok {
		return false
	}
	mutate(&rec)
	r.players[id] = rec
	return true
}

// Remove deletes the record for id. Returns true if it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	return true
}

// Snapshot returns a point-in-time copy of every player's public state.
// Concurrent inserts and removals never invalidate the returned map.
func (r *Registry) Snapshot() map[string]proto.PublicPlayerState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]proto.PublicPlayerState, len(r.players))
	for id, rec := range r.players {
		out[id] = rec.Public()
	}
	return out
}

// Size returns the number of joined players.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// CollectStale returns the ids of players whose last update is older than
// timeout. Removal is left to the caller so departure notifications go out
// on the same tick.
func (r *Registry) CollectStale(now time.Time, timeout time.Duration) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []string
	for id, rec := range r.players {
		if now.Sub(rec.LastUpdate) > timeout {
			stale = append(stale, id)
		}
	}
	return stale
}
