package room

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrRoomClosed        = errors.New("room closed")
)

// Registry owns the mapping from room identifiers to live rooms. It is the
// only component that creates or deletes rooms; its lock is independent of
// any individual room's lock.
type Registry struct {
	eng   engine.Engine
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates a registry whose rooms start at eng's initial position.
func NewRegistry(eng engine.Engine) *Registry {
	return &Registry{
		eng:   eng,
		rooms: make(map[string]*Room),
	}
}

// Create registers a new room under id. An empty id gets an auto-generated
// 4-character identifier.
func (g *Registry) Create(id string) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == "" {
		id = g.generateRoomIDLocked()
	}
	if _, exists := g.rooms[id]; exists {
		return nil, ErrRoomAlreadyExists
	}

	r := newRoom(id, g.eng)
	g.rooms[id] = r
	return r, nil
}

// Get retrieves a room by ID.
func (g *Registry) Get(id string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, exists := g.rooms[id]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// List returns all live rooms.
func (g *Registry) List() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		result = append(result, r)
	}
	return result
}

// Count returns the number of live rooms.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// RemoveIfEmpty deletes the room when it has no members. The emptiness check
// and the deletion happen in one critical section under both the registry
// lock and the room lock, so a join in flight either lands before the check
// or observes the closed room and fails. Safe to call redundantly.
func (g *Registry) RemoveIfEmpty(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, exists := g.rooms[id]
	if !exists {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.emptyLocked() {
		return false
	}
	r.closed = true
	delete(g.rooms, id)
	return true
}

// CleanupIdle removes rooms that are empty and have seen no activity within
// maxAge. Occupied rooms are never touched; seats are held until the holder
// disconnects. Returns the number of rooms removed.
func (g *Registry) CleanupIdle(maxAge time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, r := range g.rooms {
		r.mu.Lock()
		if r.emptyLocked() && r.lastActiveAt.Before(cutoff) {
			r.closed = true
			delete(g.rooms, id)
			removed++
		}
		r.mu.Unlock()
	}
	return removed
}

// generateRoomIDLocked produces a random 4-character hex identifier that is
// not currently in use. Caller holds the registry lock.
func (g *Registry) generateRoomIDLocked() string {
	for {
		bytes := make([]byte, 2)
		if _, err := rand.Read(bytes); err != nil {
			// crypto/rand failing means the platform is broken; there is no
			// sensible identifier to hand out.
			panic("room id generation: " + err.Error())
		}
		id := hex.EncodeToString(bytes)
		if _, exists := g.rooms[id]; !exists {
			return id
		}
	}
}
