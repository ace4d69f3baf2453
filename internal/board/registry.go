package board

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ErrRoomNotFound join 대상 방 없음 (strict join mode)
var ErrRoomNotFound = errors.New("room not found")

// pinSpace is the number of possible generated PINs (6 decimal digits).
const pinSpace = 1_000_000

// Registry owns every active room for the process lifetime. Rooms are
// created lazily and never deleted, so members returning to an emptied
// room still see its history. The registry is an injectable object with
// no ambient statics; tests construct their own.
type Registry struct {
	defaultID  string
	maxStrokes int

	mu    sync.RWMutex
	rooms map[string]*Room

	// randInt is swappable in tests to force PIN collisions.
	randInt func(n int) int
}

// NewRegistry creates a registry whose default room exists from the
// start; every other room is created on demand.
func NewRegistry(defaultRoomID string, maxStrokes int) *Registry {
	r := &Registry{
		defaultID:  defaultRoomID,
		maxStrokes: maxStrokes,
		rooms:      make(map[string]*Room),
		randInt:    rand.Intn,
	}
	r.rooms[defaultRoomID] = NewRoom(defaultRoomID, maxStrokes)
	return r
}

// DefaultID 기본 방 식별자
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// GetOrCreate returns the room for an id, creating an empty one if
// needed. Never fails.
func (r *Registry) GetOrCreate(roomID string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[roomID]; ok {
		return room
	}
	room := NewRoom(roomID, r.maxStrokes)
	r.rooms[roomID] = room
	return room
}

// Lookup returns the room for an id, or false for unknown PINs. Used by
// strict join flows that must reject unknown rooms.
func (r *Registry) Lookup(roomID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	return room, ok
}

// CreatePinRoom generates a fresh 6-digit PIN and creates its room in
// one step. On collision (or the PIN matching the default room id) the
// PIN is regenerated; an existing room is never overwritten. Generation
// and insertion happen under one lock so two concurrent creates cannot
// race on the same PIN.
func (r *Registry) CreatePinRoom() *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		pin := fmt.Sprintf("%06d", r.randInt(pinSpace))
		if pin == r.defaultID {
			continue
		}
		if _, exists := r.rooms[pin]; exists {
			continue
		}
		room := NewRoom(pin, r.maxStrokes)
		r.rooms[pin] = room
		return room
	}
}

// Len 현재 방 수
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}
