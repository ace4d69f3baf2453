package board

import (
	"sync"

	"whiteboard-backend/internal/model"
)

// member 방 멤버 (연결 ID + 표시 이름)
type member struct {
	sessionID string
	name      string
}

// Room is an isolated drawing session. It owns its member list, its
// bounded stroke log and its optional background blob. Members are kept
// in join order so user-list snapshots are deterministic. Display names
// are not unique; membership is keyed by session id.
type Room struct {
	id         string
	maxStrokes int

	mu         sync.RWMutex
	members    []member
	strokes    []model.Stroke
	background string
}

// NewRoom creates an empty room.
func NewRoom(id string, maxStrokes int) *Room {
	return &Room{
		id:         id,
		maxStrokes: maxStrokes,
		strokes:    make([]model.Stroke, 0, 64),
	}
}

// ID 방 식별자 (PIN 또는 기본 방 이름)
func (r *Room) ID() string {
	return r.id
}

// AddMember registers a session under this room. Re-adding the same
// session id updates the name in place.
func (r *Room) AddMember(sessionID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.members {
		if r.members[i].sessionID == sessionID {
			r.members[i].name = name
			return
		}
	}
	r.members = append(r.members, member{sessionID: sessionID, name: name})
}

// RemoveMember drops a session from the room. Returns false if the
// session was not a member. The room itself is never deleted here;
// returning members must still see history.
func (r *Room) RemoveMember(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.members {
		if r.members[i].sessionID == sessionID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// HasMember reports whether a session is currently in the room.
func (r *Room) HasMember(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.members {
		if r.members[i].sessionID == sessionID {
			return true
		}
	}
	return false
}

// MemberIDs returns the session ids in join order.
func (r *Room) MemberIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.members))
	for i, m := range r.members {
		ids[i] = m.sessionID
	}
	return ids
}

// MemberNames returns the display names in join order. Duplicates are
// possible and expected.
func (r *Room) MemberNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.name
	}
	return names
}

// MemberCount 현재 멤버 수
func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members)
}

// AppendStroke appends to the stroke log, evicting the oldest strokes
// first once the cap is reached.
func (r *Room) AppendStroke(s model.Stroke) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxStrokes > 0 && len(r.strokes) >= r.maxStrokes {
		over := len(r.strokes) - r.maxStrokes + 1
		r.strokes = append(r.strokes[:0], r.strokes[over:]...)
	}
	r.strokes = append(r.strokes, s)
}

// Strokes returns a copy of the stroke log in drawing order.
func (r *Room) Strokes() []model.Stroke {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Stroke, len(r.strokes))
	copy(out, r.strokes)
	return out
}

// StrokeCount 현재 획 수
func (r *Room) StrokeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.strokes)
}

// ClearStrokes empties the stroke log.
func (r *Room) ClearStrokes() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.strokes = r.strokes[:0]
}

// SetBackground replaces the background wholesale. There is at most one
// background per room; it is never merged.
func (r *Room) SetBackground(payload string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.background = payload
}

// Background returns the current background payload ("" when unset).
func (r *Room) Background() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.background
}
