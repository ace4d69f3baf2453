package handler

import (
	"encoding/json"
	"log"
	"sync"

	"whiteboard-backend/internal/board"
	"whiteboard-backend/internal/config"
	"whiteboard-backend/internal/model"
	"whiteboard-backend/internal/session"
)

// =============================================================================
// Board Hub - 방 단위 브로드캐스트 및 presence 관리
// =============================================================================

// EventRelay forwards room-scoped frames to other server instances.
// Implemented by bus.RedisBus; nil when running single-instance.
type EventRelay interface {
	Publish(roomID, event string, payload []byte)
}

// BoardHub routes every board event: it owns the live session table,
// mutates room state through the registry and fans frames out to room
// members. All room mutations and their fanout enqueues run under one
// mutex, so each inbound event is atomic relative to every other and a
// joiner's history replay can never interleave with live strokes.
type BoardHub struct {
	cfg      *config.Config
	registry *board.Registry

	mu       sync.Mutex
	sessions map[string]*session.Session // session id -> session

	relay EventRelay
}

// NewBoardHub creates a hub around an injected registry.
func NewBoardHub(cfg *config.Config, registry *board.Registry) *BoardHub {
	return &BoardHub{
		cfg:      cfg,
		registry: registry,
		sessions: make(map[string]*session.Session),
	}
}

// SetRelay attaches the optional cross-instance relay.
func (h *BoardHub) SetRelay(relay EventRelay) {
	h.relay = relay
}

// Registry exposes the room table for read-only REST handlers.
func (h *BoardHub) Registry() *board.Registry {
	return h.registry
}

// Connect registers a freshly accepted session (unbound state).
func (h *BoardHub) Connect(sess *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[sess.ID] = sess
	log.Printf("[Hub] Session connected: %s (total: %d)", sess.ID, len(h.sessions))
}

// Disconnect performs the implicit leave and destroys the session.
// Disconnection is a normal lifecycle transition, not an error.
func (h *BoardHub) Disconnect(sess *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(sess)
	delete(h.sessions, sess.ID)
	sess.Close()
	log.Printf("[Hub] Session disconnected: %s (remaining: %d)", sess.ID, len(h.sessions))
}

// SessionCount 현재 연결 수
func (h *BoardHub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.sessions)
}

// Join binds a session to a room, replacing any prior binding. The
// joiner receives the full stroke history (and background, if any)
// before any live event; everyone in the room gets a fresh user list.
// In strict mode an unknown room id yields roomError to the caller only
// and leaves all state untouched.
func (h *BoardHub) Join(sess *session.Session, roomID, name string) error {
	if name == "" {
		name = model.DefaultGuestName
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Resolve the target before leaving the prior room so a failed
	// strict join changes nothing.
	var room *board.Room
	if h.cfg.Board.JoinMode == config.JoinModeStrict {
		// The default room exists from startup, so strict mode only
		// ever rejects unknown PINs.
		var ok bool
		room, ok = h.registry.Lookup(roomID)
		if !ok {
			sess.Send(model.Encode(model.EventRoomError, model.RoomErrorPayload{Reason: "room not found"}))
			log.Printf("[Hub] Join rejected, unknown room %q (session %s)", roomID, sess.ID)
			return board.ErrRoomNotFound
		}
	} else {
		room = h.registry.GetOrCreate(roomID)
	}

	h.leaveLocked(sess)

	room.AddMember(sess.ID, name)
	sess.Bind(room.ID(), name)

	// History replay first: the joiner must have the full board before
	// any live stroke that follows this registration.
	sess.Send(model.Encode(model.EventLoadStrokes, room.Strokes()))
	if bg := room.Background(); bg != "" {
		sess.Send(model.Encode(model.EventUpdateBackground, model.BackgroundPayload{Payload: bg}))
	}

	h.broadcastUserList(room)
	h.notifyExcept(room, sess.ID, name+" joined")
	log.Printf("[Room %s] %s joined as %q (members: %d)", room.ID(), sess.ID, name, room.MemberCount())
	return nil
}

// CreateRoom generates a PIN room, binds the caller to it and replies
// with roomCreated.
func (h *BoardHub) CreateRoom(sess *session.Session, name string) string {
	if name == "" {
		name = model.DefaultGuestName
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.registry.CreatePinRoom()
	h.leaveLocked(sess)

	room.AddMember(sess.ID, name)
	sess.Bind(room.ID(), name)

	sess.Send(model.Encode(model.EventRoomCreated, model.RoomCreatedPayload{RoomID: room.ID()}))
	sess.Send(model.Encode(model.EventLoadStrokes, room.Strokes()))
	h.broadcastUserList(room)

	log.Printf("[Room %s] Created by %s (%q)", room.ID(), sess.ID, name)
	return room.ID()
}

// Leave removes the session from its current room and re-announces
// presence there. No-op while unbound.
func (h *BoardHub) Leave(sess *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(sess)
}

// Draw appends a stroke and relays it to every other member. The
// originator already rendered locally and gets no echo. Unknown room
// ids are dropped silently; a stale client is not an error.
func (h *BoardHub) Draw(sess *session.Session, roomID string, stroke model.Stroke) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.registry.Lookup(roomID)
	if !ok {
		log.Printf("[Hub] Draw for unknown room %q dropped", roomID)
		return
	}

	room.AppendStroke(stroke)
	frame := model.Encode(model.EventDraw, stroke)
	h.broadcastExcept(room, sess.ID, frame)
	h.publish(room.ID(), model.EventDraw, stroke)
}

// Clear empties a room's stroke log and notifies ALL members including
// the originator, so every view converges on the empty board even when
// the local clear was optimistic.
func (h *BoardHub) Clear(sess *session.Session, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.registry.Lookup(roomID)
	if !ok {
		log.Printf("[Hub] Clear for unknown room %q dropped", roomID)
		return
	}

	room.ClearStrokes()
	frame := model.Encode(model.EventClearBoard, nil)
	h.broadcast(room, frame)
	h.publish(room.ID(), model.EventClearBoard, nil)
	log.Printf("[Room %s] Board cleared by %s", room.ID(), sess.ID)
}

// Chat relays a message to ALL members including the sender, so the
// sender sees its own message through the same path as everyone else.
// Messages over the byte cap are dropped without a broadcast.
func (h *BoardHub) Chat(sess *session.Session, roomID, message string) {
	if message == "" {
		return
	}
	if len(message) > h.cfg.Board.ChatMaxLength {
		log.Printf("[Hub] Chat message dropped, %d bytes over cap %d", len(message), h.cfg.Board.ChatMaxLength)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.registry.Lookup(roomID)
	if !ok {
		log.Printf("[Hub] Chat for unknown room %q dropped", roomID)
		return
	}

	payload := model.ChatBroadcastPayload{Name: sess.Name(), Message: message}
	h.broadcast(room, model.Encode(model.EventChatMessage, payload))
	h.publish(room.ID(), model.EventChatMessage, payload)
}

// SetBackground replaces the default room's background wholesale and
// pushes it to all members with a who-changed-it notice. Background
// customization is a default-room-only feature: any other target is
// silently ignored.
func (h *BoardHub) SetBackground(sess *session.Session, payload model.BackgroundPayload) {
	target := payload.RoomID
	if target == "" {
		target = sess.RoomID()
	}
	if target != h.registry.DefaultID() {
		log.Printf("[Hub] setBackground for non-default room %q ignored", target)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.registry.Lookup(target)
	if !ok {
		return
	}

	room.SetBackground(payload.Payload)
	out := model.BackgroundPayload{Payload: payload.Payload}
	h.broadcast(room, model.Encode(model.EventUpdateBackground, out))
	h.publish(room.ID(), model.EventUpdateBackground, out)
	h.notify(room, sess.Name()+" changed the background")
	log.Printf("[Room %s] Background updated by %s (%d bytes)", room.ID(), sess.ID, len(payload.Payload))
}

// =============================================================================
// Internals (caller holds h.mu)
// =============================================================================

// leaveLocked removes the session from its current room, if any, and
// re-announces presence there. The emptied room is kept alive.
func (h *BoardHub) leaveLocked(sess *session.Session) {
	roomID := sess.RoomID()
	if roomID == "" {
		return
	}

	name := sess.Name()
	sess.Unbind()

	room, ok := h.registry.Lookup(roomID)
	if !ok || !room.RemoveMember(sess.ID) {
		return
	}

	h.broadcastUserList(room)
	h.notify(room, name+" left")
	log.Printf("[Room %s] %s left (%q, members: %d)", room.ID(), sess.ID, name, room.MemberCount())
}

// broadcast sends a frame to every current member of the room.
func (h *BoardHub) broadcast(room *board.Room, frame []byte) {
	for _, id := range room.MemberIDs() {
		if sess, ok := h.sessions[id]; ok {
			sess.Send(frame)
		}
	}
}

// broadcastExcept sends a frame to every member except one session.
func (h *BoardHub) broadcastExcept(room *board.Room, exceptID string, frame []byte) {
	for _, id := range room.MemberIDs() {
		if id == exceptID {
			continue
		}
		if sess, ok := h.sessions[id]; ok {
			sess.Send(frame)
		}
	}
}

// broadcastUserList emits the full current member list, not a delta.
// Presence truth lives solely in this snapshot.
func (h *BoardHub) broadcastUserList(room *board.Room) {
	h.broadcast(room, model.Encode(model.EventUserList, room.MemberNames()))
}

// notify emits a decorative human-readable notification to the room.
func (h *BoardHub) notify(room *board.Room, text string) {
	h.broadcast(room, model.Encode(model.EventNotification, text))
}

func (h *BoardHub) notifyExcept(room *board.Room, exceptID, text string) {
	h.broadcastExcept(room, exceptID, model.Encode(model.EventNotification, text))
}

// publish hands a board-content event to the cross-instance relay.
// Presence events stay local: each instance owns its own member table.
func (h *BoardHub) publish(roomID, event string, payload interface{}) {
	if h.relay == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.relay.Publish(roomID, event, raw)
}

// ApplyRemote replays a board-content event relayed from another
// instance: it mutates local room state the same way the originating
// hub did, then fans the frame out to local members. The room is
// created on demand so late local joiners replay a consistent log.
func (h *BoardHub) ApplyRemote(roomID, event string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.registry.GetOrCreate(roomID)
	frame := model.Encode(event, json.RawMessage(data))

	switch event {
	case model.EventDraw:
		var stroke model.Stroke
		if err := json.Unmarshal(data, &stroke); err != nil {
			return
		}
		room.AppendStroke(stroke)
	case model.EventClearBoard:
		room.ClearStrokes()
		frame = model.Encode(model.EventClearBoard, nil)
	case model.EventUpdateBackground:
		var bg model.BackgroundPayload
		if err := json.Unmarshal(data, &bg); err != nil {
			return
		}
		room.SetBackground(bg.Payload)
	case model.EventChatMessage:
		// relay only, nothing to mutate
	default:
		return
	}

	h.broadcast(room, frame)
}
