package handler

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"

	"whiteboard-backend/internal/config"
	"whiteboard-backend/internal/model"
	"whiteboard-backend/internal/session"
)

// BoardWSHandler 화이트보드 WebSocket 핸들러
type BoardWSHandler struct {
	hub *BoardHub
	cfg *config.Config
}

// NewBoardWSHandler BoardWSHandler 생성
func NewBoardWSHandler(hub *BoardHub, cfg *config.Config) *BoardWSHandler {
	return &BoardWSHandler{hub: hub, cfg: cfg}
}

// HandleWebSocket handles one board connection for its whole lifetime:
// it registers a session, starts the writer pump and dispatches inbound
// events until the client goes away. Each event call into the hub is
// fire-and-forget; the client never waits for an acknowledgment.
func (h *BoardWSHandler) HandleWebSocket(c *websocket.Conn) {
	sess := session.New(h.cfg.Board.SendBuffer, h.cfg.Board.EventRate, h.cfg.Board.EventBurst)
	h.hub.Connect(sess)

	// Writer pump: drains the session queue in FIFO order so a single
	// sender's events arrive in the order they were fanned out.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for frame := range sess.Outbound() {
			c.SetWriteDeadline(time.Now().Add(h.cfg.WebSocket.WriteTimeout))
			if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}()

	// 연결 해제 시 정리 (disconnect is a normal transition, not an error)
	defer func() {
		h.hub.Disconnect(sess)
		c.Close()
		<-done
	}()

	// 메시지 수신 루프
	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			break
		}

		if !sess.Allow() {
			log.Printf("[WS] Rate limit hit, dropping event (session %s)", sess.ID)
			continue
		}

		var msg model.WSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			continue
		}

		h.dispatch(sess, msg)
	}
}

// dispatch routes one decoded envelope to the hub. Malformed payloads
// are skipped; a broken client cannot take the room down.
func (h *BoardWSHandler) dispatch(sess *session.Session, msg model.WSMessage) {
	switch msg.Type {
	case model.EventJoin:
		var p model.JoinPayload
		if err := model.DecodePayload(msg.Payload, &p); err != nil || p.RoomID == "" {
			return
		}
		// The error path already answered the client with roomError.
		_ = h.hub.Join(sess, p.RoomID, p.Name)

	case model.EventCreateRoom:
		var p model.CreateRoomPayload
		if err := model.DecodePayload(msg.Payload, &p); err != nil {
			return
		}
		h.hub.CreateRoom(sess, p.Name)

	case model.EventDraw:
		var p model.DrawPayload
		if err := model.DecodePayload(msg.Payload, &p); err != nil || p.RoomID == "" {
			return
		}
		h.hub.Draw(sess, p.RoomID, p.Stroke)

	case model.EventClearBoard:
		var p model.RoomPayload
		if err := model.DecodePayload(msg.Payload, &p); err != nil || p.RoomID == "" {
			return
		}
		h.hub.Clear(sess, p.RoomID)

	case model.EventChatMessage:
		var p model.ChatSendPayload
		if err := model.DecodePayload(msg.Payload, &p); err != nil || p.RoomID == "" {
			return
		}
		h.hub.Chat(sess, p.RoomID, p.Message)

	case model.EventSetBackground:
		var p model.BackgroundPayload
		if err := model.DecodePayload(msg.Payload, &p); err != nil || p.Payload == "" {
			return
		}
		h.hub.SetBackground(sess, p)

	default:
		log.Printf("[WS] Unknown event type %q (session %s)", msg.Type, sess.ID)
	}
}
