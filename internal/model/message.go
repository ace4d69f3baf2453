package model

import "encoding/json"

// WSMessage WebSocket 메시지 envelope (both directions)
type WSMessage struct {
	Type    string      `json:"type"` // see Event* constants
	Payload interface{} `json:"payload,omitempty"`
}

// JoinPayload 방 입장 요청
type JoinPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// CreateRoomPayload 방 생성 요청
type CreateRoomPayload struct {
	Name string `json:"name"`
}

// DrawPayload 획 이벤트
type DrawPayload struct {
	RoomID string `json:"roomId"`
	Stroke Stroke `json:"stroke"`
}

// RoomPayload 방 ID만 담는 이벤트 (clearBoard 등)
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

// ChatSendPayload 채팅 송신 (client -> server)
type ChatSendPayload struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// ChatBroadcastPayload 채팅 중계 (server -> client)
type ChatBroadcastPayload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// BackgroundPayload 배경 이미지 이벤트. RoomID is optional on the way in;
// when empty the sender's current room is the target.
type BackgroundPayload struct {
	RoomID  string `json:"roomId,omitempty"`
	Payload string `json:"payload"`
}

// RoomCreatedPayload createRoom 결과
type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

// RoomErrorPayload 입장 실패 사유
type RoomErrorPayload struct {
	Reason string `json:"reason"`
}

// Encode marshals a typed event into a wire frame. Marshal failures are
// programming errors (all payload types are plain data), so they surface
// as a nil frame the caller drops.
func Encode(event string, payload interface{}) []byte {
	data, err := json.Marshal(WSMessage{Type: event, Payload: payload})
	if err != nil {
		return nil
	}
	return data
}

// DecodePayload re-marshals an envelope payload into a concrete type.
// Payloads arrive as map[string]interface{} after envelope decoding, so a
// marshal round-trip is the simplest faithful conversion.
func DecodePayload(payload interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
