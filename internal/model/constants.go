package model

// Client -> server events
const (
	EventJoin          = "join"
	EventCreateRoom    = "createRoom"
	EventDraw          = "draw"
	EventClearBoard    = "clearBoard"
	EventChatMessage   = "chatMessage"
	EventSetBackground = "setBackground"
)

// Server -> client events
const (
	EventRoomCreated      = "roomCreated"
	EventRoomError        = "roomError"
	EventLoadStrokes      = "loadStrokes"
	EventUserList         = "userList"
	EventUpdateBackground = "updateBackground"
	EventNotification     = "notification"
	// EventDraw, EventClearBoard and EventChatMessage are reused on the
	// way out with server-side payloads.
)

// DefaultGuestName 이름 미입력 시 표시 이름
const DefaultGuestName = "Guest"
