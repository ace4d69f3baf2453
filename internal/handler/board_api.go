package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"whiteboard-backend/internal/board"
)

// BoardAPIHandler read-side REST API over the in-memory room table.
// Useful for debugging and for clients re-syncing after a reconnect.
type BoardAPIHandler struct {
	registry *board.Registry
}

// NewBoardAPIHandler BoardAPIHandler 생성
func NewBoardAPIHandler(registry *board.Registry) *BoardAPIHandler {
	return &BoardAPIHandler{registry: registry}
}

// GetBoard returns the current snapshot of a room: stroke history in
// drawing order, member names in join order and the background payload.
func (h *BoardAPIHandler) GetBoard(c *fiber.Ctx) error {
	roomID := c.Query("room")
	if roomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "room query parameter is required"})
	}

	room, ok := h.registry.Lookup(roomID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
	}

	resp := fiber.Map{
		"roomId":  room.ID(),
		"strokes": room.Strokes(),
		"users":   room.MemberNames(),
	}
	if bg := room.Background(); bg != "" {
		resp["background"] = bg
	}
	return c.JSON(resp)
}

// CreateRoom allocates a fresh PIN room without binding the caller; the
// caller joins it over the WebSocket afterwards. REST twin of the
// createRoom WS event for clients that pick the PIN before connecting.
func (h *BoardAPIHandler) CreateRoom(c *fiber.Ctx) error {
	room := h.registry.CreatePinRoom()
	log.Printf("[API] Room created via REST: %s", room.ID())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"roomId": room.ID()})
}
