package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by the redis relay bus.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 헬스체크 핸들러
type HealthHandler struct {
	hub   *BoardHub
	relay Pinger // nil when running single-instance
}

// NewHealthHandler HealthHandler 생성
func NewHealthHandler(hub *BoardHub, relay Pinger) *HealthHandler {
	return &HealthHandler{hub: hub, relay: relay}
}

// ComponentCheck 컴포넌트 상태
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse 헬스체크 응답
type HealthResponse struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Rooms     int                       `json:"rooms"`
	Sessions  int                       `json:"sessions"`
	Checks    map[string]ComponentCheck `json:"checks"`
}

// Check 전체 상태 확인. Room state is in-process memory, so the server
// is healthy whenever it can answer; only the optional relay bus has a
// dependency worth probing.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Rooms:     h.hub.Registry().Len(),
		Sessions:  h.hub.SessionCount(),
		Checks:    make(map[string]ComponentCheck),
	}

	if h.relay != nil {
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		if err := h.relay.Ping(ctx); err != nil {
			// Relay loss degrades multi-instance fanout but the local
			// board keeps working.
			response.Status = "degraded"
			response.Checks["redis"] = ComponentCheck{Status: "degraded", Error: err.Error()}
		} else {
			response.Checks["redis"] = ComponentCheck{Status: "healthy", Latency: time.Since(start).String()}
		}
	}

	return c.JSON(response)
}
